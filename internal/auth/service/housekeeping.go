package service

import (
	"context"
	"log/slog"
	"time"
)

// HousekeepingTask is one periodic cleanup job. It returns the number of
// entries it removed.
type HousekeepingTask struct {
	Name string
	Run  func(ctx context.Context) (int, error)
}

// HousekeepingService periodically drops expired in-memory state (revoked
// token ids, idle rate limiter buckets) so it cannot grow without bound.
type HousekeepingService struct {
	Logger   *slog.Logger
	Interval time.Duration
	Tasks    []HousekeepingTask

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(logger *slog.Logger, interval time.Duration, tasks ...HousekeepingTask) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Logger:   logger,
		Interval: interval,
		Tasks:    tasks,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker. It is non-blocking; call Stop to
// shut the worker down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval, "tasks", len(s.Tasks))
}

// Stop gracefully shuts down the background worker.
// Blocks until the worker has finished any in-progress cleanup.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.RunOnce(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// RunOnce runs every task once. Tasks are independent, a failing one does
// not stop the others. It returns the total number of removed entries.
func (s *HousekeepingService) RunOnce(ctx context.Context) int {
	var removed int
	for _, task := range s.Tasks {
		n, err := task.Run(ctx)
		if err != nil {
			s.Logger.Error("housekeeping task failed", "task", task.Name, "error", err)
			continue
		}
		s.Logger.Debug("housekeeping task completed", "task", task.Name, "removed", n)
		removed += n
	}
	s.Logger.Info("housekeeping cleanup completed", "removed", removed)
	return removed
}
