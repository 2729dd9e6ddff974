package revocation

import (
	"context"
	"sync"
	"time"
)

// Memory is a process local List. It does not survive restarts and is not
// shared between replicas. Purge must be called periodically.
type Memory struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]time.Time), now: time.Now}
}

// NewMemoryWithClock is NewMemory with a custom time source.
func NewMemoryWithClock(now func() time.Time) *Memory {
	m := NewMemory()
	m.now = now
	return m
}

func (m *Memory) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // already expired, nothing to deny
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[jti] = m.now().Add(ttl)
	return nil
}

func (m *Memory) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	until, ok := m.entries[jti]
	m.mu.Unlock()

	return ok && m.now().Before(until), nil
}

func (m *Memory) Ping(context.Context) error { return nil }

// Purge drops entries whose tokens have expired and returns how many were
// removed.
func (m *Memory) Purge() int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for jti, until := range m.entries {
		if !now.Before(until) {
			delete(m.entries, jti)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
