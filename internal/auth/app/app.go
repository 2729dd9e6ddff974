package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	httpapi "github.com/Jexxer/warframe-checklist/internal/auth/http"
	"github.com/Jexxer/warframe-checklist/internal/auth/revocation"
	"github.com/Jexxer/warframe-checklist/internal/auth/service"
	"github.com/Jexxer/warframe-checklist/internal/auth/store"
	"github.com/Jexxer/warframe-checklist/internal/auth/store/drivers/postgres"
	"github.com/Jexxer/warframe-checklist/internal/auth/store/drivers/sqlite"
	"github.com/Jexxer/warframe-checklist/pkg/cryptox"
	"github.com/Jexxer/warframe-checklist/pkg/httpx"
	"github.com/Jexxer/warframe-checklist/pkg/jwtx"
	"github.com/Jexxer/warframe-checklist/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service application with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db          store.Store
	codec       *jwtx.Codec
	hasher      *cryptox.Hasher
	revocations revocation.List
	redis       *redis.Client // nil unless the redis revocation backend is used

	// Services
	authService         *service.AuthService
	resolver            *service.IdentityResolver
	housekeepingService *service.HousekeepingService

	loginLimiter    *httpx.RateLimiter
	registerLimiter *httpx.RateLimiter
	sessionLimiter  *httpx.RateLimiter

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "warframe-checklist",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	ctx := context.Background()

	if err := app.initDatabase(ctx); err != nil {
		return nil, err
	}

	if err := app.initCrypto(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initRevocation(ctx); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initServices(); err != nil {
		app.closeBackends()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Handler returns the fully wired HTTP handler.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Start housekeeping service
	app.housekeepingService.Start()

	app.logger.Info("server starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"driver", app.cfg.DatabaseDriver,
		"revocation", app.cfg.RevocationBackend,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		app.housekeepingService.Stop()
		app.closeBackends()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop the housekeeping service
	app.housekeepingService.Stop()

	if err := app.closeBackends(); err != nil {
		return err
	}

	app.logger.Info("server stopped")
	return nil
}

func (app *Application) closeBackends() error {
	var errs []error
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis", "error", err)
			errs = append(errs, err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// OpenStore opens the configured database driver and applies migrations.
func OpenStore(ctx context.Context, cfg Config) (store.Store, error) {
	var (
		db  store.Store
		err error
	)
	switch cfg.DatabaseDriver {
	case DriverPostgres:
		db, err = postgres.NewStore(ctx, cfg.DatabaseURL)
	default:
		db, err = sqlite.NewStore(cfg.DatabaseFile)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}
	return db, nil
}

func (app *Application) initDatabase(ctx context.Context) error {
	db, err := OpenStore(ctx, app.cfg)
	if err != nil {
		return err
	}
	app.db = db

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.DatabaseDriver)
	return nil
}

// initCrypto loads the signing key and pepper.
func (app *Application) initCrypto() error {
	key := app.cfg.SecretKey
	if key == "" {
		var err error
		key, err = cryptox.LoadOrGenerateSecret(app.cfg.SecretFile, cryptox.TokenSize512)
		if err != nil {
			return fmt.Errorf("failed to load signing secret: %w", err)
		}
	}

	codec, err := jwtx.NewCodec([]byte(key), app.cfg.Algorithm, app.cfg.Issuer)
	if err != nil {
		return fmt.Errorf("failed to initialize token codec: %w", err)
	}
	app.codec = codec

	var pepper string
	if app.cfg.PepperFile != "" {
		pepper, err = cryptox.LoadOrGenerateSecret(app.cfg.PepperFile, cryptox.TokenSize256)
		if err != nil {
			return fmt.Errorf("failed to load pepper: %w", err)
		}
	}
	app.hasher = cryptox.NewHasher(pepper)

	return nil
}

func (app *Application) initRevocation(ctx context.Context) error {
	switch app.cfg.RevocationBackend {
	case revocation.BackendMemory:
		app.revocations = revocation.NewMemory()
	case revocation.BackendRedis:
		client, err := revocation.NewRedisClient(ctx, app.cfg.RedisAddr)
		if err != nil {
			return fmt.Errorf("failed to connect revocation backend: %w", err)
		}
		app.redis = client
		app.revocations = revocation.NewRedis(client)
	default:
		app.revocations = revocation.Noop{}
	}

	app.logger.Info("revocation backend ready", "backend", app.cfg.RevocationBackend)
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() error {
	authService, err := service.NewAuthService(
		app.hasher,
		app.codec,
		app.revocations,
		app.cfg.SessionTTL,
		app.cfg.RegisterIssuesToken,
	)
	if err != nil {
		return err
	}
	app.authService = authService
	app.resolver = service.NewIdentityResolver(app.codec, app.revocations)

	trusted, err := httpx.ParseTrustedProxies(app.cfg.TrustedProxies)
	if err != nil {
		return err
	}
	clientIP := httpx.ClientIPKeyExtractor(trusted)

	app.loginLimiter = httpx.NewRateLimiter(app.cfg.LoginLimit, httpx.CompositeKeyExtractor(":",
		clientIP,
		httpx.FormFieldKeyExtractor("username"),
	))
	app.registerLimiter = httpx.NewRateLimiter(app.cfg.RegisterLimit, clientIP)
	app.sessionLimiter = httpx.NewRateLimiter(app.cfg.SessionLimit, httpx.UserIDKeyExtractor)

	app.housekeepingService = service.NewHousekeepingService(
		app.logger,
		app.cfg.HousekeepingInterval,
		app.housekeepingTasks()...,
	)
	return nil
}

func (app *Application) housekeepingTasks() []service.HousekeepingTask {
	// A bucket idle for a full window has refilled and can be dropped.
	tasks := []service.HousekeepingTask{
		{
			Name: "login_rate_limits",
			Run: func(context.Context) (int, error) {
				return app.loginLimiter.Purge(app.cfg.LoginLimit.Window), nil
			},
		},
		{
			Name: "register_rate_limits",
			Run: func(context.Context) (int, error) {
				return app.registerLimiter.Purge(app.cfg.RegisterLimit.Window), nil
			},
		},
		{
			Name: "session_rate_limits",
			Run: func(context.Context) (int, error) {
				return app.sessionLimiter.Purge(app.cfg.SessionLimit.Window), nil
			},
		},
	}

	if mem, ok := app.revocations.(*revocation.Memory); ok {
		tasks = append(tasks, service.HousekeepingTask{
			Name: "revoked_tokens",
			Run:  func(context.Context) (int, error) { return mem.Purge(), nil },
		})
	}
	return tasks
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		BuildVersion,
		app.db,
		httpx.NewCookieTransport(app.cfg.CookieName, app.cfg.CookieSecure),
		app.logger,
	)

	router.AuthService = app.authService
	router.Resolver = app.resolver
	router.Codec = app.codec
	router.Revocations = app.revocations
	router.LoginLimiter = app.loginLimiter
	router.RegisterLimiter = app.registerLimiter
	router.SessionLimiter = app.sessionLimiter
	router.CORSOrigins = app.cfg.CORSOrigins
	router.IsDevelopment = app.cfg.Env == "dev"
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
