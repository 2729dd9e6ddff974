package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Jexxer/warframe-checklist/internal/auth/revocation"
	"github.com/Jexxer/warframe-checklist/pkg/httpx"
	"github.com/Jexxer/warframe-checklist/pkg/jwtx"
)

// Database drivers accepted by DATABASE_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	SecretKey  string // Optional: HMAC key, takes precedence over SecretFile
	SecretFile string // Optional: file holding the HMAC key, generated on first start (default: ./secret)
	Algorithm  string // Optional: HS256, HS384 or HS512 (default: HS256)
	Issuer     string // Optional: iss claim (default: warframe-checklist)
	SessionTTL time.Duration
	PepperFile string // Optional: file holding the password pepper, empty disables it

	// RegisterIssuesToken signs new, still inactive accounts in straight away.
	RegisterIssuesToken bool

	CookieName   string
	CookieSecure bool // Only disable for plain HTTP development setups

	DatabaseDriver string // sqlite or postgres (default: sqlite)
	DatabaseFile   string // SQLite file (default: ./auth.db)
	DatabaseURL    string // Postgres DSN, required for the postgres driver

	RevocationBackend string // none, memory or redis (default: none)
	RedisAddr         string

	CORSOrigins []string

	// TrustedProxies lists the reverse proxies whose X-Forwarded-For and
	// X-Real-IP headers are believed. Empty keys rate limits on the peer.
	TrustedProxies []string

	LoginLimit    httpx.RateLimitConfig
	RegisterLimit httpx.RateLimitConfig
	SessionLimit  httpx.RateLimitConfig

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

// LoadConfig reads the environment, after loading .env from the working
// directory if there is one. Values already set in the environment win.
func LoadConfig() Config {
	_ = godotenv.Load()

	return Config{
		SecretKey:           os.Getenv("AUTH_SECRET_KEY"),
		SecretFile:          getEnvOrDefault("AUTH_SECRET_FILE", "secret"),
		Algorithm:           strings.ToUpper(getEnvOrDefault("AUTH_ALGORITHM", jwtx.AlgHS256)),
		Issuer:              getEnvOrDefault("AUTH_ISSUER", "warframe-checklist"),
		SessionTTL:          getEnvDurationOrDefault("AUTH_SESSION_TTL", jwtx.DefaultSessionTTL),
		PepperFile:          os.Getenv("AUTH_PEPPER_FILE"),
		RegisterIssuesToken: getEnvBoolOrDefault("AUTH_REGISTER_ISSUES_TOKEN", true),

		CookieName:   getEnvOrDefault("AUTH_COOKIE_NAME", httpx.DefaultCookieName),
		CookieSecure: getEnvBoolOrDefault("AUTH_COOKIE_SECURE", true),

		DatabaseDriver: strings.ToLower(getEnvOrDefault("DATABASE_DRIVER", DriverSQLite)),
		DatabaseFile:   getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),

		RevocationBackend: strings.ToLower(getEnvOrDefault("REVOCATION_BACKEND", revocation.BackendNone)),
		RedisAddr:         getEnvOrDefault("REDIS_ADDR", "localhost:6379"),

		CORSOrigins: splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),

		TrustedProxies: splitList(os.Getenv("TRUSTED_PROXIES")),

		LoginLimit:    httpx.ParseRateLimitFromEnv("LOGIN", httpx.LoginLimit),
		RegisterLimit: httpx.ParseRateLimitFromEnv("REGISTER", httpx.RegisterLimit),
		SessionLimit:  httpx.ParseRateLimitFromEnv("SESSION", httpx.SessionLimit),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

// Validate reports every setting the application cannot start with.
func (c Config) Validate() error {
	var errs []error

	switch c.Algorithm {
	case jwtx.AlgHS256, jwtx.AlgHS384, jwtx.AlgHS512:
	default:
		errs = append(errs, fmt.Errorf("AUTH_ALGORITHM: unsupported algorithm %q", c.Algorithm))
	}

	if c.SecretKey == "" && c.SecretFile == "" {
		errs = append(errs, errors.New("one of AUTH_SECRET_KEY or AUTH_SECRET_FILE is required"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("AUTH_SESSION_TTL must be positive"))
	}
	if c.CookieName == "" {
		errs = append(errs, errors.New("AUTH_COOKIE_NAME must not be empty"))
	}

	switch c.DatabaseDriver {
	case DriverSQLite:
		if c.DatabaseFile == "" {
			errs = append(errs, errors.New("AUTH_DATABASE_FILE is required for the sqlite driver"))
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("DATABASE_DRIVER: unsupported driver %q", c.DatabaseDriver))
	}

	switch c.RevocationBackend {
	case revocation.BackendNone, revocation.BackendMemory:
	case revocation.BackendRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required for the redis revocation backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("REVOCATION_BACKEND: unsupported backend %q", c.RevocationBackend))
	}

	if _, err := httpx.ParseTrustedProxies(c.TrustedProxies); err != nil {
		errs = append(errs, fmt.Errorf("TRUSTED_PROXIES: %w", err))
	}

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT: %d out of range", c.Port))
	}
	if c.ShutdownGracePeriod <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_GRACE_PERIOD must be positive"))
	}

	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
