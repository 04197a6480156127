package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environments
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Table backends
const (
	BackendSheets = "sheets"
	BackendSQLite = "sqlite"
)

// DefaultSessionTimeout is how long an authenticated session stays valid.
const DefaultSessionTimeout = 60 * time.Minute

// ErrMissingSetting is returned when a required setting is absent.
var ErrMissingSetting = errors.New("missing configuration setting")

// Config holds the process-level settings read from the environment.
type Config struct {
	Addr              string
	Env               string
	CSRFKeyHex        string
	SecretsFile       string
	Backend           string
	DBPath            string
	SessionTimeout    time.Duration
	CacheTTL          time.Duration
	Redis             RedisConfig
	ResendKey         string
	NotifyFrom        string
	NotifyTo          string
	Log               LogConfig
	DevApprovedEmails []string
	TrustedOrigins    []string
}

// RedisConfig locates the optional read cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LogConfig controls the slog handler and optional rotating log file.
type LogConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// IsProduction reports whether the process runs in production.
func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// CacheEnabled reports whether reads go through redis.
func (c Config) CacheEnabled() bool {
	return c.CacheTTL > 0 && c.Redis.Addr != ""
}

// LoadDotEnv reads a .env file into the environment if one exists.
// Variables already set in the environment win.
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("dotenv_load_failed", "path", p, "error", err)
		}
	}
}

// Load reads the application settings from the environment, applying defaults.
// POST: Backend defaults to sqlite outside production and sheets in production
func Load() Config {
	env := envOrDefault("VENUEDESK_ENV", EnvDevelopment)
	backend := BackendSQLite
	if env == EnvProduction {
		backend = BackendSheets
	}

	return Config{
		Addr:           envOrDefault("VENUEDESK_ADDR", ":8080"),
		Env:            env,
		CSRFKeyHex:     os.Getenv("VENUEDESK_CSRF_KEY"),
		SecretsFile:    envOrDefault("VENUEDESK_SECRETS_FILE", "secrets.yaml"),
		Backend:        envOrDefault("VENUEDESK_BACKEND", backend),
		DBPath:         envOrDefault("VENUEDESK_DB_PATH", "venuedesk.db"),
		SessionTimeout: envDuration("VENUEDESK_SESSION_TIMEOUT", DefaultSessionTimeout),
		CacheTTL:       envDuration("VENUEDESK_CACHE_TTL", 0),
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       envInt("REDIS_DB", 0),
		},
		ResendKey:  os.Getenv("VENUEDESK_RESEND_KEY"),
		NotifyFrom: envOrDefault("VENUEDESK_NOTIFY_FROM", "Venue Desk <noreply@venuedesk.local>"),
		NotifyTo:   os.Getenv("VENUEDESK_NOTIFY_TO"),
		Log: LogConfig{
			Level:      envOrDefault("LOG_LEVEL", "info"),
			File:       os.Getenv("LOG_FILE"),
			MaxSizeMB:  envInt("LOG_MAX_SIZE_MB", 100),
			MaxBackups: envInt("LOG_MAX_BACKUPS", 3),
			MaxAgeDays: envInt("LOG_MAX_AGE_DAYS", 30),
		},
		DevApprovedEmails: splitList(os.Getenv("VENUEDESK_DEV_APPROVED_EMAILS")),
		TrustedOrigins:    splitList(os.Getenv("VENUEDESK_TRUSTED_ORIGINS")),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		slog.Warn("invalid_env_int", "key", key, "value", v)
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		slog.Warn("invalid_env_duration", "key", key, "value", v)
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// missing wraps ErrMissingSetting with the section and key that were looked up.
func missing(section, key string) error {
	return fmt.Errorf("%w: %s.%s", ErrMissingSetting, section, key)
}
