package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/lumberjack.v2"

	"venuedesk/internal/config"
)

// Init installs a JSON slog handler as the default logger.
// Output goes to stdout and, when cfg.File is set, to a rotating file.
func Init(cfg config.LogConfig) {
	slog.SetDefault(New(cfg, os.Stdout))
	slog.Info("logger_initialized", "level", cfg.Level, "file", cfg.File)
}

// New builds a logger writing to console and the optional rotating file.
func New(cfg config.LogConfig, console io.Writer) *slog.Logger {
	writers := []io.Writer{console}
	if cfg.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			LocalTime:  true,
		})
	}
	h := slog.NewJSONHandler(io.MultiWriter(writers...), &slog.HandlerOptions{Level: ParseLevel(cfg.Level)})
	return slog.New(h)
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
