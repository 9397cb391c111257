package common

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// AuditLoggerName tags every line of the action trail.
const AuditLoggerName = "rentals.actions"

// InitLogger installs a tint handler as the process-wide slog default.
func InitLogger(level string) {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      ParseLevel(level),
			AddSource:  true,
			TimeFormat: time.Kitchen,
		}),
	))
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// AuditLogger returns the child logger used for the action trail.
func AuditLogger() *slog.Logger {
	return slog.Default().With("logger", AuditLoggerName)
}
