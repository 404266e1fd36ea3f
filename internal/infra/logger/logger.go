package logger

import (
	"log/slog"
	"os"
)

var Logger *slog.Logger

// New creates a JSON logger tagged with the service name. LOG_LEVEL
// controls verbosity, defaulting to info.
func New(serviceName string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(os.Getenv("LOG_LEVEL")),
	})

	Logger = slog.New(handler).With("service", serviceName)
	return Logger
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug", "DEBUG":
		return slog.LevelDebug
	case "warn", "WARN", "warning", "WARNING":
		return slog.LevelWarn
	case "error", "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
