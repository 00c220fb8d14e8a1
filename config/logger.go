package config

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger for the given environment. Production
// gets JSON output for log shipping; anything else gets human-readable text.
// LOG_LEVEL sets the minimum level (debug, info, warn, error; default info).
func NewLogger(env string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(os.Getenv("LOG_LEVEL"))}
	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler).With("service", "confscheduler")
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
