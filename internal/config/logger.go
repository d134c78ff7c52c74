package config

import (
	"log/slog"
	"os"
)

// NewLogger builds the process-wide slog logger. Production gets JSON
// at info level for log shipping; everything else gets human-readable
// text at debug level, with source locations in development.
func NewLogger(env string) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource: env == "development",
	}

	if env == "production" {
		opts.Level = slog.LevelInfo
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}

	opts.Level = slog.LevelDebug
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
