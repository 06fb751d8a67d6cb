package logger

import (
	"log/slog"
	"os"
)

// Init configures the process-wide slog logger and returns it.
func Init(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, opts))
	slog.SetDefault(log)
	return log
}
