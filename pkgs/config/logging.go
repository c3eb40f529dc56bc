package config

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger. Output goes to stderr so stdout
// stays reserved for the JSON result.
func NewLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}
