package logging

import (
	"log/slog"
	"os"
)

// New returns a text slog.Logger writing to stdout at the given level.
func New(level slog.Level) *slog.Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler)
}
