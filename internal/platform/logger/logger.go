package logger

import (
	"io"
	"log/slog"
	"os"
)

// New returns a structured logger on stdout: JSON at Info in production,
// human-readable text at Debug in development.
func New(development bool) *slog.Logger {
	return NewWithWriter(os.Stdout, development)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, development bool) *slog.Logger {
	if development {
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
