package utils

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger builds the application logger. Output goes to stderr so the
// interactive prompts on stdout stay clean.
func NewLogger(level slog.Level) *slog.Logger {
	return NewLoggerWithOutput(os.Stderr, level)
}

// NewLoggerWithOutput is NewLogger writing to w; tests use it to capture
// log lines.
func NewLoggerWithOutput(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}
