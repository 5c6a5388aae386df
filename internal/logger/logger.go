package logger

import (
	"io"
	"log/slog"
	"os"
)

// New returns the process-wide JSON logger writing to stdout at info level.
func New() *slog.Logger {
	return NewWithWriter(os.Stdout, slog.LevelInfo)
}

// NewWithWriter builds a JSON logger for an arbitrary sink and level.
func NewWithWriter(w io.Writer, level slog.Leveler) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
