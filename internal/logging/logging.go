// Package logging builds the driver's slog logger.
package logging

import (
	"io"
	"log/slog"
)

// New creates a configured slog.Logger without touching the global
// default, so commands and tests can hold isolated instances.
func New(verbose bool, format string, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}
