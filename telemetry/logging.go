// Package telemetry provides logging setup for the facade library.
package telemetry

import (
	"io"
	"log/slog"
	"os"
)

// ParseLevel maps a configuration level name to a slog.Level.
// Unknown names default to info.
func ParseLevel(level string) slog.Level {
	switch level {
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

// LevelFromEnv reads the log level from FACADE_LOG_LEVEL.
func LevelFromEnv() slog.Level {
	return ParseLevel(os.Getenv("FACADE_LOG_LEVEL"))
}

// NewLogger builds a logger for the given level, format ("json" or
// "text") and output ("stdout", "stderr" or a file path).
func NewLogger(level, format, output string) (*slog.Logger, error) {
	var w io.Writer
	switch output {
	case "", "stdout":
		w = os.Stdout
	case "stderr":
		w = os.Stderr
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		w = f
	}

	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler), nil
}

// Setup initializes and installs the default logger from the
// environment (FACADE_LOG_LEVEL, FACADE_LOG_FORMAT).
func Setup() *slog.Logger {
	logger, _ := NewLogger(os.Getenv("FACADE_LOG_LEVEL"), os.Getenv("FACADE_LOG_FORMAT"), "stdout")
	slog.SetDefault(logger)
	return logger
}

// WithFacade returns a logger annotated with a facade identity.
func WithFacade(logger *slog.Logger, id, name string) *slog.Logger {
	return logger.With("facade", id, "name", name)
}
