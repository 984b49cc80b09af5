// Package logger provides structured logging using log/slog.
// It sets up a JSON handler with service-level context.
package logger

import (
	"log/slog"
	"os"
)

// Init creates and returns a structured logger for the given service.
// The logger outputs JSON to stdout with the service name embedded, and is
// installed as the slog default so package-level slog calls share it.
func Init(service string, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})

	logger := slog.New(handler).With(
		slog.String("service", service),
	)
	slog.SetDefault(logger)
	return logger
}

// WithSession returns a logger scoped to one live session.
func WithSession(l *slog.Logger, sessionID, symbol string) *slog.Logger {
	return l.With(
		slog.String("session", sessionID),
		slog.String("symbol", symbol),
	)
}
