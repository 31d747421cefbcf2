package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

// NewLogger returns a JSON slog logger on stdout tagged with the service name.
func NewLogger(service string, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{AddSource: true, Level: level})
	return slog.New(handler).With(slog.String("service", service))
}

// ParseLevel maps a LOG_LEVEL value to a slog level, defaulting to info.
func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRequestID attaches the chi request identifier, when present, to the logger.
func WithRequestID(ctx context.Context, logger *slog.Logger) *slog.Logger {
	requestID := middleware.GetReqID(ctx)
	if requestID == "" {
		return logger
	}
	return logger.With(slog.String("requestId", requestID))
}
