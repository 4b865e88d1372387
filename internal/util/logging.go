package util

import (
	"io"
	"log/slog"
	"os"
)

// InitLogger configures the global slog logger with JSON output and level.
// Accepts levels: debug, info, warn, error. Defaults to info on unknown
// input. Logs go to stderr; stdout belongs to the console UI.
func InitLogger(level string) *slog.Logger {
	return initLogger(level, os.Stderr)
}

func initLogger(level string, w io.Writer) *slog.Logger {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn", "warning":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slogLevel})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
