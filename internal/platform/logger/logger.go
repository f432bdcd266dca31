package logger

import (
	"log/slog"
	"os"
)

// New returns the application logger: structured JSON on stdout. Level can be
// raised via LOG_LEVEL=debug without a restart-unfriendly config reload.
func New() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
