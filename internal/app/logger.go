package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger. PLASTLINE_LOG_FORMAT=json switches to
// the JSON handler for log shippers; the text handler stays the default for
// local runs.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{AddSource: true}
	var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if cfg != nil && cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
