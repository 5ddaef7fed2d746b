package logging

import (
	"log/slog"
	"os"
	"strings"

	"github.com/crimson-sun/smsguard/internal/config"
)

// Setup installs the process-wide default slog logger from the service's
// log configuration. All logging goes to stderr so stdout stays free for
// tooling; deployed environments set JSON for ingestion, local runs get
// the text handler.
func Setup(cfg config.LogConfig) {
	slog.SetDefault(slog.New(newHandler(cfg)))
}

func newHandler(cfg config.LogConfig) slog.Handler {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	if cfg.JSON {
		return slog.NewJSONHandler(os.Stderr, opts)
	}
	return slog.NewTextHandler(os.Stderr, opts)
}

// ParseLevel converts a string ("debug", "info", "warn", "error") to slog.Level.
// Unknown strings default to LevelInfo.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
