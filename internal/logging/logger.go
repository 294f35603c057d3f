package logging

import (
	"log/slog"
	"os"
	"strings"

	"github.com/google/wire"
	"github.com/trebuchet-org/treb-deployer/internal/domain/config"
)

var LoggingSet = wire.NewSet(
	NewLogger,
)

// LevelEnv selects the log level (debug, info, warn, error)
const LevelEnv = "DEPLOYER_LOG_LEVEL"

// NewLogger creates a new logger based on runtime configuration
func NewLogger(cfg *config.RuntimeConfig) *slog.Logger {
	level := ParseLevel(os.Getenv(LevelEnv))
	if cfg != nil && cfg.Debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}

	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// ParseLevel maps a level name to a slog level. Empty or unknown values select warn.
func ParseLevel(val string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
