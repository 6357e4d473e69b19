package config

import (
	"log/slog"

	"git.home.luguber.info/inful/docsite/internal/foundation/normalization"
)

// LogLevelEnv overrides the log level when -v is not given.
const LogLevelEnv = "DOCSITE_LOG_LEVEL"

var logLevelNormalizer = normalization.NewNormalizer(map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}, slog.LevelInfo)

// ParseLogLevel maps a level name to slog.Level, defaulting to info.
func ParseLogLevel(raw string) slog.Level {
	return logLevelNormalizer.Normalize(raw)
}
