package config

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log output formats for LOG_FORMAT.
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

var globalLogger *zap.Logger

func parseLevel(logLevelStr string) zapcore.Level {
	// "warning" is a common spelling zap does not accept
	normalized := strings.ToLower(strings.TrimSpace(logLevelStr))
	if normalized == "warning" {
		return zap.WarnLevel
	}
	level, err := zapcore.ParseLevel(normalized)
	if err != nil {
		return zap.InfoLevel
	}
	return level
}

// InitLogger builds the process logger at the given level and format and
// returns it. The console format uses zap's development config for local
// runs; the json format uses the production config for ingestion by log
// collectors. Unknown levels fall back to info.
func InitLogger(logLevelStr, format string) (*zap.Logger, error) {
	var config zap.Config
	if strings.EqualFold(strings.TrimSpace(format), LogFormatJSON) {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
	}
	config.Level = zap.NewAtomicLevelAt(parseLevel(logLevelStr))

	logger, err := config.Build()
	if err != nil {
		return nil, err
	}
	logger = logger.Named("histograph")

	// Store for cleanup purposes
	globalLogger = logger

	return logger, nil
}

// Cleanup flushes any buffered log entries
func Cleanup() {
	if globalLogger != nil {
		globalLogger.Sync()
	}
}
