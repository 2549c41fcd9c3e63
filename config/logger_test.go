package config

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  zapcore.Level
	}{
		{"debug", "debug", zap.DebugLevel},
		{"info", "info", zap.InfoLevel},
		{"warn", "warn", zap.WarnLevel},
		{"warning alias", "warning", zap.WarnLevel},
		{"error", "error", zap.ErrorLevel},
		{"mixed case", "DEBUG", zap.DebugLevel},
		{"padded", "  info  ", zap.InfoLevel},
		{"unknown falls back to info", "verbose", zap.InfoLevel},
		{"empty falls back to info", "", zap.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("%s: parseLevel(%q) = %v, want %v", tt.name, tt.input, got, tt.want)
		}
	}
}

func TestInitLoggerFormats(t *testing.T) {
	for _, format := range []string{LogFormatConsole, LogFormatJSON, ""} {
		logger, err := InitLogger("debug", format)
		if err != nil {
			t.Fatalf("InitLogger with format %q failed: %v", format, err)
		}
		if !logger.Core().Enabled(zap.DebugLevel) {
			t.Errorf("format %q: debug level should be enabled", format)
		}
	}
	Cleanup()
}
