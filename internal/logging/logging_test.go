package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    zapcore.Level
		wantErr bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{"info", zapcore.InfoLevel, false},
		{"", zapcore.InfoLevel, false},
		{" WARN ", zapcore.WarnLevel, false},
		{"warning", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"loud", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewFormats(t *testing.T) {
	for _, format := range []string{"console", "json", ""} {
		logger, err := New("info", format)
		if err != nil {
			t.Fatalf("New(info, %q) returned error: %v", format, err)
		}
		logger.Infow("test message", "format", format)
	}

	if _, err := New("info", "xml"); err == nil {
		t.Error("expected error for unsupported format")
	}
	if _, err := New("chatty", "console"); err == nil {
		t.Error("expected error for unsupported level")
	}
}

func TestNewLoggerVerbose(t *testing.T) {
	logger := NewLogger(true)
	if !logger.Desugar().Core().Enabled(zapcore.DebugLevel) {
		t.Error("verbose logger should enable debug level")
	}

	quiet := NewLogger(false)
	if quiet.Desugar().Core().Enabled(zapcore.DebugLevel) {
		t.Error("non-verbose logger should not enable debug level")
	}
}

func TestNop(t *testing.T) {
	logger := Nop()
	logger.Warnw("dropped", "key", "value")
}
