package logging

import (
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestGlobalLoggingService(t *testing.T) {
	previous := DefaultLoggingService
	defer func() {
		_ = Close()
		DefaultLoggingService = previous
	}()

	DefaultLoggingService = nil
	if Logger() == nil {
		t.Fatal("Expected fallback logger before initialization")
	}
	Info("before init")

	InitLoggerWithOptions(Options{
		Dir:            t.TempDir(),
		RetentionWeeks: 1,
		MaxFileSize:    1024 * 1024,
		Level:          slog.LevelDebug,
	})

	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		t.Fatal("Expected DefaultLoggingService to be initialized")
	}
	if DefaultLoggingService.file == nil {
		t.Fatal("Expected rotating file to be attached")
	}

	Debug("debug message")
	Info("info message")
	Warn("warn message")
	Error("error message")

	if err := Close(); err != nil {
		t.Errorf("Close returned error: %v", err)
	}
	if err := Close(); err != nil {
		t.Errorf("Second Close should be a no-op, got: %v", err)
	}
}
