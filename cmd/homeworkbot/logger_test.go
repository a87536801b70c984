package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jpalmerr/homeworkbot/config"
)

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger, closeLog, err := newLogger(config.LogConfig{Level: tt.level})
			if err != nil {
				t.Fatalf("newLogger() error = %v", err)
			}
			defer func() { _ = closeLog() }()

			if !logger.Enabled(context.Background(), tt.want) {
				t.Errorf("level %s should be enabled", tt.want)
			}
			if tt.want > slog.LevelDebug && logger.Enabled(context.Background(), tt.want-4) {
				t.Errorf("level %s should be disabled", tt.want-4)
			}
		})
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	_, _, err := newLogger(config.LogConfig{Level: "loud"})
	if err == nil {
		t.Fatal("newLogger() expected error for invalid level, got nil")
	}
}

func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.log")

	logger, closeLog, err := newLogger(config.LogConfig{
		Level:      "info",
		File:       path,
		MaxSizeMB:  1,
		MaxBackups: 1,
	})
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}

	logger.Info("status change delivered", "homework", "X")
	if err := closeLog(); err != nil {
		t.Fatalf("close error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), `"msg":"status change delivered"`) {
		t.Errorf("log file = %s, want JSON record", data)
	}
}
