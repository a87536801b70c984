package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/jpalmerr/homeworkbot/config"
)

// newLogger creates a JSON logger for CLI use. Output goes to stderr and,
// when a log file is configured, to a size-rotated file as well.
//
// The returned close function flushes and closes the file.
func newLogger(cfg config.LogConfig) (*slog.Logger, func() error, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, nil, fmt.Errorf("invalid log level: %w", err)
	}

	var w io.Writer = os.Stderr
	closeFn := func() error { return nil }

	if cfg.File != "" {
		rotating := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		}
		w = io.MultiWriter(os.Stderr, rotating)
		closeFn = rotating.Close
	}

	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
	return logger, closeFn, nil
}
