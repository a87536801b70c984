package homeworkbot

import (
	"errors"
	"log/slog"
	"time"
)

// botConfig holds mutable state during Bot construction.
type botConfig struct {
	pollingInterval time.Duration
	logger          *slog.Logger
	now             func() time.Time
	watermark       *int64
	statusAddr      string
	cycleCallbacks  []func(CycleReport)
}

// Option is a function that configures a [Bot] during construction.
//
// Options return an error if validation fails.
type Option func(*botConfig) error

// WithPollingInterval sets the fixed pause between cycles.
//
// The same interval follows successful and failed cycles alike; there is no
// fast-retry path. Defaults to 10 minutes.
//
// Returns an error if the duration is zero or negative.
func WithPollingInterval(d time.Duration) Option {
	return func(cfg *botConfig) error {
		if d <= 0 {
			return errors.New("polling interval must be positive")
		}
		cfg.pollingInterval = d
		return nil
	}
}

// WithLogger sets a custom [slog.Logger]. If not specified, [slog.Default]
// is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *botConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithClock replaces time.Now. The clock seeds the initial watermark and
// timestamps cycle reports.
func WithClock(now func() time.Time) Option {
	return func(cfg *botConfig) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		cfg.now = now
		return nil
	}
}

// WithWatermark sets the initial watermark (seconds since epoch) instead of
// the current time. Zero replays the whole feed history.
//
// Returns an error if the watermark is negative.
func WithWatermark(ts int64) Option {
	return func(cfg *botConfig) error {
		if ts < 0 {
			return errors.New("watermark cannot be negative")
		}
		cfg.watermark = &ts
		return nil
	}
}

// WithStatusAddr makes [Bot.Start] serve the status API on addr
// (e.g. ":8080"). Empty disables the server, which is the default.
func WithStatusAddr(addr string) Option {
	return func(cfg *botConfig) error {
		cfg.statusAddr = addr
		return nil
	}
}

// WithCycleCallback registers a function called after every cycle with its
// [CycleReport].
//
// Callbacks run synchronously on the loop goroutine in registration order and
// must not block. Panics are recovered and logged. Nil callbacks are ignored.
func WithCycleCallback(cb func(CycleReport)) Option {
	return func(cfg *botConfig) error {
		if cb == nil {
			return nil
		}
		cfg.cycleCallbacks = append(cfg.cycleCallbacks, cb)
		return nil
	}
}
