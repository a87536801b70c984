package homeworkbot

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"go.uber.org/mock/gomock"
)

func newMocks(t *testing.T) (*MockFetcher, *MockNotifier) {
	ctrl := gomock.NewController(t)
	return NewMockFetcher(ctrl), NewMockNotifier(ctrl)
}

func TestWithPollingInterval(t *testing.T) {
	f, n := newMocks(t)

	bot, err := New(f, n, WithPollingInterval(30*time.Second))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if bot.PollingInterval() != 30*time.Second {
		t.Errorf("PollingInterval() = %v, want %v", bot.PollingInterval(), 30*time.Second)
	}
}

func TestWithPollingInterval_Invalid(t *testing.T) {
	f, n := newMocks(t)

	tests := []struct {
		name     string
		interval time.Duration
	}{
		{"zero", 0},
		{"negative", -1 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(f, n, WithPollingInterval(tt.interval))
			if err == nil {
				t.Errorf("New() expected error for interval %v, got nil", tt.interval)
			}
		})
	}
}

func TestWithLogger(t *testing.T) {
	f, n := newMocks(t)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	bot, err := New(f, n, WithLogger(logger), WithWatermark(0))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	f.EXPECT().Fetch(gomock.Any(), int64(0)).Return(map[string]any{"homeworks": []any{}}, nil)
	bot.Cycle(context.Background())

	if !strings.Contains(buf.String(), "cycle_id=") {
		t.Errorf("expected cycle logs to carry cycle_id, got: %s", buf.String())
	}
}

func TestWithLogger_Nil(t *testing.T) {
	f, n := newMocks(t)

	_, err := New(f, n, WithLogger(nil))
	if err == nil {
		t.Error("New() expected error for nil logger, got nil")
	}
}

func TestWithClock_Nil(t *testing.T) {
	f, n := newMocks(t)

	_, err := New(f, n, WithClock(nil))
	if err == nil {
		t.Error("New() expected error for nil clock, got nil")
	}
}

func TestWithWatermark(t *testing.T) {
	f, n := newMocks(t)

	tests := []struct {
		name    string
		ts      int64
		wantErr bool
	}{
		{"zero replays history", 0, false},
		{"positive", 1549962000, false},
		{"negative", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bot, err := New(f, n, WithWatermark(tt.ts))
			if tt.wantErr {
				if err == nil {
					t.Errorf("New() expected error for watermark %d, got nil", tt.ts)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if bot.Watermark() != tt.ts {
				t.Errorf("Watermark() = %d, want %d", bot.Watermark(), tt.ts)
			}
		})
	}
}

func TestWithWatermark_OverridesClock(t *testing.T) {
	f, n := newMocks(t)

	bot, err := New(f, n,
		WithClock(func() time.Time { return time.Unix(9999, 0) }),
		WithWatermark(42),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if bot.Watermark() != 42 {
		t.Errorf("Watermark() = %d, want 42", bot.Watermark())
	}
}

func TestWithCycleCallback_NilIgnored(t *testing.T) {
	f, n := newMocks(t)

	bot, err := New(f, n, WithCycleCallback(nil))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if len(bot.cycleCallbacks) != 0 {
		t.Errorf("len(cycleCallbacks) = %d, want 0", len(bot.cycleCallbacks))
	}
}

func TestWithCycleCallback_Order(t *testing.T) {
	f, n := newMocks(t)

	var order []int
	bot, err := New(f, n,
		WithWatermark(0),
		WithLogger(testLogger()),
		WithCycleCallback(func(CycleReport) { order = append(order, 1) }),
		WithCycleCallback(func(CycleReport) { order = append(order, 2) }),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	f.EXPECT().Fetch(gomock.Any(), int64(0)).Return(map[string]any{"homeworks": []any{}}, nil)
	bot.Cycle(context.Background())

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("callback order = %v, want [1 2]", order)
	}
}
