package homeworkbot

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/jpalmerr/homeworkbot/internal/feed"
	"github.com/jpalmerr/homeworkbot/internal/server"
	"github.com/jpalmerr/homeworkbot/internal/store"
	"github.com/jpalmerr/homeworkbot/internal/telegram"
)

const defaultPollingInterval = 10 * time.Minute

// failurePrefix opens every operator-facing failure message.
const failurePrefix = "Сбой в работе программы: "

// Failure kinds a cycle can end with. Test them with errors.Is.
var (
	ErrTransport = feed.ErrTransport
	ErrProtocol  = feed.ErrProtocol
	ErrDecode    = feed.ErrDecode
	ErrSchema    = feed.ErrSchema
	ErrDelivery  = telegram.ErrDelivery
)

//go:generate mockgen -source=bot.go -destination=mock_bot_test.go -package=homeworkbot

// Fetcher retrieves the raw, decoded status feed updated since a watermark.
type Fetcher interface {
	Fetch(ctx context.Context, from int64) (any, error)
}

// Notifier delivers one message per call.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Outcome is how a cycle ended.
type Outcome string

const (
	// OutcomeNotified means a status change was delivered.
	OutcomeNotified Outcome = "notified"

	// OutcomeNoChanges means the feed held no updates.
	OutcomeNoChanges Outcome = "no_changes"

	// OutcomeFailed means fetching, validating or parsing failed.
	OutcomeFailed Outcome = "failed"

	// OutcomeDeliveryFailed means a status change was found but could not be
	// delivered; it is retried next cycle.
	OutcomeDeliveryFailed Outcome = "delivery_failed"
)

// CycleReport describes one completed poll cycle.
type CycleReport struct {
	ID              string
	StartedAt       time.Time
	Duration        time.Duration
	Outcome         Outcome
	Kind            string // failure kind for OutcomeFailed
	WatermarkBefore int64
	WatermarkAfter  int64
	Homework        string
	Status          Status
	Message         string
	Err             error
	Notified        bool
}

// Bot polls the status feed and notifies about homework status changes.
//
// A Bot tracks exactly one feed. It owns the watermark and the fingerprint
// of the last reported failure; both live only in memory. A Bot is not safe
// for concurrent use: cycles run one at a time on the caller's goroutine.
type Bot struct {
	fetcher         Fetcher
	notifier        Notifier
	pollingInterval time.Duration
	logger          *slog.Logger
	now             func() time.Time
	statusAddr      string
	cycleCallbacks  []func(CycleReport)

	watermark int64
	lastError string
}

// New creates a [Bot] reading from fetcher and writing to notifier.
//
// Defaults: 10 minute polling interval, watermark at the current time,
// [slog.Default] logger, no status server.
func New(fetcher Fetcher, notifier Notifier, opts ...Option) (*Bot, error) {
	if fetcher == nil {
		return nil, errors.New("fetcher is required")
	}
	if notifier == nil {
		return nil, errors.New("notifier is required")
	}

	cfg := &botConfig{
		pollingInterval: defaultPollingInterval,
		now:             time.Now,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	watermark := cfg.now().Unix()
	if cfg.watermark != nil {
		watermark = *cfg.watermark
	}

	return &Bot{
		fetcher:         fetcher,
		notifier:        notifier,
		pollingInterval: cfg.pollingInterval,
		logger:          logger,
		now:             cfg.now,
		statusAddr:      cfg.statusAddr,
		cycleCallbacks:  cfg.cycleCallbacks,
		watermark:       watermark,
	}, nil
}

// Watermark returns the lower bound used by the next fetch.
func (b *Bot) Watermark() int64 {
	return b.watermark
}

// LastError returns the fingerprint of the last reported failure, or ""
// once a cycle has succeeded.
func (b *Bot) LastError() string {
	return b.lastError
}

// PollingInterval returns the pause between cycles.
func (b *Bot) PollingInterval() time.Duration {
	return b.pollingInterval
}

// Start runs cycles until ctx is cancelled, sleeping the polling interval
// after each one regardless of its outcome.
//
// Returns nil on cancellation. Returns an error only if the status server
// (see [WithStatusAddr]) cannot start.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("homeworkbot starting",
		"interval", b.pollingInterval.String(),
		"watermark", b.watermark,
	)

	if ctx.Err() != nil {
		return nil
	}

	var reports *store.MemoryStore
	if b.statusAddr != "" {
		reports = store.NewMemoryStore(store.DefaultCapacity)
		srv := server.NewServer(reports, b.statusAddr, b.logger)
		if err := srv.Start(ctx); err != nil {
			return fmt.Errorf("failed to start status server: %w", err)
		}
	}

	for {
		report := b.Cycle(ctx)
		if reports != nil {
			reports.Update(toStoreReport(report))
		}

		timer := time.NewTimer(b.pollingInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			b.logger.Info("homeworkbot stopped", "watermark", b.watermark)
			return nil
		case <-timer.C:
		}
	}
}

// Cycle runs one fetch → validate → decide → notify pass.
//
// Cycle never returns an error: failures are logged, reported to the chat
// once per distinct failure text, and described in the returned report.
// The watermark advances only when the cycle fully succeeds.
func (b *Bot) Cycle(ctx context.Context) CycleReport {
	report := CycleReport{
		ID:              uuid.NewString(),
		StartedAt:       b.now(),
		WatermarkBefore: b.watermark,
	}
	logger := b.logger.With("cycle_id", report.ID)

	if err := b.safePoll(ctx, &report, logger); err != nil {
		report.Outcome = OutcomeFailed
		report.Kind = failureKind(err)
		report.Err = err

		if ctx.Err() != nil {
			// shutting down; the failure is an artefact of cancellation
			logger.Info("cycle interrupted", "error", err.Error())
		} else {
			b.reportFailure(ctx, &report, err, logger)
		}
	}

	report.WatermarkAfter = b.watermark
	report.Duration = b.now().Sub(report.StartedAt)

	for _, cb := range b.cycleCallbacks {
		invokeCallbackSafe(cb, report, logger)
	}
	return report
}

// poll performs the cycle steps up to and including notification. A non-nil
// error routes the cycle to failure handling; delivery failures do not.
func (b *Bot) poll(ctx context.Context, report *CycleReport, logger *slog.Logger) error {
	logger.Debug("fetching homework statuses", "from_date", b.watermark)

	raw, err := b.fetcher.Fetch(ctx, b.watermark)
	if err != nil {
		return err
	}

	resp, err := feed.Validate(raw, b.watermark)
	if err != nil {
		return err
	}

	if len(resp.Homeworks) == 0 {
		report.Outcome = OutcomeNoChanges
		report.Message = NoChanges
		b.advance(resp.CurrentDate)
		logger.Debug("no changes", "watermark", b.watermark)
		return nil
	}

	// the feed lists the most recently updated homework first
	hw, err := ParseHomework(resp.Homeworks[0])
	if err != nil {
		return err
	}
	report.Homework = hw.Name
	report.Status = hw.Status
	report.Message = hw.Message()

	if err := b.notifier.Send(ctx, report.Message); err != nil {
		report.Outcome = OutcomeDeliveryFailed
		report.Err = err
		logger.Error("failed to deliver status change",
			"homework", hw.Name,
			"status", hw.Status.String(),
			"error", err.Error(),
		)
		return nil
	}

	report.Outcome = OutcomeNotified
	report.Notified = true
	b.advance(resp.CurrentDate)
	logger.Info("status change delivered",
		"homework", hw.Name,
		"status", hw.Status.String(),
		"watermark", b.watermark,
	)
	return nil
}

// safePoll calls poll with panic recovery. A panic becomes a cycle failure
// whose text depends only on the panic value, so repeats are deduplicated.
func (b *Bot) safePoll(ctx context.Context, report *CycleReport, logger *slog.Logger) (err error) {
	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()
			logger.Error("cycle panic",
				"correlation_id", correlationID,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
			err = errors.Newf("internal error: %v", r)
		}
	}()
	return b.poll(ctx, report, logger)
}

// advance moves the watermark after a successful cycle and forgets the last
// reported failure.
func (b *Bot) advance(to int64) {
	b.watermark = to
	b.lastError = ""
}

// reportFailure notifies the chat about err unless the same failure text was
// already reported by the previous failing cycle.
func (b *Bot) reportFailure(ctx context.Context, report *CycleReport, err error, logger *slog.Logger) {
	fingerprint := err.Error()
	logger.Error("cycle failed",
		"kind", report.Kind,
		"error", fingerprint,
		"watermark", b.watermark,
	)

	if fingerprint == b.lastError {
		logger.Debug("failure already reported, notification suppressed")
		return
	}

	// stored before sending so an unreachable chat is not retried for the
	// same failure every cycle
	b.lastError = fingerprint

	if sendErr := b.notifier.Send(ctx, failurePrefix+fingerprint); sendErr != nil {
		logger.Error("failed to deliver failure notification", "error", sendErr.Error())
		return
	}
	report.Notified = true
}

// failureKind names the kind of a cycle failure for logs and reports.
func failureKind(err error) string {
	switch {
	case errors.Is(err, feed.ErrTransport):
		return "transport"
	case errors.Is(err, feed.ErrProtocol):
		return "protocol"
	case errors.Is(err, feed.ErrDecode):
		return "decode"
	case errors.Is(err, feed.ErrSchema):
		return "schema"
	case errors.Is(err, ErrUnknownStatus):
		return "unknown_status"
	default:
		return "internal"
	}
}

// invokeCallbackSafe calls a cycle callback with panic recovery.
// Panics are logged but do not propagate.
func invokeCallbackSafe(cb func(CycleReport), report CycleReport, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("cycle callback panicked", "panic", r)
		}
	}()
	cb(report)
}

// toStoreReport converts a cycle report to its storage form.
func toStoreReport(r CycleReport) store.CycleReport {
	var errStr *string
	if r.Err != nil {
		s := r.Err.Error()
		errStr = &s
	}

	return store.CycleReport{
		ID:              r.ID,
		StartedAt:       r.StartedAt,
		DurationMs:      r.Duration.Milliseconds(),
		Outcome:         string(r.Outcome),
		Kind:            r.Kind,
		WatermarkBefore: r.WatermarkBefore,
		WatermarkAfter:  r.WatermarkAfter,
		Homework:        r.Homework,
		Status:          string(r.Status),
		Error:           errStr,
		Notified:        r.Notified,
	}
}
