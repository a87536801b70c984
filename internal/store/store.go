package store

import "time"

// CycleReport is the storage representation of one poll cycle, shaped for
// JSON serialization by the status API.
type CycleReport struct {
	// ID is the cycle correlation id that also appears in logs.
	ID string `json:"id"`

	// StartedAt is when the cycle began.
	StartedAt time.Time `json:"started_at"`

	// DurationMs is the cycle duration in milliseconds.
	DurationMs int64 `json:"duration_ms"`

	// Outcome is one of "notified", "no_changes", "failed", "delivery_failed".
	Outcome string `json:"outcome"`

	// Kind classifies a failed cycle (e.g. "transport", "schema").
	Kind string `json:"kind,omitempty"`

	// WatermarkBefore and WatermarkAfter bracket the cycle.
	WatermarkBefore int64 `json:"watermark_before"`
	WatermarkAfter  int64 `json:"watermark_after"`

	// Homework and Status describe the homework seen in the feed, if any.
	Homework string `json:"homework,omitempty"`
	Status   string `json:"status,omitempty"`

	// Error contains the failure text; nil for successful cycles.
	Error *string `json:"error"`

	// Notified reports whether a message was delivered during the cycle.
	Notified bool `json:"notified"`
}

// Store defines the interface for recording and reading cycle reports.
//
// Store implementations must be safe for concurrent access.
type Store interface {
	// Update records a new cycle report.
	Update(report CycleReport)

	// Latest returns the most recent report, or false if none was recorded.
	Latest() (CycleReport, bool)

	// Recent returns recorded reports, newest first.
	// The returned slice is a snapshot; modifications do not affect the store.
	Recent() []CycleReport
}
