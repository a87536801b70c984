package store

import "sync"

// DefaultCapacity is the number of reports kept by [NewMemoryStore] when a
// non-positive capacity is given.
const DefaultCapacity = 50

// MemoryStore is a bounded in-memory implementation of [Store].
//
// Once capacity reports are held, each update evicts the oldest one.
type MemoryStore struct {
	mu       sync.RWMutex
	reports  []CycleReport // oldest first
	capacity int
}

// NewMemoryStore creates a [MemoryStore] holding at most capacity reports.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryStore{
		reports:  make([]CycleReport, 0, capacity),
		capacity: capacity,
	}
}

// Update appends a report, evicting the oldest one when full.
func (m *MemoryStore) Update(report CycleReport) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.reports) == m.capacity {
		copy(m.reports, m.reports[1:])
		m.reports = m.reports[:len(m.reports)-1]
	}
	m.reports = append(m.reports, report)
}

// Latest returns the most recent report.
func (m *MemoryStore) Latest() (CycleReport, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.reports) == 0 {
		return CycleReport{}, false
	}
	return m.reports[len(m.reports)-1], true
}

// Recent returns a copy of all held reports, newest first.
func (m *MemoryStore) Recent() []CycleReport {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]CycleReport, len(m.reports))
	for i, r := range m.reports {
		out[len(m.reports)-1-i] = r
	}
	return out
}
