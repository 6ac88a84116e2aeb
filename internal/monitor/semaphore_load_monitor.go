package monitor

import (
	"errors"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

var ErrTrialInFlight = errors.New("another trial is already running")

// TrialMonitor implements LoadMonitor with a semaphore of weight one.
// It never blocks: a second acquirer is refused rather than queued.
type TrialMonitor struct {
	sem       *semaphore.Weighted
	active    atomic.Int64
	completed atomic.Int64
	planned   atomic.Int64
}

// NewTrialMonitor creates a monitor for a sweep of planned trials.
func NewTrialMonitor(planned int64) *TrialMonitor {
	m := &TrialMonitor{sem: semaphore.NewWeighted(1)}
	m.planned.Store(planned)
	return m
}

// GetMetrics returns current progress statistics
func (m *TrialMonitor) GetMetrics() TrialMetrics {
	return TrialMetrics{
		Active:    m.active.Load(),
		Completed: m.completed.Load(),
		Planned:   m.planned.Load(),
	}
}

// TryAcquire attempts to take the machine. Returns true if successful.
// The caller MUST call Release() when the trial completes.
func (m *TrialMonitor) TryAcquire() bool {
	if m.sem.TryAcquire(1) {
		m.active.Add(1)
		return true
	}
	return false
}

// Release hands the machine back and counts one completed trial
func (m *TrialMonitor) Release() {
	m.active.Add(-1)
	m.completed.Add(1)
	m.sem.Release(1)
}

// Do runs fn while holding the machine, or fails with ErrTrialInFlight.
func (m *TrialMonitor) Do(fn func() error) error {
	if !m.TryAcquire() {
		return ErrTrialInFlight
	}
	defer m.Release()
	return fn()
}

var _ LoadMonitor = (*TrialMonitor)(nil)
