package monitor

// TrialMetrics represents sweep progress statistics
type TrialMetrics struct {
	// Active is 1 while a trial holds the machine, 0 otherwise
	Active int64
	// Completed is the number of trials that released their slot
	Completed int64
	// Planned is the total number of trials the sweep intends to run
	Planned int64
}

// Percent returns completed trials as a percentage of planned ones (0-100).
func (m TrialMetrics) Percent() float64 {
	if m.Planned <= 0 {
		return 0
	}
	return float64(m.Completed) / float64(m.Planned) * 100.0
}

// LoadMonitor guards the benchmark machine so that trials never overlap.
// Overlapping trials contend for the same cores and invalidate the timings.
type LoadMonitor interface {
	// GetMetrics returns current progress statistics
	GetMetrics() TrialMetrics

	// TryAcquire attempts to take the machine for one trial. Returns true if successful.
	// The caller MUST call Release() when the trial completes.
	TryAcquire() bool

	// Release hands the machine back and counts the trial as completed
	Release()
}
