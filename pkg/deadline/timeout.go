package deadline

import "time"

// Timeout tracks a fixed budget measured from the moment it was started.
type Timeout struct {
	// StartTime is when the budget started (carries a monotonic reading).
	StartTime time.Time

	// Duration is the total budget.
	Duration time.Duration
}

// Start begins a new timeout with the given budget.
// Negative budgets are treated as zero.
func Start(d time.Duration) Timeout {
	if d < 0 {
		d = 0
	}
	return Timeout{StartTime: time.Now(), Duration: d}
}

// Deadline returns the absolute time at which the budget runs out.
func (t Timeout) Deadline() time.Time {
	return t.StartTime.Add(t.Duration)
}

// Remaining returns the unspent budget, clamped to zero.
func (t Timeout) Remaining() time.Duration {
	remaining := t.Duration - time.Since(t.StartTime)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Expired reports whether the budget is spent.
func (t Timeout) Expired() bool {
	return t.Remaining() == 0
}
