// Package deadline implements timeout accounting for blocking bus operations.
//
// A Timeout is started once per call and queried each time the caller is
// about to block. The remaining budget is derived from the monotonic clock
// and is never negative: once the budget is spent, Remaining returns zero
// and the caller performs at most one non-blocking poll.
//
// Timeouts are never re-extended. A loop that waits repeatedly re-derives
// the remaining budget from the same start point on every iteration.
package deadline
