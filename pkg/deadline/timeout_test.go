package deadline

import (
	"testing"
	"time"
)

func TestTimeoutRemaining(t *testing.T) {
	timeout := Start(60 * time.Second)

	if timeout.Expired() {
		t.Error("Timeout should not be expired immediately")
	}

	remaining := timeout.Remaining()
	if remaining < 59*time.Second || remaining > 60*time.Second {
		t.Errorf("Remaining() = %v, expected ~60s", remaining)
	}

	expected := timeout.StartTime.Add(timeout.Duration)
	if got := timeout.Deadline(); !got.Equal(expected) {
		t.Errorf("Deadline() = %v, want %v", got, expected)
	}
}

func TestTimeoutClampsToZero(t *testing.T) {
	timeout := Timeout{
		StartTime: time.Now().Add(-2 * time.Second),
		Duration:  1 * time.Second,
	}

	if !timeout.Expired() {
		t.Error("Timeout should be expired")
	}
	if timeout.Remaining() != 0 {
		t.Errorf("Remaining() = %v, want 0 for expired timeout", timeout.Remaining())
	}
}

func TestTimeoutZeroBudget(t *testing.T) {
	timeout := Start(0)
	if timeout.Remaining() != 0 {
		t.Errorf("Remaining() = %v, want 0", timeout.Remaining())
	}
	if !timeout.Expired() {
		t.Error("zero budget should be expired")
	}
}

func TestTimeoutNegativeBudget(t *testing.T) {
	timeout := Start(-5 * time.Second)
	if timeout.Duration != 0 {
		t.Errorf("Duration = %v, want 0", timeout.Duration)
	}
}

func TestTimeoutDecreases(t *testing.T) {
	timeout := Start(time.Second)
	first := timeout.Remaining()
	time.Sleep(5 * time.Millisecond)
	second := timeout.Remaining()
	if second >= first {
		t.Errorf("Remaining() did not decrease: %v then %v", first, second)
	}
}
