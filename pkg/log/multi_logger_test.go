package log

import (
	"testing"
	"time"
)

// mockLogger records events for testing
type mockLogger struct {
	events []Event
}

func (m *mockLogger) Log(event Event) {
	m.events = append(m.events, event)
}

func TestMultiLoggerCallsAll(t *testing.T) {
	mock1 := &mockLogger{}
	mock2 := &mockLogger{}
	mock3 := &mockLogger{}

	multi := NewMultiLogger(mock1, mock2, mock3)

	multi.Log(Event{
		Timestamp:    time.Now(),
		ConnectionID: "conn-123",
		Direction:    DirectionIn,
		Category:     CategorySignal,
	})

	for i, mock := range []*mockLogger{mock1, mock2, mock3} {
		if len(mock.events) != 1 {
			t.Errorf("logger %d: got %d events, want 1", i, len(mock.events))
			continue
		}
		if mock.events[0].ConnectionID != "conn-123" {
			t.Errorf("logger %d: ConnectionID = %q, want %q", i, mock.events[0].ConnectionID, "conn-123")
		}
	}
}

func TestMultiLoggerSkipsNil(t *testing.T) {
	mock := &mockLogger{}
	multi := NewMultiLogger(nil, mock, nil)

	if multi.Len() != 1 {
		t.Errorf("Len() = %d, want 1", multi.Len())
	}
	multi.Log(Event{})
	if len(mock.events) != 1 {
		t.Errorf("got %d events, want 1", len(mock.events))
	}
}

func TestMultiLoggerEmptyList(t *testing.T) {
	multi := NewMultiLogger()
	multi.Log(Event{Timestamp: time.Now()})
}

func TestMultiLoggerPreservesOrder(t *testing.T) {
	mock := &mockLogger{}
	multi := NewMultiLogger(mock)

	for _, c := range []Category{CategoryCall, CategoryReply, CategorySignal} {
		multi.Log(Event{Category: c})
	}

	if len(mock.events) != 3 {
		t.Fatalf("got %d events, want 3", len(mock.events))
	}
	for i, want := range []Category{CategoryCall, CategoryReply, CategorySignal} {
		if mock.events[i].Category != want {
			t.Errorf("event %d: Category = %v, want %v", i, mock.events[i].Category, want)
		}
	}
}
