package log

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestFileLoggerCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.blog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	defer logger.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("log file was not created")
	}
	if logger.Path() != path {
		t.Errorf("Path() = %q, want %q", logger.Path(), path)
	}
}

func TestFileLoggerWritesCBOR(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.blog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	event := Event{
		Timestamp:    time.Now(),
		ConnectionID: "conn-123",
		Direction:    DirectionIn,
		Category:     CategorySignal,
		Signal: &SignalEvent{
			Sender:    ":1.7",
			Path:      "/",
			Interface: "org.freedesktop.DBus.ObjectManager",
			Member:    "InterfacesAdded",
			Handlers:  2,
		},
	}

	logger.Log(event)
	if got := logger.Written(); got != 1 {
		t.Errorf("Written() = %d, want 1", got)
	}
	logger.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("log file is empty")
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("failed to decode event: %v", err)
	}
	if decoded.ConnectionID != event.ConnectionID {
		t.Errorf("ConnectionID: got %q, want %q", decoded.ConnectionID, event.ConnectionID)
	}
	if decoded.Signal == nil {
		t.Fatal("Signal is nil")
	}
	if decoded.Signal.Member != "InterfacesAdded" {
		t.Errorf("Signal.Member: got %q, want %q", decoded.Signal.Member, "InterfacesAdded")
	}
	if decoded.Signal.Handlers != 2 {
		t.Errorf("Signal.Handlers: got %d, want 2", decoded.Signal.Handlers)
	}
}

func TestFileLoggerAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.blog")

	logger1, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	logger1.Log(Event{Timestamp: time.Now(), ConnectionID: "conn-1", Category: CategoryCall})
	logger1.Close()

	info1, _ := os.Stat(path)

	logger2, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger second open failed: %v", err)
	}
	logger2.Log(Event{Timestamp: time.Now(), ConnectionID: "conn-2", Category: CategoryReply})
	logger2.Close()

	info2, _ := os.Stat(path)
	if info2.Size() <= info1.Size() {
		t.Errorf("file did not grow: size before=%d, size after=%d", info1.Size(), info2.Size())
	}

	events := decodeAll(t, path)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].ConnectionID != "conn-1" {
		t.Errorf("first event ConnectionID: got %q, want %q", events[0].ConnectionID, "conn-1")
	}
	if events[1].ConnectionID != "conn-2" {
		t.Errorf("second event ConnectionID: got %q, want %q", events[1].ConnectionID, "conn-2")
	}
}

func TestFileLoggerThreadSafe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.blog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	const numGoroutines = 10
	const eventsPerGoroutine = 100

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < eventsPerGoroutine; j++ {
				logger.Log(Event{
					Timestamp:    time.Now(),
					ConnectionID: "conn-" + string(rune('A'+id)),
					Category:     CategorySignal,
				})
			}
		}(i)
	}
	wg.Wait()

	if got := logger.Written(); got != numGoroutines*eventsPerGoroutine {
		t.Errorf("Written() = %d, want %d", got, numGoroutines*eventsPerGoroutine)
	}
	logger.Close()

	if count := len(decodeAll(t, path)); count != numGoroutines*eventsPerGoroutine {
		t.Errorf("event count: got %d, want %d", count, numGoroutines*eventsPerGoroutine)
	}
}

func TestFileLoggerClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.blog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	logger.Log(Event{Timestamp: time.Now(), ConnectionID: "conn-123"})

	if err := logger.Sync(); err != nil {
		t.Errorf("Sync failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
	if err := logger.Sync(); err != nil {
		t.Errorf("Sync after Close failed: %v", err)
	}

	logger.Log(Event{Timestamp: time.Now(), ConnectionID: "conn-456"})
	if got := logger.Written(); got != 1 {
		t.Errorf("Written() after Close = %d, want 1", got)
	}
}

func TestNewFileLoggerBadPath(t *testing.T) {
	if _, err := NewFileLogger(filepath.Join(t.TempDir(), "missing", "x.blog")); err == nil {
		t.Error("NewFileLogger() expected error for missing directory")
	}
}

func decodeAll(t *testing.T, path string) []Event {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	decoder := NewDecoder(bytes.NewReader(data))
	var events []Event
	for {
		var event Event
		if err := decoder.Decode(&event); err != nil {
			break
		}
		events = append(events, event)
	}
	return events
}
