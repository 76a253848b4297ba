package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/bluecache/bluecache-go/pkg/log"
)

func TestStatsCountsByCategory(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, Category: log.CategoryCall, Call: &log.CallEvent{Interface: "org.bluez.Adapter1", Member: "StartDiscovery"}},
		{Timestamp: ts, Category: log.CategorySignal, Signal: &log.SignalEvent{Interface: "org.freedesktop.DBus.ObjectManager", Member: "InterfacesAdded"}},
		{Timestamp: ts, Category: log.CategoryState, StateChange: &log.StateChangeEvent{NewState: "CONNECTED"}},
		{Timestamp: ts, Category: log.CategoryError, Error: &log.ErrorEventData{Message: "test"}},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{"CALL:", "SIGNAL:", "STATE:", "ERROR:", "Total Events: 4", "Errors: 1"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
	if strings.Contains(output, "REPLY:") {
		t.Errorf("expected empty categories to be omitted:\n%s", output)
	}
}

func TestStatsMethodTiming(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	fast := time.Millisecond
	slow := 3 * time.Millisecond
	call := func(cat log.Category, d *time.Duration) log.Event {
		return log.Event{Timestamp: ts, Category: cat, Call: &log.CallEvent{
			Interface: "org.freedesktop.DBus.Properties", Member: "Get", Duration: d,
		}}
	}
	events := []log.Event{
		call(log.CategoryCall, nil),
		call(log.CategoryReply, &fast),
		call(log.CategoryCall, nil),
		call(log.CategoryReply, &slow),
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	want := "org.freedesktop.DBus.Properties.Get: 2 calls, 2 replies, mean 2.000ms, max 3.000ms"
	if !strings.Contains(buf.String(), want) {
		t.Errorf("expected %q in output:\n%s", want, buf.String())
	}
}

func TestStatsSignalsAndConnections(t *testing.T) {
	base := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	sig := func(conn string, at time.Duration, member string) log.Event {
		return log.Event{Timestamp: base.Add(at), ConnectionID: conn, Category: log.CategorySignal,
			Signal: &log.SignalEvent{Interface: "org.freedesktop.DBus.Properties", Member: member}}
	}
	events := []log.Event{
		sig("conn-aaaaaaaa", 0, "PropertiesChanged"),
		sig("conn-aaaaaaaa", 2*time.Second, "PropertiesChanged"),
		sig("conn-bbbbbbbb", time.Second, "PropertiesChanged"),
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"org.freedesktop.DBus.Properties.PropertiesChanged: 3",
		"Connections: 2",
		"[conn-aaa] 2 events, duration 2s",
		"[conn-bbb] 1 events",
		"Duration:   2s",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
	if strings.Index(output, "[conn-aaa]") > strings.Index(output, "[conn-bbb]") {
		t.Errorf("expected connections ordered by first seen:\n%s", output)
	}
}

func TestStatsEmptyLog(t *testing.T) {
	path := createTestLogFile(t, nil)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Total Events: 0") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}
