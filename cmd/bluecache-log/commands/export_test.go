package commands

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bluecache/bluecache-go/pkg/log"
)

func exportEvents() []log.Event {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	d := 2 * time.Millisecond
	return []log.Event{
		{Timestamp: ts, ConnectionID: testConnID, Direction: log.DirectionOut, Category: log.CategoryCall,
			Call: &log.CallEvent{Destination: "org.bluez", Path: "/", Interface: "org.freedesktop.DBus.ObjectManager", Member: "GetManagedObjects"}},
		{Timestamp: ts.Add(d), ConnectionID: testConnID, Direction: log.DirectionIn, Category: log.CategoryReply,
			Call: &log.CallEvent{Destination: "org.bluez", Path: "/", Interface: "org.freedesktop.DBus.ObjectManager", Member: "GetManagedObjects", Duration: &d}},
		{Timestamp: ts.Add(time.Second), ConnectionID: testConnID, Direction: log.DirectionIn, Category: log.CategoryError,
			Error: &log.ErrorEventData{Name: "org.bluez.Error.Failed", Message: "boom"}},
	}
}

func TestExportJSONL(t *testing.T) {
	path := createTestLogFile(t, exportEvents())
	outPath := filepath.Join(t.TempDir(), "out.jsonl")

	if err := RunExport(path, "jsonl", outPath); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer f.Close()

	var lines int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var obj map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &obj); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", lines, err)
		}
		if obj["ConnectionID"] != testConnID {
			t.Errorf("line %d: ConnectionID = %v", lines, obj["ConnectionID"])
		}
		lines++
	}
	if lines != 3 {
		t.Errorf("expected 3 lines, got %d", lines)
	}
}

func TestExportCSV(t *testing.T) {
	path := createTestLogFile(t, exportEvents())
	outPath := filepath.Join(t.TempDir(), "out.csv")

	if err := RunExport(path, "csv", outPath); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse CSV: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected header + 3 rows, got %d", len(records))
	}
	if records[0][0] != "timestamp" || records[0][5] != "member" {
		t.Errorf("unexpected header: %v", records[0])
	}

	reply := records[2]
	if reply[3] != "REPLY" {
		t.Errorf("category = %s, want REPLY", reply[3])
	}
	if reply[5] != "org.freedesktop.DBus.ObjectManager.GetManagedObjects" {
		t.Errorf("member = %s", reply[5])
	}
	if reply[6] != "2000000" {
		t.Errorf("duration = %s, want 2000000", reply[6])
	}

	errRow := records[3]
	if errRow[5] != "org.bluez.Error.Failed" || errRow[7] != "boom" {
		t.Errorf("unexpected error row: %v", errRow)
	}
}

func TestExportUnknownFormat(t *testing.T) {
	path := createTestLogFile(t, exportEvents())

	if err := RunExport(path, "xml", filepath.Join(t.TempDir(), "out.xml")); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
