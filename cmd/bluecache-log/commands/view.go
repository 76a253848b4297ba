// Package commands implements the bluecache-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bluecache/bluecache-go/pkg/log"
	"github.com/bluecache/bluecache-go/pkg/value"
	"github.com/bluecache/bluecache-go/pkg/wire"
)

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	Direction *log.Direction
	Category  *log.Category
	Path      string
	Interface string
	Member    string
}

func (f ViewFilter) logFilter() log.Filter {
	return log.Filter{
		Direction: f.Direction,
		Category:  f.Category,
		Path:      f.Path,
		Interface: f.Interface,
		Member:    f.Member,
	}
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [conn:id] DIRECTION CATEGORY label
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	fmt.Fprintf(w, "%s [conn:%s] %-3s %-6s %s\n",
		ts, shortenConnID(event.ConnectionID), event.Direction, event.Category, eventLabel(event))

	switch {
	case event.Call != nil:
		formatCallDetails(w, event.Call)
	case event.Signal != nil:
		formatSignalDetails(w, event.Signal)
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w)
}

// eventLabel names the call, signal or entity an event is about.
func eventLabel(event log.Event) string {
	switch {
	case event.Call != nil:
		return event.Call.Method()
	case event.Signal != nil:
		return event.Signal.Interface + "." + event.Signal.Member
	case event.StateChange != nil:
		return event.StateChange.Entity.String()
	case event.Error != nil:
		if event.Error.Name != "" {
			return event.Error.Name
		}
		return "Error"
	}
	return "Unknown"
}

// shortenConnID returns the first 8 characters of the connection ID.
func shortenConnID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatCallDetails(w io.Writer, call *log.CallEvent) {
	fmt.Fprintf(w, "  Destination: %s\n", call.Destination)
	fmt.Fprintf(w, "  Path: %s\n", call.Path)
	if call.Duration != nil {
		fmt.Fprintf(w, "  Duration: %s\n", formatDuration(*call.Duration))
	}
	formatBody(w, call.Body)
}

func formatSignalDetails(w io.Writer, sig *log.SignalEvent) {
	fmt.Fprintf(w, "  Sender: %s\n", sig.Sender)
	fmt.Fprintf(w, "  Path: %s\n", sig.Path)
	fmt.Fprintf(w, "  Handlers: %d\n", sig.Handlers)
	formatBody(w, sig.Body)
}

// formatBody decodes a wire-encoded body and prints one line per value.
func formatBody(w io.Writer, body []byte) {
	if len(body) == 0 {
		return
	}
	vals, err := wire.DecodeValues(body)
	if err != nil {
		fmt.Fprintf(w, "  Body: %d bytes (undecodable: %v)\n", len(body), err)
		return
	}
	for i, v := range vals {
		fmt.Fprintf(w, "  Arg%d: %s\n", i, value.Format(v))
	}
}

func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	if sc.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.NewState)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	if err.Kind != "" {
		fmt.Fprintf(w, "  Kind: %s\n", err.Kind)
	}
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.3fus", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}

// ParseDirectionFlag parses a direction string from command-line flag (case-insensitive).
func ParseDirectionFlag(s string) (log.Direction, error) {
	return parseDirection(s)
}

func parseDirection(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be in or out)", s)
	}
}

// ParseCategoryFlag parses a category string from command-line flag (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	return parseCategory(s)
}

func parseCategory(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "call":
		return log.CategoryCall, nil
	case "reply":
		return log.CategoryReply, nil
	case "signal":
		return log.CategorySignal, nil
	case "state":
		return log.CategoryState, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be call, reply, signal, state, or error)", s)
	}
}

// RunView executes the view command.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter.logFilter())
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for event, err := range reader.All() {
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}
	return nil
}
