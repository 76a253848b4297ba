package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes protocol events to an slog.Logger at Debug level.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("conn_id", event.ConnectionID),
		slog.String("direction", event.Direction.String()),
		slog.String("category", event.Category.String()),
	}

	switch {
	case event.Call != nil:
		attrs = append(attrs,
			slog.String("destination", event.Call.Destination),
			slog.String("path", event.Call.Path),
			slog.String("method", event.Call.Method()),
			slog.Int("body_size", len(event.Call.Body)),
		)
		if event.Call.Duration != nil {
			attrs = append(attrs, slog.Duration("duration", *event.Call.Duration))
		}
	case event.Signal != nil:
		attrs = append(attrs,
			slog.String("sender", event.Signal.Sender),
			slog.String("path", event.Signal.Path),
			slog.String("signal", event.Signal.Interface+"."+event.Signal.Member),
			slog.Int("handlers", event.Signal.Handlers),
		)
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("entity", event.StateChange.Entity.String()),
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Error != nil:
		attrs = append(attrs, slog.String("error_msg", event.Error.Message))
		if event.Error.Name != "" {
			attrs = append(attrs, slog.String("error_name", event.Error.Name))
		}
		if event.Error.Kind != "" {
			attrs = append(attrs, slog.String("error_kind", event.Error.Kind))
		}
		if event.Error.Context != "" {
			attrs = append(attrs, slog.String("error_context", event.Error.Context))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "protocol", attrs...)
}

var _ Logger = (*SlogAdapter)(nil)
