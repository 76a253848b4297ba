package log

import (
	"time"
)

// Event represents a protocol log event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ConnectionID uniquely identifies the connection (UUID).
	ConnectionID string `cbor:"2,keyasint"`

	// Direction indicates message flow.
	Direction Direction `cbor:"3,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"4,keyasint"`

	// Type-specific payload (one of these will be set).
	Call        *CallEvent        `cbor:"5,keyasint,omitempty"` // Call and Reply
	Signal      *SignalEvent      `cbor:"6,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"7,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"8,keyasint,omitempty"`
}

// Direction indicates the direction of message flow.
type Direction uint8

const (
	// DirectionIn indicates an incoming message.
	DirectionIn Direction = 0
	// DirectionOut indicates an outgoing message.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryCall indicates an outgoing method call.
	CategoryCall Category = 0
	// CategoryReply indicates a method return.
	CategoryReply Category = 1
	// CategorySignal indicates a received signal.
	CategorySignal Category = 2
	// CategoryState indicates a state change.
	CategoryState Category = 3
	// CategoryError indicates an error event.
	CategoryError Category = 4
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryCall:
		return "CALL"
	case CategoryReply:
		return "REPLY"
	case CategorySignal:
		return "SIGNAL"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// CallEvent captures a method call or its reply.
type CallEvent struct {
	// Destination is the bus name the call was sent to.
	Destination string `cbor:"1,keyasint"`

	// Path is the object path the call was sent to.
	Path string `cbor:"2,keyasint"`

	// Interface is the method's interface.
	Interface string `cbor:"3,keyasint"`

	// Member is the method name.
	Member string `cbor:"4,keyasint"`

	// Body is the wire-encoded argument or reply body (may be nil).
	Body []byte `cbor:"5,keyasint,omitempty"`

	// Duration is the round-trip time (reply only).
	// Stored as nanoseconds.
	Duration *time.Duration `cbor:"6,keyasint,omitempty"`
}

// Method returns the fully qualified method name.
func (c *CallEvent) Method() string {
	return c.Interface + "." + c.Member
}

// SignalEvent captures a received signal.
type SignalEvent struct {
	// Sender is the unique bus name of the emitter.
	Sender string `cbor:"1,keyasint"`

	// Path is the emitting object path.
	Path string `cbor:"2,keyasint"`

	// Interface is the signal's interface.
	Interface string `cbor:"3,keyasint"`

	// Member is the signal name.
	Member string `cbor:"4,keyasint"`

	// Body is the wire-encoded signal body (may be nil).
	Body []byte `cbor:"5,keyasint,omitempty"`

	// Handlers is the number of subscriptions the signal was dispatched to.
	Handlers int `cbor:"6,keyasint,omitempty"`
}

// StateChangeEvent captures connection and cache lifecycle events.
type StateChangeEvent struct {
	// Entity being changed.
	Entity StateEntity `cbor:"1,keyasint"`

	// OldState is the previous state (may be empty).
	OldState string `cbor:"2,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"3,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"4,keyasint,omitempty"`
}

// StateEntity indicates what entity changed state.
type StateEntity uint8

const (
	// StateEntityConnection indicates a connection state change.
	StateEntityConnection StateEntity = 0
	// StateEntityMatch indicates a signal subscription was added or removed.
	StateEntityMatch StateEntity = 1
)

// String returns the state entity name.
func (s StateEntity) String() string {
	switch s {
	case StateEntityConnection:
		return "CONNECTION"
	case StateEntityMatch:
		return "MATCH"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures failed calls and undecodable messages.
type ErrorEventData struct {
	// Name is the D-Bus error name, if the peer sent one.
	Name string `cbor:"1,keyasint,omitempty"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Kind is the error bucket (InvalidArgs, AccessDenied, NoReply, Custom).
	Kind string `cbor:"3,keyasint,omitempty"`

	// Context provides additional context (e.g. the method that failed).
	Context string `cbor:"4,keyasint,omitempty"`
}
