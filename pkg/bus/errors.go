package bus

import (
	"context"
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"
)

// Standard D-Bus error names that get their own bucket.
const (
	ErrorNameInvalidArgs  = "org.freedesktop.DBus.Error.InvalidArgs"
	ErrorNameAccessDenied = "org.freedesktop.DBus.Error.AccessDenied"
	ErrorNameNoReply      = "org.freedesktop.DBus.Error.NoReply"
	ErrorNameFailed       = "org.freedesktop.DBus.Error.Failed"
)

// Sentinels matched by TypedError.Is.
var (
	ErrInvalidArgs  = errors.New("invalid arguments")
	ErrAccessDenied = errors.New("access denied")
	ErrNoReply      = errors.New("no reply")
)

var (
	// ErrClosed is returned by operations on a closed connection.
	ErrClosed = errors.New("connection closed")

	// ErrUnknownToken is returned by RemoveMatch for a token that is not
	// (or no longer) registered.
	ErrUnknownToken = errors.New("unknown match token")

	// ErrMalformedSignal is returned when a signal body does not have the
	// documented shape.
	ErrMalformedSignal = errors.New("malformed signal")

	// ErrUnsupportedType is returned when a value cannot be converted
	// between Go and bus representations.
	ErrUnsupportedType = errors.New("unsupported type")
)

// ErrorKind is the bucket of a TypedError.
type ErrorKind uint8

const (
	KindCustom ErrorKind = iota
	KindInvalidArgs
	KindAccessDenied
	KindNoReply
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindInvalidArgs:
		return "InvalidArgs"
	case KindAccessDenied:
		return "AccessDenied"
	case KindNoReply:
		return "NoReply"
	default:
		return "Custom"
	}
}

// KindOf returns the bucket for a D-Bus error name.
func KindOf(name string) ErrorKind {
	switch name {
	case ErrorNameInvalidArgs:
		return KindInvalidArgs
	case ErrorNameAccessDenied:
		return KindAccessDenied
	case ErrorNameNoReply:
		return KindNoReply
	default:
		return KindCustom
	}
}

// TypedError is a classified bus error.
type TypedError struct {
	Kind ErrorKind

	// Name is the D-Bus error name, empty for local failures.
	Name string

	Message string

	// Err is the underlying error, if any.
	Err error
}

// NewError returns a TypedError for a remote error reply.
func NewError(name, message string) *TypedError {
	return &TypedError{Kind: KindOf(name), Name: name, Message: message}
}

func (e *TypedError) Error() string {
	cause := e.Message
	switch {
	case e.Name != "" && cause != "":
		cause = e.Name + ": " + cause
	case e.Name != "":
		cause = e.Name
	case cause == "" && e.Err != nil:
		cause = e.Err.Error()
	}
	return fmt.Sprintf("D-Bus error: %s: %s", e.Kind, cause)
}

func (e *TypedError) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels.
func (e *TypedError) Is(target error) bool {
	switch target {
	case ErrInvalidArgs:
		return e.Kind == KindInvalidArgs
	case ErrAccessDenied:
		return e.Kind == KindAccessDenied
	case ErrNoReply:
		return e.Kind == KindNoReply
	}
	return false
}

// Classify converts err into a *TypedError. A nil error stays nil and an
// error that already wraps a TypedError is returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var te *TypedError
	if errors.As(err, &te) {
		return err
	}
	var de dbus.Error
	if errors.As(err, &de) {
		return &TypedError{Kind: KindOf(de.Name), Name: de.Name, Message: dbusMessage(de), Err: err}
	}
	var dep *dbus.Error
	if errors.As(err, &dep) && dep != nil {
		return &TypedError{Kind: KindOf(dep.Name), Name: dep.Name, Message: dbusMessage(*dep), Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &TypedError{Kind: KindNoReply, Message: "timed out waiting for reply", Err: err}
	}
	return &TypedError{Kind: KindCustom, Message: err.Error(), Err: err}
}

func dbusMessage(e dbus.Error) string {
	if len(e.Body) > 0 {
		if s, ok := e.Body[0].(string); ok {
			return s
		}
	}
	return ""
}
