package bluez

import (
	"errors"
	"fmt"

	"github.com/bluecache/bluecache-go/pkg/bus"
)

// ErrorKind enumerates the org.bluez.Error.* names.
type ErrorKind uint8

const (
	InvalidArguments ErrorKind = iota
	InProgress
	AlreadyExists
	NotSupported
	NotConnected
	AlreadyConnected
	NotAvailable
	DoesNotExist
	NotAuthorized
	NotPermitted
	NoSuchAdapter
	AgentNotAvailable
	NotReady
	Failed
	InvalidValueLength
	InvalidOffset
	Rejected
	Canceled
	AuthenticationCanceled
	AuthenticationFailed
	AuthenticationRejected
	AuthenticationTimeout
	ConnectionAttemptFailed
	OutOfRange
	HealthError
	NotAcquired
)

var kindNames = [...]string{
	InvalidArguments:        "InvalidArguments",
	InProgress:              "InProgress",
	AlreadyExists:           "AlreadyExists",
	NotSupported:            "NotSupported",
	NotConnected:            "NotConnected",
	AlreadyConnected:        "AlreadyConnected",
	NotAvailable:            "NotAvailable",
	DoesNotExist:            "DoesNotExist",
	NotAuthorized:           "NotAuthorized",
	NotPermitted:            "NotPermitted",
	NoSuchAdapter:           "NoSuchAdapter",
	AgentNotAvailable:       "AgentNotAvailable",
	NotReady:                "NotReady",
	Failed:                  "Failed",
	InvalidValueLength:      "InvalidValueLength",
	InvalidOffset:           "InvalidOffset",
	Rejected:                "Rejected",
	Canceled:                "Canceled",
	AuthenticationCanceled:  "AuthenticationCanceled",
	AuthenticationFailed:    "AuthenticationFailed",
	AuthenticationRejected:  "AuthenticationRejected",
	AuthenticationTimeout:   "AuthenticationTimeout",
	ConnectionAttemptFailed: "ConnectionAttemptFailed",
	OutOfRange:              "OutOfRange",
	HealthError:             "HealthError",
	NotAcquired:             "NotAcquired",
}

// ErrorPrefix is the namespace of BlueZ error names.
const ErrorPrefix = "org.bluez.Error."

var kindsByName = func() map[string]ErrorKind {
	m := make(map[string]ErrorKind, len(kindNames))
	for k, name := range kindNames {
		m[ErrorPrefix+name] = ErrorKind(k)
	}
	return m
}()

func (k ErrorKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", k)
}

// ErrorName returns the D-Bus error name of k.
func (k ErrorKind) ErrorName() string {
	return ErrorPrefix + k.String()
}

// Error is a BlueZ error reply.
type Error struct {
	Kind ErrorKind
	Err  *bus.TypedError
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a BlueZ error of kind k.
func IsKind(err error, k ErrorKind) bool {
	var be *Error
	return errors.As(err, &be) && be.Kind == k
}

// MissingInterfaceError reports an object lacking a required interface.
type MissingInterfaceError struct {
	Interface string
}

func (e *MissingInterfaceError) Error() string {
	return "object missing interface: " + e.Interface
}

// MissingPropertyError reports an interface lacking a required property.
type MissingPropertyError struct {
	Interface string
	Property  string
}

func (e *MissingPropertyError) Error() string {
	return fmt.Sprintf("missing property: %s.%s", e.Interface, e.Property)
}

// wrap re-classifies Custom bus errors carrying a BlueZ name.
func wrap(err error) error {
	if err == nil {
		return nil
	}
	var te *bus.TypedError
	if errors.As(err, &te) && te.Kind == bus.KindCustom {
		if kind, ok := kindsByName[te.Name]; ok {
			return &Error{Kind: kind, Err: te}
		}
	}
	return err
}
