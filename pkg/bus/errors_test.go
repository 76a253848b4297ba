package bus

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/godbus/dbus/v5"
)

func TestClassifyNames(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"invalid args", dbus.Error{Name: ErrorNameInvalidArgs, Body: []any{"No such property"}}, KindInvalidArgs},
		{"access denied", dbus.Error{Name: ErrorNameAccessDenied}, KindAccessDenied},
		{"no reply", dbus.Error{Name: ErrorNameNoReply}, KindNoReply},
		{"pointer error", &dbus.Error{Name: ErrorNameInvalidArgs}, KindInvalidArgs},
		{"custom", dbus.Error{Name: "org.bluez.Error.Failed", Body: []any{"boom"}}, KindCustom},
		{"deadline", context.DeadlineExceeded, KindNoReply},
		{"wrapped deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), KindNoReply},
		{"plain", errors.New("socket closed"), KindCustom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Classify(tt.err)
			var te *TypedError
			if !errors.As(err, &te) {
				t.Fatalf("Classify() = %T, want *TypedError", err)
			}
			if te.Kind != tt.want {
				t.Errorf("Kind = %v, want %v", te.Kind, tt.want)
			}
			if te.Err == nil {
				t.Errorf("Classify() does not keep the original error")
			}
		})
	}
}

func TestClassifyKeepsCustomName(t *testing.T) {
	err := Classify(dbus.Error{Name: "org.bluez.Error.NotReady", Body: []any{"Resource Not Ready"}})
	var te *TypedError
	if !errors.As(err, &te) {
		t.Fatalf("Classify() = %T, want *TypedError", err)
	}
	if te.Name != "org.bluez.Error.NotReady" {
		t.Errorf("Name = %q", te.Name)
	}
	if te.Message != "Resource Not Ready" {
		t.Errorf("Message = %q", te.Message)
	}
	if got := te.Error(); got != "D-Bus error: Custom: org.bluez.Error.NotReady: Resource Not Ready" {
		t.Errorf("Error() = %q", got)
	}
}

func TestClassifyNilAndTyped(t *testing.T) {
	if Classify(nil) != nil {
		t.Error("Classify(nil) should be nil")
	}
	te := NewError(ErrorNameAccessDenied, "nope")
	wrapped := fmt.Errorf("set: %w", te)
	if got := Classify(wrapped); got != wrapped {
		t.Errorf("Classify() re-wrapped an already typed error")
	}
}

func TestTypedErrorIs(t *testing.T) {
	tests := []struct {
		err    *TypedError
		target error
		want   bool
	}{
		{NewError(ErrorNameInvalidArgs, ""), ErrInvalidArgs, true},
		{NewError(ErrorNameInvalidArgs, ""), ErrNoReply, false},
		{NewError(ErrorNameAccessDenied, ""), ErrAccessDenied, true},
		{NewError(ErrorNameNoReply, ""), ErrNoReply, true},
		{NewError("com.example.Oops", ""), ErrInvalidArgs, false},
	}
	for _, tt := range tests {
		if got := errors.Is(tt.err, tt.target); got != tt.want {
			t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.want)
		}
	}
}

func TestErrorKindString(t *testing.T) {
	tests := map[ErrorKind]string{
		KindCustom:       "Custom",
		KindInvalidArgs:  "InvalidArgs",
		KindAccessDenied: "AccessDenied",
		KindNoReply:      "NoReply",
		ErrorKind(99):    "Custom",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", k, got, want)
		}
	}
}

func TestTypedErrorMessageFallbacks(t *testing.T) {
	tests := []struct {
		err  *TypedError
		want string
	}{
		{&TypedError{Kind: KindNoReply, Name: ErrorNameNoReply}, "D-Bus error: NoReply: " + ErrorNameNoReply},
		{&TypedError{Kind: KindCustom, Err: errors.New("eof")}, "D-Bus error: Custom: eof"},
		{&TypedError{Kind: KindCustom, Message: "local"}, "D-Bus error: Custom: local"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
