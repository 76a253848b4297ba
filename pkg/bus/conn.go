package bus

import (
	"strings"
	"time"

	"github.com/bluecache/bluecache-go/pkg/value"
)

// Properties maps property names to values with the variant wrapper removed.
type Properties = map[string]value.Value

// Object maps interface names to their properties.
type Object = map[string]Properties

// ManagedObjects is the reply of ObjectManager.GetManagedObjects.
type ManagedObjects = map[value.ObjectPath]Object

// Handler receives a signal accepted by a subscription's MatchRule.
type Handler func(Signal)

// Token identifies a subscription. The zero Token is never issued.
type Token uint64

// MethodCall describes one outgoing method call.
type MethodCall struct {
	Destination string
	Path        value.ObjectPath
	Interface   string
	Member      string

	// Args are the call arguments. Elements may be value.Value trees or
	// plain Go values the underlying connection knows how to marshal.
	Args []any

	// Timeout bounds the wait for a reply. Zero selects the connection's
	// default.
	Timeout time.Duration
}

// Method returns the fully qualified method name.
func (c MethodCall) Method() string {
	return c.Interface + "." + c.Member
}

// Signal is an inbound signal message.
type Signal struct {
	Sender    string
	Path      value.ObjectPath
	Interface string
	Member    string
	Body      []value.Value
}

// Name returns the fully qualified signal name.
func (s Signal) Name() string {
	return s.Interface + "." + s.Member
}

// MatchRule selects signals. Empty fields match anything.
type MatchRule struct {
	Sender    string
	Path      value.ObjectPath
	Interface string
	Member    string
}

// String renders the rule in bus daemon match syntax.
func (r MatchRule) String() string {
	parts := []string{"type='signal'"}
	if r.Sender != "" {
		parts = append(parts, "sender='"+r.Sender+"'")
	}
	if r.Path != "" {
		parts = append(parts, "path='"+string(r.Path)+"'")
	}
	if r.Interface != "" {
		parts = append(parts, "interface='"+r.Interface+"'")
	}
	if r.Member != "" {
		parts = append(parts, "member='"+r.Member+"'")
	}
	return strings.Join(parts, ",")
}

// Matches reports whether s satisfies the rule.
//
// Signals carry the unique name of their sender while rules usually name
// the well-known one; the bus daemon resolves that mapping, so Sender is
// only compared locally when the rule holds a unique (":"-prefixed) name.
func (r MatchRule) Matches(s Signal) bool {
	if strings.HasPrefix(r.Sender, ":") && r.Sender != s.Sender {
		return false
	}
	if r.Path != "" && r.Path != s.Path {
		return false
	}
	if r.Interface != "" && r.Interface != s.Interface {
		return false
	}
	if r.Member != "" && r.Member != s.Member {
		return false
	}
	return true
}

// Conn is a message-bus connection as seen by the caches.
//
// Implementations are not required to be safe for concurrent use.
type Conn interface {
	// Call sends a method call and blocks until the reply, an error reply
	// or the call timeout. Errors are *TypedError.
	Call(call MethodCall) ([]value.Value, error)

	// Process waits up to timeout for one inbound message and dispatches
	// it to every matching handler before returning. It reports whether
	// a message was processed. A timeout of zero never blocks.
	Process(timeout time.Duration) (bool, error)

	// AddMatch subscribes handler to signals matching rule.
	AddMatch(rule MatchRule, handler Handler) (Token, error)

	// RemoveMatch cancels a subscription.
	RemoveMatch(token Token) error

	// Close releases the connection.
	Close() error
}
