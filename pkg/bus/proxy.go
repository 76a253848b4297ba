package bus

import (
	"fmt"
	"time"

	"github.com/bluecache/bluecache-go/pkg/value"
)

// DefaultCallTimeout is used when a Proxy has no timeout of its own.
const DefaultCallTimeout = 25 * time.Second

// Proxy addresses one object of one peer over a Conn.
type Proxy struct {
	Conn        Conn
	Destination string
	Path        value.ObjectPath
	Timeout     time.Duration
}

// NewProxy returns a Proxy for path on destination.
func NewProxy(conn Conn, destination string, path value.ObjectPath, timeout time.Duration) *Proxy {
	return &Proxy{Conn: conn, Destination: destination, Path: path, Timeout: timeout}
}

// WithPath returns a Proxy for another object of the same peer.
func (p *Proxy) WithPath(path value.ObjectPath) *Proxy {
	return &Proxy{Conn: p.Conn, Destination: p.Destination, Path: path, Timeout: p.Timeout}
}

func (p *Proxy) timeout() time.Duration {
	if p.Timeout > 0 {
		return p.Timeout
	}
	return DefaultCallTimeout
}

// Call invokes iface.member on the proxied object.
func (p *Proxy) Call(iface, member string, args ...any) ([]value.Value, error) {
	return p.Conn.Call(MethodCall{
		Destination: p.Destination,
		Path:        p.Path,
		Interface:   iface,
		Member:      member,
		Args:        args,
		Timeout:     p.timeout(),
	})
}

func (p *Proxy) callOne(iface, member string, args ...any) (value.Value, error) {
	body, err := p.Call(iface, member, args...)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, &TypedError{
			Kind:    KindCustom,
			Message: fmt.Sprintf("%s.%s returned no value", iface, member),
		}
	}
	return body[0], nil
}

// GetManagedObjects calls ObjectManager.GetManagedObjects.
func (p *Proxy) GetManagedObjects() (ManagedObjects, error) {
	v, err := p.callOne(InterfaceObjectManager, "GetManagedObjects")
	if err != nil {
		return nil, err
	}
	objects, err := ManagedObjectsOf.Decode(v)
	if err != nil {
		return nil, fmt.Errorf("decode managed objects: %w", err)
	}
	return objects, nil
}

// GetProperty calls Properties.Get and strips the variant wrapper.
func (p *Proxy) GetProperty(iface, prop string) (value.Value, error) {
	v, err := p.callOne(InterfaceProperties, "Get", iface, prop)
	if err != nil {
		return nil, err
	}
	return value.Unwrap(v), nil
}

// SetProperty calls Properties.Set, wrapping v in a variant.
func (p *Proxy) SetProperty(iface, prop string, v value.Value) error {
	_, err := p.Call(InterfaceProperties, "Set", iface, prop, value.Variant(v))
	return err
}

// GetAllProperties calls Properties.GetAll.
func (p *Proxy) GetAllProperties(iface string) (Properties, error) {
	v, err := p.callOne(InterfaceProperties, "GetAll", iface)
	if err != nil {
		return nil, err
	}
	props, err := PropertiesOf.Decode(v)
	if err != nil {
		return nil, fmt.Errorf("decode properties of %s: %w", iface, err)
	}
	return props, nil
}

// Match subscribes handler to iface.member signals emitted by the proxied
// peer. Signals from any object path are delivered.
func (p *Proxy) Match(iface, member string, handler Handler) (Token, error) {
	return p.Conn.AddMatch(MatchRule{
		Sender:    p.Destination,
		Interface: iface,
		Member:    member,
	}, handler)
}

// MatchObject is like Match but only delivers signals emitted by the
// proxied object itself.
func (p *Proxy) MatchObject(iface, member string, handler Handler) (Token, error) {
	return p.Conn.AddMatch(MatchRule{
		Sender:    p.Destination,
		Path:      p.Path,
		Interface: iface,
		Member:    member,
	}, handler)
}
