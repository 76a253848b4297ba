package bus

import (
	"fmt"

	"github.com/bluecache/bluecache-go/pkg/value"
)

// Standard interfaces and their signals.
const (
	InterfaceObjectManager = "org.freedesktop.DBus.ObjectManager"
	InterfaceProperties    = "org.freedesktop.DBus.Properties"

	MemberInterfacesAdded   = "InterfacesAdded"
	MemberInterfacesRemoved = "InterfacesRemoved"
	MemberPropertiesChanged = "PropertiesChanged"
)

// Decoders for the standard container shapes. Property values come out
// with their variant wrapper removed.
var (
	PropertiesOf     = value.MapOf(value.AsString, value.AsRaw)
	ObjectOf         = value.MapOf(value.AsString, PropertiesOf)
	ManagedObjectsOf = value.MapOf(value.AsPath, ObjectOf)
)

func checkBody(s Signal, n int) error {
	if len(s.Body) < n {
		return fmt.Errorf("%w: %s has %d arguments, want %d", ErrMalformedSignal, s.Name(), len(s.Body), n)
	}
	return nil
}

// ParseInterfacesAdded decodes an ObjectManager.InterfacesAdded body
// (oa{sa{sv}}).
func ParseInterfacesAdded(s Signal) (value.ObjectPath, Object, error) {
	if err := checkBody(s, 2); err != nil {
		return "", nil, err
	}
	path, err := value.AsPath.Decode(s.Body[0])
	if err != nil {
		return "", nil, fmt.Errorf("%w: object path: %w", ErrMalformedSignal, err)
	}
	obj, err := ObjectOf.Decode(s.Body[1])
	if err != nil {
		return "", nil, fmt.Errorf("%w: interfaces: %w", ErrMalformedSignal, err)
	}
	return path, obj, nil
}

// ParseInterfacesRemoved decodes an ObjectManager.InterfacesRemoved body
// (oas).
func ParseInterfacesRemoved(s Signal) (value.ObjectPath, []string, error) {
	if err := checkBody(s, 2); err != nil {
		return "", nil, err
	}
	path, err := value.AsPath.Decode(s.Body[0])
	if err != nil {
		return "", nil, fmt.Errorf("%w: object path: %w", ErrMalformedSignal, err)
	}
	ifaces, err := value.SliceOf(value.AsString).Decode(s.Body[1])
	if err != nil {
		return "", nil, fmt.Errorf("%w: interfaces: %w", ErrMalformedSignal, err)
	}
	return path, ifaces, nil
}

// ParsePropertiesChanged decodes a Properties.PropertiesChanged body
// (sa{sv}as). A missing invalidated list is treated as empty.
func ParsePropertiesChanged(s Signal) (iface string, changed Properties, invalidated []string, err error) {
	if err := checkBody(s, 2); err != nil {
		return "", nil, nil, err
	}
	iface, err = value.AsString.Decode(s.Body[0])
	if err != nil {
		return "", nil, nil, fmt.Errorf("%w: interface: %w", ErrMalformedSignal, err)
	}
	changed, err = PropertiesOf.Decode(s.Body[1])
	if err != nil {
		return "", nil, nil, fmt.Errorf("%w: changed properties: %w", ErrMalformedSignal, err)
	}
	if len(s.Body) > 2 {
		invalidated, err = value.SliceOf(value.AsString).Decode(s.Body[2])
		if err != nil {
			return "", nil, nil, fmt.Errorf("%w: invalidated properties: %w", ErrMalformedSignal, err)
		}
	}
	return iface, changed, invalidated, nil
}
