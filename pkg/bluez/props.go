package bluez

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/bluecache/bluecache-go/pkg/objcache"
	"github.com/bluecache/bluecache-go/pkg/value"
)

var (
	stringsOf     = value.IterOf(value.AsString)
	serviceDataOf = value.MapOf(value.AsString, value.SliceOf(value.AsUint8))
)

// requireProp returns props[name] or a MissingPropertyError.
func requireProp(props objcache.Properties, iface, name string) (value.Value, error) {
	v, ok := props[name]
	if !ok {
		return nil, &MissingPropertyError{Interface: iface, Property: name}
	}
	return v, nil
}

func stringProp(props objcache.Properties, iface, name string) (string, error) {
	v, err := requireProp(props, iface, name)
	if err != nil {
		return "", err
	}
	return value.AsString.DecodeVariant(v)
}

func pathProp(props objcache.Properties, iface, name string) (value.ObjectPath, error) {
	v, err := requireProp(props, iface, name)
	if err != nil {
		return "", err
	}
	return value.AsPath.DecodeVariant(v)
}

func parseUUID(s string) (uuid.UUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse UUID %q: %w", s, err)
	}
	return u, nil
}

func uuidProp(props objcache.Properties, iface, name string) (uuid.UUID, error) {
	s, err := stringProp(props, iface, name)
	if err != nil {
		return uuid.Nil, err
	}
	return parseUUID(s)
}

// uuidSet decodes an "as" value of UUID strings. Parsing stops at the first
// malformed entry.
func uuidSet(v value.Value) (map[uuid.UUID]struct{}, error) {
	it, err := stringsOf.DecodeVariant(v)
	if err != nil {
		return nil, err
	}
	set := make(map[uuid.UUID]struct{}, it.Len())
	for s, err := range it.All() {
		if err != nil {
			return nil, err
		}
		u, err := parseUUID(s)
		if err != nil {
			return nil, err
		}
		set[u] = struct{}{}
	}
	return set, nil
}

func decodeServiceData(v value.Value) (map[uuid.UUID][]byte, error) {
	raw, err := serviceDataOf.DecodeVariant(v)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID][]byte, len(raw))
	for s, data := range raw {
		u, err := parseUUID(s)
		if err != nil {
			return nil, err
		}
		out[u] = data
	}
	return out, nil
}
