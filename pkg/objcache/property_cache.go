package objcache

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bluecache/bluecache-go/pkg/bus"
	"github.com/bluecache/bluecache-go/pkg/value"
)

// PropertyCache mirrors the properties of a single object.
type PropertyCache struct {
	proxy  *bus.Proxy
	props  Object
	logger *slog.Logger

	token  bus.Token
	closed bool
}

// NewPropertyCache subscribes to PropertiesChanged on proxy's object. The
// cache starts out tracking no interfaces.
func NewPropertyCache(proxy *bus.Proxy, opts ...Option) (*PropertyCache, error) {
	o := buildOptions(opts)
	pc := &PropertyCache{
		proxy:  proxy,
		props:  make(Object),
		logger: o.logger,
	}

	tok, err := proxy.MatchObject(bus.InterfaceProperties, bus.MemberPropertiesChanged, pc.onPropertiesChanged)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s on %s: %w", bus.MemberPropertiesChanged, proxy.Path, err)
	}
	pc.token = tok
	return pc, nil
}

func (pc *PropertyCache) onPropertiesChanged(s bus.Signal) {
	iface, changed, invalidated, err := bus.ParsePropertiesChanged(s)
	if err != nil {
		pc.logger.Warn("dropping signal", "signal", s.Name(), "path", s.Path, "error", err)
		return
	}
	props, tracked := pc.props[iface]
	if !tracked {
		return
	}
	for k, v := range changed {
		props[k] = v
	}
	for _, k := range invalidated {
		delete(props, k)
	}
}

// Path returns the object the cache tracks.
func (pc *PropertyCache) Path() value.ObjectPath {
	return pc.proxy.Path
}

// Proxy returns the proxy the cache reads through.
func (pc *PropertyCache) Proxy() *bus.Proxy {
	return pc.proxy
}

// Seed starts tracking iface with a copy of props, replacing anything
// tracked for it before.
func (pc *PropertyCache) Seed(iface string, props Properties) {
	cp := make(Properties, len(props))
	for k, v := range props {
		cp[k] = value.Clone(v)
	}
	pc.props[iface] = cp
}

// Tracked reports whether iface is mirrored.
func (pc *PropertyCache) Tracked(iface string) bool {
	_, ok := pc.props[iface]
	return ok
}

// Snapshot returns a deep copy of everything mirrored.
func (pc *PropertyCache) Snapshot() Object {
	return CloneObject(pc.props)
}

// Get returns the value of iface.prop.
//
// Signals that already arrived are applied first. A mirrored value is
// returned as a copy; otherwise the property is fetched with
// Properties.Get and returned without being stored. If the remote object
// reports InvalidArgs (no such interface or property) Get returns
// ok=false and no error.
func (pc *PropertyCache) Get(iface, prop string) (v value.Value, ok bool, err error) {
	for {
		processed, err := pc.proxy.Conn.Process(0)
		if err != nil {
			return nil, false, err
		}
		if !processed {
			break
		}
	}

	if props, tracked := pc.props[iface]; tracked {
		if v, ok := props[prop]; ok {
			return value.Clone(v), true, nil
		}
	}

	v, err = pc.proxy.GetProperty(iface, prop)
	if errors.Is(err, bus.ErrInvalidArgs) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// WaitChange waits up to timeout for the connection to process one
// message, relevant or not, and reports whether it did.
func (pc *PropertyCache) WaitChange(timeout time.Duration) (bool, error) {
	return pc.proxy.Conn.Process(timeout)
}

// Close cancels the subscription. Errors are ignored and repeated calls do
// nothing.
func (pc *PropertyCache) Close() {
	if pc.closed {
		return
	}
	pc.closed = true
	_ = pc.proxy.Conn.RemoveMatch(pc.token)
}
