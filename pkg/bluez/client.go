package bluez

import (
	"log/slog"
	"time"

	"github.com/bluecache/bluecache-go/pkg/bus"
	"github.com/bluecache/bluecache-go/pkg/objcache"
	"github.com/bluecache/bluecache-go/pkg/value"
)

// BusName is the well-known name of the BlueZ daemon.
const BusName = "org.bluez"

// Interface names.
const (
	InterfaceAdapter        = "org.bluez.Adapter1"
	InterfaceDevice         = "org.bluez.Device1"
	InterfaceGattService    = "org.bluez.GattService1"
	InterfaceCharacteristic = "org.bluez.GattCharacteristic1"
	InterfaceBattery        = "org.bluez.Battery1"
)

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used by the Client and its caches.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// Client mirrors the BlueZ object tree.
type Client struct {
	conn    bus.Conn
	objects *objcache.Cache
	logger  *slog.Logger
}

// New enumerates BlueZ's objects over conn and starts tracking them.
// timeout bounds the calls made on the root object.
func New(conn bus.Conn, timeout time.Duration, opts ...Option) (*Client, error) {
	c := &Client{conn: conn, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}

	objects, err := objcache.New(bus.NewProxy(conn, BusName, "/", timeout), objcache.WithLogger(c.logger))
	if err != nil {
		return nil, wrap(err)
	}
	c.objects = objects
	return c, nil
}

// Objects returns the underlying object cache.
func (c *Client) Objects() *objcache.Cache {
	return c.objects
}

// Close stops tracking objects. The connection stays open.
func (c *Client) Close() {
	c.objects.Close()
}

func (c *Client) proxy(path value.ObjectPath, timeout time.Duration) *bus.Proxy {
	return bus.NewProxy(c.conn, BusName, path, timeout)
}

// findInterface runs pred against the properties of every object exposing
// iface.
func findInterface[T any](c *Client, iface string, pred func(value.ObjectPath, objcache.Properties) (T, bool, error), timeout time.Duration) (T, bool, error) {
	r, ok, err := objcache.FindFirst(c.objects, func(path value.ObjectPath, obj objcache.Object) (T, bool, error) {
		props, has := obj[iface]
		if !has {
			var zero T
			return zero, false, nil
		}
		return pred(path, props)
	}, timeout)
	return r, ok, wrap(err)
}

// FirstAdapter waits up to timeout for any adapter. Calls on the returned
// Adapter use adapterTimeout.
func (c *Client) FirstAdapter(adapterTimeout, timeout time.Duration) (*Adapter, bool, error) {
	path, ok, err := findInterface(c, InterfaceAdapter, func(path value.ObjectPath, _ objcache.Properties) (value.ObjectPath, bool, error) {
		return path, true, nil
	}, timeout)
	if err != nil || !ok {
		return nil, false, err
	}
	return &Adapter{client: c, proxy: c.proxy(path, adapterTimeout)}, true, nil
}

// Adapters returns every adapter currently known, in path order.
func (c *Client) Adapters(adapterTimeout time.Duration) []*Adapter {
	var out []*Adapter
	for path, obj := range c.objects.Objects() {
		if _, ok := obj[InterfaceAdapter]; ok {
			out = append(out, &Adapter{client: c, proxy: c.proxy(path, adapterTimeout)})
		}
	}
	return out
}
