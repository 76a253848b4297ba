package bluez

import (
	"github.com/bluecache/bluecache-go/pkg/bus"
	"github.com/bluecache/bluecache-go/pkg/value"
)

// Battery is an org.bluez.Battery1 object.
type Battery struct {
	proxy *bus.Proxy
}

// Path returns the battery's object path.
func (b *Battery) Path() value.ObjectPath {
	return b.proxy.Path
}

// Percentage returns the charge level in percent.
func (b *Battery) Percentage() (uint8, error) {
	v, err := b.proxy.GetProperty(InterfaceBattery, "Percentage")
	if err != nil {
		return 0, wrap(err)
	}
	return value.AsUint8.Decode(v)
}
