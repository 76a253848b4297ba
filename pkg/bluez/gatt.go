package bluez

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bluecache/bluecache-go/pkg/bus"
	"github.com/bluecache/bluecache-go/pkg/objcache"
	"github.com/bluecache/bluecache-go/pkg/value"
)

// GattService is an org.bluez.GattService1 object.
type GattService struct {
	client *Client
	proxy  *bus.Proxy
}

// Path returns the service's object path.
func (s *GattService) Path() value.ObjectPath {
	return s.proxy.Path
}

// UUID returns the service UUID.
func (s *GattService) UUID() (uuid.UUID, error) {
	v, err := s.proxy.GetProperty(InterfaceGattService, "UUID")
	if err != nil {
		return uuid.Nil, wrap(err)
	}
	str, err := value.AsString.Decode(v)
	if err != nil {
		return uuid.Nil, err
	}
	return parseUUID(str)
}

// CharacteristicPredicate selects characteristics by their
// org.bluez.GattCharacteristic1 properties.
type CharacteristicPredicate func(props objcache.Properties) (bool, error)

// FindCharacteristic waits up to timeout for a characteristic of this
// service that pred selects.
func (s *GattService) FindCharacteristic(pred CharacteristicPredicate, characteristicTimeout, timeout time.Duration) (*GattCharacteristic, bool, error) {
	path, ok, err := findInterface(s.client, InterfaceCharacteristic, func(path value.ObjectPath, props objcache.Properties) (value.ObjectPath, bool, error) {
		owner, err := pathProp(props, InterfaceCharacteristic, "Service")
		if err != nil {
			return "", false, err
		}
		if owner != s.proxy.Path {
			return "", false, nil
		}
		ok, err := pred(props)
		return path, ok, err
	}, timeout)
	if err != nil || !ok {
		return nil, false, err
	}
	return &GattCharacteristic{proxy: s.client.proxy(path, characteristicTimeout)}, true, nil
}

// FindCharacteristicByUUID waits for the service's characteristic with the
// given UUID.
func (s *GattService) FindCharacteristicByUUID(u uuid.UUID, characteristicTimeout, timeout time.Duration) (*GattCharacteristic, bool, error) {
	return s.FindCharacteristic(func(props objcache.Properties) (bool, error) {
		cu, err := uuidProp(props, InterfaceCharacteristic, "UUID")
		if err != nil {
			return false, err
		}
		return cu == u, nil
	}, characteristicTimeout, timeout)
}

// GattCharacteristic is an org.bluez.GattCharacteristic1 object.
type GattCharacteristic struct {
	proxy *bus.Proxy
}

// Path returns the characteristic's object path.
func (c *GattCharacteristic) Path() value.ObjectPath {
	return c.proxy.Path
}

var bytesOf = value.SliceOf(value.AsUint8)

// ReadValue reads the characteristic.
func (c *GattCharacteristic) ReadValue() ([]byte, error) {
	body, err := c.proxy.Call(InterfaceCharacteristic, "ReadValue", value.Dict{})
	if err != nil {
		return nil, wrap(err)
	}
	if len(body) == 0 {
		return nil, errors.New("ReadValue: empty reply")
	}
	return bytesOf.Decode(body[0])
}

// WriteValue writes buf to the characteristic.
func (c *GattCharacteristic) WriteValue(buf []byte) error {
	if buf == nil {
		buf = []byte{}
	}
	_, err := c.proxy.Call(InterfaceCharacteristic, "WriteValue", buf, value.Dict{})
	return wrap(err)
}

// StartNotify enables notifications.
func (c *GattCharacteristic) StartNotify() error {
	_, err := c.proxy.Call(InterfaceCharacteristic, "StartNotify")
	return wrap(err)
}

// StopNotify disables notifications.
func (c *GattCharacteristic) StopNotify() error {
	_, err := c.proxy.Call(InterfaceCharacteristic, "StopNotify")
	return wrap(err)
}

// AcquireNotify acquires a file descriptor for notifications along with
// the negotiated MTU.
func (c *GattCharacteristic) AcquireNotify() (fd int, mtu uint16, err error) {
	return c.acquire("AcquireNotify")
}

// AcquireWrite acquires a file descriptor for writes along with the
// negotiated MTU.
func (c *GattCharacteristic) AcquireWrite() (fd int, mtu uint16, err error) {
	return c.acquire("AcquireWrite")
}

func (c *GattCharacteristic) acquire(member string) (int, uint16, error) {
	body, err := c.proxy.Call(InterfaceCharacteristic, member, value.Dict{})
	if err != nil {
		return -1, 0, wrap(err)
	}
	if len(body) < 2 {
		return -1, 0, fmt.Errorf("%s: reply has %d values, want 2", member, len(body))
	}
	fd, ok := body[0].(value.UnixFD)
	if !ok {
		return -1, 0, fmt.Errorf("%s: fd is %s", member, body[0].Kind())
	}
	mtu, err := value.AsUint16.Decode(body[1])
	if err != nil {
		return -1, 0, fmt.Errorf("%s: mtu: %w", member, err)
	}
	return int(fd), mtu, nil
}
