package bluez

import (
	"time"

	"github.com/google/uuid"

	"github.com/bluecache/bluecache-go/pkg/bus"
	"github.com/bluecache/bluecache-go/pkg/objcache"
	"github.com/bluecache/bluecache-go/pkg/value"
)

// Device is an org.bluez.Device1 object. Its property cache starts empty:
// reads go to the remote until a PropertiesChanged signal for an interface
// the cache already tracks arrives.
type Device struct {
	client *Client
	proxy  *bus.Proxy
	props  *objcache.PropertyCache
}

func newDevice(c *Client, path value.ObjectPath, timeout time.Duration) (*Device, error) {
	proxy := c.proxy(path, timeout)
	pc, err := objcache.NewPropertyCache(proxy, objcache.WithLogger(c.logger))
	if err != nil {
		return nil, wrap(err)
	}
	return &Device{client: c, proxy: proxy, props: pc}, nil
}

// Path returns the device's object path.
func (d *Device) Path() value.ObjectPath {
	return d.proxy.Path
}

// Properties returns a copy of the mirrored properties.
func (d *Device) Properties() objcache.Object {
	return d.props.Snapshot()
}

// Close stops mirroring the device's properties.
func (d *Device) Close() {
	d.props.Close()
}

// Connect connects to the device.
func (d *Device) Connect() error {
	_, err := d.proxy.Call(InterfaceDevice, "Connect")
	return wrap(err)
}

// Disconnect disconnects from the device.
func (d *Device) Disconnect() error {
	_, err := d.proxy.Call(InterfaceDevice, "Disconnect")
	return wrap(err)
}

func (d *Device) cached(prop string) (value.Value, bool, error) {
	v, ok, err := d.props.Get(InterfaceDevice, prop)
	return v, ok, wrap(err)
}

// Name returns the device's name.
func (d *Device) Name() (string, error) {
	v, ok, err := d.cached("Name")
	if err != nil {
		return "", err
	}
	if !ok {
		return "", &MissingPropertyError{Interface: InterfaceDevice, Property: "Name"}
	}
	return value.AsString.DecodeVariant(v)
}

// ServiceData returns the service data of the most recent advertisement,
// keyed by service UUID. A device without service data yields an empty
// map.
func (d *Device) ServiceData() (map[uuid.UUID][]byte, error) {
	v, ok, err := d.cached("ServiceData")
	if err != nil {
		return nil, err
	}
	if !ok {
		return map[uuid.UUID][]byte{}, nil
	}
	return decodeServiceData(v)
}

func (d *Device) remote(prop string) (value.Value, error) {
	v, err := d.proxy.GetProperty(InterfaceDevice, prop)
	return v, wrap(err)
}

// UUIDs returns the set of service UUIDs the device advertises.
func (d *Device) UUIDs() (map[uuid.UUID]struct{}, error) {
	v, err := d.remote("UUIDs")
	if err != nil {
		return nil, err
	}
	return uuidSet(v)
}

// Address returns the device's Bluetooth address.
func (d *Device) Address() (string, error) {
	v, err := d.remote("Address")
	if err != nil {
		return "", err
	}
	return value.AsString.Decode(v)
}

// Paired reports whether the device is paired.
func (d *Device) Paired() (bool, error) {
	v, err := d.remote("Paired")
	if err != nil {
		return false, err
	}
	return value.AsBool.Decode(v)
}

// RSSI returns the signal strength of the last advertisement.
func (d *Device) RSSI() (int16, error) {
	v, err := d.remote("RSSI")
	if err != nil {
		return 0, err
	}
	return value.AsInt16.Decode(v)
}

// Battery waits up to timeout for the device's Battery1 interface. Calls on
// the returned Battery use batteryTimeout.
func (d *Device) Battery(batteryTimeout, timeout time.Duration) (*Battery, bool, error) {
	path, ok, err := objcache.FindFirst(d.client.objects, func(path value.ObjectPath, obj objcache.Object) (value.ObjectPath, bool, error) {
		if path != d.proxy.Path {
			return "", false, nil
		}
		_, has := obj[InterfaceBattery]
		return path, has, nil
	}, timeout)
	if err != nil || !ok {
		return nil, false, wrap(err)
	}
	return &Battery{proxy: d.client.proxy(path, batteryTimeout)}, true, nil
}

// WaitPropertyChange waits up to timeout for the connection to deliver a
// message and reports whether one arrived.
func (d *Device) WaitPropertyChange(timeout time.Duration) (bool, error) {
	ok, err := d.props.WaitChange(timeout)
	return ok, wrap(err)
}

// ServicePredicate selects GATT services by their org.bluez.GattService1
// properties.
type ServicePredicate func(props objcache.Properties) (bool, error)

// FindService waits up to timeout for a GATT service of this device that
// pred selects. A service without a Device property is an error.
func (d *Device) FindService(pred ServicePredicate, serviceTimeout, timeout time.Duration) (*GattService, bool, error) {
	path, ok, err := findInterface(d.client, InterfaceGattService, func(path value.ObjectPath, props objcache.Properties) (value.ObjectPath, bool, error) {
		owner, err := pathProp(props, InterfaceGattService, "Device")
		if err != nil {
			return "", false, err
		}
		if owner != d.proxy.Path {
			return "", false, nil
		}
		ok, err := pred(props)
		return path, ok, err
	}, timeout)
	if err != nil || !ok {
		return nil, false, err
	}
	return &GattService{client: d.client, proxy: d.client.proxy(path, serviceTimeout)}, true, nil
}

// FindServiceByUUID waits for the device's GATT service with the given
// UUID.
func (d *Device) FindServiceByUUID(u uuid.UUID, serviceTimeout, timeout time.Duration) (*GattService, bool, error) {
	return d.FindService(func(props objcache.Properties) (bool, error) {
		su, err := uuidProp(props, InterfaceGattService, "UUID")
		if err != nil {
			return false, err
		}
		return su == u, nil
	}, serviceTimeout, timeout)
}
