package bluez

import (
	"time"

	"github.com/google/uuid"

	"github.com/bluecache/bluecache-go/pkg/bus"
	"github.com/bluecache/bluecache-go/pkg/objcache"
	"github.com/bluecache/bluecache-go/pkg/value"
)

// DevicePredicate selects devices by their org.bluez.Device1 properties.
type DevicePredicate func(props objcache.Properties) (bool, error)

// Adapter is an org.bluez.Adapter1 object.
type Adapter struct {
	client *Client
	proxy  *bus.Proxy
}

// Path returns the adapter's object path.
func (a *Adapter) Path() value.ObjectPath {
	return a.proxy.Path
}

// StartDiscovery starts device discovery.
func (a *Adapter) StartDiscovery() error {
	_, err := a.proxy.Call(InterfaceAdapter, "StartDiscovery")
	return wrap(err)
}

// StopDiscovery stops device discovery.
func (a *Adapter) StopDiscovery() error {
	_, err := a.proxy.Call(InterfaceAdapter, "StopDiscovery")
	return wrap(err)
}

// Powered reports whether the adapter is powered.
func (a *Adapter) Powered() (bool, error) {
	v, err := a.proxy.GetProperty(InterfaceAdapter, "Powered")
	if err != nil {
		return false, wrap(err)
	}
	return value.AsBool.Decode(v)
}

// SetPowered switches the adapter on or off.
func (a *Adapter) SetPowered(on bool) error {
	return wrap(a.proxy.SetProperty(InterfaceAdapter, "Powered", value.Bool(on)))
}

// Address returns the adapter's Bluetooth address.
func (a *Adapter) Address() (string, error) {
	v, err := a.proxy.GetProperty(InterfaceAdapter, "Address")
	if err != nil {
		return "", wrap(err)
	}
	return value.AsString.Decode(v)
}

func (a *Adapter) matchDevice(pred DevicePredicate) func(value.ObjectPath, objcache.Properties) (value.ObjectPath, bool, error) {
	return func(path value.ObjectPath, props objcache.Properties) (value.ObjectPath, bool, error) {
		ok, err := pred(props)
		if err != nil || !ok {
			return "", false, err
		}
		return path, true, nil
	}
}

// FindDevice waits up to timeout for a device pred selects. Calls on the
// returned Device use deviceTimeout. The Device must be closed.
func (a *Adapter) FindDevice(pred DevicePredicate, deviceTimeout, timeout time.Duration) (*Device, bool, error) {
	path, ok, err := findInterface(a.client, InterfaceDevice, a.matchDevice(pred), timeout)
	if err != nil || !ok {
		return nil, false, err
	}
	d, err := newDevice(a.client, path, deviceTimeout)
	if err != nil {
		return nil, false, err
	}
	return d, true, nil
}

// FindDevices collects every device pred selects until a wait of up to
// timeout sees no further traffic. The first predicate error aborts the
// search.
func (a *Adapter) FindDevices(pred DevicePredicate, deviceTimeout, timeout time.Duration) ([]*Device, error) {
	sel := a.matchDevice(pred)
	paths, err := objcache.FindAll(a.client.objects, func(path value.ObjectPath, obj objcache.Object) (value.ObjectPath, bool, error) {
		props, ok := obj[InterfaceDevice]
		if !ok {
			return "", false, nil
		}
		return sel(path, props)
	}, timeout)
	if err != nil {
		return nil, wrap(err)
	}

	devices := make([]*Device, 0, len(paths))
	for _, path := range paths {
		d, err := newDevice(a.client, path, deviceTimeout)
		if err != nil {
			for _, prev := range devices {
				prev.Close()
			}
			return nil, err
		}
		devices = append(devices, d)
	}
	return devices, nil
}

// Devices returns every device, waiting up to timeout for more to appear.
func (a *Adapter) Devices(deviceTimeout, timeout time.Duration) ([]*Device, error) {
	return a.FindDevices(func(objcache.Properties) (bool, error) { return true, nil }, deviceTimeout, timeout)
}

// FindDeviceByAddress waits for the device with the given address. A
// device without an Address property is an error.
func (a *Adapter) FindDeviceByAddress(address string, deviceTimeout, timeout time.Duration) (*Device, bool, error) {
	return a.FindDevice(func(props objcache.Properties) (bool, error) {
		addr, err := stringProp(props, InterfaceDevice, "Address")
		if err != nil {
			return false, err
		}
		return addr == address, nil
	}, deviceTimeout, timeout)
}

// FindDevicesByUUIDs collects devices whose advertised UUID set pred
// accepts. Devices without a UUIDs property are skipped.
func (a *Adapter) FindDevicesByUUIDs(pred func(map[uuid.UUID]struct{}) bool, deviceTimeout, timeout time.Duration) ([]*Device, error) {
	return a.FindDevices(func(props objcache.Properties) (bool, error) {
		v, ok := props["UUIDs"]
		if !ok {
			return false, nil
		}
		set, err := uuidSet(v)
		if err != nil {
			return false, err
		}
		return pred(set), nil
	}, deviceTimeout, timeout)
}

// FindDevicesWithUUID collects devices advertising u.
func (a *Adapter) FindDevicesWithUUID(u uuid.UUID, deviceTimeout, timeout time.Duration) ([]*Device, error) {
	return a.FindDevicesByUUIDs(func(set map[uuid.UUID]struct{}) bool {
		_, ok := set[u]
		return ok
	}, deviceTimeout, timeout)
}

// FindDevicesWithUUIDs collects devices advertising any of uuids.
func (a *Adapter) FindDevicesWithUUIDs(uuids []uuid.UUID, deviceTimeout, timeout time.Duration) ([]*Device, error) {
	return a.FindDevicesByUUIDs(func(set map[uuid.UUID]struct{}) bool {
		for _, u := range uuids {
			if _, ok := set[u]; ok {
				return true
			}
		}
		return false
	}, deviceTimeout, timeout)
}

// FindDevicesWithAllUUIDs collects devices advertising every one of uuids.
func (a *Adapter) FindDevicesWithAllUUIDs(uuids []uuid.UUID, deviceTimeout, timeout time.Duration) ([]*Device, error) {
	return a.FindDevicesByUUIDs(func(set map[uuid.UUID]struct{}) bool {
		for _, u := range uuids {
			if _, ok := set[u]; !ok {
				return false
			}
		}
		return true
	}, deviceTimeout, timeout)
}
