package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bluecache/bluecache-go/pkg/bluez"
)

// DevicesOptions configures the devices command.
type DevicesOptions struct {
	// Discover runs discovery on the adapter while waiting.
	Discover bool

	// UUIDs restricts the listing to devices advertising all of them.
	UUIDs []string

	// Timeout bounds the wait for devices.
	Timeout time.Duration
}

func (e *Env) bluezAdapter() (*bluez.Client, *bluez.Adapter, error) {
	client, err := bluez.New(e.Conn, e.Config.Timeouts.Call, bluez.WithLogger(e.logger()))
	if err != nil {
		return nil, nil, err
	}
	adapter, ok, err := client.FirstAdapter(e.Config.Timeouts.Call, e.Config.Timeouts.Find)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	if !ok {
		client.Close()
		return nil, nil, fmt.Errorf("adapter: %w", ErrNotFound)
	}
	return client, adapter, nil
}

// RunDevices lists the devices known to the first adapter.
func RunDevices(env *Env, opts DevicesOptions) error {
	uuids := make([]uuid.UUID, 0, len(opts.UUIDs))
	for _, s := range opts.UUIDs {
		u, err := uuid.Parse(s)
		if err != nil {
			return fmt.Errorf("parse UUID %q: %w", s, err)
		}
		uuids = append(uuids, u)
	}

	client, adapter, err := env.bluezAdapter()
	if err != nil {
		return err
	}
	defer client.Close()

	if opts.Discover {
		if err := adapter.StartDiscovery(); err != nil && !bluez.IsKind(err, bluez.InProgress) {
			return fmt.Errorf("start discovery: %w", err)
		}
		defer func() {
			if err := adapter.StopDiscovery(); err != nil {
				env.logger().Warn("stop discovery failed", "error", err)
			}
		}()
	}

	var devices []*bluez.Device
	if len(uuids) > 0 {
		devices, err = adapter.FindDevicesWithAllUUIDs(uuids, env.Config.Timeouts.Call, opts.Timeout)
	} else {
		devices, err = adapter.Devices(env.Config.Timeouts.Call, opts.Timeout)
	}
	if err != nil {
		return err
	}

	for _, d := range devices {
		writeDevice(env, d)
		d.Close()
	}
	return nil
}

func writeDevice(env *Env, d *bluez.Device) {
	addr, err := d.Address()
	if err != nil {
		addr = "-"
	}
	name, err := d.Name()
	if err != nil {
		var mp *bluez.MissingPropertyError
		if !errors.As(err, &mp) {
			env.logger().Debug("device name unavailable", "path", d.Path(), "error", err)
		}
		name = "-"
	}
	rssi := "-"
	if n, err := d.RSSI(); err == nil {
		rssi = fmt.Sprintf("%d dBm", n)
	}
	fmt.Fprintf(env.Out, "%s  %-17s  %-8s  %s\n", d.Path(), addr, rssi, name)
}

// RunBattery prints the battery level of the device with the given
// address.
func RunBattery(env *Env, address string) error {
	client, adapter, err := env.bluezAdapter()
	if err != nil {
		return err
	}
	defer client.Close()

	d, ok, err := adapter.FindDeviceByAddress(address, env.Config.Timeouts.Call, env.Config.Timeouts.Find)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("device %s: %w", address, ErrNotFound)
	}
	defer d.Close()

	bat, ok, err := d.Battery(env.Config.Timeouts.Call, env.Config.Timeouts.Find)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("battery of %s: %w", address, ErrNotFound)
	}
	pct, err := bat.Percentage()
	if err != nil {
		return err
	}
	fmt.Fprintf(env.Out, "%s: %d%%\n", address, pct)
	return nil
}
