package bus

import (
	"errors"
	"testing"

	"github.com/bluecache/bluecache-go/pkg/value"
)

func TestParseInterfacesAdded(t *testing.T) {
	sig := Signal{
		Interface: InterfaceObjectManager,
		Member:    MemberInterfacesAdded,
		Body: []value.Value{
			value.ObjectPath("/dev/1"),
			value.NewDict(
				value.String("org.bluez.Battery1"), value.NewDict(
					value.String("Percentage"), value.Variant(value.Byte(80)),
				),
			),
		},
	}

	path, obj, err := ParseInterfacesAdded(sig)
	if err != nil {
		t.Fatalf("ParseInterfacesAdded() error = %v", err)
	}
	if path != "/dev/1" {
		t.Errorf("path = %q, want /dev/1", path)
	}
	got, ok := obj["org.bluez.Battery1"]["Percentage"]
	if !ok {
		t.Fatal("Percentage missing")
	}
	if got != value.Byte(80) {
		t.Errorf("Percentage = %v, want unwrapped Byte(80)", got)
	}
}

func TestParseInterfacesAddedMalformed(t *testing.T) {
	tests := []struct {
		name string
		body []value.Value
	}{
		{"short", []value.Value{value.ObjectPath("/x")}},
		{"bad path", []value.Value{value.Int32(1), value.NewDict()}},
		{"bad interfaces", []value.Value{value.ObjectPath("/x"), value.Bool(true)}},
		{"dangling key", []value.Value{value.ObjectPath("/x"), value.Array{value.String("org.bluez.Device1")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseInterfacesAdded(Signal{Body: tt.body})
			if !errors.Is(err, ErrMalformedSignal) {
				t.Errorf("error = %v, want ErrMalformedSignal", err)
			}
		})
	}
}

func TestParseInterfacesRemoved(t *testing.T) {
	path, ifaces, err := ParseInterfacesRemoved(Signal{Body: []value.Value{
		value.ObjectPath("/org/bluez/hci0/dev_AA"),
		value.Strings("org.bluez.Device1", "org.freedesktop.DBus.Properties"),
	}})
	if err != nil {
		t.Fatalf("ParseInterfacesRemoved() error = %v", err)
	}
	if path != "/org/bluez/hci0/dev_AA" {
		t.Errorf("path = %q", path)
	}
	if len(ifaces) != 2 || ifaces[0] != "org.bluez.Device1" {
		t.Errorf("interfaces = %v", ifaces)
	}

	if _, _, err := ParseInterfacesRemoved(Signal{Body: []value.Value{value.ObjectPath("/x"), value.Array{value.Int32(3)}}}); !errors.Is(err, ErrMalformedSignal) {
		t.Errorf("error = %v, want ErrMalformedSignal", err)
	}
}

func TestParsePropertiesChanged(t *testing.T) {
	iface, changed, invalidated, err := ParsePropertiesChanged(Signal{Body: []value.Value{
		value.String("org.bluez.Device1"),
		value.NewDict(value.String("RSSI"), value.Variant(value.Int16(-60))),
		value.Strings("Name"),
	}})
	if err != nil {
		t.Fatalf("ParsePropertiesChanged() error = %v", err)
	}
	if iface != "org.bluez.Device1" {
		t.Errorf("iface = %q", iface)
	}
	if changed["RSSI"] != value.Int16(-60) {
		t.Errorf("RSSI = %v", changed["RSSI"])
	}
	if len(invalidated) != 1 || invalidated[0] != "Name" {
		t.Errorf("invalidated = %v", invalidated)
	}
}

func TestParsePropertiesChangedWithoutInvalidated(t *testing.T) {
	_, changed, invalidated, err := ParsePropertiesChanged(Signal{Body: []value.Value{
		value.String("org.bluez.Adapter1"),
		value.NewDict(value.String("Powered"), value.Variant(value.Bool(true))),
	}})
	if err != nil {
		t.Fatalf("ParsePropertiesChanged() error = %v", err)
	}
	if changed["Powered"] != value.Bool(true) {
		t.Errorf("Powered = %v", changed["Powered"])
	}
	if invalidated != nil {
		t.Errorf("invalidated = %v, want nil", invalidated)
	}
}
