package wire

import (
	"bytes"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/bluecache/bluecache-go/pkg/value"
)

func TestValueRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		value value.Value
	}{
		{"bool", value.Bool(true)},
		{"byte", value.Byte(0xff)},
		{"int16", value.Int16(-40)},
		{"uint16", value.Uint16(65535)},
		{"int32", value.Int32(-1)},
		{"uint32", value.Uint32(7)},
		{"int64", value.Int64(-1 << 40)},
		{"uint64", value.Uint64(1 << 63)},
		{"double", value.Double(2.5)},
		{"string", value.String("hello")},
		{"object path", value.ObjectPath("/org/bluez/hci0")},
		{"signature", value.Signature("a{sv}")},
		{"unix fd", value.UnixFD(3)},
		{"byte array", value.Bytes([]byte{1, 2, 3})},
		{"empty array", value.Array{}},
		{"struct", value.Struct{value.String("a"), value.Uint16(1)}},
		{"dict", value.NewDict(
			value.String("0000180f-0000-1000-8000-00805f9b34fb"), value.Variant(value.Bytes([]byte{0x64})),
			value.String("b"), value.Variant(value.Bool(false)),
		)},
		{"nested variant", value.Variant(value.Variant(value.Byte(5)))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodeValue(tt.value)
			if err != nil {
				t.Fatalf("EncodeValue() error = %v", err)
			}
			got, err := DecodeValue(data)
			if err != nil {
				t.Fatalf("DecodeValue() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.value) {
				t.Errorf("round trip = %#v, want %#v", got, tt.value)
			}
		})
	}
}

func TestEncodeValueKeepsKind(t *testing.T) {
	// A byte and a uint32 with the same number must not collapse.
	a, err := EncodeValue(value.Byte(1))
	if err != nil {
		t.Fatal(err)
	}
	b, err := EncodeValue(value.Uint32(1))
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(a, b) {
		t.Error("byte and uint32 encoded identically")
	}
}

func TestEncodeNilValue(t *testing.T) {
	_, err := EncodeValue(nil)
	if !errors.Is(err, ErrInvalidNode) {
		t.Errorf("EncodeValue(nil) error = %v, want ErrInvalidNode", err)
	}
}

func TestDecodeUnknownKind(t *testing.T) {
	data, err := Marshal([]any{uint8(250), 1})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := DecodeValue(data); !errors.Is(err, ErrInvalidNode) {
		t.Errorf("DecodeValue() error = %v, want ErrInvalidNode", err)
	}
}

func TestValuesRoundTrip(t *testing.T) {
	body := []value.Value{
		value.ObjectPath("/org/bluez/hci0/dev_00_11_22_33_44_55"),
		value.Strings("org.bluez.Battery1"),
	}
	data, err := EncodeValues(body)
	if err != nil {
		t.Fatalf("EncodeValues() error = %v", err)
	}
	got, err := DecodeValues(data)
	if err != nil {
		t.Fatalf("DecodeValues() error = %v", err)
	}
	if !reflect.DeepEqual(got, body) {
		t.Errorf("round trip = %#v, want %#v", got, body)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	snap := &Snapshot{
		CapturedAt: time.Date(2026, 1, 2, 3, 4, 5, 6, time.UTC),
		Service:    "org.bluez",
		Objects: Objects{
			"/org/bluez/hci0": {
				"org.bluez.Adapter1": {
					"Powered": value.Bool(true),
					"Address": value.String("00:11:22:33:44:55"),
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := WriteSnapshot(&buf, snap); err != nil {
		t.Fatalf("WriteSnapshot() error = %v", err)
	}
	got, err := ReadSnapshot(&buf)
	if err != nil {
		t.Fatalf("ReadSnapshot() error = %v", err)
	}

	if got.Version != SnapshotVersion {
		t.Errorf("Version = %d, want %d", got.Version, SnapshotVersion)
	}
	if !got.CapturedAt.Equal(snap.CapturedAt) {
		t.Errorf("CapturedAt = %v, want %v", got.CapturedAt, snap.CapturedAt)
	}
	if got.Service != "org.bluez" {
		t.Errorf("Service = %q", got.Service)
	}
	if !reflect.DeepEqual(got.Objects, snap.Objects) {
		t.Errorf("Objects = %#v, want %#v", got.Objects, snap.Objects)
	}
}

func TestDecodeSnapshotRejectsNewerVersion(t *testing.T) {
	data, err := EncodeSnapshot(&Snapshot{Version: SnapshotVersion + 1})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := DecodeSnapshot(data); err == nil {
		t.Error("DecodeSnapshot() should reject a newer version")
	}
}

func TestPlain(t *testing.T) {
	v := value.NewDict(
		value.String("Name"), value.Variant(value.String("speaker")),
		value.String("UUIDs"), value.Variant(value.Strings("a", "b")),
	)
	got := Plain(v)
	want := map[string]any{
		"Name":  "speaker",
		"UUIDs": []any{"a", "b"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Plain() = %#v, want %#v", got, want)
	}
}
