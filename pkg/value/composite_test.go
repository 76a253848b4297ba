package value

import (
	"errors"
	"reflect"
	"testing"
)

func TestSliceOfUint8(t *testing.T) {
	got, err := SliceOf(AsUint8).Decode(Array{Byte(0), Byte(1)})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !reflect.DeepEqual(got, []uint8{0, 1}) {
		t.Errorf("Decode() = %v, want [0 1]", got)
	}
}

func TestSliceOfVariantElements(t *testing.T) {
	got, err := SliceOf(AsUint8).Decode(Array{Variant(Byte(0)), Variant(Byte(1))})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !reflect.DeepEqual(got, []uint8{0, 1}) {
		t.Errorf("Decode() = %v, want [0 1]", got)
	}
}

func TestSliceOfShortCircuits(t *testing.T) {
	got, err := SliceOf(AsUint8).Decode(Array{Byte(0), String("x"), Byte(2)})
	if err == nil {
		t.Fatal("Decode() should fail on the string element")
	}
	if got != nil {
		t.Errorf("Decode() returned partial result %v", got)
	}
}

func TestSliceOfScalarFails(t *testing.T) {
	_, err := SliceOf(AsUint8).Decode(Byte(1))
	var mismatchErr *TypeMismatchError
	if !errors.As(err, &mismatchErr) {
		t.Fatalf("Decode() error = %v, want *TypeMismatchError", err)
	}
	if mismatchErr.To != "slice" {
		t.Errorf("To = %q, want %q", mismatchErr.To, "slice")
	}
}

func TestSliceOfStruct(t *testing.T) {
	got, err := SliceOf(AsRaw).Decode(Struct{Uint16(1), String("a")})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}

func TestSetOfDeduplicates(t *testing.T) {
	got, err := SetOf(AsString).Decode(Strings("a", "b", "a"))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	want := map[string]struct{}{"a": {}, "b": {}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Decode() = %v, want %v", got, want)
	}
}

func TestSetOfFails(t *testing.T) {
	got, err := SetOf(AsString).Decode(Array{String("a"), Int32(1)})
	if err == nil {
		t.Fatal("Decode() should fail")
	}
	if got != nil {
		t.Errorf("Decode() returned partial result %v", got)
	}
}

func TestMapOfStringUint8(t *testing.T) {
	got, err := MapOf(AsString, AsUint8).Decode(NewDict(String("key"), Byte(0)))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !reflect.DeepEqual(got, map[string]uint8{"key": 0}) {
		t.Errorf("Decode() = %v", got)
	}
}

func TestMapOfVariantValue(t *testing.T) {
	got, err := MapOf(AsString, AsUint8).Decode(NewDict(String("key"), Variant(Byte(0))))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !reflect.DeepEqual(got, map[string]uint8{"key": 0}) {
		t.Errorf("Decode() = %v", got)
	}
}

func TestMapOfVariantSliceValue(t *testing.T) {
	v := NewDict(String("key"), Variant(Array{Byte(0), Byte(1)}))
	got, err := MapOf(AsString, SliceOf(AsUint8)).Decode(v)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	want := map[string][]uint8{"key": {0, 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Decode() = %v, want %v", got, want)
	}
}

func TestMapOfMissingValue(t *testing.T) {
	_, err := MapOf(AsString, AsUint8).Decode(Array{String("a"), Byte(1), String("b")})
	if !errors.Is(err, ErrMissingDictionaryValue) {
		t.Errorf("Decode() error = %v, want ErrMissingDictionaryValue", err)
	}
}

func TestMapOfKeyMismatch(t *testing.T) {
	got, err := MapOf(AsString, AsUint8).Decode(NewDict(Byte(1), Byte(1)))
	var mismatchErr *TypeMismatchError
	if !errors.As(err, &mismatchErr) {
		t.Fatalf("Decode() error = %v, want *TypeMismatchError", err)
	}
	if got != nil {
		t.Errorf("Decode() returned partial result %v", got)
	}
}

func TestMapOfLastDuplicateWins(t *testing.T) {
	v := NewDict(String("a"), Byte(1), String("a"), Byte(2))
	got, err := MapOf(AsString, AsUint8).Decode(v)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got["a"] != 2 {
		t.Errorf("got[a] = %d, want 2", got["a"])
	}
}

func TestMapOfNested(t *testing.T) {
	v := NewDict(
		String("org.bluez.Device1"), NewDict(
			String("Name"), Variant(String("speaker")),
			String("RSSI"), Variant(Int16(-40)),
		),
	)
	got, err := MapOf(AsString, MapOf(AsString, AsRaw)).Decode(v)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	props := got["org.bluez.Device1"]
	if props["Name"] != String("speaker") {
		t.Errorf("Name = %v, want speaker", props["Name"])
	}
	if props["RSSI"] != Int16(-40) {
		t.Errorf("RSSI = %v, want -40", props["RSSI"])
	}
}
