package value

import "testing"

func TestIterDefersDecoding(t *testing.T) {
	it, err := IterOf(AsString).Decode(Array{String("a"), Byte(1), Variant(String("c"))})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if it.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", it.Len())
	}

	s, ok, err := it.Next()
	if !ok || err != nil || s != "a" {
		t.Errorf("Next() = %q, %v, %v; want a, true, nil", s, ok, err)
	}

	_, ok, err = it.Next()
	if !ok || err == nil {
		t.Errorf("Next() ok=%v err=%v; want true and an error", ok, err)
	}

	// A failed step does not poison the next one.
	s, ok, err = it.Next()
	if !ok || err != nil || s != "c" {
		t.Errorf("Next() = %q, %v, %v; want c, true, nil", s, ok, err)
	}

	if _, ok, _ = it.Next(); ok {
		t.Error("Next() should report exhaustion")
	}
}

func TestIterReset(t *testing.T) {
	it, err := IterOf(AsUint8).Decode(Array{Byte(1), Byte(2)})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	it.Next()
	it.Next()
	it.Reset()

	v, ok, err := it.Next()
	if !ok || err != nil || v != 1 {
		t.Errorf("Next() after Reset = %d, %v, %v; want 1, true, nil", v, ok, err)
	}
}

func TestIterAll(t *testing.T) {
	it, err := IterOf(AsUint8).Decode(Array{Byte(1), String("x"), Byte(3)})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	var values []uint8
	var failures int
	for v, err := range it.All() {
		if err != nil {
			failures++
			continue
		}
		values = append(values, v)
	}
	if failures != 1 {
		t.Errorf("failures = %d, want 1", failures)
	}
	if len(values) != 2 || values[0] != 1 || values[1] != 3 {
		t.Errorf("values = %v, want [1 3]", values)
	}
}

func TestIterOfScalarFails(t *testing.T) {
	if _, err := IterOf(AsUint8).Decode(Byte(1)); err == nil {
		t.Error("Decode() should fail for a scalar")
	}
}
