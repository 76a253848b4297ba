package value

import (
	"reflect"
	"testing"
)

func TestElems(t *testing.T) {
	tests := []struct {
		name   string
		input  Value
		want   []Value
		wantOK bool
	}{
		{"array", Array{Byte(1), Byte(2)}, []Value{Byte(1), Byte(2)}, true},
		{"struct", Struct{String("a")}, []Value{String("a")}, true},
		{"dict flattens", NewDict(String("k"), Byte(1)), []Value{String("k"), Byte(1)}, true},
		{"variant", Variant(Bool(true)), []Value{Bool(true)}, true},
		{"scalar", Int32(1), nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Elems(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Elems() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := Array{Array{Byte(1)}, NewDict(String("k"), Variant(Byte(2)))}
	cp := Clone(orig).(Array)

	cp[0].(Array)[0] = Byte(9)
	if orig[0].(Array)[0] != Byte(1) {
		t.Error("mutating clone changed original")
	}
	if !reflect.DeepEqual(Clone(orig), orig) {
		t.Error("clone differs from original")
	}
}

func TestNewDictOddPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewDict with odd arguments should panic")
		}
	}()
	NewDict(String("k"))
}

func TestKindString(t *testing.T) {
	if KindVariant.String() != "variant" {
		t.Errorf("KindVariant.String() = %q", KindVariant.String())
	}
	if Kind(200).String() != "invalid" {
		t.Errorf("unknown kind String() = %q", Kind(200).String())
	}
	if !KindUint64.IsInteger() || KindDouble.IsInteger() {
		t.Error("IsInteger() misclassifies kinds")
	}
}

func TestFormat(t *testing.T) {
	v := NewDict(String("a"), Variant(Array{Byte(1), ObjectPath("/x")}))
	want := `{"a": <[1, /x]>}`
	if got := Format(v); got != want {
		t.Errorf("Format() = %s, want %s", got, want)
	}
}
