package value

import "fmt"

// Kind identifies the concrete type of a Value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindByte
	KindInt16
	KindUint16
	KindInt32
	KindUint32
	KindInt64
	KindUint64
	KindDouble
	KindString
	KindObjectPath
	KindSignature
	KindUnixFD
	KindArray
	KindDict
	KindStruct
	KindVariant
)

// String returns the D-Bus type name of the kind.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "boolean"
	case KindByte:
		return "byte"
	case KindInt16:
		return "int16"
	case KindUint16:
		return "uint16"
	case KindInt32:
		return "int32"
	case KindUint32:
		return "uint32"
	case KindInt64:
		return "int64"
	case KindUint64:
		return "uint64"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindObjectPath:
		return "object_path"
	case KindSignature:
		return "signature"
	case KindUnixFD:
		return "unix_fd"
	case KindArray:
		return "array"
	case KindDict:
		return "dict"
	case KindStruct:
		return "struct"
	case KindVariant:
		return "variant"
	default:
		return "invalid"
	}
}

// IsInteger reports whether the kind is one of the integer kinds.
func (k Kind) IsInteger() bool {
	return k >= KindByte && k <= KindUint64
}

// Value is a single D-Bus value.
//
// The set of implementations is closed; only the types in this package
// satisfy it.
type Value interface {
	// Kind returns the concrete kind of the value.
	Kind() Kind

	isValue()
}

// Scalar kinds.
type (
	Bool       bool
	Byte       uint8
	Int16      int16
	Uint16     uint16
	Int32      int32
	Uint32     uint32
	Int64      int64
	Uint64     uint64
	Double     float64
	String     string
	ObjectPath string
	Signature  string
	UnixFD     int32
)

// Array is an ordered sequence of values.
type Array []Value

// DictEntry is one key/value pair of a Dict.
type DictEntry struct {
	Key   Value
	Value Value
}

// Dict is a mapping from values to values, kept in wire order.
type Dict []DictEntry

// Struct is a fixed sequence of fields.
type Struct []Value

// VariantValue wraps exactly one inner value.
type VariantValue struct {
	Inner Value
}

func (Bool) Kind() Kind         { return KindBool }
func (Byte) Kind() Kind         { return KindByte }
func (Int16) Kind() Kind        { return KindInt16 }
func (Uint16) Kind() Kind       { return KindUint16 }
func (Int32) Kind() Kind        { return KindInt32 }
func (Uint32) Kind() Kind       { return KindUint32 }
func (Int64) Kind() Kind        { return KindInt64 }
func (Uint64) Kind() Kind       { return KindUint64 }
func (Double) Kind() Kind       { return KindDouble }
func (String) Kind() Kind       { return KindString }
func (ObjectPath) Kind() Kind   { return KindObjectPath }
func (Signature) Kind() Kind    { return KindSignature }
func (UnixFD) Kind() Kind       { return KindUnixFD }
func (Array) Kind() Kind        { return KindArray }
func (Dict) Kind() Kind         { return KindDict }
func (Struct) Kind() Kind       { return KindStruct }
func (VariantValue) Kind() Kind { return KindVariant }

func (Bool) isValue()         {}
func (Byte) isValue()         {}
func (Int16) isValue()        {}
func (Uint16) isValue()       {}
func (Int32) isValue()        {}
func (Uint32) isValue()       {}
func (Int64) isValue()        {}
func (Uint64) isValue()       {}
func (Double) isValue()       {}
func (String) isValue()       {}
func (ObjectPath) isValue()   {}
func (Signature) isValue()    {}
func (UnixFD) isValue()       {}
func (Array) isValue()        {}
func (Dict) isValue()         {}
func (Struct) isValue()       {}
func (VariantValue) isValue() {}

// Variant wraps v in a single variant level.
func Variant(v Value) VariantValue {
	return VariantValue{Inner: v}
}

// NewDict builds a Dict from alternating keys and values.
// It panics if given an odd number of arguments.
func NewDict(kv ...Value) Dict {
	if len(kv)%2 != 0 {
		panic("value: NewDict needs an even number of arguments")
	}
	d := make(Dict, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		d = append(d, DictEntry{Key: kv[i], Value: kv[i+1]})
	}
	return d
}

// Bytes builds an Array of Byte values.
func Bytes(b []byte) Array {
	a := make(Array, len(b))
	for i, c := range b {
		a[i] = Byte(c)
	}
	return a
}

// Strings builds an Array of String values.
func Strings(s ...string) Array {
	a := make(Array, len(s))
	for i, str := range s {
		a[i] = String(str)
	}
	return a
}

// Elems returns the element stream of a container value.
//
// Arrays and structs yield their elements in order, dicts yield the
// flattened key, value, key, value sequence, and a variant yields its single
// inner value. Scalars report ok=false.
func Elems(v Value) (elems []Value, ok bool) {
	switch c := v.(type) {
	case Array:
		return c, true
	case Struct:
		return c, true
	case Dict:
		flat := make([]Value, 0, 2*len(c))
		for _, e := range c {
			flat = append(flat, e.Key, e.Value)
		}
		return flat, true
	case VariantValue:
		return []Value{c.Inner}, true
	default:
		return nil, false
	}
}

// Unwrap strips one variant level. Non-variant values are returned as-is.
func Unwrap(v Value) Value {
	if vv, ok := v.(VariantValue); ok {
		return vv.Inner
	}
	return v
}

// Clone returns a deep copy of v. Scalars are returned unchanged.
func Clone(v Value) Value {
	switch c := v.(type) {
	case Array:
		out := make(Array, len(c))
		for i, e := range c {
			out[i] = Clone(e)
		}
		return out
	case Struct:
		out := make(Struct, len(c))
		for i, e := range c {
			out[i] = Clone(e)
		}
		return out
	case Dict:
		out := make(Dict, len(c))
		for i, e := range c {
			out[i] = DictEntry{Key: Clone(e.Key), Value: Clone(e.Value)}
		}
		return out
	case VariantValue:
		return VariantValue{Inner: Clone(c.Inner)}
	default:
		return v
	}
}

// Format renders v in a compact, human-readable form.
func Format(v Value) string {
	switch c := v.(type) {
	case nil:
		return "<nil>"
	case String:
		return fmt.Sprintf("%q", string(c))
	case ObjectPath:
		return string(c)
	case Signature:
		return "sig(" + string(c) + ")"
	case Array:
		return formatSeq("[", "]", c)
	case Struct:
		return formatSeq("(", ")", c)
	case Dict:
		s := "{"
		for i, e := range c {
			if i > 0 {
				s += ", "
			}
			s += Format(e.Key) + ": " + Format(e.Value)
		}
		return s + "}"
	case VariantValue:
		return "<" + Format(c.Inner) + ">"
	default:
		return fmt.Sprintf("%v", c)
	}
}

func formatSeq(start, end string, elems []Value) string {
	s := start
	for i, e := range elems {
		if i > 0 {
			s += ", "
		}
		s += Format(e)
	}
	return s + end
}
