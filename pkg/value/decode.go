package value

import "golang.org/x/exp/constraints"

// Decoder converts a Value into a T.
type Decoder[T any] func(Value) (T, error)

// Decode decodes v without looking through variants.
func (d Decoder[T]) Decode(v Value) (T, error) {
	return d(v)
}

// DecodeVariant unwraps exactly one variant level, if present, and decodes
// the result. A variant nested inside the first one is not unwrapped.
func (d Decoder[T]) DecodeVariant(v Value) (T, error) {
	return d(Unwrap(v))
}

// Cast decodes v with d.
func Cast[T any](v Value, d Decoder[T]) (T, error) {
	return d.Decode(v)
}

// CastVariant decodes v with d after unwrapping one variant level.
func CastVariant[T any](v Value, d Decoder[T]) (T, error) {
	return d.DecodeVariant(v)
}

// Primitive decoders.
var (
	AsBool    Decoder[bool]       = decodeBool
	AsFloat64 Decoder[float64]    = decodeFloat64
	AsString  Decoder[string]     = decodeString
	AsPath    Decoder[ObjectPath] = decodePath
	AsRaw     Decoder[Value]      = decodeRaw

	AsUint8  = integer[uint8]("uint8")
	AsUint16 = integer[uint16]("uint16")
	AsUint32 = integer[uint32]("uint32")
	AsUint64 = integer[uint64]("uint64")
	AsInt16  = integer[int16]("int16")
	AsInt32  = integer[int32]("int32")
	AsInt64  = integer[int64]("int64")
)

func decodeBool(v Value) (bool, error) {
	if b, ok := v.(Bool); ok {
		return bool(b), nil
	}
	return false, mismatch(v, "bool")
}

func decodeFloat64(v Value) (float64, error) {
	if f, ok := v.(Double); ok {
		return float64(f), nil
	}
	return 0, mismatch(v, "float64")
}

func decodeString(v Value) (string, error) {
	switch s := v.(type) {
	case String:
		return string(s), nil
	case ObjectPath:
		return string(s), nil
	case Signature:
		return string(s), nil
	}
	return "", mismatch(v, "string")
}

func decodePath(v Value) (ObjectPath, error) {
	switch p := v.(type) {
	case ObjectPath:
		return p, nil
	case String:
		return ObjectPath(p), nil
	}
	return "", mismatch(v, "object_path")
}

func decodeRaw(v Value) (Value, error) {
	if v == nil {
		return nil, mismatch(v, "value")
	}
	return v, nil
}

// integer builds a decoder accepting every integer kind. Conversions follow
// Go semantics, so narrowing truncates.
func integer[T constraints.Integer](name string) Decoder[T] {
	return func(v Value) (T, error) {
		switch n := v.(type) {
		case Byte:
			return T(n), nil
		case Int16:
			return T(n), nil
		case Uint16:
			return T(n), nil
		case Int32:
			return T(n), nil
		case Uint32:
			return T(n), nil
		case Int64:
			return T(n), nil
		case Uint64:
			return T(n), nil
		}
		return 0, mismatch(v, name)
	}
}
