package bus

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"strconv"

	"github.com/godbus/dbus/v5"

	"github.com/bluecache/bluecache-go/pkg/value"
)

// FromDBus converts a value decoded by godbus into a Value tree.
//
// godbus represents structs as []interface{}, variants as dbus.Variant and
// arrays and dictionaries as typed slices and maps. Map entries are sorted
// by key so conversions are deterministic.
func FromDBus(v any) (value.Value, error) {
	switch x := v.(type) {
	case value.Value:
		return x, nil
	case bool:
		return value.Bool(x), nil
	case byte:
		return value.Byte(x), nil
	case int16:
		return value.Int16(x), nil
	case uint16:
		return value.Uint16(x), nil
	case int32:
		return value.Int32(x), nil
	case uint32:
		return value.Uint32(x), nil
	case int64:
		return value.Int64(x), nil
	case uint64:
		return value.Uint64(x), nil
	case float64:
		return value.Double(x), nil
	case string:
		return value.String(x), nil
	case dbus.ObjectPath:
		return value.ObjectPath(x), nil
	case dbus.Signature:
		return value.Signature(x.String()), nil
	case dbus.UnixFD:
		return value.UnixFD(x), nil
	case dbus.UnixFDIndex:
		return value.UnixFD(x), nil
	case dbus.Variant:
		inner, err := FromDBus(x.Value())
		if err != nil {
			return nil, err
		}
		return value.Variant(inner), nil
	case []any:
		fields, err := FromDBusSlice(x)
		if err != nil {
			return nil, err
		}
		return value.Struct(fields), nil
	case nil:
		return nil, fmt.Errorf("%w: nil", ErrUnsupportedType)
	}
	return fromReflect(reflect.ValueOf(v))
}

// FromDBusSlice converts a message body.
func FromDBusSlice(body []any) ([]value.Value, error) {
	out := make([]value.Value, len(body))
	for i, e := range body {
		v, err := FromDBus(e)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func fromReflect(rv reflect.Value) (value.Value, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, fmt.Errorf("%w: nil %s", ErrUnsupportedType, rv.Type())
		}
		return FromDBus(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		out := make(value.Array, rv.Len())
		for i := range out {
			e, err := FromDBus(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out[i] = e
		}
		return out, nil
	case reflect.Map:
		keys := rv.MapKeys()
		slices.SortFunc(keys, compareKeys)
		out := make(value.Dict, 0, len(keys))
		for _, k := range keys {
			key, err := FromDBus(k.Interface())
			if err != nil {
				return nil, err
			}
			val, err := FromDBus(rv.MapIndex(k).Interface())
			if err != nil {
				return nil, err
			}
			out = append(out, value.DictEntry{Key: key, Value: val})
		}
		return out, nil
	case reflect.Struct:
		var out value.Struct
		for i := 0; i < rv.NumField(); i++ {
			if !rv.Type().Field(i).IsExported() {
				continue
			}
			f, err := FromDBus(rv.Field(i).Interface())
			if err != nil {
				return nil, err
			}
			out = append(out, f)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, rv.Type())
}

func compareKeys(a, b reflect.Value) int {
	switch a.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(a.Int(), b.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return cmp.Compare(a.Uint(), b.Uint())
	case reflect.Float32, reflect.Float64:
		return cmp.Compare(a.Float(), b.Float())
	case reflect.Bool:
		return cmp.Compare(strconv.FormatBool(a.Bool()), strconv.FormatBool(b.Bool()))
	default:
		return cmp.Compare(fmt.Sprint(a.Interface()), fmt.Sprint(b.Interface()))
	}
}

// ToDBus converts a Value tree into the Go representation godbus marshals.
//
// Arrays and dicts must be homogeneous. An empty Array becomes an array of
// variants and an empty Dict becomes a{sv}, the two shapes BlueZ accepts for
// empty options. Structs become anonymous Go structs with one field per
// element.
func ToDBus(v value.Value) (any, error) {
	switch x := v.(type) {
	case value.Bool:
		return bool(x), nil
	case value.Byte:
		return byte(x), nil
	case value.Int16:
		return int16(x), nil
	case value.Uint16:
		return uint16(x), nil
	case value.Int32:
		return int32(x), nil
	case value.Uint32:
		return uint32(x), nil
	case value.Int64:
		return int64(x), nil
	case value.Uint64:
		return uint64(x), nil
	case value.Double:
		return float64(x), nil
	case value.String:
		return string(x), nil
	case value.ObjectPath:
		return dbus.ObjectPath(x), nil
	case value.Signature:
		sig, err := dbus.ParseSignature(string(x))
		if err != nil {
			return nil, err
		}
		return sig, nil
	case value.UnixFD:
		return dbus.UnixFD(x), nil
	case value.VariantValue:
		inner, err := ToDBus(x.Inner)
		if err != nil {
			return nil, err
		}
		return dbus.MakeVariant(inner), nil
	case value.Array:
		return arrayToDBus(x)
	case value.Dict:
		return dictToDBus(x)
	case value.Struct:
		return structToDBus(x)
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, v)
}

func arrayToDBus(a value.Array) (any, error) {
	if len(a) == 0 {
		return []dbus.Variant{}, nil
	}
	elems := make([]reflect.Value, len(a))
	for i, e := range a {
		g, err := ToDBus(e)
		if err != nil {
			return nil, err
		}
		elems[i] = reflect.ValueOf(g)
		if elems[i].Type() != elems[0].Type() {
			return nil, fmt.Errorf("%w: mixed array of %s and %s", ErrUnsupportedType, elems[0].Type(), elems[i].Type())
		}
	}
	out := reflect.MakeSlice(reflect.SliceOf(elems[0].Type()), 0, len(elems))
	return reflect.Append(out, elems...).Interface(), nil
}

func dictToDBus(d value.Dict) (any, error) {
	if len(d) == 0 {
		return map[string]dbus.Variant{}, nil
	}
	var out reflect.Value
	for _, e := range d {
		k, err := ToDBus(e.Key)
		if err != nil {
			return nil, err
		}
		val, err := ToDBus(e.Value)
		if err != nil {
			return nil, err
		}
		kv, vv := reflect.ValueOf(k), reflect.ValueOf(val)
		if !out.IsValid() {
			if !kv.Type().Comparable() {
				return nil, fmt.Errorf("%w: dict key %s", ErrUnsupportedType, kv.Type())
			}
			out = reflect.MakeMapWithSize(reflect.MapOf(kv.Type(), vv.Type()), len(d))
		}
		if kv.Type() != out.Type().Key() || vv.Type() != out.Type().Elem() {
			return nil, fmt.Errorf("%w: mixed dict entry %s=%s", ErrUnsupportedType, kv.Type(), vv.Type())
		}
		out.SetMapIndex(kv, vv)
	}
	return out.Interface(), nil
}

func structToDBus(s value.Struct) (any, error) {
	if len(s) == 0 {
		return nil, fmt.Errorf("%w: empty struct", ErrUnsupportedType)
	}
	fields := make([]reflect.StructField, len(s))
	vals := make([]reflect.Value, len(s))
	for i, e := range s {
		g, err := ToDBus(e)
		if err != nil {
			return nil, err
		}
		vals[i] = reflect.ValueOf(g)
		fields[i] = reflect.StructField{Name: "F" + strconv.Itoa(i), Type: vals[i].Type()}
	}
	out := reflect.New(reflect.StructOf(fields)).Elem()
	for i, v := range vals {
		out.Field(i).Set(v)
	}
	return out.Interface(), nil
}

// argsToDBus converts call arguments, passing plain Go values through.
func argsToDBus(args []any) ([]any, error) {
	out := make([]any, len(args))
	for i, a := range args {
		v, ok := a.(value.Value)
		if !ok {
			out[i] = a
			continue
		}
		g, err := ToDBus(v)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out[i] = g
	}
	return out, nil
}
