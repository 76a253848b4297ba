package wire

import "github.com/bluecache/bluecache-go/pkg/value"

// Plain converts v into plain Go values (bool, integers, float64, string,
// []any, map[string]any) for text encoders such as YAML or JSON. Kind
// information is lost: variants are flattened, and dict keys are
// formatted as strings.
func Plain(v value.Value) any {
	switch c := v.(type) {
	case nil:
		return nil
	case value.Bool:
		return bool(c)
	case value.Byte:
		return uint8(c)
	case value.Int16:
		return int16(c)
	case value.Uint16:
		return uint16(c)
	case value.Int32:
		return int32(c)
	case value.Uint32:
		return uint32(c)
	case value.Int64:
		return int64(c)
	case value.Uint64:
		return uint64(c)
	case value.Double:
		return float64(c)
	case value.String:
		return string(c)
	case value.ObjectPath:
		return string(c)
	case value.Signature:
		return string(c)
	case value.UnixFD:
		return int32(c)
	case value.Array:
		return plainList(c)
	case value.Struct:
		return plainList(c)
	case value.Dict:
		m := make(map[string]any, len(c))
		for _, e := range c {
			key := value.Format(e.Key)
			if s, ok := e.Key.(value.String); ok {
				key = string(s)
			}
			m[key] = Plain(e.Value)
		}
		return m
	case value.VariantValue:
		return Plain(c.Inner)
	default:
		return nil
	}
}

func plainList(vs []value.Value) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = Plain(v)
	}
	return out
}

// PlainObjects converts an object graph with Plain.
func PlainObjects(objects Objects) map[string]map[string]map[string]any {
	out := make(map[string]map[string]map[string]any, len(objects))
	for path, ifaces := range objects {
		oi := make(map[string]map[string]any, len(ifaces))
		for iface, props := range ifaces {
			op := make(map[string]any, len(props))
			for name, v := range props {
				op[name] = Plain(v)
			}
			oi[iface] = op
		}
		out[string(path)] = oi
	}
	return out
}
