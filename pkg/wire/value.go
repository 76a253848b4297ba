package wire

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/bluecache/bluecache-go/pkg/value"
)

// ErrInvalidNode is returned when encoded data is not a valid [kind, payload]
// node.
var ErrInvalidNode = errors.New("invalid value node")

// node is the on-wire form of a single value.
type node struct {
	_    struct{} `cbor:",toarray"`
	Kind value.Kind
	Data any
}

// rawNode is used while decoding, before the payload type is known.
type rawNode struct {
	_    struct{} `cbor:",toarray"`
	Kind value.Kind
	Data cbor.RawMessage
}

// Node wraps a value so it can be embedded in other CBOR structures.
type Node struct {
	Value value.Value
}

// MarshalCBOR implements cbor.Marshaler.
func (n Node) MarshalCBOR() ([]byte, error) {
	tree, err := toNode(n.Value)
	if err != nil {
		return nil, err
	}
	return Marshal(tree)
}

// UnmarshalCBOR implements cbor.Unmarshaler.
func (n *Node) UnmarshalCBOR(data []byte) error {
	v, err := DecodeValue(data)
	if err != nil {
		return err
	}
	n.Value = v
	return nil
}

// EncodeValue encodes a single value.
func EncodeValue(v value.Value) ([]byte, error) {
	return Node{Value: v}.MarshalCBOR()
}

// DecodeValue decodes a single value.
func DecodeValue(data []byte) (value.Value, error) {
	var raw rawNode
	if err := Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode value: %w", err)
	}
	return fromRaw(raw)
}

// EncodeValues encodes a message body.
func EncodeValues(vs []value.Value) ([]byte, error) {
	nodes := make([]Node, len(vs))
	for i, v := range vs {
		nodes[i] = Node{Value: v}
	}
	return Marshal(nodes)
}

// DecodeValues decodes a message body.
func DecodeValues(data []byte) ([]value.Value, error) {
	var nodes []Node
	if err := Unmarshal(data, &nodes); err != nil {
		return nil, fmt.Errorf("failed to decode values: %w", err)
	}
	vs := make([]value.Value, len(nodes))
	for i, n := range nodes {
		vs[i] = n.Value
	}
	return vs, nil
}

func toNode(v value.Value) (node, error) {
	switch c := v.(type) {
	case nil:
		return node{}, fmt.Errorf("%w: nil value", ErrInvalidNode)
	case value.Bool:
		return node{Kind: value.KindBool, Data: bool(c)}, nil
	case value.Byte:
		return node{Kind: value.KindByte, Data: uint8(c)}, nil
	case value.Int16:
		return node{Kind: value.KindInt16, Data: int16(c)}, nil
	case value.Uint16:
		return node{Kind: value.KindUint16, Data: uint16(c)}, nil
	case value.Int32:
		return node{Kind: value.KindInt32, Data: int32(c)}, nil
	case value.Uint32:
		return node{Kind: value.KindUint32, Data: uint32(c)}, nil
	case value.Int64:
		return node{Kind: value.KindInt64, Data: int64(c)}, nil
	case value.Uint64:
		return node{Kind: value.KindUint64, Data: uint64(c)}, nil
	case value.Double:
		return node{Kind: value.KindDouble, Data: float64(c)}, nil
	case value.String:
		return node{Kind: value.KindString, Data: string(c)}, nil
	case value.ObjectPath:
		return node{Kind: value.KindObjectPath, Data: string(c)}, nil
	case value.Signature:
		return node{Kind: value.KindSignature, Data: string(c)}, nil
	case value.UnixFD:
		return node{Kind: value.KindUnixFD, Data: int32(c)}, nil
	case value.Array:
		elems, err := toNodes(c)
		return node{Kind: value.KindArray, Data: elems}, err
	case value.Struct:
		elems, err := toNodes(c)
		return node{Kind: value.KindStruct, Data: elems}, err
	case value.Dict:
		pairs := make([][2]node, len(c))
		for i, e := range c {
			k, err := toNode(e.Key)
			if err != nil {
				return node{}, err
			}
			val, err := toNode(e.Value)
			if err != nil {
				return node{}, err
			}
			pairs[i] = [2]node{k, val}
		}
		return node{Kind: value.KindDict, Data: pairs}, nil
	case value.VariantValue:
		inner, err := toNode(c.Inner)
		return node{Kind: value.KindVariant, Data: inner}, err
	default:
		return node{}, fmt.Errorf("%w: unsupported kind %s", ErrInvalidNode, v.Kind())
	}
}

func toNodes(vs []value.Value) ([]node, error) {
	out := make([]node, len(vs))
	for i, v := range vs {
		n, err := toNode(v)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func fromRaw(raw rawNode) (value.Value, error) {
	switch raw.Kind {
	case value.KindBool:
		var b bool
		err := scalar(raw.Data, &b)
		return value.Bool(b), err
	case value.KindByte:
		var n uint8
		err := scalar(raw.Data, &n)
		return value.Byte(n), err
	case value.KindInt16:
		var n int16
		err := scalar(raw.Data, &n)
		return value.Int16(n), err
	case value.KindUint16:
		var n uint16
		err := scalar(raw.Data, &n)
		return value.Uint16(n), err
	case value.KindInt32:
		var n int32
		err := scalar(raw.Data, &n)
		return value.Int32(n), err
	case value.KindUint32:
		var n uint32
		err := scalar(raw.Data, &n)
		return value.Uint32(n), err
	case value.KindInt64:
		var n int64
		err := scalar(raw.Data, &n)
		return value.Int64(n), err
	case value.KindUint64:
		var n uint64
		err := scalar(raw.Data, &n)
		return value.Uint64(n), err
	case value.KindDouble:
		var f float64
		err := scalar(raw.Data, &f)
		return value.Double(f), err
	case value.KindString:
		var s string
		err := scalar(raw.Data, &s)
		return value.String(s), err
	case value.KindObjectPath:
		var s string
		err := scalar(raw.Data, &s)
		return value.ObjectPath(s), err
	case value.KindSignature:
		var s string
		err := scalar(raw.Data, &s)
		return value.Signature(s), err
	case value.KindUnixFD:
		var fd int32
		err := scalar(raw.Data, &fd)
		return value.UnixFD(fd), err
	case value.KindArray:
		elems, err := fromRawList(raw.Data)
		return value.Array(elems), err
	case value.KindStruct:
		elems, err := fromRawList(raw.Data)
		return value.Struct(elems), err
	case value.KindDict:
		var pairs [][2]rawNode
		if err := Unmarshal(raw.Data, &pairs); err != nil {
			return nil, fmt.Errorf("%w: dict: %v", ErrInvalidNode, err)
		}
		d := make(value.Dict, len(pairs))
		for i, p := range pairs {
			k, err := fromRaw(p[0])
			if err != nil {
				return nil, err
			}
			v, err := fromRaw(p[1])
			if err != nil {
				return nil, err
			}
			d[i] = value.DictEntry{Key: k, Value: v}
		}
		return d, nil
	case value.KindVariant:
		var inner rawNode
		if err := Unmarshal(raw.Data, &inner); err != nil {
			return nil, fmt.Errorf("%w: variant: %v", ErrInvalidNode, err)
		}
		v, err := fromRaw(inner)
		if err != nil {
			return nil, err
		}
		return value.Variant(v), nil
	default:
		return nil, fmt.Errorf("%w: unknown kind %d", ErrInvalidNode, raw.Kind)
	}
}

func fromRawList(data cbor.RawMessage) ([]value.Value, error) {
	var raws []rawNode
	if err := Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("%w: list: %v", ErrInvalidNode, err)
	}
	out := make([]value.Value, len(raws))
	for i, r := range raws {
		v, err := fromRaw(r)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func scalar(data cbor.RawMessage, dst any) error {
	if err := Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidNode, err)
	}
	return nil
}
