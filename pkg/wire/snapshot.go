package wire

import (
	"fmt"
	"io"
	"time"

	"github.com/bluecache/bluecache-go/pkg/value"
)

// SnapshotVersion is the current version of the snapshot format.
const SnapshotVersion = 1

// Objects is the object graph carried by a snapshot:
// path -> interface -> property -> value.
type Objects = map[value.ObjectPath]map[string]map[string]value.Value

// Snapshot is a point-in-time export of a mirrored object graph.
type Snapshot struct {
	// Version is the snapshot format version.
	Version int

	// CapturedAt is when the snapshot was taken.
	CapturedAt time.Time

	// Service is the bus name the objects belong to.
	Service string

	// Objects is the exported object graph.
	Objects Objects
}

// snapshotWire is the CBOR form of a Snapshot.
type snapshotWire struct {
	Version    int                                   `cbor:"1,keyasint"`
	CapturedAt time.Time                             `cbor:"2,keyasint"`
	Service    string                                `cbor:"3,keyasint,omitempty"`
	Objects    map[string]map[string]map[string]Node `cbor:"4,keyasint"`
}

func toWire(s *Snapshot) snapshotWire {
	w := snapshotWire{
		Version:    s.Version,
		CapturedAt: s.CapturedAt,
		Service:    s.Service,
		Objects:    make(map[string]map[string]map[string]Node, len(s.Objects)),
	}
	if w.Version == 0 {
		w.Version = SnapshotVersion
	}
	for path, ifaces := range s.Objects {
		wi := make(map[string]map[string]Node, len(ifaces))
		for iface, props := range ifaces {
			wp := make(map[string]Node, len(props))
			for name, v := range props {
				wp[name] = Node{Value: v}
			}
			wi[iface] = wp
		}
		w.Objects[string(path)] = wi
	}
	return w
}

func fromWire(w snapshotWire) (*Snapshot, error) {
	if w.Version > SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", w.Version)
	}
	s := &Snapshot{
		Version:    w.Version,
		CapturedAt: w.CapturedAt,
		Service:    w.Service,
		Objects:    make(Objects, len(w.Objects)),
	}
	for path, ifaces := range w.Objects {
		oi := make(map[string]map[string]value.Value, len(ifaces))
		for iface, props := range ifaces {
			op := make(map[string]value.Value, len(props))
			for name, n := range props {
				op[name] = n.Value
			}
			oi[iface] = op
		}
		s.Objects[value.ObjectPath(path)] = oi
	}
	return s, nil
}

// EncodeSnapshot encodes a snapshot to CBOR bytes.
func EncodeSnapshot(s *Snapshot) ([]byte, error) {
	return Marshal(toWire(s))
}

// DecodeSnapshot decodes CBOR bytes into a snapshot.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var w snapshotWire
	if err := Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return fromWire(w)
}

// WriteSnapshot encodes s as a single CBOR item on w.
func WriteSnapshot(w io.Writer, s *Snapshot) error {
	return NewEncoder(w).Encode(toWire(s))
}

// ReadSnapshot decodes the next snapshot item from r.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	var w snapshotWire
	if err := NewDecoder(r).Decode(&w); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return fromWire(w)
}
