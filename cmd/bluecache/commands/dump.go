package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bluecache/bluecache-go/pkg/config"
	"github.com/bluecache/bluecache-go/pkg/wire"
)

// RunDump writes the mirrored object graph to w in the given format.
// CBOR keeps every value's kind; YAML and JSON are for reading.
func RunDump(env *Env, format string, w io.Writer) error {
	c, err := env.openCache()
	if err != nil {
		return err
	}
	defer c.Close()

	snap := &wire.Snapshot{
		Version:    wire.SnapshotVersion,
		CapturedAt: time.Now().UTC(),
		Service:    env.Config.Service,
		Objects:    c.Snapshot(),
	}

	switch format {
	case config.FormatCBOR:
		return wire.WriteSnapshot(w, snap)
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(wire.PlainObjects(snap.Objects)); err != nil {
			return err
		}
		return enc.Close()
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(wire.PlainObjects(snap.Objects))
	default:
		return fmt.Errorf("unknown format: %s (supported: cbor, yaml, json)", format)
	}
}
