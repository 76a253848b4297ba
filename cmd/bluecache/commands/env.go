// Package commands implements the bluecache CLI commands.
package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"

	"github.com/bluecache/bluecache-go/pkg/bus"
	"github.com/bluecache/bluecache-go/pkg/config"
	"github.com/bluecache/bluecache-go/pkg/objcache"
	"github.com/bluecache/bluecache-go/pkg/value"
)

// ErrNotFound is returned when a lookup ends without a result.
var ErrNotFound = errors.New("not found")

// Env carries what every command needs.
type Env struct {
	Conn   bus.Conn
	Config config.Config
	Out    io.Writer
	Logger *slog.Logger
}

func (e *Env) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

func (e *Env) proxy(path value.ObjectPath) *bus.Proxy {
	return bus.NewProxy(e.Conn, e.Config.Service, path, e.Config.Timeouts.Call)
}

func (e *Env) openCache() (*objcache.Cache, error) {
	c, err := objcache.New(e.proxy(value.ObjectPath(e.Config.Manager)), objcache.WithLogger(e.logger()))
	if err != nil {
		return nil, fmt.Errorf("enumerate %s: %w", e.Config.Service, err)
	}
	return c, nil
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}

// WriteObject prints every interface of obj with its properties.
func WriteObject(w io.Writer, indent string, obj objcache.Object) {
	for _, iface := range sortedKeys(obj) {
		fmt.Fprintf(w, "%s%s\n", indent, iface)
		writeProps(w, indent+"  ", obj[iface])
	}
}

func writeProps(w io.Writer, indent string, props objcache.Properties) {
	for _, name := range sortedKeys(props) {
		fmt.Fprintf(w, "%s%s = %s\n", indent, name, value.Format(props[name]))
	}
}

// matchValue compares v against its textual form. Strings, paths and
// signatures compare unquoted; everything else by value.Format.
func matchValue(v value.Value, want string) bool {
	switch s := value.Unwrap(v).(type) {
	case value.String:
		return string(s) == want
	case value.ObjectPath:
		return string(s) == want
	case value.Signature:
		return string(s) == want
	}
	return value.Format(v) == want
}
