package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/bluecache/bluecache-go/pkg/objcache"
	"github.com/bluecache/bluecache-go/pkg/value"
)

// WatchOptions configures the watch command.
type WatchOptions struct {
	Path      value.ObjectPath
	Interface string

	// Count stops the watch after this many changes. Zero means no limit.
	Count int

	// UntilIdle stops the watch at the first wait without traffic.
	UntilIdle bool
}

// RunWatch mirrors the properties of one interface and prints every change
// until ctx ends or a stop condition of opts is met.
func RunWatch(ctx context.Context, env *Env, opts WatchOptions) error {
	proxy := env.proxy(opts.Path)
	pc, err := objcache.NewPropertyCache(proxy, objcache.WithLogger(env.logger()))
	if err != nil {
		return err
	}
	defer pc.Close()

	// The subscription must exist before the initial read.
	initial, err := proxy.GetAllProperties(opts.Interface)
	if err != nil {
		return err
	}
	pc.Seed(opts.Interface, initial)

	writeProps(env.Out, "", initial)
	prev := pc.Snapshot()[opts.Interface]

	changes := 0
	for ctx.Err() == nil {
		ok, err := pc.WaitChange(env.Config.Timeouts.Wait)
		if err != nil {
			return err
		}
		if !ok {
			if opts.UntilIdle {
				return nil
			}
			continue
		}
		cur := pc.Snapshot()[opts.Interface]
		changes += writeDiff(env.Out, opts.Interface, prev, cur)
		prev = cur
		if opts.Count > 0 && changes >= opts.Count {
			return nil
		}
	}
	return nil
}

// writeDiff prints the differences between two property sets and returns
// how many there were.
func writeDiff(w io.Writer, iface string, prev, cur objcache.Properties) int {
	n := 0
	for _, name := range sortedKeys(cur) {
		old, had := prev[name]
		v := cur[name]
		switch {
		case !had:
			fmt.Fprintf(w, "%s.%s = %s\n", iface, name, value.Format(v))
		case value.Format(old) != value.Format(v):
			fmt.Fprintf(w, "%s.%s: %s -> %s\n", iface, name, value.Format(old), value.Format(v))
		default:
			continue
		}
		n++
	}
	for _, name := range sortedKeys(prev) {
		if _, ok := cur[name]; !ok {
			fmt.Fprintf(w, "%s.%s invalidated\n", iface, name)
			n++
		}
	}
	return n
}
