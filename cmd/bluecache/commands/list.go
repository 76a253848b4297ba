package commands

import (
	"fmt"
	"strings"
)

// ListOptions configures the list command.
type ListOptions struct {
	// Interface restricts the listing to objects exposing it.
	Interface string

	// Verbose prints every property.
	Verbose bool
}

// RunList prints every mirrored object.
func RunList(env *Env, opts ListOptions) error {
	c, err := env.openCache()
	if err != nil {
		return err
	}
	defer c.Close()

	n := 0
	for path, obj := range c.Objects() {
		if opts.Interface != "" {
			if _, ok := obj[opts.Interface]; !ok {
				continue
			}
		}
		n++
		ifaces := sortedKeys(obj)
		if !opts.Verbose {
			fmt.Fprintf(env.Out, "%s  %s\n", path, strings.Join(ifaces, ", "))
			continue
		}
		fmt.Fprintln(env.Out, path)
		WriteObject(env.Out, "  ", obj)
	}
	env.logger().Debug("listed objects", "count", n, "total", c.Len())
	return nil
}
