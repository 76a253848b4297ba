package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/bluecache/bluecache-go/pkg/objcache"
	"github.com/bluecache/bluecache-go/pkg/value"
)

// FindOptions configures the find command.
type FindOptions struct {
	// Interface the object must expose.
	Interface string

	// Property, if set, must be present on Interface.
	Property string

	// Value, if set, must equal the property's value.
	Value string

	// Timeout bounds the wait for new objects.
	Timeout time.Duration

	// All collects every match instead of stopping at the first.
	All bool
}

// Predicate selects the paths of objects matching o.
func (o FindOptions) Predicate() objcache.Predicate[value.ObjectPath] {
	return func(path value.ObjectPath, obj objcache.Object) (value.ObjectPath, bool, error) {
		props, ok := obj[o.Interface]
		if !ok {
			return "", false, nil
		}
		if o.Property == "" {
			return path, true, nil
		}
		v, ok := props[o.Property]
		if !ok {
			return "", false, nil
		}
		return path, o.Value == "" || matchValue(v, o.Value), nil
	}
}

// RunFind waits for objects matching opts and prints their paths.
func RunFind(env *Env, opts FindOptions) error {
	if opts.Interface == "" {
		return errors.New("interface required")
	}
	c, err := env.openCache()
	if err != nil {
		return err
	}
	defer c.Close()

	if opts.All {
		paths, err := objcache.FindAll(c, opts.Predicate(), opts.Timeout)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			return ErrNotFound
		}
		for _, p := range paths {
			fmt.Fprintln(env.Out, p)
		}
		return nil
	}

	path, ok, err := objcache.FindFirst(c, opts.Predicate(), opts.Timeout)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	fmt.Fprintln(env.Out, path)
	return nil
}
