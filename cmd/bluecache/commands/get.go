package commands

import (
	"fmt"

	"github.com/bluecache/bluecache-go/pkg/objcache"
	"github.com/bluecache/bluecache-go/pkg/value"
)

// RunGet prints one property, or every property of iface when prop is
// empty.
func RunGet(env *Env, path value.ObjectPath, iface, prop string) error {
	proxy := env.proxy(path)
	if prop == "" {
		props, err := proxy.GetAllProperties(iface)
		if err != nil {
			return err
		}
		writeProps(env.Out, "", props)
		return nil
	}

	pc, err := objcache.NewPropertyCache(proxy, objcache.WithLogger(env.logger()))
	if err != nil {
		return err
	}
	defer pc.Close()

	v, ok, err := pc.Get(iface, prop)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s %s.%s: %w", path, iface, prop, ErrNotFound)
	}
	fmt.Fprintln(env.Out, value.Format(v))
	return nil
}
