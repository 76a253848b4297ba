package objcache

import (
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/bluecache/bluecache-go/pkg/bus"
	"github.com/bluecache/bluecache-go/pkg/deadline"
	"github.com/bluecache/bluecache-go/pkg/value"
)

// Predicate inspects one object. It returns ok=true with a result to
// select the object; a non-nil error aborts the search.
type Predicate[T any] func(path value.ObjectPath, obj Object) (result T, ok bool, err error)

// Cache is a Directory kept current by ObjectManager signals.
type Cache struct {
	manager *bus.Proxy
	dir     *Directory
	logger  *slog.Logger

	added   bus.Token
	removed bus.Token
	closed  bool
}

// New enumerates the objects below manager and subscribes to its
// InterfacesAdded and InterfacesRemoved signals.
func New(manager *bus.Proxy, opts ...Option) (*Cache, error) {
	o := buildOptions(opts)

	objects, err := manager.GetManagedObjects()
	if err != nil {
		return nil, fmt.Errorf("enumerate %s objects: %w", manager.Destination, err)
	}

	c := &Cache{
		manager: manager,
		dir:     NewDirectory(),
		logger:  o.logger,
	}
	c.dir.Initialize(objects)

	c.added, err = manager.MatchObject(bus.InterfaceObjectManager, bus.MemberInterfacesAdded, c.onInterfacesAdded)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", bus.MemberInterfacesAdded, err)
	}
	c.removed, err = manager.MatchObject(bus.InterfaceObjectManager, bus.MemberInterfacesRemoved, c.onInterfacesRemoved)
	if err != nil {
		_ = manager.Conn.RemoveMatch(c.added)
		return nil, fmt.Errorf("subscribe %s: %w", bus.MemberInterfacesRemoved, err)
	}

	c.logger.Debug("object cache ready",
		"destination", manager.Destination,
		"manager", manager.Path,
		"objects", c.dir.Len())
	return c, nil
}

func (c *Cache) onInterfacesAdded(s bus.Signal) {
	path, obj, err := bus.ParseInterfacesAdded(s)
	if err != nil {
		c.logger.Warn("dropping signal", "signal", s.Name(), "error", err)
		return
	}
	c.dir.AddInterfaces(path, obj)
}

func (c *Cache) onInterfacesRemoved(s bus.Signal) {
	path, ifaces, err := bus.ParseInterfacesRemoved(s)
	if err != nil {
		c.logger.Warn("dropping signal", "signal", s.Name(), "error", err)
		return
	}
	c.dir.RemoveInterfaces(path, ifaces)
}

// Manager returns the ObjectManager proxy the cache was built from.
func (c *Cache) Manager() *bus.Proxy {
	return c.manager
}

// Objects ranges over the current table. Yielded objects must not be
// modified.
func (c *Cache) Objects() iter.Seq2[value.ObjectPath, Object] {
	return c.dir.Objects()
}

// Get returns a copy of the object at path.
func (c *Cache) Get(path value.ObjectPath) (Object, bool) {
	obj, ok := c.dir.Get(path)
	if !ok {
		return nil, false
	}
	return CloneObject(obj), true
}

// Len returns the number of objects in the table.
func (c *Cache) Len() int {
	return c.dir.Len()
}

// Snapshot returns a deep copy of the table.
func (c *Cache) Snapshot() bus.ManagedObjects {
	return c.dir.Snapshot()
}

// Flush processes every signal that has already arrived and drains the
// queue. It never blocks.
func (c *Cache) Flush() error {
	for {
		processed, err := c.manager.Conn.Process(0)
		if err != nil {
			return err
		}
		if !processed {
			break
		}
	}
	c.dir.DrainQueue(nil)
	return nil
}

// Close cancels both subscriptions. Errors are ignored and repeated calls
// do nothing.
func (c *Cache) Close() {
	if c.closed {
		return
	}
	c.closed = true
	_ = c.manager.Conn.RemoveMatch(c.added)
	_ = c.manager.Conn.RemoveMatch(c.removed)
}

// FindFirst returns the result of the first object pred selects.
//
// The current table is scanned first. After that FindFirst waits for
// signals until timeout, draining the queue after every processed message
// and checking each merged object. When several queued objects match at
// once, which one wins is unspecified. A wait that ends without a message
// ends the search with ok=false. An error from pred or from the
// connection is returned as is.
func FindFirst[T any](c *Cache, pred Predicate[T], timeout time.Duration) (result T, ok bool, err error) {
	t := deadline.Start(timeout)

	for path, obj := range c.dir.Objects() {
		result, ok, err = pred(path, obj)
		if err != nil || ok {
			return result, ok, err
		}
	}

	for {
		processed, perr := c.manager.Conn.Process(t.Remaining())
		if perr != nil {
			var zero T
			return zero, false, perr
		}
		if !processed {
			var zero T
			return zero, false, nil
		}
		c.dir.DrainQueue(func(path value.ObjectPath, obj Object) bool {
			result, ok, err = pred(path, obj)
			return err == nil && !ok
		})
		if err != nil || ok {
			return result, ok, err
		}
	}
}

// FindAll collects the result of every object pred selects, from the
// current table and from everything that arrives until a wait times out.
// An object selected twice contributes its latest result once, at its
// first position.
func FindAll[T any](c *Cache, pred Predicate[T], timeout time.Duration) ([]T, error) {
	t := deadline.Start(timeout)
	var results []T
	index := make(map[value.ObjectPath]int)

	var err error
	collect := func(path value.ObjectPath, obj Object) bool {
		r, ok, perr := pred(path, obj)
		if perr != nil {
			err = perr
			return false
		}
		if !ok {
			return true
		}
		if i, seen := index[path]; seen {
			results[i] = r
		} else {
			index[path] = len(results)
			results = append(results, r)
		}
		return true
	}

	for path, obj := range c.dir.Objects() {
		if !collect(path, obj) {
			return nil, err
		}
	}

	for {
		processed, perr := c.manager.Conn.Process(t.Remaining())
		if perr != nil {
			return nil, perr
		}
		if !processed {
			return results, nil
		}
		c.dir.DrainQueue(collect)
		if err != nil {
			return nil, err
		}
	}
}

// HasInterface returns a Predicate selecting the path of objects that
// expose iface.
func HasInterface(iface string) Predicate[value.ObjectPath] {
	return func(path value.ObjectPath, obj Object) (value.ObjectPath, bool, error) {
		_, ok := obj[iface]
		return path, ok, nil
	}
}
