// Package objcache mirrors a remote D-Bus object graph locally.
//
// # Directory
//
// Directory is the authoritative path -> interface -> property table plus a
// pending queue. Additions observed through signals go to the queue and
// are folded into the table only by DrainQueue, so a handler that runs
// while a caller is ranging over the table never mutates it underneath
// the caller. Removals apply to both tables at once; a removed interface
// can therefore never come back through a stale queued addition.
//
// # Cache
//
// Cache seeds a Directory from ObjectManager.GetManagedObjects and keeps it
// current through the InterfacesAdded and InterfacesRemoved signals.
// FindFirst answers "give me the first object matching this predicate,
// waiting up to timeout for one to appear":
//
//	dev, ok, err := objcache.FindFirst(cache, func(p value.ObjectPath, obj objcache.Object) (value.ObjectPath, bool, error) {
//		_, ok := obj["org.bluez.Battery1"]
//		return p, ok, nil
//	}, 5*time.Second)
//
// All waiting happens inside bus.Conn.Process, which delivers signals on
// the caller's goroutine. Neither Cache nor PropertyCache is safe for
// concurrent use.
//
// # PropertyCache
//
// PropertyCache tracks the properties of one object through
// PropertiesChanged. Only interfaces that are already tracked are updated;
// Get falls back to a direct Properties.Get for anything else and does not
// store the result.
package objcache
