package objcache

import (
	"iter"
	"maps"
	"slices"

	"github.com/bluecache/bluecache-go/pkg/bus"
	"github.com/bluecache/bluecache-go/pkg/value"
)

// Properties maps property names to unwrapped values.
type Properties = bus.Properties

// Object maps interface names to properties.
type Object = bus.Object

// Directory is the local object table and its pending queue.
type Directory struct {
	objects map[value.ObjectPath]Object
	queue   map[value.ObjectPath]Object

	// draining is the batch DrainQueue is folding in, nil otherwise.
	draining map[value.ObjectPath]Object
}

// NewDirectory returns an empty Directory.
func NewDirectory() *Directory {
	return &Directory{
		objects: make(map[value.ObjectPath]Object),
		queue:   make(map[value.ObjectPath]Object),
	}
}

// Initialize replaces the table with a copy of snapshot. The queue is left
// alone.
func (d *Directory) Initialize(snapshot bus.ManagedObjects) {
	d.objects = make(map[value.ObjectPath]Object, len(snapshot))
	for path, obj := range snapshot {
		if len(obj) == 0 {
			continue
		}
		merged := make(Object, len(obj))
		merge(merged, obj)
		d.objects[path] = merged
	}
}

// AddInterfaces queues ifaces for path. Properties already queued for the
// same interface are overwritten key by key.
func (d *Directory) AddInterfaces(path value.ObjectPath, ifaces Object) {
	if len(ifaces) == 0 {
		return
	}
	entry, ok := d.queue[path]
	if !ok {
		entry = make(Object, len(ifaces))
		d.queue[path] = entry
	}
	merge(entry, ifaces)
}

// RemoveInterfaces drops names from path in the table, the queue and any
// batch a running DrainQueue has not reached yet. An entry left without
// interfaces is deleted.
func (d *Directory) RemoveInterfaces(path value.ObjectPath, names []string) {
	remove(d.objects, path, names)
	remove(d.queue, path, names)
	if d.draining != nil {
		remove(d.draining, path, names)
	}
}

// DrainQueue folds the whole queue into the table and calls visit with each
// drained path and its merged object, in path order. Once visit returns
// false the remaining entries are still merged but no longer visited.
// Entries queued while DrainQueue runs wait for the next drain; removals
// made from visit also apply to the entries not yet merged. visit may be
// nil.
func (d *Directory) DrainQueue(visit func(path value.ObjectPath, obj Object) bool) {
	d.draining = d.queue
	d.queue = make(map[value.ObjectPath]Object)
	defer func() { d.draining = nil }()

	visiting := visit != nil
	for _, path := range slices.Sorted(maps.Keys(d.draining)) {
		pending, ok := d.draining[path]
		if !ok {
			continue
		}
		delete(d.draining, path)
		obj, ok := d.objects[path]
		if !ok {
			obj = make(Object, len(pending))
			d.objects[path] = obj
		}
		merge(obj, pending)
		if visiting && !visit(path, obj) {
			visiting = false
		}
	}
}

// Objects ranges over the table in path order. Yielded objects are live
// and must not be modified.
func (d *Directory) Objects() iter.Seq2[value.ObjectPath, Object] {
	return func(yield func(value.ObjectPath, Object) bool) {
		for _, path := range slices.Sorted(maps.Keys(d.objects)) {
			obj, ok := d.objects[path]
			if !ok {
				continue
			}
			if !yield(path, obj) {
				return
			}
		}
	}
}

// Get returns the table entry for path.
func (d *Directory) Get(path value.ObjectPath) (Object, bool) {
	obj, ok := d.objects[path]
	return obj, ok
}

// Len returns the number of objects in the table.
func (d *Directory) Len() int {
	return len(d.objects)
}

// QueueLen returns the number of queued paths.
func (d *Directory) QueueLen() int {
	return len(d.queue)
}

// Snapshot returns a deep copy of the table.
func (d *Directory) Snapshot() bus.ManagedObjects {
	out := make(bus.ManagedObjects, len(d.objects))
	for path, obj := range d.objects {
		out[path] = CloneObject(obj)
	}
	return out
}

// CloneObject deep-copies obj.
func CloneObject(obj Object) Object {
	out := make(Object, len(obj))
	for iface, props := range obj {
		cp := make(Properties, len(props))
		for k, v := range props {
			cp[k] = value.Clone(v)
		}
		out[iface] = cp
	}
	return out
}

func merge(dst, src Object) {
	for iface, props := range src {
		cur, ok := dst[iface]
		if !ok {
			cur = make(Properties, len(props))
			dst[iface] = cur
		}
		for k, v := range props {
			cur[k] = v
		}
	}
}

func remove(table map[value.ObjectPath]Object, path value.ObjectPath, names []string) {
	obj, ok := table[path]
	if !ok {
		return
	}
	for _, name := range names {
		delete(obj, name)
	}
	if len(obj) == 0 {
		delete(table, path)
	}
}
