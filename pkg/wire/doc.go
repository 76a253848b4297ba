// Package wire defines the CBOR encoding of bus values and object snapshots.
//
// D-Bus values are self-describing on the bus, but plain CBOR would lose the
// distinction between, say, a byte and a uint32, or an object path and a
// string. Every value is therefore encoded as a two-element array carrying
// its kind tag and its payload:
//
//	[kind, payload]
//
// Containers nest the same way. Arrays and structs carry an array of
// encoded elements, dicts carry an array of [key, value] pairs in wire
// order, and a variant carries its single encoded inner value.
//
// # Snapshots
//
// A Snapshot is a point-in-time export of a mirrored object graph. It is
// used by the dump command and by protocol logs; it is never loaded back
// into a live cache.
package wire
