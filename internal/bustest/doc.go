// Package bustest provides an in-memory message bus for tests.
//
// Bus implements bus.Conn without sockets or goroutines. It serves the
// standard ObjectManager and Properties methods from a scripted object
// table, queues signals until Process is called, and records every call so
// tests can assert on what a cache did (or did not) send.
package bustest
