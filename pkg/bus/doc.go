// Package bus is the boundary between the object caches and a D-Bus
// connection.
//
// The caches never talk to a socket directly. They use the Conn interface,
// which offers exactly four things: a blocking method call, a bounded
// Process step that delivers at most one inbound message to matching signal
// handlers, and AddMatch/RemoveMatch to manage subscriptions. Handlers run
// synchronously inside Process, on the caller's goroutine, so everything a
// handler touches has a single logical writer.
//
// # Proxies
//
// A Proxy binds a Conn to a destination and an object path:
//
//	manager := bus.NewProxy(conn, "org.bluez", "/", 30*time.Second)
//	objects, err := manager.GetManagedObjects()
//
// Proxy also wraps the standard org.freedesktop.DBus.Properties methods and
// scopes signal subscriptions to its object.
//
// # Errors
//
// Every error coming back from the bus is classified into a TypedError with
// one of four kinds: InvalidArgs, AccessDenied, NoReply or Custom. Custom
// errors keep the raw D-Bus error name so higher layers can re-classify
// them. Use errors.Is with ErrInvalidArgs, ErrAccessDenied or ErrNoReply to
// test the bucket.
//
// # Implementations
//
// DBusConn implements Conn on top of github.com/godbus/dbus/v5. Tests use
// the in-memory fake in internal/bustest or the generated MockConn.
package bus
