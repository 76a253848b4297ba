// Package bluez is a small BlueZ client built on the object caches.
//
// Client keeps an objcache.Cache of everything org.bluez exposes and hands
// out typed wrappers for adapters, devices, GATT services, GATT
// characteristics and batteries. Lookups wait for objects to appear:
//
//	client, err := bluez.New(conn, 30*time.Second)
//	adapter, ok, err := client.FirstAdapter(10 * time.Second)
//	dev, ok, err := adapter.FindDeviceByAddress("AA:BB:CC:DD:EE:FF", 20*time.Second)
//	defer dev.Close()
//
// Remote errors named org.bluez.Error.* are re-classified into *Error with
// an ErrorKind; everything else stays a *bus.TypedError.
package bluez
