package bustest

import (
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/bluecache/bluecache-go/pkg/bus"
	"github.com/bluecache/bluecache-go/pkg/value"
)

// DefaultSender is the unique name signals are emitted from.
const DefaultSender = ":1.42"

// ErrorNameUnknownMethod is returned for calls with no scripted handler.
const ErrorNameUnknownMethod = "org.freedesktop.DBus.Error.UnknownMethod"

// MethodHandler serves one scripted method.
type MethodHandler func(call bus.MethodCall) ([]value.Value, error)

type subscription struct {
	token   bus.Token
	rule    bus.MatchRule
	handler bus.Handler
}

// Bus is a fake bus.Conn.
type Bus struct {
	// Sender is stamped on emitted signals. Defaults to DefaultSender.
	Sender string

	mu       sync.Mutex
	objects  bus.ManagedObjects
	queue    []bus.Signal
	subs     []subscription
	next     bus.Token
	calls    []bus.MethodCall
	handlers map[string]MethodHandler
	failures map[string]error
	waits    []time.Duration
	removed  []bus.Token
	closed   bool

	// OnProcess, if set, runs at the start of every Process call. Tests
	// use it to inject signals "while" a caller is blocked.
	OnProcess func(b *Bus, timeout time.Duration)
}

// New returns an empty Bus.
func New() *Bus {
	return &Bus{
		Sender:   DefaultSender,
		objects:  make(bus.ManagedObjects),
		handlers: make(map[string]MethodHandler),
		failures: make(map[string]error),
	}
}

// SetObject replaces the properties of one interface of one object without
// emitting a signal.
func (b *Bus) SetObject(path value.ObjectPath, iface string, props bus.Properties) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.objects[path] == nil {
		b.objects[path] = make(bus.Object)
	}
	b.objects[path][iface] = cloneProps(props)
}

// Objects returns a copy of the remote object table.
func (b *Bus) Objects() bus.ManagedObjects {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(bus.ManagedObjects, len(b.objects))
	for p, obj := range b.objects {
		out[p] = cloneObject(obj)
	}
	return out
}

// Handle scripts the reply of a method, given as "interface.member".
func (b *Bus) Handle(method string, h MethodHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[method] = h
}

// Fail makes every call of method fail with err.
func (b *Bus) Fail(method string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method] = err
}

// Emit queues a signal for delivery by Process.
func (b *Bus) Emit(sig bus.Signal) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if sig.Sender == "" {
		sig.Sender = b.Sender
	}
	b.queue = append(b.queue, sig)
}

// AddInterfaces updates the remote table and queues InterfacesAdded from
// the ObjectManager at "/".
func (b *Bus) AddInterfaces(path value.ObjectPath, obj bus.Object) {
	b.mu.Lock()
	if b.objects[path] == nil {
		b.objects[path] = make(bus.Object)
	}
	for iface, props := range obj {
		b.objects[path][iface] = cloneProps(props)
	}
	b.mu.Unlock()

	b.Emit(InterfacesAdded("/", path, obj))
}

// RemoveInterfaces updates the remote table and queues InterfacesRemoved.
func (b *Bus) RemoveInterfaces(path value.ObjectPath, ifaces ...string) {
	b.mu.Lock()
	if obj := b.objects[path]; obj != nil {
		for _, iface := range ifaces {
			delete(obj, iface)
		}
		if len(obj) == 0 {
			delete(b.objects, path)
		}
	}
	b.mu.Unlock()

	b.Emit(InterfacesRemoved("/", path, ifaces...))
}

// ChangeProperties updates the remote table and queues PropertiesChanged
// from path.
func (b *Bus) ChangeProperties(path value.ObjectPath, iface string, changed bus.Properties, invalidated ...string) {
	b.mu.Lock()
	if props := b.objects[path][iface]; props != nil {
		for k, v := range changed {
			props[k] = value.Clone(v)
		}
		for _, k := range invalidated {
			delete(props, k)
		}
	}
	b.mu.Unlock()

	b.Emit(PropertiesChanged(path, iface, changed, invalidated...))
}

// Calls returns every method call received so far.
func (b *Bus) Calls() []bus.MethodCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.calls)
}

// CallCount returns how often method ("interface.member") was called.
func (b *Bus) CallCount(method string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		if c.Method() == method {
			n++
		}
	}
	return n
}

// Waits returns the timeouts passed to Process, in order.
func (b *Bus) Waits() []time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.waits)
}

// Pending returns the number of queued, undelivered signals.
func (b *Bus) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}

// Subscriptions returns the number of live subscriptions.
func (b *Bus) Subscriptions() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Removed returns the tokens passed to RemoveMatch, in order.
func (b *Bus) Removed() []bus.Token {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.removed)
}

// Call implements bus.Conn.
func (b *Bus) Call(call bus.MethodCall) ([]value.Value, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, &bus.TypedError{Kind: bus.KindCustom, Message: bus.ErrClosed.Error(), Err: bus.ErrClosed}
	}
	b.calls = append(b.calls, call)
	method := call.Method()
	failure := b.failures[method]
	handler := b.handlers[method]
	b.mu.Unlock()

	if failure != nil {
		return nil, bus.Classify(failure)
	}
	if handler != nil {
		return handler(call)
	}

	switch method {
	case bus.InterfaceObjectManager + ".GetManagedObjects":
		return []value.Value{EncodeManagedObjects(b.Objects())}, nil
	case bus.InterfaceProperties + ".Get":
		return b.get(call)
	case bus.InterfaceProperties + ".GetAll":
		return b.getAll(call)
	case bus.InterfaceProperties + ".Set":
		return b.set(call)
	}
	return nil, bus.NewError(ErrorNameUnknownMethod, "No such method '"+call.Member+"'")
}

func (b *Bus) lookup(path value.ObjectPath, iface string) (bus.Properties, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	props, ok := b.objects[path][iface]
	if !ok {
		return nil, bus.NewError(bus.ErrorNameInvalidArgs, "No such interface '"+iface+"'")
	}
	return cloneProps(props), nil
}

func (b *Bus) get(call bus.MethodCall) ([]value.Value, error) {
	iface, prop, err := twoStrings(call.Args)
	if err != nil {
		return nil, err
	}
	props, err := b.lookup(call.Path, iface)
	if err != nil {
		return nil, err
	}
	v, ok := props[prop]
	if !ok {
		return nil, bus.NewError(bus.ErrorNameInvalidArgs, "No such property '"+prop+"'")
	}
	return []value.Value{value.Variant(v)}, nil
}

func (b *Bus) getAll(call bus.MethodCall) ([]value.Value, error) {
	if len(call.Args) < 1 {
		return nil, bus.NewError(bus.ErrorNameInvalidArgs, "missing interface")
	}
	iface, ok := argString(call.Args[0])
	if !ok {
		return nil, bus.NewError(bus.ErrorNameInvalidArgs, "interface must be a string")
	}
	props, err := b.lookup(call.Path, iface)
	if err != nil {
		return nil, err
	}
	return []value.Value{EncodeProperties(props)}, nil
}

func (b *Bus) set(call bus.MethodCall) ([]value.Value, error) {
	iface, prop, err := twoStrings(call.Args)
	if err != nil {
		return nil, err
	}
	if len(call.Args) < 3 {
		return nil, bus.NewError(bus.ErrorNameInvalidArgs, "missing value")
	}
	v, ok := call.Args[2].(value.Value)
	if !ok {
		return nil, bus.NewError(bus.ErrorNameInvalidArgs, "value must be a variant")
	}
	if _, err := b.lookup(call.Path, iface); err != nil {
		return nil, err
	}
	b.ChangeProperties(call.Path, iface, bus.Properties{prop: value.Unwrap(v)})
	return nil, nil
}

// Process implements bus.Conn. It never sleeps: with nothing queued it
// returns false immediately, as if the timeout had elapsed.
func (b *Bus) Process(timeout time.Duration) (bool, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return false, bus.ErrClosed
	}
	b.waits = append(b.waits, timeout)
	hook := b.OnProcess
	b.mu.Unlock()

	if hook != nil {
		hook(b, timeout)
	}

	b.mu.Lock()
	if len(b.queue) == 0 {
		b.mu.Unlock()
		return false, nil
	}
	sig := b.queue[0]
	b.queue = b.queue[1:]
	subs := slices.Clone(b.subs)
	b.mu.Unlock()

	for _, s := range subs {
		if s.rule.Matches(sig) {
			s.handler(sig)
		}
	}
	return true, nil
}

// AddMatch implements bus.Conn.
func (b *Bus) AddMatch(rule bus.MatchRule, handler bus.Handler) (bus.Token, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return 0, bus.ErrClosed
	}
	b.next++
	b.subs = append(b.subs, subscription{token: b.next, rule: rule, handler: handler})
	return b.next, nil
}

// RemoveMatch implements bus.Conn.
func (b *Bus) RemoveMatch(token bus.Token) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removed = append(b.removed, token)
	idx := slices.IndexFunc(b.subs, func(s subscription) bool { return s.token == token })
	if idx < 0 {
		return bus.ErrUnknownToken
	}
	b.subs = slices.Delete(b.subs, idx, idx+1)
	return nil
}

// Close implements bus.Conn. Subscriptions survive Close so tests can see
// what was left behind; RemoveMatch keeps working.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

func argString(a any) (string, bool) {
	switch s := a.(type) {
	case string:
		return s, true
	case value.String:
		return string(s), true
	}
	return "", false
}

func twoStrings(args []any) (string, string, error) {
	if len(args) < 2 {
		return "", "", bus.NewError(bus.ErrorNameInvalidArgs, "expected interface and property")
	}
	a, ok1 := argString(args[0])
	c, ok2 := argString(args[1])
	if !ok1 || !ok2 {
		return "", "", bus.NewError(bus.ErrorNameInvalidArgs, "interface and property must be strings")
	}
	return a, c, nil
}

// Signal constructors.

// InterfacesAdded builds an ObjectManager.InterfacesAdded signal.
func InterfacesAdded(manager, path value.ObjectPath, obj bus.Object) bus.Signal {
	return bus.Signal{
		Path:      manager,
		Interface: bus.InterfaceObjectManager,
		Member:    bus.MemberInterfacesAdded,
		Body:      []value.Value{path, EncodeObject(obj)},
	}
}

// InterfacesRemoved builds an ObjectManager.InterfacesRemoved signal.
func InterfacesRemoved(manager, path value.ObjectPath, ifaces ...string) bus.Signal {
	return bus.Signal{
		Path:      manager,
		Interface: bus.InterfaceObjectManager,
		Member:    bus.MemberInterfacesRemoved,
		Body:      []value.Value{path, value.Strings(ifaces...)},
	}
}

// PropertiesChanged builds a Properties.PropertiesChanged signal.
func PropertiesChanged(path value.ObjectPath, iface string, changed bus.Properties, invalidated ...string) bus.Signal {
	return bus.Signal{
		Path:      path,
		Interface: bus.InterfaceProperties,
		Member:    bus.MemberPropertiesChanged,
		Body:      []value.Value{value.String(iface), EncodeProperties(changed), value.Strings(invalidated...)},
	}
}

// Encoders produce the wire shapes with sorted keys and variant-wrapped
// property values.

// EncodeProperties encodes a{sv}.
func EncodeProperties(props bus.Properties) value.Dict {
	d := make(value.Dict, 0, len(props))
	for _, k := range sortedKeys(props) {
		d = append(d, value.DictEntry{Key: value.String(k), Value: value.Variant(props[k])})
	}
	return d
}

// EncodeObject encodes a{sa{sv}}.
func EncodeObject(obj bus.Object) value.Dict {
	d := make(value.Dict, 0, len(obj))
	for _, k := range sortedKeys(obj) {
		d = append(d, value.DictEntry{Key: value.String(k), Value: EncodeProperties(obj[k])})
	}
	return d
}

// EncodeManagedObjects encodes a{oa{sa{sv}}}.
func EncodeManagedObjects(objects bus.ManagedObjects) value.Dict {
	paths := slices.Sorted(maps.Keys(objects))
	d := make(value.Dict, 0, len(paths))
	for _, p := range paths {
		d = append(d, value.DictEntry{Key: p, Value: EncodeObject(objects[p])})
	}
	return d
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}

func cloneProps(p bus.Properties) bus.Properties {
	out := make(bus.Properties, len(p))
	for k, v := range p {
		out[k] = value.Clone(v)
	}
	return out
}

func cloneObject(obj bus.Object) bus.Object {
	out := make(bus.Object, len(obj))
	for iface, props := range obj {
		out[iface] = cloneProps(props)
	}
	return out
}

var _ bus.Conn = (*Bus)(nil)
