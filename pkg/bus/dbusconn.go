package bus

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/google/uuid"

	"github.com/bluecache/bluecache-go/pkg/log"
	"github.com/bluecache/bluecache-go/pkg/value"
	"github.com/bluecache/bluecache-go/pkg/wire"
)

// DefaultSignalBuffer is the capacity of the inbound signal queue.
const DefaultSignalBuffer = 256

// Option configures a DBusConn.
type Option func(*DBusConn)

// WithProtocolLogger records every call, reply, signal and error.
func WithProtocolLogger(l log.Logger) Option {
	return func(c *DBusConn) {
		if l != nil {
			c.protocol = l
		}
	}
}

// WithLogger sets the operational logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *DBusConn) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithSignalBuffer sets the capacity of the inbound signal queue.
func WithSignalBuffer(n int) Option {
	return func(c *DBusConn) {
		if n > 0 {
			c.bufferSize = n
		}
	}
}

// WithCallTimeout sets the timeout used for calls that carry none.
func WithCallTimeout(d time.Duration) Option {
	return func(c *DBusConn) {
		if d > 0 {
			c.callTimeout = d
		}
	}
}

type subscription struct {
	token   Token
	rule    MatchRule
	handler Handler
}

// DBusConn implements Conn over a godbus connection.
//
// godbus reads the socket on its own goroutine and queues signals on a
// buffered channel; DBusConn only dispatches them to handlers inside
// Process. If the queue fills up, godbus drops further signals.
type DBusConn struct {
	conn    *dbus.Conn
	signals chan *dbus.Signal
	id      string

	logger      *slog.Logger
	protocol    log.Logger
	bufferSize  int
	callTimeout time.Duration

	mu     sync.Mutex
	subs   []subscription
	next   Token
	closed bool
}

// ConnectSystemBus opens a private connection to the system bus.
func ConnectSystemBus(opts ...Option) (*DBusConn, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, Classify(err)
	}
	return NewDBusConn(conn, opts...), nil
}

// ConnectSessionBus opens a private connection to the session bus.
func ConnectSessionBus(opts ...Option) (*DBusConn, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, Classify(err)
	}
	return NewDBusConn(conn, opts...), nil
}

// Connect opens a connection to the bus at address.
func Connect(address string, opts ...Option) (*DBusConn, error) {
	conn, err := dbus.Connect(address)
	if err != nil {
		return nil, Classify(err)
	}
	return NewDBusConn(conn, opts...), nil
}

// NewDBusConn wraps an established godbus connection. The DBusConn takes
// ownership of conn and closes it on Close.
func NewDBusConn(conn *dbus.Conn, opts ...Option) *DBusConn {
	c := &DBusConn{
		conn:        conn,
		id:          uuid.NewString(),
		logger:      slog.Default(),
		protocol:    log.NoopLogger{},
		bufferSize:  DefaultSignalBuffer,
		callTimeout: DefaultCallTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.signals = make(chan *dbus.Signal, c.bufferSize)
	conn.Signal(c.signals)

	c.logState(log.StateEntityConnection, "", "connected", c.UniqueName())
	c.logger.Debug("bus connection established", "conn_id", c.id, "unique_name", c.UniqueName())
	return c
}

// ID returns the connection's logging identifier.
func (c *DBusConn) ID() string {
	return c.id
}

// UniqueName returns the bus-assigned unique name, if known.
func (c *DBusConn) UniqueName() string {
	if names := c.conn.Names(); len(names) > 0 {
		return names[0]
	}
	return ""
}

// Call implements Conn.
func (c *DBusConn) Call(call MethodCall) ([]value.Value, error) {
	if c.isClosed() {
		return nil, &TypedError{Kind: KindCustom, Message: ErrClosed.Error(), Err: ErrClosed}
	}
	args, err := argsToDBus(call.Args)
	if err != nil {
		return nil, &TypedError{Kind: KindInvalidArgs, Message: err.Error(), Err: err}
	}

	timeout := call.Timeout
	if timeout <= 0 {
		timeout = c.callTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	c.logCall(call, log.DirectionOut, log.CategoryCall, args, nil)
	start := time.Now()
	reply := c.conn.Object(call.Destination, dbus.ObjectPath(call.Path)).
		CallWithContext(ctx, call.Method(), 0, args...)
	if reply.Err != nil {
		err := Classify(reply.Err)
		c.logError(err, call.Method())
		return nil, err
	}

	body, err := FromDBusSlice(reply.Body)
	if err != nil {
		err = &TypedError{Kind: KindCustom, Message: "decode reply: " + err.Error(), Err: err}
		c.logError(err, call.Method())
		return nil, err
	}
	elapsed := time.Since(start)
	c.logCall(call, log.DirectionIn, log.CategoryReply, reply.Body, &elapsed)
	return body, nil
}

// Process implements Conn.
func (c *DBusConn) Process(timeout time.Duration) (bool, error) {
	if c.isClosed() {
		return false, ErrClosed
	}

	var (
		sig *dbus.Signal
		ok  bool
	)
	if timeout <= 0 {
		select {
		case sig, ok = <-c.signals:
		default:
			return false, nil
		}
	} else {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		select {
		case sig, ok = <-c.signals:
		case <-timer.C:
			return false, nil
		}
	}
	if !ok {
		return false, ErrClosed
	}
	c.dispatch(sig)
	return true, nil
}

func (c *DBusConn) dispatch(sig *dbus.Signal) {
	iface, member := splitName(sig.Name)
	body, err := FromDBusSlice(sig.Body)
	if err != nil {
		c.logger.Warn("dropping undecodable signal", "signal", sig.Name, "path", sig.Path, "error", err)
		c.logError(&TypedError{Kind: KindCustom, Message: err.Error(), Err: err}, sig.Name)
		return
	}
	s := Signal{
		Sender:    sig.Sender,
		Path:      value.ObjectPath(sig.Path),
		Interface: iface,
		Member:    member,
		Body:      body,
	}

	c.mu.Lock()
	subs := slices.Clone(c.subs)
	c.mu.Unlock()

	n := 0
	for _, sub := range subs {
		if sub.rule.Matches(s) {
			sub.handler(s)
			n++
		}
	}
	c.logSignal(s, n)
}

// AddMatch implements Conn.
func (c *DBusConn) AddMatch(rule MatchRule, handler Handler) (Token, error) {
	if c.isClosed() {
		return 0, ErrClosed
	}
	if err := c.conn.AddMatchSignal(matchOptions(rule)...); err != nil {
		return 0, Classify(err)
	}

	c.mu.Lock()
	c.next++
	tok := c.next
	c.subs = append(c.subs, subscription{token: tok, rule: rule, handler: handler})
	c.mu.Unlock()

	c.logState(log.StateEntityMatch, "", "added", rule.String())
	return tok, nil
}

// RemoveMatch implements Conn.
func (c *DBusConn) RemoveMatch(token Token) error {
	c.mu.Lock()
	idx := slices.IndexFunc(c.subs, func(s subscription) bool { return s.token == token })
	if idx < 0 {
		c.mu.Unlock()
		return ErrUnknownToken
	}
	sub := c.subs[idx]
	c.subs = slices.Delete(c.subs, idx, idx+1)
	closed := c.closed
	c.mu.Unlock()

	c.logState(log.StateEntityMatch, "added", "removed", sub.rule.String())
	if closed {
		return nil
	}
	return Classify(c.conn.RemoveMatchSignal(matchOptions(sub.rule)...))
}

// Close implements Conn. Repeated calls return nil.
func (c *DBusConn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.conn.RemoveSignal(c.signals)
	c.logState(log.StateEntityConnection, "connected", "closed", "")
	return c.conn.Close()
}

func (c *DBusConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func matchOptions(rule MatchRule) []dbus.MatchOption {
	var opts []dbus.MatchOption
	if rule.Sender != "" {
		opts = append(opts, dbus.WithMatchSender(rule.Sender))
	}
	if rule.Path != "" {
		opts = append(opts, dbus.WithMatchObjectPath(dbus.ObjectPath(rule.Path)))
	}
	if rule.Interface != "" {
		opts = append(opts, dbus.WithMatchInterface(rule.Interface))
	}
	if rule.Member != "" {
		opts = append(opts, dbus.WithMatchMember(rule.Member))
	}
	return opts
}

func splitName(name string) (iface, member string) {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return "", name
	}
	return name[:i], name[i+1:]
}

// Protocol capture.

func (c *DBusConn) event(dir log.Direction, cat log.Category) log.Event {
	return log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.id,
		Direction:    dir,
		Category:     cat,
	}
}

func encodeBody(body []any) []byte {
	if len(body) == 0 {
		return nil
	}
	vals, err := FromDBusSlice(body)
	if err != nil {
		return nil
	}
	data, err := wire.EncodeValues(vals)
	if err != nil {
		return nil
	}
	return data
}

func (c *DBusConn) logCall(call MethodCall, dir log.Direction, cat log.Category, body []any, d *time.Duration) {
	if _, noop := c.protocol.(log.NoopLogger); noop {
		return
	}
	ev := c.event(dir, cat)
	ev.Call = &log.CallEvent{
		Destination: call.Destination,
		Path:        string(call.Path),
		Interface:   call.Interface,
		Member:      call.Member,
		Body:        encodeBody(body),
		Duration:    d,
	}
	c.protocol.Log(ev)
}

func (c *DBusConn) logSignal(s Signal, handlers int) {
	if _, noop := c.protocol.(log.NoopLogger); noop {
		return
	}
	ev := c.event(log.DirectionIn, log.CategorySignal)
	ev.Signal = &log.SignalEvent{
		Sender:    s.Sender,
		Path:      string(s.Path),
		Interface: s.Interface,
		Member:    s.Member,
		Handlers:  handlers,
	}
	if len(s.Body) > 0 {
		ev.Signal.Body, _ = wire.EncodeValues(s.Body)
	}
	c.protocol.Log(ev)
}

func (c *DBusConn) logError(err error, where string) {
	data := &log.ErrorEventData{Message: err.Error(), Context: where}
	if te, ok := err.(*TypedError); ok {
		data.Name = te.Name
		data.Message = te.Message
		data.Kind = te.Kind.String()
	}
	ev := c.event(log.DirectionIn, log.CategoryError)
	ev.Error = data
	c.protocol.Log(ev)
}

func (c *DBusConn) logState(entity log.StateEntity, from, to, reason string) {
	ev := c.event(log.DirectionOut, log.CategoryState)
	ev.StateChange = &log.StateChangeEvent{Entity: entity, OldState: from, NewState: to, Reason: reason}
	c.protocol.Log(ev)
}

var _ Conn = (*DBusConn)(nil)
