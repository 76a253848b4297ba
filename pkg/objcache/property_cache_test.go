package objcache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bluecache/bluecache-go/internal/bustest"
	"github.com/bluecache/bluecache-go/pkg/bus"
	"github.com/bluecache/bluecache-go/pkg/bus/mocks"
	"github.com/bluecache/bluecache-go/pkg/value"
)

const (
	devicePath  = value.ObjectPath("/org/bluez/hci0/dev_00")
	propertyGet = "org.freedesktop.DBus.Properties.Get"
)

func newPropertyCache(t *testing.T, b *bustest.Bus) *PropertyCache {
	t.Helper()
	pc, err := NewPropertyCache(bus.NewProxy(b, "org.bluez", devicePath, time.Second))
	require.NoError(t, err)
	t.Cleanup(pc.Close)
	return pc
}

func TestPropertyCacheDropsUntrackedInterface(t *testing.T) {
	b := bustest.New()
	b.SetObject(devicePath, "Device", Properties{"Name": value.String("remote")})
	pc := newPropertyCache(t, b)

	b.ChangeProperties(devicePath, "Device", Properties{"Name": value.String("changed")})
	ok, err := pc.WaitChange(time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	assert.False(t, pc.Tracked("Device"))
	assert.Empty(t, pc.Snapshot())

	v, ok, err := pc.Get("Device", "Name")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, value.String("changed"), v)
	assert.Equal(t, 1, b.CallCount(propertyGet))

	// Still not written back: a second Get queries again.
	_, _, err = pc.Get("Device", "Name")
	require.NoError(t, err)
	assert.Equal(t, 2, b.CallCount(propertyGet))
	assert.False(t, pc.Tracked("Device"))
}

func TestPropertyCacheTrackedInterfaceUpdates(t *testing.T) {
	b := bustest.New()
	b.SetObject(devicePath, "Device", Properties{"Name": value.String("a"), "RSSI": value.Int16(-70)})
	pc := newPropertyCache(t, b)
	pc.Seed("Device", Properties{"Name": value.String("a"), "RSSI": value.Int16(-70)})

	b.ChangeProperties(devicePath, "Device", Properties{"Name": value.String("b")}, "RSSI")

	// Get flushes pending signals before reading.
	v, ok, err := pc.Get("Device", "Name")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, value.String("b"), v)
	assert.Equal(t, 0, b.CallCount(propertyGet))
	assert.Equal(t, 0, b.Pending())

	// Invalidated properties fall through to a direct query.
	_, ok, err = pc.Get("Device", "RSSI")
	require.NoError(t, err)
	assert.False(t, ok, "RSSI was removed remotely too")
	assert.Equal(t, 1, b.CallCount(propertyGet))
}

func TestPropertyCacheGetFlushesUntilIdle(t *testing.T) {
	b := bustest.New()
	b.SetObject(devicePath, "Device", Properties{"N": value.Int32(0)})
	pc := newPropertyCache(t, b)
	pc.Seed("Device", Properties{"N": value.Int32(0)})

	for i := 1; i <= 3; i++ {
		b.ChangeProperties(devicePath, "Device", Properties{"N": value.Int32(int32(i))})
	}

	v, ok, err := pc.Get("Device", "N")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, value.Int32(3), v)

	waits := b.Waits()
	assert.Len(t, waits, 4)
	for _, w := range waits {
		assert.Zero(t, w)
	}
}

func TestPropertyCacheGetReturnsCopy(t *testing.T) {
	b := bustest.New()
	pc := newPropertyCache(t, b)
	pc.Seed("Device", Properties{"UUIDs": value.Strings("180f")})

	v, ok, err := pc.Get("Device", "UUIDs")
	require.NoError(t, err)
	require.True(t, ok)
	v.(value.Array)[0] = value.String("mutated")

	again, _, _ := pc.Get("Device", "UUIDs")
	assert.Equal(t, value.Strings("180f"), again)
}

func TestPropertyCacheInvalidArgsIsNotFound(t *testing.T) {
	b := bustest.New()
	pc := newPropertyCache(t, b)

	v, ok, err := pc.Get("Missing", "Nope")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestPropertyCacheOtherErrorsPropagate(t *testing.T) {
	b := bustest.New()
	b.Fail(propertyGet, bus.NewError(bus.ErrorNameAccessDenied, "nope"))
	pc := newPropertyCache(t, b)

	_, ok, err := pc.Get("Device", "Name")
	assert.False(t, ok)
	assert.True(t, errors.Is(err, bus.ErrAccessDenied), "err = %v", err)
}

func TestPropertyCacheIgnoresOtherObjects(t *testing.T) {
	b := bustest.New()
	b.SetObject("/other", "Device", Properties{"Name": value.String("x")})
	pc := newPropertyCache(t, b)
	pc.Seed("Device", Properties{"Name": value.String("mine")})

	b.ChangeProperties("/other", "Device", Properties{"Name": value.String("theirs")})
	v, _, err := pc.Get("Device", "Name")
	require.NoError(t, err)
	assert.Equal(t, value.String("mine"), v)
}

func TestPropertyCacheWaitChangeAnyEvent(t *testing.T) {
	b := bustest.New()
	pc := newPropertyCache(t, b)

	ok, err := pc.WaitChange(10 * time.Millisecond)
	require.NoError(t, err)
	assert.False(t, ok)

	b.Emit(bustest.InterfacesAdded("/", "/x", Object{"X": {}}))
	ok, err = pc.WaitChange(10 * time.Millisecond)
	require.NoError(t, err)
	assert.True(t, ok, "unrelated messages still count")
}

func TestPropertyCacheCloseIgnoresErrors(t *testing.T) {
	conn := mocks.NewMockConn(t)
	conn.EXPECT().AddMatch(mock.Anything, mock.Anything).Return(bus.Token(3), nil).Once()
	conn.EXPECT().RemoveMatch(bus.Token(3)).Return(errors.New("connection reset")).Once()

	pc, err := NewPropertyCache(bus.NewProxy(conn, "org.bluez", devicePath, time.Second))
	require.NoError(t, err)
	pc.Close()
	pc.Close()
}

func TestPropertyCacheSubscribeError(t *testing.T) {
	conn := mocks.NewMockConn(t)
	conn.EXPECT().AddMatch(mock.Anything, mock.Anything).Return(bus.Token(0), bus.ErrClosed).Once()

	_, err := NewPropertyCache(bus.NewProxy(conn, "org.bluez", devicePath, time.Second))
	assert.ErrorIs(t, err, bus.ErrClosed)
}

func TestCacheCloseIgnoresErrors(t *testing.T) {
	conn := mocks.NewMockConn(t)
	conn.EXPECT().Call(mock.Anything).Return([]value.Value{value.Dict{}}, nil).Once()
	conn.EXPECT().AddMatch(mock.Anything, mock.Anything).Return(bus.Token(1), nil).Once()
	conn.EXPECT().AddMatch(mock.Anything, mock.Anything).Return(bus.Token(2), nil).Once()
	conn.EXPECT().RemoveMatch(bus.Token(1)).Return(errors.New("gone")).Once()
	conn.EXPECT().RemoveMatch(bus.Token(2)).Return(errors.New("gone")).Once()

	c, err := New(bus.NewProxy(conn, "org.bluez", "/", time.Second))
	require.NoError(t, err)
	c.Close()
	c.Close()
}

func TestCacheSecondSubscribeFailureReleasesFirst(t *testing.T) {
	conn := mocks.NewMockConn(t)
	conn.EXPECT().Call(mock.Anything).Return([]value.Value{value.Dict{}}, nil).Once()
	conn.EXPECT().AddMatch(mock.Anything, mock.Anything).Return(bus.Token(1), nil).Once()
	conn.EXPECT().AddMatch(mock.Anything, mock.Anything).Return(bus.Token(0), errors.New("quota")).Once()
	conn.EXPECT().RemoveMatch(bus.Token(1)).Return(nil).Once()

	_, err := New(bus.NewProxy(conn, "org.bluez", "/", time.Second))
	assert.Error(t, err)
}
