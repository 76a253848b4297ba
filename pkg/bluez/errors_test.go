package bluez

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluecache/bluecache-go/pkg/bus"
)

func TestErrorKindNames(t *testing.T) {
	assert.Equal(t, "InvalidArguments", InvalidArguments.String())
	assert.Equal(t, "NotAcquired", NotAcquired.String())
	assert.Equal(t, "org.bluez.Error.InProgress", InProgress.ErrorName())
	assert.Equal(t, "ErrorKind(200)", ErrorKind(200).String())
	assert.Len(t, kindsByName, 26)
}

func TestWrapReclassifiesBluezErrors(t *testing.T) {
	for k := range kindNames {
		kind := ErrorKind(k)
		t.Run(kind.String(), func(t *testing.T) {
			err := wrap(bus.NewError(kind.ErrorName(), "reason"))

			var be *Error
			require.ErrorAs(t, err, &be)
			assert.Equal(t, kind, be.Kind)
			assert.True(t, IsKind(err, kind))
			assert.Equal(t, kind.ErrorName(), be.Err.Name)
		})
	}
}

func TestWrapKeepsOtherErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"unknown bluez name", bus.NewError("org.bluez.Error.SomethingNew", "x")},
		{"foreign name", bus.NewError("com.example.Error.Failed", "x")},
		{"invalid args", bus.NewError(bus.ErrorNameInvalidArgs, "x")},
		{"plain", errors.New("x")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := wrap(tt.err)
			assert.Same(t, tt.err, err)
			assert.False(t, IsKind(err, Failed))
		})
	}
	assert.NoError(t, wrap(nil))
}

func TestWrappedErrorKeepsBusChain(t *testing.T) {
	err := wrap(bus.NewError("org.bluez.Error.Failed", "le-connection-abort-by-local"))
	assert.Contains(t, err.Error(), "Failed")
	assert.Contains(t, err.Error(), "le-connection-abort-by-local")

	var te *bus.TypedError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, bus.KindCustom, te.Kind)
}

func TestMissingPropertyError(t *testing.T) {
	err := &MissingPropertyError{Interface: InterfaceDevice, Property: "Name"}
	assert.Equal(t, "missing property: org.bluez.Device1.Name", err.Error())

	mi := &MissingInterfaceError{Interface: InterfaceBattery}
	assert.Equal(t, "object missing interface: org.bluez.Battery1", mi.Error())
}
