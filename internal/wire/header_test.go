package wire

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderEncodeDecodeRoundTrip(t *testing.T) {
	h := NewRequestHeader(TypeLightSetColor, 13)
	h.Source = 0xdeadbeef
	h.Target = [8]byte{0xd0, 0x73, 0xd5, 0x00, 0x13, 0x37, 0, 0}
	h.Sequence = 7
	h.SetAckRequired(true)
	h.SetResponseRequired(true)

	encoded := EncodeHeader(h)
	decoded, err := DecodeHeader(encoded[:])
	require.NoError(t, err)

	assert.Equal(t, h, decoded)
	assert.True(t, decoded.AckRequired())
	assert.True(t, decoded.ResponseRequired())
}

func TestHeaderFlagBits(t *testing.T) {
	var h Header
	h.SetProtocol(1024)
	h.SetAddressable(true)
	h.SetTagged(true)
	h.SetOrigin(2)

	assert.Equal(t, uint16(1024), h.Protocol())
	assert.True(t, h.IsAddressable())
	assert.True(t, h.IsTagged())
	assert.Equal(t, uint8(2), h.Origin())

	h.SetTagged(false)
	assert.False(t, h.IsTagged())
}

func TestHeaderIsBroadcast(t *testing.T) {
	var tagged Header
	tagged.SetTagged(true)
	assert.True(t, tagged.IsBroadcast())

	var zeroTarget Header
	assert.True(t, zeroTarget.IsBroadcast())

	var unicast Header
	unicast.Target = [8]byte{1, 2, 3, 4, 5, 6, 0, 0}
	assert.False(t, unicast.IsBroadcast())
}

func TestDecodeHeaderRejectsShortInput(t *testing.T) {
	_, err := DecodeHeader(make([]byte, HeaderSize-1))
	assert.True(t, errors.Is(err, ErrMalformedHeader))
}

func TestDecodeHeaderRejectsWrongProtocol(t *testing.T) {
	h := NewRequestHeader(TypeGetService, 0)
	h.SetProtocol(1)
	encoded := EncodeHeader(h)

	_, err := DecodeHeader(encoded[:])
	assert.True(t, errors.Is(err, ErrMalformedHeader))
}
