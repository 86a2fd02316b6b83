package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageMarshalUnmarshalRoundTrip(t *testing.T) {
	payload := &LightSetColor{
		Color: Hsbk{
			Hue:        21845,
			Saturation: 65535,
			Brightness: 65535,
			Kelvin:     3500,
		},
		Duration: 1000,
	}
	original := NewMessage(payload)
	original.SetTarget([6]byte{0xd0, 0x73, 0xd5, 0x00, 0x13, 0x37})
	original.SetSource(1234)
	original.SetSequence(9)
	original.SetAckRequired(true)

	data, err := original.MarshalBinary()
	require.NoError(t, err)

	var decoded Message
	require.NoError(t, decoded.UnmarshalBinary(data))

	assert.Equal(t, original.Header.Type, decoded.Header.Type)
	assert.Equal(t, original.Header.Source, decoded.Header.Source)
	assert.Equal(t, original.Header.Sequence, decoded.Header.Sequence)
	assert.True(t, decoded.Header.AckRequired())

	gotPayload, ok := decoded.Payload.(*LightSetColor)
	require.True(t, ok, "decoded payload has wrong type %T", decoded.Payload)
	assert.Equal(t, *payload, *gotPayload)
}

func TestMessageUnmarshalUnknownPacketType(t *testing.T) {
	msg := NewMessage(nil)
	msg.Header.Type = 9999
	data, err := msg.MarshalBinary()
	require.NoError(t, err)

	var decoded Message
	require.NoError(t, decoded.UnmarshalBinary(data))
	assert.Nil(t, decoded.Payload)
	assert.Equal(t, uint16(9999), decoded.Header.Type)
}

func TestMessageSetBroadcastVsTarget(t *testing.T) {
	var msg Message
	msg.SetBroadcast()
	assert.True(t, msg.Header.IsBroadcast())

	msg.SetTarget([6]byte{1, 2, 3, 4, 5, 6})
	assert.False(t, msg.Header.IsBroadcast())
	assert.Equal(t, [8]byte{1, 2, 3, 4, 5, 6, 0, 0}, msg.Header.Target)
}
