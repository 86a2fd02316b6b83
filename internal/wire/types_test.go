package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHsbkRoundTrip(t *testing.T) {
	h := Hsbk{Hue: 100, Saturation: 200, Brightness: 300, Kelvin: 3500}
	data, err := h.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, data, hsbkSize)

	var got Hsbk
	require.NoError(t, got.UnmarshalBinary(data))
	assert.Equal(t, h, got)
}

func TestEncodeLabelTruncatesOnRuneBoundary(t *testing.T) {
	// 31 ASCII bytes then "éé": a byte-for-byte cut at 32 would keep
	// only the lead byte of the first "é"; EncodeLabel must never split
	// a rune.
	long := "a very long label that exceeds éé"
	encoded := EncodeLabel(long)
	decoded := DecodeLabel(encoded)

	assert.LessOrEqual(t, len(encoded), 32)
	for i, r := range decoded {
		_ = i
		assert.NotEqual(t, rune(0xFFFD), r, "decoded label contains a replacement rune: truncation split a multi-byte character")
	}
}

func TestEncodeDecodeLabelShort(t *testing.T) {
	encoded := EncodeLabel("kitchen")
	assert.Equal(t, "kitchen", DecodeLabel(encoded))
}

func TestTileEffectSettingsRoundTrip(t *testing.T) {
	s := TileEffectSettings{
		Instanceid:   42,
		Type:         TileEffectSky,
		Speed:        1000,
		Duration:     0,
		PaletteCount: 2,
	}
	s.Palette[0] = Hsbk{Hue: 1, Saturation: 2, Brightness: 3, Kelvin: 4}
	s.Palette[1] = Hsbk{Hue: 5, Saturation: 6, Brightness: 7, Kelvin: 8}

	data, err := s.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, data, s.Size())

	var got TileEffectSettings
	require.NoError(t, got.UnmarshalBinary(data))
	assert.Equal(t, s, got)
}

func TestMultiZoneEffectSettingsRoundTrip(t *testing.T) {
	s := MultiZoneEffectSettings{
		Instanceid: 7,
		Type:       MultiZoneEffectMove,
		Speed:      500,
		Duration:   0,
		Parameter:  MultiZoneEffectParameter{Parameter0: 1, Parameter1: 2},
	}
	data, err := s.MarshalBinary()
	require.NoError(t, err)

	var got MultiZoneEffectSettings
	require.NoError(t, got.UnmarshalBinary(data))
	assert.Equal(t, s, got)
}
