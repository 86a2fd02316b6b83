package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnumStringersFallBackToUnknown(t *testing.T) {
	assert.Equal(t, "SAW", WaveformSaw.String())
	assert.Equal(t, "Unknown(200)", Waveform(200).String())

	assert.Equal(t, "MOVE", MultiZoneEffectMove.String())
	assert.Equal(t, "Unknown(9)", MultiZoneEffectType(9).String())

	assert.Equal(t, "SKY", TileEffectSky.String())
	assert.Equal(t, "Unknown(250)", TileEffectType(250).String())

	assert.Equal(t, "SUCCESS", HevResultSuccess.String())
	assert.Equal(t, "Unknown(99)", LastHevCycleResult(99).String())

	assert.Equal(t, "UDP", ServiceUDP.String())
	assert.Equal(t, "Unknown(5)", Service(5).String())
}

func TestPacketClassOf(t *testing.T) {
	assert.Equal(t, NamespaceDevice, PacketClassOf(TypeGetService))
	assert.Equal(t, NamespaceLight, PacketClassOf(TypeLightSetColor))
	assert.Equal(t, NamespaceMultiZone, PacketClassOf(TypeMultiZoneGetColorZones))
	assert.Equal(t, NamespaceMatrix, PacketClassOf(TypeTileGet64))
	assert.Equal(t, NamespaceRelay, PacketClassOf(TypeRelayGetRPower))
	assert.Equal(t, NamespaceUnknown, PacketClassOf(9999))
}
