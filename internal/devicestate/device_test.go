package devicestate

import (
	"testing"

	"github.com/alessio-palumbo/lifx-emulator/internal/registry"
	"github.com/alessio-palumbo/lifx-emulator/internal/wire"
	"github.com/stretchr/testify/assert"
)

func plainBulb() *Device {
	return New(Serial{1, 2, 3, 4, 5, 6}, 1, 29, registry.Lookup(1, 29), "bulb")
}

func TestNewClampsInitialKelvinIntoRange(t *testing.T) {
	features := registry.FeatureSet{MinKelvin: 4000, MaxKelvin: 6500}
	d := New(Serial{}, 1, 81, features, "mini")
	assert.Equal(t, uint16(4000), d.Color().Kelvin)
}

func TestSetColorClampsKelvin(t *testing.T) {
	d := plainBulb()
	d.SetColor(wire.Hsbk{Kelvin: 20000})
	assert.Equal(t, uint16(9000), d.Color().Kelvin)

	d.SetColor(wire.Hsbk{Kelvin: 100})
	assert.Equal(t, uint16(2500), d.Color().Kelvin)
}

func TestInfraredGatedByCapability(t *testing.T) {
	nonIR := plainBulb()
	nonIR.SetInfrared(5000)
	assert.Equal(t, uint16(0), nonIR.Infrared(), "SetInfrared must be a no-op on a device without HasInfrared")

	irBulb := New(Serial{}, 1, 31, registry.Lookup(1, 31), "ir")
	irBulb.SetInfrared(5000)
	assert.Equal(t, uint16(5000), irBulb.Infrared())
}

func TestMultizoneZonesGatedByCapability(t *testing.T) {
	d := plainBulb()
	d.SetZones(0, []wire.Hsbk{{Brightness: 1}})
	assert.Empty(t, d.Zones(), "SetZones must be a no-op on a device without HasMultiZone")

	strip := New(Serial{}, 1, 38, registry.Lookup(1, 38), "strip")
	strip.SetZones(0, []wire.Hsbk{{Brightness: 100}, {Brightness: 200}})
	zones := strip.Zones()
	assert.Equal(t, uint16(100), zones[0].Brightness)
	assert.Equal(t, uint16(200), zones[1].Brightness)
}

func TestRelayGatedByCapability(t *testing.T) {
	d := plainBulb()
	d.SetRelayLevel(0, 65535)
	assert.Equal(t, uint16(0), d.RelayLevel(0))

	sw := New(Serial{}, 1, 70, registry.Lookup(1, 70), "switch")
	sw.SetRelayLevel(0, 65535)
	assert.Equal(t, uint16(65535), sw.RelayLevel(0))
}

func TestSetTilePixelsWritesRectangularWindow(t *testing.T) {
	tile := New(Serial{}, 1, 55, registry.Lookup(1, 55), "tile")
	w, _, _ := tile.MatrixLayout()

	rect := wire.TileBufferRect{X: 1, Y: 0, Width: 2}
	tile.SetTilePixels(0, rect, []wire.Hsbk{{Brightness: 1}, {Brightness: 2}})

	pixels, ok := tile.TilePixels(0)
	assert.True(t, ok)
	assert.Equal(t, uint16(1), pixels[0*w+1].Brightness)
	assert.Equal(t, uint16(2), pixels[0*w+2].Brightness)
}

func TestOnChangeFiresAfterMutation(t *testing.T) {
	d := plainBulb()
	var notified Serial
	d.OnChange(func(s Serial) { notified = s })

	d.SetLabel("kitchen")
	assert.Equal(t, d.Serial, notified)
}

func TestSerialString(t *testing.T) {
	s := Serial{0xd0, 0x73, 0xd5, 0x00, 0x13, 0x37}
	assert.Equal(t, "d073d5001337", s.String())
}
