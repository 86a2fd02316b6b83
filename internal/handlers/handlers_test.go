package handlers

import (
	"testing"

	"github.com/alessio-palumbo/lifx-emulator/internal/devicestate"
	"github.com/alessio-palumbo/lifx-emulator/internal/registry"
	"github.com/alessio-palumbo/lifx-emulator/internal/scenario"
	"github.com/alessio-palumbo/lifx-emulator/internal/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDevice(product uint32) *devicestate.Device {
	return devicestate.New(devicestate.Serial{1, 2, 3, 4, 5, 6}, 1, product, registry.Lookup(1, product), "test")
}

func dispatchCtx(d *devicestate.Device, pktType uint16, payload wire.Payload, resRequired bool) *Context {
	return &Context{
		Device:      d,
		Header:      wire.Header{Type: pktType},
		Payload:     payload,
		ResRequired: resRequired,
		Rules:       scenario.MergedRules{SendUnhandled: true},
	}
}

func TestDispatchGetServiceReturnsStandardPort(t *testing.T) {
	d := newDevice(29)
	resp, unhandled := Dispatch(dispatchCtx(d, wire.TypeGetService, &wire.GetService{}, false))
	require.False(t, unhandled)
	require.Len(t, resp, 1)
	svc, ok := resp[0].(*wire.StateService)
	require.True(t, ok)
	assert.Equal(t, wire.ServiceUDP, svc.Service)
	assert.EqualValues(t, standardPort, svc.Port)
}

func TestDispatchSetPowerUpdatesDeviceAndAcksWhenRequired(t *testing.T) {
	d := newDevice(29)
	resp, unhandled := Dispatch(dispatchCtx(d, wire.TypeSetPower, &wire.SetPower{Level: 65535}, true))
	require.False(t, unhandled)
	require.Len(t, resp, 1)
	assert.True(t, d.PoweredOn())
	sp := resp[0].(*wire.StatePower)
	assert.EqualValues(t, 65535, sp.Level)
}

func TestDispatchSetPowerNoResponseWhenNotRequired(t *testing.T) {
	d := newDevice(29)
	resp, _ := Dispatch(dispatchCtx(d, wire.TypeSetPower, &wire.SetPower{Level: 65535}, false))
	assert.Nil(t, resp)
	assert.True(t, d.PoweredOn())
}

func TestDispatchUnknownPacketTypeSendsStateUnhandledByDefault(t *testing.T) {
	d := newDevice(29)
	resp, unhandled := Dispatch(dispatchCtx(d, 9999, nil, false))
	require.True(t, unhandled)
	require.Len(t, resp, 1)
	su := resp[0].(*wire.StateUnhandled)
	assert.EqualValues(t, 9999, su.UnhandledType)
}

func TestDispatchUnknownPacketTypeDroppedWhenSendUnhandledFalse(t *testing.T) {
	d := newDevice(29)
	ctx := dispatchCtx(d, 9999, nil, false)
	ctx.Rules.SendUnhandled = false
	resp, unhandled := Dispatch(ctx)
	assert.False(t, unhandled)
	assert.Nil(t, resp)
}

func TestDispatchLightSetColorRoundTrips(t *testing.T) {
	d := newDevice(29)
	color := wire.Hsbk{Hue: 21845, Saturation: 65535, Brightness: 32768, Kelvin: 3500}
	resp, _ := Dispatch(dispatchCtx(d, wire.TypeLightSetColor, &wire.LightSetColor{Color: color}, true))
	require.Len(t, resp, 1)
	state := resp[0].(*wire.LightState)
	assert.Equal(t, color, state.Color)
	assert.Equal(t, color, d.Color())
}

func TestDispatchLightGetInfraredUnhandledWithoutCapability(t *testing.T) {
	d := newDevice(29) // plain A19, no IR
	resp, unhandled := Dispatch(dispatchCtx(d, wire.TypeLightGetInfrared, &wire.LightGetInfrared{}, false))
	require.True(t, unhandled)
	su := resp[0].(*wire.StateUnhandled)
	assert.EqualValues(t, wire.TypeLightGetInfrared, su.UnhandledType)
}

func TestDispatchLightGetInfraredWorksWithCapability(t *testing.T) {
	d := newDevice(31) // IR-capable product
	resp, unhandled := Dispatch(dispatchCtx(d, wire.TypeLightGetInfrared, &wire.LightGetInfrared{}, false))
	require.False(t, unhandled)
	_, ok := resp[0].(*wire.LightStateInfrared)
	assert.True(t, ok)
}

func TestDispatchSwitchDeviceRejectsColorNamespace(t *testing.T) {
	d := newDevice(70) // switch product: relays+buttons, no color
	resp, unhandled := Dispatch(dispatchCtx(d, wire.TypeLightSetColor, &wire.LightSetColor{}, false))
	require.True(t, unhandled)
	su := resp[0].(*wire.StateUnhandled)
	assert.EqualValues(t, wire.TypeLightSetColor, su.UnhandledType)
}

func TestDispatchSwitchDeviceHandlesRelayNamespace(t *testing.T) {
	d := newDevice(70)
	resp, unhandled := Dispatch(dispatchCtx(d, wire.TypeRelaySetRPower, &wire.RelaySetRPower{RelayIndex: 0, Level: 65535}, true))
	require.False(t, unhandled)
	require.Len(t, resp, 1)
	assert.EqualValues(t, 65535, d.RelayLevel(0))
}

func TestMultiZoneGetColorZonesPacketizesByEight(t *testing.T) {
	d := newDevice(38) // legacy Z strip, 16 zones
	resp, _ := Dispatch(dispatchCtx(d, wire.TypeMultiZoneGetColorZones, &wire.MultiZoneGetColorZones{StartIndex: 0, EndIndex: 19}, false))
	require.Len(t, resp, 2)
	first := resp[0].(*wire.MultiZoneStateMultiZone)
	second := resp[1].(*wire.MultiZoneStateMultiZone)
	assert.EqualValues(t, 0, first.Index)
	assert.EqualValues(t, 8, second.Index)
}

func TestMultiZoneGetExtendedColorZonesUnhandledWithoutCapability(t *testing.T) {
	d := newDevice(38) // legacy, firmware not yet updated
	resp, unhandled := Dispatch(dispatchCtx(d, wire.TypeMultiZoneGetExtendedColorZones, &wire.MultiZoneGetExtendedColorZones{}, false))
	require.True(t, unhandled)
	su := resp[0].(*wire.StateUnhandled)
	assert.EqualValues(t, wire.TypeMultiZoneGetExtendedColorZones, su.UnhandledType)
}

func TestMultiZoneGetExtendedColorZonesUnlockedByFirmwareUpdate(t *testing.T) {
	d := newDevice(38) // legacy Z strip, extended support is firmware-gated
	fs := registry.Lookup(1, 38)
	require.False(t, fs.HasExtendedMultiZone)
	require.NotZero(t, fs.MinExtendedMultiZoneFirmwareBuild)

	resp, unhandled := Dispatch(dispatchCtx(d, wire.TypeMultiZoneGetExtendedColorZones, &wire.MultiZoneGetExtendedColorZones{}, false))
	require.True(t, unhandled)
	_ = resp

	d.SetFirmware(fs.MinExtendedMultiZoneFirmwareBuild, 0, 3)
	resp, unhandled = Dispatch(dispatchCtx(d, wire.TypeMultiZoneGetExtendedColorZones, &wire.MultiZoneGetExtendedColorZones{}, false))
	require.False(t, unhandled)
	require.Len(t, resp, 1)
	_, ok := resp[0].(*wire.MultiZoneStateExtendedColorZones)
	require.True(t, ok)
}

func TestTileGet64ReturnsOneStatePerTile(t *testing.T) {
	d := newDevice(55) // tile chain product
	rect := wire.TileBufferRect{Width: 8}
	resp, unhandled := Dispatch(dispatchCtx(d, wire.TypeTileGet64, &wire.TileGet64{TileIndex: 0, Length: 2, Rect: rect}, false))
	require.False(t, unhandled)
	require.Len(t, resp, 2)
	s0 := resp[0].(*wire.TileState64)
	s1 := resp[1].(*wire.TileState64)
	assert.EqualValues(t, 0, s0.TileIndex)
	assert.EqualValues(t, 1, s1.TileIndex)
}

func TestTileSet64WritesPixelsAndEchoesState(t *testing.T) {
	d := newDevice(55)
	var colors [64]wire.Hsbk
	colors[0] = wire.Hsbk{Brightness: 65535, Kelvin: 3500}
	rect := wire.TileBufferRect{Width: 8}
	resp, _ := Dispatch(dispatchCtx(d, wire.TypeTileSet64, &wire.TileSet64{TileIndex: 0, Length: 1, Rect: rect, Colors: colors}, true))
	require.Len(t, resp, 1)
	pixels, ok := d.TilePixels(0)
	require.True(t, ok)
	assert.Equal(t, colors[0], pixels[0])
}

func TestTileSet64ToScratchBufferThenCopyFrameBufferComposesOntoVisible(t *testing.T) {
	d := newDevice(55)
	var colors [64]wire.Hsbk
	colors[0] = wire.Hsbk{Brightness: 65535, Kelvin: 3500}
	scratchRect := wire.TileBufferRect{FbIndex: 1, Width: 8}

	resp, unhandled := Dispatch(dispatchCtx(d, wire.TypeTileSet64, &wire.TileSet64{TileIndex: 0, Length: 1, Rect: scratchRect, Colors: colors}, true))
	require.False(t, unhandled)
	require.Len(t, resp, 1)
	visible, ok := d.TilePixels(0)
	require.True(t, ok)
	assert.Zero(t, visible[0], "scratch write must not leak onto the visible buffer")

	copyRect := wire.TileBufferRect{Width: 8}
	resp, unhandled = Dispatch(dispatchCtx(d, wire.TypeTileCopyFrameBuffer, &wire.TileCopyFrameBuffer{
		TileIndex: 0,
		Length:    1,
		SrcRect:   scratchRect,
		DstRect:   copyRect,
	}, false))
	require.False(t, unhandled)
	require.Empty(t, resp)

	visible, ok = d.TilePixels(0)
	require.True(t, ok)
	assert.Equal(t, colors[0], visible[0])
}
