package handlers

import "github.com/alessio-palumbo/lifx-emulator/internal/wire"

const multiZoneZonesPerPacket = 8

func init() {
	register(wire.TypeMultiZoneGetColorZones, handleMultiZoneGetColorZones)
	register(wire.TypeMultiZoneSetColorZones, handleMultiZoneSetColorZones)
	register(wire.TypeMultiZoneGetEffect, handleMultiZoneGetEffect)
	register(wire.TypeMultiZoneSetEffect, handleMultiZoneSetEffect)
	register(wire.TypeMultiZoneGetExtendedColorZones, handleMultiZoneGetExtendedColorZones)
	register(wire.TypeMultiZoneSetExtendedColorZones, handleMultiZoneSetExtendedColorZones)
}

func requireMultiZone(ctx *Context) bool {
	if !ctx.Device.Features.HasMultiZone {
		return false
	}
	return true
}

// requireExtendedMultiZone checks the product's extended-multizone
// support against the device's currently reported firmware build, so
// a product gated by MinExtendedMultiZoneFirmwareBuild gains the
// capability once SetFirmware reports a build at or past that
// threshold, matching how the real firmware update rolled it out.
func requireExtendedMultiZone(ctx *Context) bool {
	build, _, _ := ctx.Device.Firmware()
	return ctx.Device.Features.SupportsExtendedMultiZone(build)
}

// multiZoneStatePackets splits a device's zones into StateMultiZone
// packets of up to 8 zones each, one per packet covering [start, end].
func multiZoneStatePackets(zones []wire.Hsbk, start, end uint8) []wire.Payload {
	count := uint8(len(zones))
	if end >= count {
		end = count - 1
	}
	if start > end {
		return nil
	}

	var out []wire.Payload
	for idx := start; idx <= end; idx += multiZoneZonesPerPacket {
		var block [multiZoneZonesPerPacket]wire.Hsbk
		for i := range block {
			z := int(idx) + i
			if z < len(zones) {
				block[i] = zones[z]
			}
		}
		out = append(out, &wire.MultiZoneStateMultiZone{ZonesCount: count, Index: idx, Colors: block})
		if idx > 255-multiZoneZonesPerPacket {
			break
		}
	}
	return out
}

func handleMultiZoneGetColorZones(ctx *Context) []wire.Payload {
	if !requireMultiZone(ctx) {
		return []wire.Payload{Unhandled(ctx.Header.Type)}
	}
	p, ok := ctx.Payload.(*wire.MultiZoneGetColorZones)
	if !ok {
		return nil
	}
	return multiZoneStatePackets(ctx.Device.Zones(), p.StartIndex, p.EndIndex)
}

func handleMultiZoneSetColorZones(ctx *Context) []wire.Payload {
	if !requireMultiZone(ctx) {
		return []wire.Payload{Unhandled(ctx.Header.Type)}
	}
	p, ok := ctx.Payload.(*wire.MultiZoneSetColorZones)
	if !ok {
		return nil
	}

	if p.Apply != wire.ApplicationRequestNoApply {
		n := int(p.EndIndex) - int(p.StartIndex) + 1
		if n > 0 {
			colors := make([]wire.Hsbk, n)
			for i := range colors {
				colors[i] = p.Color
			}
			ctx.Device.SetZones(int(p.StartIndex), colors)
		}
	}

	if !ctx.ResRequired {
		return nil
	}
	return multiZoneStatePackets(ctx.Device.Zones(), p.StartIndex, p.EndIndex)
}

func handleMultiZoneGetEffect(ctx *Context) []wire.Payload {
	if !requireMultiZone(ctx) {
		return []wire.Payload{Unhandled(ctx.Header.Type)}
	}
	return []wire.Payload{&wire.MultiZoneStateEffect{Settings: ctx.Device.MultizoneEffect()}}
}

func handleMultiZoneSetEffect(ctx *Context) []wire.Payload {
	if !requireMultiZone(ctx) {
		return []wire.Payload{Unhandled(ctx.Header.Type)}
	}
	p, ok := ctx.Payload.(*wire.MultiZoneSetEffect)
	if !ok {
		return nil
	}
	ctx.Device.SetMultizoneEffect(p.Settings)
	if !ctx.ResRequired {
		return nil
	}
	return []wire.Payload{&wire.MultiZoneStateEffect{Settings: ctx.Device.MultizoneEffect()}}
}

// extendedMultiZoneStatePackets splits a device's zones into
// StateExtendedColorZones packets of up to 82 zones each, covering the
// whole strip starting at index 0 as real extended-capable firmware
// does (a client that wants a subset clips client-side).
func extendedMultiZoneStatePackets(zones []wire.Hsbk) []wire.Payload {
	count := len(zones)
	if count == 0 {
		return []wire.Payload{&wire.MultiZoneStateExtendedColorZones{}}
	}

	const perPacket = 82
	var out []wire.Payload
	for start := 0; start < count; start += perPacket {
		end := start + perPacket
		if end > count {
			end = count
		}
		var block [perPacket]wire.Hsbk
		copy(block[:], zones[start:end])
		out = append(out, &wire.MultiZoneStateExtendedColorZones{
			ZonesCount:  uint16(count),
			Index:       uint16(start),
			ColorsCount: uint8(end - start),
			Colors:      block,
		})
	}
	return out
}

func handleMultiZoneGetExtendedColorZones(ctx *Context) []wire.Payload {
	if !requireExtendedMultiZone(ctx) {
		return []wire.Payload{Unhandled(ctx.Header.Type)}
	}
	return extendedMultiZoneStatePackets(ctx.Device.Zones())
}

func handleMultiZoneSetExtendedColorZones(ctx *Context) []wire.Payload {
	if !requireExtendedMultiZone(ctx) {
		return []wire.Payload{Unhandled(ctx.Header.Type)}
	}
	p, ok := ctx.Payload.(*wire.MultiZoneSetExtendedColorZones)
	if !ok {
		return nil
	}

	if p.Apply != wire.ApplicationRequestNoApply {
		n := int(p.ColorsCount)
		if n > len(p.Colors) {
			n = len(p.Colors)
		}
		ctx.Device.SetZones(int(p.Index), p.Colors[:n])
	}

	if !ctx.ResRequired {
		return nil
	}
	return extendedMultiZoneStatePackets(ctx.Device.Zones())
}
