package handlers

import (
	"github.com/alessio-palumbo/lifx-emulator/internal/devicestate"
	"github.com/alessio-palumbo/lifx-emulator/internal/wire"
)

func init() {
	register(wire.TypeLightGet, handleLightGet)
	register(wire.TypeLightSetColor, handleLightSetColor)
	register(wire.TypeLightSetWaveform, handleLightSetWaveform)
	register(wire.TypeLightSetWaveformOptional, handleLightSetWaveformOptional)
	register(wire.TypeLightGetPower, handleLightGetPower)
	register(wire.TypeLightSetPower, handleLightSetPower)
	register(wire.TypeLightGetInfrared, handleLightGetInfrared)
	register(wire.TypeLightSetInfrared, handleLightSetInfrared)
	register(wire.TypeLightGetHevCycle, handleLightGetHevCycle)
	register(wire.TypeLightSetHevCycle, handleLightSetHevCycle)
	register(wire.TypeLightGetHevCycleConfiguration, handleLightGetHevCycleConfiguration)
	register(wire.TypeLightSetHevCycleConfiguration, handleLightSetHevCycleConfiguration)
	register(wire.TypeLightGetLastHevCycleResult, handleLightGetLastHevCycleResult)
}

func lightState(d *devicestate.Device) *wire.LightState {
	power := uint16(0)
	if d.PoweredOn() {
		power = 65535
	}
	return &wire.LightState{
		Color: d.Color(),
		Power: power,
		Label: wire.EncodeLabel(d.Label()),
	}
}

func handleLightGet(ctx *Context) []wire.Payload {
	return []wire.Payload{lightState(ctx.Device)}
}

func handleLightSetColor(ctx *Context) []wire.Payload {
	p, ok := ctx.Payload.(*wire.LightSetColor)
	if !ok {
		return nil
	}
	ctx.Device.SetColor(p.Color)
	if !ctx.ResRequired {
		return nil
	}
	return []wire.Payload{lightState(ctx.Device)}
}

func handleLightSetWaveform(ctx *Context) []wire.Payload {
	p, ok := ctx.Payload.(*wire.LightSetWaveform)
	if !ok {
		return nil
	}
	ctx.Device.SetWaveform(devicestate.Waveform{
		Active:    true,
		Transient: p.Transient,
		Color:     p.Color,
		Period:    p.Period,
		Cycles:    p.Cycles,
		SkewRatio: p.SkewRatio,
		Kind:      p.Waveform,
	})
	if !p.Transient {
		ctx.Device.SetColor(p.Color)
	}
	if !ctx.ResRequired {
		return nil
	}
	return []wire.Payload{lightState(ctx.Device)}
}

func handleLightSetWaveformOptional(ctx *Context) []wire.Payload {
	p, ok := ctx.Payload.(*wire.LightSetWaveformOptional)
	if !ok {
		return nil
	}
	color := ctx.Device.Color()
	if p.SetHue {
		color.Hue = p.Color.Hue
	}
	if p.SetSaturation {
		color.Saturation = p.Color.Saturation
	}
	if p.SetBrightness {
		color.Brightness = p.Color.Brightness
	}
	if p.SetKelvin {
		color.Kelvin = p.Color.Kelvin
	}

	ctx.Device.SetWaveform(devicestate.Waveform{
		Active:    true,
		Transient: p.Transient,
		Color:     color,
		Period:    p.Period,
		Cycles:    p.Cycles,
		SkewRatio: p.SkewRatio,
		Kind:      p.Waveform,
	})
	if !p.Transient {
		ctx.Device.SetColor(color)
	}
	if !ctx.ResRequired {
		return nil
	}
	return []wire.Payload{lightState(ctx.Device)}
}

func handleLightGetPower(ctx *Context) []wire.Payload {
	return []wire.Payload{lightStatePower(ctx.Device)}
}

func lightStatePower(d *devicestate.Device) *wire.LightStatePower {
	if d.PoweredOn() {
		return &wire.LightStatePower{Level: 65535}
	}
	return &wire.LightStatePower{Level: 0}
}

func handleLightSetPower(ctx *Context) []wire.Payload {
	p, ok := ctx.Payload.(*wire.LightSetPower)
	if !ok {
		return nil
	}
	ctx.Device.SetPoweredOn(p.Level != 0)
	if !ctx.ResRequired {
		return nil
	}
	return []wire.Payload{lightStatePower(ctx.Device)}
}

func handleLightGetInfrared(ctx *Context) []wire.Payload {
	if !ctx.Device.Features.HasInfrared {
		return []wire.Payload{Unhandled(ctx.Header.Type)}
	}
	return []wire.Payload{&wire.LightStateInfrared{Brightness: ctx.Device.Infrared()}}
}

func handleLightSetInfrared(ctx *Context) []wire.Payload {
	if !ctx.Device.Features.HasInfrared {
		return []wire.Payload{Unhandled(ctx.Header.Type)}
	}
	p, ok := ctx.Payload.(*wire.LightSetInfrared)
	if !ok {
		return nil
	}
	ctx.Device.SetInfrared(p.Brightness)
	if !ctx.ResRequired {
		return nil
	}
	return []wire.Payload{&wire.LightStateInfrared{Brightness: ctx.Device.Infrared()}}
}

func handleLightGetHevCycle(ctx *Context) []wire.Payload {
	if !ctx.Device.Features.HasHev {
		return []wire.Payload{Unhandled(ctx.Header.Type)}
	}
	h := ctx.Device.Hev()
	return []wire.Payload{&wire.LightStateHevCycle{Duration: h.Duration, Remaining: h.Remaining, LastPower: h.LastPower}}
}

func handleLightSetHevCycle(ctx *Context) []wire.Payload {
	if !ctx.Device.Features.HasHev {
		return []wire.Payload{Unhandled(ctx.Header.Type)}
	}
	p, ok := ctx.Payload.(*wire.LightSetHevCycle)
	if !ok {
		return nil
	}
	ctx.Device.StartHevCycle(p.Enable, p.Duration)
	if !ctx.ResRequired {
		return nil
	}
	h := ctx.Device.Hev()
	return []wire.Payload{&wire.LightStateHevCycle{Duration: h.Duration, Remaining: h.Remaining, LastPower: h.LastPower}}
}

func handleLightGetHevCycleConfiguration(ctx *Context) []wire.Payload {
	if !ctx.Device.Features.HasHev {
		return []wire.Payload{Unhandled(ctx.Header.Type)}
	}
	h := ctx.Device.Hev()
	return []wire.Payload{&wire.LightStateHevCycleConfiguration{Indication: h.Indication, Duration: h.DefaultDuration}}
}

func handleLightSetHevCycleConfiguration(ctx *Context) []wire.Payload {
	if !ctx.Device.Features.HasHev {
		return []wire.Payload{Unhandled(ctx.Header.Type)}
	}
	p, ok := ctx.Payload.(*wire.LightSetHevCycleConfiguration)
	if !ok {
		return nil
	}
	ctx.Device.SetHevConfiguration(p.Indication, p.Duration)
	if !ctx.ResRequired {
		return nil
	}
	return []wire.Payload{&wire.LightStateHevCycleConfiguration{Indication: p.Indication, Duration: p.Duration}}
}

func handleLightGetLastHevCycleResult(ctx *Context) []wire.Payload {
	if !ctx.Device.Features.HasHev {
		return []wire.Payload{Unhandled(ctx.Header.Type)}
	}
	return []wire.Payload{&wire.LightStateLastHevCycleResult{Result: ctx.Device.Hev().LastResult}}
}
