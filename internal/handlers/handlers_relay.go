package handlers

import "github.com/alessio-palumbo/lifx-emulator/internal/wire"

func init() {
	register(wire.TypeRelayGetRPower, handleRelayGetRPower)
	register(wire.TypeRelaySetRPower, handleRelaySetRPower)
}

func handleRelayGetRPower(ctx *Context) []wire.Payload {
	if !ctx.Device.Features.HasRelays {
		return []wire.Payload{Unhandled(ctx.Header.Type)}
	}
	p, ok := ctx.Payload.(*wire.RelayGetRPower)
	if !ok {
		return nil
	}
	return []wire.Payload{&wire.RelayStateRPower{
		RelayIndex: p.RelayIndex,
		Level:      ctx.Device.RelayLevel(int(p.RelayIndex)),
	}}
}

func handleRelaySetRPower(ctx *Context) []wire.Payload {
	if !ctx.Device.Features.HasRelays {
		return []wire.Payload{Unhandled(ctx.Header.Type)}
	}
	p, ok := ctx.Payload.(*wire.RelaySetRPower)
	if !ok {
		return nil
	}
	ctx.Device.SetRelayLevel(int(p.RelayIndex), p.Level)
	if !ctx.ResRequired {
		return nil
	}
	return []wire.Payload{&wire.RelayStateRPower{
		RelayIndex: p.RelayIndex,
		Level:      ctx.Device.RelayLevel(int(p.RelayIndex)),
	}}
}
