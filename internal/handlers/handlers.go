// Package handlers implements the device-side behavior for every
// packet type this emulator speaks: given a device's current state and
// a decoded request, produce the response payload list the transport
// should send.
package handlers

import (
	"github.com/alessio-palumbo/lifx-emulator/internal/devicestate"
	"github.com/alessio-palumbo/lifx-emulator/internal/scenario"
	"github.com/alessio-palumbo/lifx-emulator/internal/wire"
)

// Context bundles everything a handler needs: the target device's
// state, the decoded request and its header, and that device's
// resolved scenario rules (consulted by handlers that surface
// scenario-overridden fields, e.g. firmware_version).
type Context struct {
	Device      *devicestate.Device
	Header      wire.Header
	Payload     wire.Payload
	ResRequired bool
	Rules       scenario.MergedRules
}

// Handler implements one packet type's device-side behavior. A nil
// return means no response is sent for this request (a pure setter
// with res_required=0, for example).
type Handler func(ctx *Context) []wire.Payload

var registry = map[uint16]Handler{}

func register(pktType uint16, h Handler) {
	registry[pktType] = h
}

// Unhandled builds the StateUnhandled response for a rejected packet
// type, used both by the central Switch-device gate and by individual
// handlers that reject a capability mismatch.
func Unhandled(pktType uint16) wire.Payload {
	return &wire.StateUnhandled{UnhandledType: pktType}
}

// Dispatch resolves and runs the handler for ctx.Header.Type, applying
// the Switch-device namespace gate first. The returned bool reports
// whether the responses include a StateUnhandled, whether it came from
// the Switch gate, from Dispatch for an unknown type, or from a
// handler; the transport uses it to decide early-ack suppression.
func Dispatch(ctx *Context) (responses []wire.Payload, isUnhandledResponse bool) {
	ns := wire.PacketClassOf(ctx.Header.Type)

	if ctx.Device.Features.HasRelays && ctx.Device.Features.HasButtons && !ctx.Device.Features.HasColor {
		switch ns {
		case wire.NamespaceLight, wire.NamespaceMultiZone, wire.NamespaceMatrix:
			return []wire.Payload{Unhandled(ctx.Header.Type)}, true
		}
	}

	h, ok := registry[ctx.Header.Type]
	if !ok {
		if ctx.Rules.SendUnhandled {
			return []wire.Payload{Unhandled(ctx.Header.Type)}, true
		}
		return nil, false
	}

	resp := h(ctx)
	for _, p := range resp {
		if _, isUnhandled := p.(*wire.StateUnhandled); isUnhandled {
			return resp, true
		}
	}
	return resp, false
}
