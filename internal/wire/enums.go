package wire

import "fmt"

// Enums in the LIFX protocol are fixed-width unsigned integers. An
// out-of-range value on the wire never fails decoding; it surfaces as
// an Unknown(N) value instead, matching how real devices tolerate
// client noise (protocol values reserved for future use).

// Service identifies the transport a device advertises in StateService.
type Service uint8

const ServiceUDP Service = 1

func (s Service) String() string {
	if s == ServiceUDP {
		return "UDP"
	}
	return fmt.Sprintf("Unknown(%d)", uint8(s))
}

// Waveform selects the shape SetWaveform uses to transition color.
type Waveform uint8

const (
	WaveformSaw Waveform = iota
	WaveformSine
	WaveformHalfSine
	WaveformTriangle
	WaveformPulse
)

func (w Waveform) String() string {
	switch w {
	case WaveformSaw:
		return "SAW"
	case WaveformSine:
		return "SINE"
	case WaveformHalfSine:
		return "HALF_SINE"
	case WaveformTriangle:
		return "TRIANGLE"
	case WaveformPulse:
		return "PULSE"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(w))
	}
}

// MultiZoneApplicationRequest is the apply field of SetColorZones /
// SetExtendedColorZones. The handlers write the zones at once for
// APPLY and APPLY_ONLY and discard a NO_APPLY write; nothing is
// buffered for a later apply.
type MultiZoneApplicationRequest uint8

const (
	ApplicationRequestNoApply MultiZoneApplicationRequest = iota
	ApplicationRequestApply
	ApplicationRequestApplyOnly
)

func (a MultiZoneApplicationRequest) String() string {
	switch a {
	case ApplicationRequestNoApply:
		return "NO_APPLY"
	case ApplicationRequestApply:
		return "APPLY"
	case ApplicationRequestApplyOnly:
		return "APPLY_ONLY"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(a))
	}
}

// MultiZoneEffectType selects a firmware-driven multizone effect.
type MultiZoneEffectType uint8

const (
	MultiZoneEffectOff MultiZoneEffectType = iota
	MultiZoneEffectMove
)

func (e MultiZoneEffectType) String() string {
	switch e {
	case MultiZoneEffectOff:
		return "OFF"
	case MultiZoneEffectMove:
		return "MOVE"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(e))
	}
}

// TileEffectType selects a firmware-driven matrix effect.
type TileEffectType uint8

const (
	TileEffectOff TileEffectType = iota
	TileEffectReserved1
	TileEffectMorph
	TileEffectFlame
	TileEffectReserved4
	TileEffectSky
)

func (e TileEffectType) String() string {
	switch e {
	case TileEffectOff:
		return "OFF"
	case TileEffectMorph:
		return "MORPH"
	case TileEffectFlame:
		return "FLAME"
	case TileEffectSky:
		return "SKY"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(e))
	}
}

// TileEffectSkyType selects the Sky effect's sub-behavior.
type TileEffectSkyType uint8

const (
	TileEffectSkyTypeSunrise TileEffectSkyType = iota
	TileEffectSkyTypeSunset
	TileEffectSkyTypeClouds
)

func (s TileEffectSkyType) String() string {
	switch s {
	case TileEffectSkyTypeSunrise:
		return "SUNRISE"
	case TileEffectSkyTypeSunset:
		return "SUNSET"
	case TileEffectSkyTypeClouds:
		return "CLOUDS"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(s))
	}
}

// HevCycleIndication controls whether other clients are notified an
// HEV cycle is in progress via a light flash.
type HevCycleIndication uint8

const (
	HevIndicationOff HevCycleIndication = iota
	HevIndicationOn
)

// LastHevCycleResult reports how the most recent HEV cycle ended.
type LastHevCycleResult uint8

const (
	HevResultSuccess LastHevCycleResult = iota
	HevResultBusy
	HevResultInterruptedByReset
	HevResultInterruptedByHomekit
	HevResultInterruptedByLan
	HevResultInterruptedByCloud
	HevResultNone
)

func (r LastHevCycleResult) String() string {
	switch r {
	case HevResultSuccess:
		return "SUCCESS"
	case HevResultBusy:
		return "BUSY"
	case HevResultInterruptedByReset:
		return "INTERRUPTED_BY_RESET"
	case HevResultInterruptedByHomekit:
		return "INTERRUPTED_BY_HOMEKIT"
	case HevResultInterruptedByLan:
		return "INTERRUPTED_BY_LAN"
	case HevResultInterruptedByCloud:
		return "INTERRUPTED_BY_CLOUD"
	case HevResultNone:
		return "NONE"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(r))
	}
}
