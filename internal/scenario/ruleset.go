// Package scenario implements the fault-injection rule engine: a
// five-level hierarchical rule store (device, type, location, group,
// global) that the transport consults to drop, delay, truncate or
// corrupt responses, so client libraries can be exercised against
// realistic network and firmware misbehavior without a physical
// device.
package scenario

import "github.com/alessio-palumbo/lifx-emulator/internal/registry"

// FirmwareVersion overrides the (major, minor) pair handlers that
// surface firmware fields report.
type FirmwareVersion struct {
	Major uint16
	Minor uint16
}

// RuleSet is one scope's worth of fault-injection rules. Every field
// is nil/unset by default; a field a scope's RuleSet leaves nil is
// supplied by a lower-precedence scope. Map and set
// fields are replaced wholesale by whichever scope first defines them,
// not merged key-by-key across scopes.
type RuleSet struct {
	DropPackets        map[uint16]float64
	ResponseDelays     map[uint16]float64
	MalformedPackets   map[uint16]bool
	InvalidFieldValues map[uint16]bool
	PartialResponses   map[uint16]bool
	FirmwareVersion    *FirmwareVersion
	SendUnhandled      *bool
}

// MergedRules is the resolved rule set for one device: the result of
// applying device > type > location > group > global precedence,
// field by field.
type MergedRules struct {
	DropPackets        map[uint16]float64
	ResponseDelays     map[uint16]float64
	MalformedPackets   map[uint16]bool
	InvalidFieldValues map[uint16]bool
	PartialResponses   map[uint16]bool
	FirmwareVersion    *FirmwareVersion
	SendUnhandled      bool
}

// defaultSendUnhandled is the engine-wide default for send_unhandled
// when no scope in the chain sets it.
const defaultSendUnhandled = true

func mergeField(dst RuleSet, src RuleSet) RuleSet {
	if dst.DropPackets == nil {
		dst.DropPackets = src.DropPackets
	}
	if dst.ResponseDelays == nil {
		dst.ResponseDelays = src.ResponseDelays
	}
	if dst.MalformedPackets == nil {
		dst.MalformedPackets = src.MalformedPackets
	}
	if dst.InvalidFieldValues == nil {
		dst.InvalidFieldValues = src.InvalidFieldValues
	}
	if dst.PartialResponses == nil {
		dst.PartialResponses = src.PartialResponses
	}
	if dst.FirmwareVersion == nil {
		dst.FirmwareVersion = src.FirmwareVersion
	}
	if dst.SendUnhandled == nil {
		dst.SendUnhandled = src.SendUnhandled
	}
	return dst
}

func (r RuleSet) resolve() MergedRules {
	sendUnhandled := defaultSendUnhandled
	if r.SendUnhandled != nil {
		sendUnhandled = *r.SendUnhandled
	}
	return MergedRules{
		DropPackets:        r.DropPackets,
		ResponseDelays:     r.ResponseDelays,
		MalformedPackets:   r.MalformedPackets,
		InvalidFieldValues: r.InvalidFieldValues,
		PartialResponses:   r.PartialResponses,
		FirmwareVersion:    r.FirmwareVersion,
		SendUnhandled:      sendUnhandled,
	}
}

// DropProbability returns the configured drop probability for a packet
// type, or 0 if unset.
func (m MergedRules) DropProbability(pktType uint16) float64 {
	if m.DropPackets == nil {
		return 0
	}
	return m.DropPackets[pktType]
}

// ResponseDelay returns the configured delay, in seconds, for a packet
// type, or 0 if unset.
func (m MergedRules) ResponseDelay(pktType uint16) float64 {
	if m.ResponseDelays == nil {
		return 0
	}
	return m.ResponseDelays[pktType]
}

func (m MergedRules) IsMalformed(pktType uint16) bool {
	return m.MalformedPackets != nil && m.MalformedPackets[pktType]
}

func (m MergedRules) HasInvalidFieldValues(pktType uint16) bool {
	return m.InvalidFieldValues != nil && m.InvalidFieldValues[pktType]
}

func (m MergedRules) IsPartial(pktType uint16) bool {
	return m.PartialResponses != nil && m.PartialResponses[pktType]
}

// typePrecedence orders the type-scope keys consulted when a device
// qualifies for more than one (e.g. a multizone light also has color).
// Earlier entries win ties for the same field, matching the intuition
// that more specific capabilities should override generic ones.
var typePrecedence = []string{"extended_multizone", "multizone", "matrix", "hev", "infrared", "color"}

// typeKeysFor returns the type-scope keys a device's features qualify
// it for, in precedence order.
func typeKeysFor(f registry.FeatureSet) []string {
	var keys []string
	if f.HasExtendedMultiZone {
		keys = append(keys, "extended_multizone")
	}
	if f.HasMultiZone {
		keys = append(keys, "multizone")
	}
	if f.HasMatrix {
		keys = append(keys, "matrix")
	}
	if f.HasHev {
		keys = append(keys, "hev")
	}
	if f.HasInfrared {
		keys = append(keys, "infrared")
	}
	if f.HasColor {
		keys = append(keys, "color")
	}
	return keys
}
