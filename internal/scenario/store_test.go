package scenario

import (
	"testing"

	"github.com/alessio-palumbo/lifx-emulator/internal/registry"
	"github.com/stretchr/testify/assert"
)

func float64Ptr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool          { return &b }

func TestResolveForPrecedenceDeviceOverGlobal(t *testing.T) {
	s := NewStore()
	serial := [6]byte{1, 2, 3, 4, 5, 6}

	s.SetGlobalRules(RuleSet{DropPackets: map[uint16]float64{101: 1.0}})
	s.SetDeviceRules(serial, RuleSet{DropPackets: map[uint16]float64{101: 0.0}})

	merged := s.ResolveFor(DeviceContext{Serial: serial})
	assert.Equal(t, 0.0, merged.DropProbability(101), "device-scope rule must win over global")
}

func TestResolveForFieldLevelMerge(t *testing.T) {
	s := NewStore()
	serial := [6]byte{9}

	s.SetDeviceRules(serial, RuleSet{DropPackets: map[uint16]float64{101: 1.0}})
	s.SetGlobalRules(RuleSet{ResponseDelays: map[uint16]float64{101: 0.5}})

	merged := s.ResolveFor(DeviceContext{Serial: serial})
	assert.Equal(t, 1.0, merged.DropProbability(101), "device scope supplies DropPackets")
	assert.Equal(t, 0.5, merged.ResponseDelay(101), "global scope supplies ResponseDelays since device scope left it unset")
}

func TestResolveForTypePrecedenceOverLocationAndGroup(t *testing.T) {
	s := NewStore()
	serial := [6]byte{1}
	location := [16]byte{0xAA}

	s.SetLocationRules(location, RuleSet{DropPackets: map[uint16]float64{101: 1.0}})
	s.SetTypeRules("color", RuleSet{DropPackets: map[uint16]float64{101: 0.0}})

	ctx := DeviceContext{Serial: serial, Location: location, Features: registry.FeatureSet{HasColor: true}}
	merged := s.ResolveFor(ctx)
	assert.Equal(t, 0.0, merged.DropProbability(101))
}

func TestSendUnhandledDefaultsTrue(t *testing.T) {
	s := NewStore()
	merged := s.ResolveFor(DeviceContext{Serial: [6]byte{1}})
	assert.True(t, merged.SendUnhandled)
}

func TestSetScopeInvalidatesCache(t *testing.T) {
	s := NewStore()
	serial := [6]byte{1}

	s.SetGlobalRules(RuleSet{DropPackets: map[uint16]float64{101: 1.0}})
	first := s.ResolveFor(DeviceContext{Serial: serial})
	assert.Equal(t, 1.0, first.DropProbability(101))

	s.SetGlobalRules(RuleSet{DropPackets: map[uint16]float64{101: 0.0}})
	second := s.ResolveFor(DeviceContext{Serial: serial})
	assert.Equal(t, 0.0, second.DropProbability(101), "SetScope must invalidate the merged-rule cache")
}

func TestClearDeviceRulesFallsBackToGlobal(t *testing.T) {
	s := NewStore()
	serial := [6]byte{1}

	s.SetGlobalRules(RuleSet{DropPackets: map[uint16]float64{101: 1.0}})
	s.SetDeviceRules(serial, RuleSet{DropPackets: map[uint16]float64{101: 0.0}})
	s.ClearDeviceRules(serial)

	merged := s.ResolveFor(DeviceContext{Serial: serial})
	assert.Equal(t, 1.0, merged.DropProbability(101))
}
