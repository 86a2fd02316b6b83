package scenario

import (
	"sync"

	"github.com/alessio-palumbo/lifx-emulator/internal/registry"
)

// DeviceContext is the minimal description of a device Store needs to
// resolve its merged rules: identity, grouping and capabilities. It
// deliberately avoids importing devicestate.Device to keep the
// scenario engine usable independent of the concrete device record.
type DeviceContext struct {
	Serial   [6]byte
	Location [16]byte
	Group    [16]byte
	Features registry.FeatureSet
}

// Store holds rule sets at every scope plus the per-device merged-rule
// cache. All methods are safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	device   map[[6]byte]RuleSet
	typ      map[string]RuleSet
	location map[[16]byte]RuleSet
	group    map[[16]byte]RuleSet
	global   RuleSet

	cache map[[6]byte]MergedRules
}

// NewStore returns an empty rule store.
func NewStore() *Store {
	return &Store{
		device:   make(map[[6]byte]RuleSet),
		typ:      make(map[string]RuleSet),
		location: make(map[[16]byte]RuleSet),
		group:    make(map[[16]byte]RuleSet),
		cache:    make(map[[6]byte]MergedRules),
	}
}

// SetDeviceRules installs device-scope rules, the highest-precedence
// scope, keyed by the device's own serial.
func (s *Store) SetDeviceRules(serial [6]byte, rules RuleSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.device[serial] = rules
	s.invalidateLocked()
}

func (s *Store) ClearDeviceRules(serial [6]byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.device, serial)
	s.invalidateLocked()
}

// SetTypeRules installs rules for a device-type scope: one of "color",
// "infrared", "hev", "multizone", "extended_multizone", "matrix".
func (s *Store) SetTypeRules(typeName string, rules RuleSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.typ[typeName] = rules
	s.invalidateLocked()
}

func (s *Store) ClearTypeRules(typeName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.typ, typeName)
	s.invalidateLocked()
}

// SetLocationRules installs rules for every device sharing a location
// id.
func (s *Store) SetLocationRules(locationID [16]byte, rules RuleSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.location[locationID] = rules
	s.invalidateLocked()
}

func (s *Store) ClearLocationRules(locationID [16]byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.location, locationID)
	s.invalidateLocked()
}

// SetGroupRules installs rules for every device sharing a group id.
func (s *Store) SetGroupRules(groupID [16]byte, rules RuleSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.group[groupID] = rules
	s.invalidateLocked()
}

func (s *Store) ClearGroupRules(groupID [16]byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.group, groupID)
	s.invalidateLocked()
}

// SetGlobalRules installs the lowest-precedence, fleet-wide rules.
func (s *Store) SetGlobalRules(rules RuleSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.global = rules
	s.invalidateLocked()
}

func (s *Store) ClearGlobalRules() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.global = RuleSet{}
	s.invalidateLocked()
}

// Invalidate clears the entire merged-rule cache. Called automatically
// by every Set/Clear method above; also exposed for the device manager
// to call when a device's location or group membership changes outside
// a scenario edit.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidateLocked()
}

func (s *Store) invalidateLocked() {
	s.cache = make(map[[6]byte]MergedRules)
}

// ResolveFor returns the merged rule set for a device, computing and
// caching it on first use.
func (s *Store) ResolveFor(ctx DeviceContext) MergedRules {
	s.mu.RLock()
	if cached, ok := s.cache[ctx.Serial]; ok {
		s.mu.RUnlock()
		return cached
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another goroutine may have populated it between the unlock above
	// and this lock; re-check before recomputing.
	if cached, ok := s.cache[ctx.Serial]; ok {
		return cached
	}

	merged := s.mergeLocked(ctx)
	s.cache[ctx.Serial] = merged
	return merged
}

func (s *Store) mergeLocked(ctx DeviceContext) MergedRules {
	var merged RuleSet

	if rs, ok := s.device[ctx.Serial]; ok {
		merged = mergeField(merged, rs)
	}
	for _, typeKey := range typeKeysFor(ctx.Features) {
		if rs, ok := s.typ[typeKey]; ok {
			merged = mergeField(merged, rs)
		}
	}
	if rs, ok := s.location[ctx.Location]; ok {
		merged = mergeField(merged, rs)
	}
	if rs, ok := s.group[ctx.Group]; ok {
		merged = mergeField(merged, rs)
	}
	merged = mergeField(merged, s.global)

	return merged.resolve()
}
