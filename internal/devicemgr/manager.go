// Package devicemgr owns the live collection of emulated devices and
// resolves a decoded request header to the device(s) that should
// handle it.
package devicemgr

import (
	"sync"

	"github.com/alessio-palumbo/lifx-emulator/internal/devicestate"
	"github.com/alessio-palumbo/lifx-emulator/internal/scenario"
	"github.com/alessio-palumbo/lifx-emulator/internal/wire"
)

// Manager holds every live device, keyed by serial.
type Manager struct {
	mu      sync.RWMutex
	devices map[devicestate.Serial]*devicestate.Device
}

// New returns an empty device manager.
func New() *Manager {
	return &Manager{devices: make(map[devicestate.Serial]*devicestate.Device)}
}

// Add registers a device, replacing any existing device with the same
// serial.
func (m *Manager) Add(d *devicestate.Device) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.devices[d.Serial] = d
}

// Remove deletes a device by serial. Reports whether it was present.
func (m *Manager) Remove(serial devicestate.Serial) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.devices[serial]; !ok {
		return false
	}
	delete(m.devices, serial)
	return true
}

// Get returns a device by serial.
func (m *Manager) Get(serial devicestate.Serial) (*devicestate.Device, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.devices[serial]
	return d, ok
}

// Count returns the number of live devices.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.devices)
}

// All returns a snapshot slice of every live device. Safe to range
// over without holding the manager's lock; the slice itself will not
// reflect subsequent Add/Remove calls.
func (m *Manager) All() []*devicestate.Device {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*devicestate.Device, 0, len(m.devices))
	for _, d := range m.devices {
		out = append(out, d)
	}
	return out
}

// Resolve returns the devices that should handle a request with the
// given header: every live device for a broadcast header (tagged or
// all-zero target), or exactly the one device whose serial matches the
// low 6 bytes of target. An empty slice means the request is silently
// dropped (unicast to an unknown device).
func (m *Manager) Resolve(h wire.Header) []*devicestate.Device {
	if h.IsBroadcast() {
		return m.All()
	}

	var serial devicestate.Serial
	copy(serial[:], h.Target[:6])

	d, ok := m.Get(serial)
	if !ok {
		return nil
	}
	return []*devicestate.Device{d}
}

// OnChangeFanOut builds a devicestate.Device.OnChange callback that
// fans out a single device mutation to the scenario merged-rule cache
// invalidator and an optional persistence callback. Any device's
// location/group can shift which scenario rules another device
// resolves to, so every mutation invalidates the whole cache rather
// than just the mutated device's entry.
func OnChangeFanOut(rules *scenario.Store, persist func(devicestate.Serial)) func(devicestate.Serial) {
	return func(serial devicestate.Serial) {
		rules.Invalidate()
		if persist != nil {
			persist(serial)
		}
	}
}

// ScenarioContext builds the scenario.DeviceContext the fault-injection
// engine needs to resolve a device's merged rules.
func ScenarioContext(d *devicestate.Device) scenario.DeviceContext {
	loc := d.Location()
	grp := d.Group()
	return scenario.DeviceContext{
		Serial:   [6]byte(d.Serial),
		Location: loc.ID,
		Group:    grp.ID,
		Features: d.Features,
	}
}
