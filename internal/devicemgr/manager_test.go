package devicemgr

import (
	"testing"

	"github.com/alessio-palumbo/lifx-emulator/internal/devicestate"
	"github.com/alessio-palumbo/lifx-emulator/internal/registry"
	"github.com/alessio-palumbo/lifx-emulator/internal/scenario"
	"github.com/alessio-palumbo/lifx-emulator/internal/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDevice(serial devicestate.Serial) *devicestate.Device {
	return devicestate.New(serial, 1, 29, registry.Lookup(1, 29), "test")
}

func TestResolveBroadcastReturnsAllDevices(t *testing.T) {
	m := New()
	m.Add(newTestDevice(devicestate.Serial{0, 0, 0, 0, 0, 1}))
	m.Add(newTestDevice(devicestate.Serial{0, 0, 0, 0, 0, 2}))

	var h wire.Header
	h.SetTagged(true)

	got := m.Resolve(h)
	assert.Len(t, got, 2)
}

func TestResolveUnicastReturnsMatchingDevice(t *testing.T) {
	m := New()
	serial := devicestate.Serial{0xd0, 0x73, 0xd5, 0, 0, 1}
	m.Add(newTestDevice(serial))
	m.Add(newTestDevice(devicestate.Serial{0xd0, 0x73, 0xd5, 0, 0, 2}))

	var h wire.Header
	copy(h.Target[:6], serial[:])

	got := m.Resolve(h)
	require.Len(t, got, 1)
	assert.Equal(t, serial, got[0].Serial)
}

func TestResolveUnicastUnknownDeviceDrops(t *testing.T) {
	m := New()
	m.Add(newTestDevice(devicestate.Serial{1}))

	var h wire.Header
	copy(h.Target[:6], []byte{9, 9, 9, 9, 9, 9})

	assert.Empty(t, m.Resolve(h))
}

func TestAddRemoveGetCount(t *testing.T) {
	m := New()
	serial := devicestate.Serial{1, 2, 3}
	m.Add(newTestDevice(serial))
	assert.Equal(t, 1, m.Count())

	_, ok := m.Get(serial)
	assert.True(t, ok)

	assert.True(t, m.Remove(serial))
	assert.Equal(t, 0, m.Count())
	assert.False(t, m.Remove(serial))
}

func boolPtr(b bool) *bool { return &b }

func TestOnChangeFanOutInvalidatesScenarioCacheAndCallsPersist(t *testing.T) {
	rules := scenario.NewStore()
	locA, locB := [16]byte{1}, [16]byte{2}
	rules.SetLocationRules(locA, scenario.RuleSet{SendUnhandled: boolPtr(true)})
	rules.SetLocationRules(locB, scenario.RuleSet{SendUnhandled: boolPtr(false)})

	serial := devicestate.Serial{9}
	ctx := scenario.DeviceContext{Serial: [6]byte(serial), Location: locA}
	merged := rules.ResolveFor(ctx)
	require.True(t, merged.SendUnhandled)

	// Device moves to locB without any rule being edited; the stale
	// per-serial cache entry must be invalidated for ResolveFor to pick
	// up the new location on its next call.
	var persisted devicestate.Serial
	fanOut := OnChangeFanOut(rules, func(s devicestate.Serial) { persisted = s })
	fanOut(serial)

	ctx.Location = locB
	merged = rules.ResolveFor(ctx)
	assert.False(t, merged.SendUnhandled)
	assert.Equal(t, serial, persisted)
}

func TestOnChangeFanOutToleratesNilPersist(t *testing.T) {
	rules := scenario.NewStore()
	fanOut := OnChangeFanOut(rules, nil)
	assert.NotPanics(t, func() { fanOut(devicestate.Serial{1}) })
}
