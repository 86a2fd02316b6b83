package persistence

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/alessio-palumbo/lifx-emulator/internal/devicestate"
	"github.com/alessio-palumbo/lifx-emulator/internal/registry"
	"github.com/stretchr/testify/require"
)

func newTestDevice(serial devicestate.Serial) *devicestate.Device {
	features := registry.Lookup(1, 29)
	return devicestate.New(serial, 1, 29, features, "kitchen")
}

func TestSaveAndLoadRoundTripsDeviceState(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir, 10*time.Millisecond, nil)
	require.NoError(t, err)
	defer store.Close()

	serial := devicestate.Serial{1, 2, 3, 4, 5, 6}
	d := newTestDevice(serial)
	d.SetLabel("office")
	d.SetPoweredOn(true)
	d.OnChange(store.OnChange(d))

	d.SetColor(d.Color())
	store.Flush()

	snap, ok, err := store.Load(serial)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "office", snap.Core.Label)
	require.True(t, snap.Core.PoweredOn)
}

func TestLoadMissingDeviceReturnsNotOkNoError(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir, DefaultDebounce, nil)
	require.NoError(t, err)
	defer store.Close()

	_, ok, err := store.Load(devicestate.Serial{9, 9, 9, 9, 9, 9})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestBurstOfChangesCollapsesIntoOneDebouncedWrite(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir, 50*time.Millisecond, nil)
	require.NoError(t, err)
	defer store.Close()

	serial := devicestate.Serial{7, 7, 7, 7, 7, 7}
	d := newTestDevice(serial)
	d.OnChange(store.OnChange(d))

	for i := 0; i < 20; i++ {
		d.SetLabel("label")
	}
	store.Flush()

	snap, ok, err := store.Load(serial)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "label", snap.Core.Label)
}

func TestWriteReplacesFileAtomicallyLeavingNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir, DefaultDebounce, nil)
	require.NoError(t, err)
	defer store.Close()

	serial := devicestate.Serial{2, 2, 2, 2, 2, 2}
	require.NoError(t, store.write(serial, newTestDevice(serial).Snapshot()))

	matches, err := filepath.Glob(filepath.Join(dir, "*.tmp-*"))
	require.NoError(t, err)
	require.Empty(t, matches)

	_, ok, err := store.Load(serial)
	require.NoError(t, err)
	require.True(t, ok)
}
