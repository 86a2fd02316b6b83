package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesDefaultBindAddr(t *testing.T) {
	path := writeConfig(t, `
persistence_dir: /tmp/lifx-emulator
devices:
  - serial: "d073d5000001"
    product: 29
    label: living room
`)
	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, DefaultBindAddr, c.BindAddr)
	require.Len(t, c.Devices, 1)
	require.Equal(t, "living room", c.Devices[0].Label)
}

func TestLoadRejectsMissingPersistenceDir(t *testing.T) {
	path := writeConfig(t, `
devices:
  - serial: "d073d5000001"
    product: 29
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsDuplicateSerials(t *testing.T) {
	path := writeConfig(t, `
persistence_dir: /tmp/lifx-emulator
devices:
  - serial: "d073d5000001"
    product: 29
  - serial: "d073d5000001"
    product: 29
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsBadSerialLength(t *testing.T) {
	path := writeConfig(t, `
persistence_dir: /tmp/lifx-emulator
devices:
  - serial: "short"
    product: 29
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestParseSerialDecodesHex(t *testing.T) {
	serial, err := ParseSerial("d073d5010203")
	require.NoError(t, err)
	require.Equal(t, [6]byte{0xd0, 0x73, 0xd5, 0x01, 0x02, 0x03}, serial)
}

func TestDeriveIDIsStableForSameName(t *testing.T) {
	a := DeriveID("Living Room")
	b := DeriveID("Living Room")
	require.Equal(t, a, b)

	c := DeriveID("Kitchen")
	require.NotEqual(t, a, c)
}
