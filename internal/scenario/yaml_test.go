package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadRuleSetFileParsesAllFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "global.yaml")
	body := `
drop_packets:
  502: 0.1
response_delays:
  101: 0.5
malformed_packets:
  501: true
invalid_field_values:
  25: true
partial_responses:
  511: true
firmware_version:
  major: 3
  minor: 70
send_unhandled: false
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	rs, err := LoadRuleSetFile(path)
	require.NoError(t, err)
	require.Equal(t, 0.1, rs.DropPackets[502])
	require.Equal(t, 0.5, rs.ResponseDelays[101])
	require.True(t, rs.MalformedPackets[501])
	require.True(t, rs.InvalidFieldValues[25])
	require.True(t, rs.PartialResponses[511])
	require.NotNil(t, rs.FirmwareVersion)
	require.EqualValues(t, 3, rs.FirmwareVersion.Major)
	require.EqualValues(t, 70, rs.FirmwareVersion.Minor)
	require.NotNil(t, rs.SendUnhandled)
	require.False(t, *rs.SendUnhandled)
}

func TestLoadRuleSetFileMissingFileErrors(t *testing.T) {
	_, err := LoadRuleSetFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
