package testutil

import (
	"net"
	"testing"

	"github.com/alessio-palumbo/lifx-emulator/internal/wire"
	"github.com/stretchr/testify/require"
)

// NewMockUDPServer spins up a UDP listener on an ephemeral port and
// dispatches every decoded Message to handler, matching the shape of
// the real transport loop closely enough for protocol-level tests
// without pulling in the full device manager.
func NewMockUDPServer(t *testing.T, handler func(*wire.Message, *net.UDPAddr)) (*net.UDPConn, *net.UDPAddr) {
	addr := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0}
	conn, err := net.ListenUDP("udp", addr)
	require.NoError(t, err)

	go func() {
		buf := make([]byte, 2048)
		for {
			n, src, err := conn.ReadFromUDP(buf)
			if err != nil {
				return
			}

			var msg wire.Message
			if err := msg.UnmarshalBinary(buf[:n]); err != nil {
				// skip malformed
				continue
			}
			handler(&msg, src)
		}
	}()

	return conn, conn.LocalAddr().(*net.UDPAddr)
}
