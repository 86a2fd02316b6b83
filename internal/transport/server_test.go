package transport

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/alessio-palumbo/lifx-emulator/internal/devicemgr"
	"github.com/alessio-palumbo/lifx-emulator/internal/devicestate"
	"github.com/alessio-palumbo/lifx-emulator/internal/registry"
	"github.com/alessio-palumbo/lifx-emulator/internal/scenario"
	"github.com/alessio-palumbo/lifx-emulator/internal/wire"
	"github.com/stretchr/testify/require"
)

func startTestServer(t *testing.T, manager *devicemgr.Manager, store *scenario.Store) (*Server, *net.UDPConn, func()) {
	t.Helper()

	srv, err := New("127.0.0.1:0", manager, store, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		srv.Run(ctx)
		close(done)
	}()

	client, err := net.DialUDP("udp", nil, srv.LocalAddr().(*net.UDPAddr))
	require.NoError(t, err)
	client.SetReadDeadline(time.Now().Add(2 * time.Second))

	return srv, client, func() {
		client.Close()
		cancel()
		<-done
	}
}

func newTestDevice(t *testing.T, serial devicestate.Serial, product uint32) *devicestate.Device {
	t.Helper()
	features := registry.Lookup(1, product)
	return devicestate.New(serial, 1, product, features, "test")
}

func sendRequest(t *testing.T, conn *net.UDPConn, pktType uint16, target devicestate.Serial, tagged, ackRequired, resRequired bool, body []byte) {
	t.Helper()
	var h wire.Header
	h.SetProtocol(1024)
	h.SetAddressable(true)
	h.SetTagged(tagged)
	h.SetAckRequired(ackRequired)
	h.SetResponseRequired(resRequired)
	h.Type = pktType
	h.Source = 0xCAFEBABE
	h.Sequence = 7
	if !tagged {
		copy(h.Target[:6], target[:])
	}
	h.Size = wire.HeaderSize + uint16(len(body))

	encoded := wire.EncodeHeader(h)
	out := append(encoded[:], body...)
	_, err := conn.Write(out)
	require.NoError(t, err)
}

func readResponse(t *testing.T, conn *net.UDPConn) wire.Message {
	t.Helper()
	buf := make([]byte, 2048)
	n, err := conn.Read(buf)
	require.NoError(t, err)

	var msg wire.Message
	require.NoError(t, msg.UnmarshalBinary(buf[:n]))
	return msg
}

func TestGetServiceBroadcastAnswersEveryDevice(t *testing.T) {
	manager := devicemgr.New()
	manager.Add(newTestDevice(t, devicestate.Serial{1, 1, 1, 1, 1, 1}, 29))
	manager.Add(newTestDevice(t, devicestate.Serial{2, 2, 2, 2, 2, 2}, 29))
	store := scenario.NewStore()

	_, conn, stop := startTestServer(t, manager, store)
	defer stop()

	sendRequest(t, conn, wire.TypeGetService, devicestate.Serial{}, true, false, true, nil)

	seen := map[devicestate.Serial]bool{}
	for i := 0; i < 2; i++ {
		msg := readResponse(t, conn)
		require.Equal(t, wire.TypeStateService, msg.Header.Type)
		state, ok := msg.Payload.(*wire.StateService)
		require.True(t, ok)
		require.Equal(t, wire.ServiceUDP, state.Service)
		require.EqualValues(t, 56700, state.Port)

		var serial devicestate.Serial
		copy(serial[:], msg.Header.Target[:6])
		seen[serial] = true
	}
	require.Len(t, seen, 2)
}

func TestSetPowerUnicastAcksBeforeStatePower(t *testing.T) {
	manager := devicemgr.New()
	serial := devicestate.Serial{3, 3, 3, 3, 3, 3}
	d := newTestDevice(t, serial, 29)
	manager.Add(d)
	store := scenario.NewStore()

	_, conn, stop := startTestServer(t, manager, store)
	defer stop()

	body := make([]byte, 2)
	body[0], body[1] = 0xFF, 0xFF
	sendRequest(t, conn, wire.TypeSetPower, serial, false, true, true, body)

	ack := readResponse(t, conn)
	require.Equal(t, wire.TypeAcknowledgement, ack.Header.Type)

	state := readResponse(t, conn)
	require.Equal(t, wire.TypeStatePower, state.Header.Type)
	require.True(t, d.PoweredOn())
}

func TestUnicastToUnknownSerialIsDropped(t *testing.T) {
	manager := devicemgr.New()
	manager.Add(newTestDevice(t, devicestate.Serial{4, 4, 4, 4, 4, 4}, 29))
	store := scenario.NewStore()

	_, conn, stop := startTestServer(t, manager, store)
	defer stop()

	conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	sendRequest(t, conn, wire.TypeGetService, devicestate.Serial{9, 9, 9, 9, 9, 9}, false, false, true, nil)

	buf := make([]byte, 64)
	_, err := conn.Read(buf)
	require.Error(t, err)
}

func TestSwitchDeviceRejectsColorNamespaceWithStateUnhandled(t *testing.T) {
	manager := devicemgr.New()
	serial := devicestate.Serial{5, 5, 5, 5, 5, 5}
	manager.Add(newTestDevice(t, serial, 70))
	store := scenario.NewStore()

	_, conn, stop := startTestServer(t, manager, store)
	defer stop()

	sendRequest(t, conn, wire.TypeLightGet, serial, false, false, true, nil)

	msg := readResponse(t, conn)
	require.Equal(t, wire.TypeStateUnhandled, msg.Header.Type)
	unhandled, ok := msg.Payload.(*wire.StateUnhandled)
	require.True(t, ok)
	require.Equal(t, wire.TypeLightGet, unhandled.UnhandledType)
}

func TestDropRuleSuppressesAllResponses(t *testing.T) {
	manager := devicemgr.New()
	serial := devicestate.Serial{6, 6, 6, 6, 6, 6}
	manager.Add(newTestDevice(t, serial, 29))
	store := scenario.NewStore()
	store.SetDeviceRules(serial, scenario.RuleSet{DropPackets: map[uint16]float64{wire.TypeGetLabel: 1}})

	_, conn, stop := startTestServer(t, manager, store)
	defer stop()

	conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	sendRequest(t, conn, wire.TypeGetLabel, serial, false, true, true, nil)

	buf := make([]byte, 64)
	_, err := conn.Read(buf)
	require.Error(t, err)
}

func TestResponseDelayDefersSendWithoutBlockingOtherDevices(t *testing.T) {
	manager := devicemgr.New()
	slow := devicestate.Serial{7, 7, 7, 7, 7, 7}
	fast := devicestate.Serial{8, 8, 8, 8, 8, 8}
	manager.Add(newTestDevice(t, slow, 29))
	manager.Add(newTestDevice(t, fast, 29))

	store := scenario.NewStore()
	store.SetDeviceRules(slow, scenario.RuleSet{ResponseDelays: map[uint16]float64{wire.TypeGetLabel: 0.2}})

	_, conn, stop := startTestServer(t, manager, store)
	defer stop()

	start := time.Now()
	sendRequest(t, conn, wire.TypeGetLabel, slow, false, false, true, nil)
	sendRequest(t, conn, wire.TypeGetLabel, fast, false, false, true, nil)

	first := readResponse(t, conn)
	elapsed := time.Since(start)
	require.Equal(t, wire.TypeStateLabel, first.Header.Type)
	require.Less(t, elapsed, 150*time.Millisecond)

	second := readResponse(t, conn)
	require.Equal(t, wire.TypeStateLabel, second.Header.Type)
}
