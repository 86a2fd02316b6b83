// Package transport owns the UDP socket: it decodes incoming
// requests, resolves the target devices and their scenario rules,
// dispatches to internal/handlers and writes the resulting responses
// back to the sender, enforcing the acknowledgment and fault-injection
// policy along the way.
package transport

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/alessio-palumbo/lifx-emulator/internal/devicemgr"
	"github.com/alessio-palumbo/lifx-emulator/internal/devicestate"
	"github.com/alessio-palumbo/lifx-emulator/internal/handlers"
	"github.com/alessio-palumbo/lifx-emulator/internal/scenario"
	"github.com/alessio-palumbo/lifx-emulator/internal/wire"
	"github.com/sirupsen/logrus"
)

const recvBufferSize = 2048

// Server is the UDP front end: one socket, one receive loop, fanning
// out each request to every device it resolves to.
type Server struct {
	conn    *net.UDPConn
	devices *devicemgr.Manager
	rules   *scenario.Store
	log     *logrus.Entry

	wg sync.WaitGroup
}

// New binds addr and returns a Server ready to Run. addr is a
// "host:port" string, e.g. "127.0.0.1:56700".
func New(addr string, devices *devicemgr.Manager, rules *scenario.Store, log *logrus.Entry) (*Server, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Server{conn: conn, devices: devices, rules: rules, log: log}, nil
}

// LocalAddr returns the address the server actually bound to, useful
// when addr was passed with port 0.
func (s *Server) LocalAddr() net.Addr {
	return s.conn.LocalAddr()
}

// Run reads datagrams until ctx is canceled, then closes the socket
// and waits (bounded by shutdownFlush) for in-flight delayed-response
// goroutines to return. The socket is already closed by then, so a
// response still waiting out its delay is not delivered.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.conn.Close()
	}()

	buf := make([]byte, recvBufferSize)
	for {
		n, addr, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				continue
			}
			s.log.WithError(err).Debug("udp read failed")
			continue
		}

		data := make([]byte, n)
		copy(data, buf[:n])
		s.handleDatagram(data, addr)
	}

	return s.shutdown()
}

const shutdownFlush = 2 * time.Second

func (s *Server) shutdown() error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(shutdownFlush):
		s.log.Warn("shutdown timed out waiting for in-flight responses")
	}
	return nil
}

// handleDatagram implements the per-request packet pipeline: decode,
// resolve targets, and process each target device.
func (s *Server) handleDatagram(data []byte, addr *net.UDPAddr) {
	if len(data) < wire.HeaderSize {
		return
	}

	var msg wire.Message
	if err := msg.UnmarshalBinary(data); err != nil {
		s.log.WithError(err).Debug("dropping malformed request")
		return
	}

	targets := s.devices.Resolve(msg.Header)
	if len(targets) == 0 {
		return
	}

	for _, d := range targets {
		s.processForDevice(msg, d, addr)
	}
}

// processForDevice runs the ack/dispatch/transform pipeline for one
// resolved device, synchronously through the handler call (so device
// mutation stays serialized with every other request against it) and
// asynchronously from the response delay onward (so a slow scenario
// delay on one device never stalls the receive loop).
func (s *Server) processForDevice(req wire.Message, d *devicestate.Device, addr *net.UDPAddr) {
	reqHeader := req.Header
	pktType := reqHeader.Type

	merged := s.rules.ResolveFor(devicemgr.ScenarioContext(d))
	if scenario.ShouldDrop(merged, pktType) {
		return
	}

	ctx := &handlers.Context{
		Device:      d,
		Header:      reqHeader,
		Payload:     req.Payload,
		ResRequired: reqHeader.ResponseRequired(),
		Rules:       merged,
	}

	responses, isUnhandled := handlers.Dispatch(ctx)

	ackRequired := reqHeader.AckRequired()
	if ackRequired && !isUnhandled {
		s.writeResponse(wire.TypeAcknowledgement, nil, reqHeader, d.Serial, addr)
	}

	if len(responses) == 0 && !(ackRequired && isUnhandled) {
		return
	}

	delay := time.Duration(merged.ResponseDelay(pktType) * float64(time.Second))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.sendResponses(responses, isUnhandled, ackRequired, delay, pktType, merged, reqHeader, d.Serial, addr)
	}()
}

func (s *Server) sendResponses(
	responses []wire.Payload,
	isUnhandled, ackRequired bool,
	delay time.Duration,
	pktType uint16,
	merged scenario.MergedRules,
	reqHeader wire.Header,
	serial devicestate.Serial,
	addr *net.UDPAddr,
) {
	if delay > 0 {
		time.Sleep(delay)
	}

	types := make([]uint16, len(responses))
	bodies := make([][]byte, len(responses))
	for i, p := range responses {
		types[i] = p.PayloadType()
		body, err := p.MarshalBinary()
		if err != nil {
			s.log.WithError(err).Warn("failed to marshal response payload")
			return
		}
		bodies[i] = body
	}

	truncated := scenario.ApplyPartial(merged, pktType, bodies)
	types, bodies = types[:len(truncated)], truncated
	bodies = scenario.ApplyMalformed(merged, pktType, bodies)
	bodies = scenario.ApplyInvalidFieldValues(merged, pktType, bodies)

	if isUnhandled && ackRequired {
		types = append([]uint16{wire.TypeAcknowledgement}, types...)
		bodies = append([][]byte{nil}, bodies...)
	}

	for i, body := range bodies {
		s.writeResponse(types[i], body, reqHeader, serial, addr)
	}
}

func (s *Server) writeResponse(pktType uint16, body []byte, reqHeader wire.Header, serial devicestate.Serial, addr *net.UDPAddr) {
	var h wire.Header
	h.SetProtocol(1024)
	h.SetAddressable(true)
	h.Source = reqHeader.Source
	h.Sequence = reqHeader.Sequence
	h.Type = pktType
	copy(h.Target[:6], serial[:])
	h.Target[6], h.Target[7] = 0, 0
	h.SetTagged(false)
	h.SetResponseRequired(false)
	h.SetAckRequired(false)
	h.Size = uint16(wire.HeaderSize + len(body))

	encoded := wire.EncodeHeader(h)
	out := make([]byte, 0, len(encoded)+len(body))
	out = append(out, encoded[:]...)
	out = append(out, body...)

	if _, err := s.conn.WriteToUDP(out, addr); err != nil {
		s.log.WithError(err).Warn("failed to write response")
	}
}
