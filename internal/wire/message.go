package wire

import "fmt"

// Message pairs a decoded Header with its typed Payload. It is the unit
// the transport layer reads off and writes to the socket.
type Message struct {
	Header  Header
	Payload Payload
}

// NewMessage builds a response message of the given payload type, with
// a header sized and typed to match. Callers set Source/Sequence/Target
// and the ack/response flags via the Set* helpers before sending.
func NewMessage(payload Payload) Message {
	size := 0
	if payload != nil {
		size = payload.Size()
	}
	typ := uint16(0)
	if payload != nil {
		typ = payload.PayloadType()
	}
	return Message{
		Header:  NewRequestHeader(typ, size),
		Payload: payload,
	}
}

func (m *Message) SetSource(source uint32) {
	m.Header.Source = source
}

func (m *Message) SetSequence(seq uint8) {
	m.Header.Sequence = seq
}

// SetTarget addresses the message to a single device's 6-byte serial,
// zero-padded into the 8-byte Target field, and clears the tagged bit
// so it is not treated as a broadcast.
func (m *Message) SetTarget(serial [6]byte) {
	copy(m.Header.Target[:6], serial[:])
	m.Header.Target[6] = 0
	m.Header.Target[7] = 0
	m.Header.SetTagged(false)
}

// SetBroadcast marks the message as addressed to every device: an
// all-zero Target with the tagged bit set.
func (m *Message) SetBroadcast() {
	m.Header.Target = [8]byte{}
	m.Header.SetTagged(true)
}

func (m *Message) SetAckRequired(v bool) {
	m.Header.SetAckRequired(v)
}

func (m *Message) SetResponseRequired(v bool) {
	m.Header.SetResponseRequired(v)
}

// MarshalBinary encodes the header followed by the payload body.
func (m Message) MarshalBinary() ([]byte, error) {
	var body []byte
	if m.Payload != nil {
		b, err := m.Payload.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("wire: marshal payload type %d: %w", m.Payload.PayloadType(), err)
		}
		body = b
	}
	m.Header.Size = uint16(HeaderSize + len(body))
	h := EncodeHeader(m.Header)
	out := make([]byte, 0, len(h)+len(body))
	out = append(out, h[:]...)
	out = append(out, body...)
	return out, nil
}

// UnmarshalBinary decodes a header and, if the packet type is known to
// the codec table, its payload. An unrecognized packet type is not an
// error: Payload is left nil so the caller can respond StateUnhandled.
func (m *Message) UnmarshalBinary(data []byte) error {
	h, err := DecodeHeader(data)
	if err != nil {
		return err
	}
	m.Header = h

	body := data[HeaderSize:]
	payload, ok := NewPayload(h.Type)
	if !ok {
		m.Payload = nil
		return nil
	}
	if err := payload.UnmarshalBinary(body); err != nil {
		return fmt.Errorf("wire: unmarshal payload type %d: %w", h.Type, err)
	}
	m.Payload = payload
	return nil
}
