package wire

import (
	"encoding/binary"
	"fmt"
)

func init() {
	register(TypeRelayGetRPower, func() Payload { return &RelayGetRPower{} })
	register(TypeRelaySetRPower, func() Payload { return &RelaySetRPower{} })
	register(TypeRelayStateRPower, func() Payload { return &RelayStateRPower{} })
}

// RelayGetRPower requests the power state of one relay on a
// multi-channel switch device.
type RelayGetRPower struct {
	RelayIndex uint8
}

func (RelayGetRPower) PayloadType() uint16 { return TypeRelayGetRPower }
func (RelayGetRPower) Size() int           { return 1 }
func (s RelayGetRPower) MarshalBinary() ([]byte, error) { return []byte{s.RelayIndex}, nil }
func (s *RelayGetRPower) UnmarshalBinary(data []byte) error {
	if len(data) < 1 {
		return fmt.Errorf("wire: short RelayGetRPower")
	}
	s.RelayIndex = data[0]
	return nil
}

// RelaySetRPower switches one relay on a multi-channel switch device.
type RelaySetRPower struct {
	RelayIndex uint8
	Level      uint16
}

const relaySetRPowerSize = 3

func (RelaySetRPower) PayloadType() uint16 { return TypeRelaySetRPower }
func (RelaySetRPower) Size() int           { return relaySetRPowerSize }
func (s RelaySetRPower) MarshalBinary() ([]byte, error) {
	buf := make([]byte, relaySetRPowerSize)
	buf[0] = s.RelayIndex
	binary.LittleEndian.PutUint16(buf[1:], s.Level)
	return buf, nil
}
func (s *RelaySetRPower) UnmarshalBinary(data []byte) error {
	if len(data) < relaySetRPowerSize {
		return fmt.Errorf("wire: short RelaySetRPower")
	}
	s.RelayIndex = data[0]
	s.Level = binary.LittleEndian.Uint16(data[1:])
	return nil
}

type RelayStateRPower struct {
	RelayIndex uint8
	Level      uint16
}

func (RelayStateRPower) PayloadType() uint16 { return TypeRelayStateRPower }
func (s RelayStateRPower) Size() int         { return relaySetRPowerSize }
func (s RelayStateRPower) MarshalBinary() ([]byte, error) {
	return (RelaySetRPower(s)).MarshalBinary()
}
func (s *RelayStateRPower) UnmarshalBinary(data []byte) error {
	return (*RelaySetRPower)(s).UnmarshalBinary(data)
}
