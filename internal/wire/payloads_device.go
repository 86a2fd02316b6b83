package wire

import (
	"encoding/binary"
	"fmt"
)

func init() {
	register(TypeGetService, func() Payload { return &GetService{} })
	register(TypeStateService, func() Payload { return &StateService{} })
	register(TypeGetHostFirmware, func() Payload { return &GetHostFirmware{} })
	register(TypeStateHostFirmware, func() Payload { return &StateHostFirmware{} })
	register(TypeGetWifiFirmware, func() Payload { return &GetWifiFirmware{} })
	register(TypeStateWifiFirmware, func() Payload { return &StateWifiFirmware{} })
	register(TypeGetWifiInfo, func() Payload { return &GetWifiInfo{} })
	register(TypeStateWifiInfo, func() Payload { return &StateWifiInfo{} })
	register(TypeGetPower, func() Payload { return &GetPower{} })
	register(TypeSetPower, func() Payload { return &SetPower{} })
	register(TypeStatePower, func() Payload { return &StatePower{} })
	register(TypeGetLabel, func() Payload { return &GetLabel{} })
	register(TypeSetLabel, func() Payload { return &SetLabel{} })
	register(TypeStateLabel, func() Payload { return &StateLabel{} })
	register(TypeGetVersion, func() Payload { return &GetVersion{} })
	register(TypeStateVersion, func() Payload { return &StateVersion{} })
	register(TypeGetInfo, func() Payload { return &GetInfo{} })
	register(TypeStateInfo, func() Payload { return &StateInfo{} })
	register(TypeAcknowledgement, func() Payload { return &Acknowledgement{} })
	register(TypeGetLocation, func() Payload { return &GetLocation{} })
	register(TypeSetLocation, func() Payload { return &SetLocation{} })
	register(TypeStateLocation, func() Payload { return &StateLocation{} })
	register(TypeGetGroup, func() Payload { return &GetGroup{} })
	register(TypeSetGroup, func() Payload { return &SetGroup{} })
	register(TypeStateGroup, func() Payload { return &StateGroup{} })
	register(TypeEchoRequest, func() Payload { return &EchoRequest{} })
	register(TypeEchoResponse, func() Payload { return &EchoResponse{} })
	register(TypeStateUnhandled, func() Payload { return &StateUnhandled{} })
}

// emptyPayload is embedded by every packet with no body, such as all
// Get* requests and Acknowledgement.
type emptyPayload struct{}

func (emptyPayload) Size() int                     { return 0 }
func (emptyPayload) MarshalBinary() ([]byte, error) { return nil, nil }
func (*emptyPayload) UnmarshalBinary([]byte) error  { return nil }

// GetService requests the StateService response; always broadcastable.
type GetService struct{ emptyPayload }

func (GetService) PayloadType() uint16 { return TypeGetService }

// StateService reports the transport a device exposes and the port it
// listens on.
type StateService struct {
	Service Service
	Port    uint32
}

func (StateService) PayloadType() uint16 { return TypeStateService }
func (StateService) Size() int           { return 5 }

func (s StateService) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 5)
	buf[0] = uint8(s.Service)
	binary.LittleEndian.PutUint32(buf[1:], s.Port)
	return buf, nil
}

func (s *StateService) UnmarshalBinary(data []byte) error {
	if len(data) < 5 {
		return fmt.Errorf("wire: short StateService")
	}
	s.Service = Service(data[0])
	s.Port = binary.LittleEndian.Uint32(data[1:])
	return nil
}

type GetHostFirmware struct{ emptyPayload }

func (GetHostFirmware) PayloadType() uint16 { return TypeGetHostFirmware }

// StateHostFirmware reports the firmware build timestamp and version
// the device's main MCU reports.
type StateHostFirmware struct {
	Build        uint64
	VersionMinor uint16
	VersionMajor uint16
}

func (StateHostFirmware) PayloadType() uint16 { return TypeStateHostFirmware }
func (StateHostFirmware) Size() int           { return 20 }

func (s StateHostFirmware) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 20)
	binary.LittleEndian.PutUint64(buf[0:], s.Build)
	// bytes 8-15 reserved
	binary.LittleEndian.PutUint16(buf[16:], s.VersionMinor)
	binary.LittleEndian.PutUint16(buf[18:], s.VersionMajor)
	return buf, nil
}

func (s *StateHostFirmware) UnmarshalBinary(data []byte) error {
	if len(data) < 20 {
		return fmt.Errorf("wire: short StateHostFirmware")
	}
	s.Build = binary.LittleEndian.Uint64(data[0:])
	s.VersionMinor = binary.LittleEndian.Uint16(data[16:])
	s.VersionMajor = binary.LittleEndian.Uint16(data[18:])
	return nil
}

type GetWifiFirmware struct{ emptyPayload }

func (GetWifiFirmware) PayloadType() uint16 { return TypeGetWifiFirmware }

// StateWifiFirmware mirrors StateHostFirmware for the wifi co-processor.
type StateWifiFirmware struct {
	Build        uint64
	VersionMinor uint16
	VersionMajor uint16
}

func (StateWifiFirmware) PayloadType() uint16 { return TypeStateWifiFirmware }
func (s StateWifiFirmware) Size() int         { return 20 }
func (s StateWifiFirmware) MarshalBinary() ([]byte, error) {
	return (StateHostFirmware(s)).MarshalBinary()
}
func (s *StateWifiFirmware) UnmarshalBinary(data []byte) error {
	return (*StateHostFirmware)(s).UnmarshalBinary(data)
}

type GetWifiInfo struct{ emptyPayload }

func (GetWifiInfo) PayloadType() uint16 { return TypeGetWifiInfo }

// StateWifiInfo reports radio signal strength.
type StateWifiInfo struct {
	Signal float32
}

func (StateWifiInfo) PayloadType() uint16 { return TypeStateWifiInfo }
func (StateWifiInfo) Size() int           { return 14 }

func (s StateWifiInfo) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 14)
	binary.LittleEndian.PutUint32(buf[0:], float32bits(s.Signal))
	return buf, nil
}

func (s *StateWifiInfo) UnmarshalBinary(data []byte) error {
	if len(data) < 14 {
		return fmt.Errorf("wire: short StateWifiInfo")
	}
	s.Signal = float32frombits(binary.LittleEndian.Uint32(data[0:]))
	return nil
}

type GetPower struct{ emptyPayload }

func (GetPower) PayloadType() uint16 { return TypeGetPower }

type SetPower struct {
	Level uint16
}

func (SetPower) PayloadType() uint16 { return TypeSetPower }
func (SetPower) Size() int           { return 2 }
func (s SetPower) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, s.Level)
	return buf, nil
}
func (s *SetPower) UnmarshalBinary(data []byte) error {
	if len(data) < 2 {
		return fmt.Errorf("wire: short SetPower")
	}
	s.Level = binary.LittleEndian.Uint16(data)
	return nil
}

type StatePower struct {
	Level uint16
}

func (StatePower) PayloadType() uint16 { return TypeStatePower }
func (StatePower) Size() int           { return 2 }
func (s StatePower) MarshalBinary() ([]byte, error)  { return (SetPower(s)).MarshalBinary() }
func (s *StatePower) UnmarshalBinary(data []byte) error { return (*SetPower)(s).UnmarshalBinary(data) }

type GetLabel struct{ emptyPayload }

func (GetLabel) PayloadType() uint16 { return TypeGetLabel }

type SetLabel struct {
	Label [32]byte
}

func (SetLabel) PayloadType() uint16 { return TypeSetLabel }
func (SetLabel) Size() int           { return 32 }
func (s SetLabel) MarshalBinary() ([]byte, error) {
	out := make([]byte, 32)
	copy(out, s.Label[:])
	return out, nil
}
func (s *SetLabel) UnmarshalBinary(data []byte) error {
	if len(data) < 32 {
		return fmt.Errorf("wire: short SetLabel")
	}
	copy(s.Label[:], data[:32])
	return nil
}

type StateLabel struct {
	Label [32]byte
}

func (StateLabel) PayloadType() uint16                  { return TypeStateLabel }
func (StateLabel) Size() int                             { return 32 }
func (s StateLabel) MarshalBinary() ([]byte, error)      { return (SetLabel(s)).MarshalBinary() }
func (s *StateLabel) UnmarshalBinary(data []byte) error  { return (*SetLabel)(s).UnmarshalBinary(data) }

type GetVersion struct{ emptyPayload }

func (GetVersion) PayloadType() uint16 { return TypeGetVersion }

// StateVersion reports the vendor and product IDs used to look up
// capabilities in the product registry.
type StateVersion struct {
	Vendor  uint32
	Product uint32
}

func (StateVersion) PayloadType() uint16 { return TypeStateVersion }
func (StateVersion) Size() int           { return 12 }
func (s StateVersion) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 12)
	binary.LittleEndian.PutUint32(buf[0:], s.Vendor)
	binary.LittleEndian.PutUint32(buf[4:], s.Product)
	return buf, nil
}
func (s *StateVersion) UnmarshalBinary(data []byte) error {
	if len(data) < 12 {
		return fmt.Errorf("wire: short StateVersion")
	}
	s.Vendor = binary.LittleEndian.Uint32(data[0:])
	s.Product = binary.LittleEndian.Uint32(data[4:])
	return nil
}

type GetInfo struct{ emptyPayload }

func (GetInfo) PayloadType() uint16 { return TypeGetInfo }

// StateInfo reports device uptime/downtime, both in nanoseconds.
type StateInfo struct {
	Time     uint64
	Uptime   uint64
	Downtime uint64
}

func (StateInfo) PayloadType() uint16 { return TypeStateInfo }
func (StateInfo) Size() int           { return 24 }
func (s StateInfo) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 24)
	binary.LittleEndian.PutUint64(buf[0:], s.Time)
	binary.LittleEndian.PutUint64(buf[8:], s.Uptime)
	binary.LittleEndian.PutUint64(buf[16:], s.Downtime)
	return buf, nil
}
func (s *StateInfo) UnmarshalBinary(data []byte) error {
	if len(data) < 24 {
		return fmt.Errorf("wire: short StateInfo")
	}
	s.Time = binary.LittleEndian.Uint64(data[0:])
	s.Uptime = binary.LittleEndian.Uint64(data[8:])
	s.Downtime = binary.LittleEndian.Uint64(data[16:])
	return nil
}

// Acknowledgement is the empty-payload response to a request with
// ack_required=1.
type Acknowledgement struct{ emptyPayload }

func (Acknowledgement) PayloadType() uint16 { return TypeAcknowledgement }

type GetLocation struct{ emptyPayload }

func (GetLocation) PayloadType() uint16 { return TypeGetLocation }

// SetLocation and StateLocation share a layout: a 16-byte location id,
// a label and an update timestamp.
type SetLocation struct {
	Location  [16]byte
	Label     [32]byte
	UpdatedAt uint64
}

func (SetLocation) PayloadType() uint16 { return TypeSetLocation }
func (SetLocation) Size() int           { return 56 }
func (s SetLocation) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 56)
	copy(buf[0:16], s.Location[:])
	copy(buf[16:48], s.Label[:])
	binary.LittleEndian.PutUint64(buf[48:], s.UpdatedAt)
	return buf, nil
}
func (s *SetLocation) UnmarshalBinary(data []byte) error {
	if len(data) < 56 {
		return fmt.Errorf("wire: short SetLocation")
	}
	copy(s.Location[:], data[0:16])
	copy(s.Label[:], data[16:48])
	s.UpdatedAt = binary.LittleEndian.Uint64(data[48:])
	return nil
}

type StateLocation struct {
	Location  [16]byte
	Label     [32]byte
	UpdatedAt uint64
}

func (StateLocation) PayloadType() uint16 { return TypeStateLocation }
func (StateLocation) Size() int           { return 56 }
func (s StateLocation) MarshalBinary() ([]byte, error) {
	return (SetLocation(s)).MarshalBinary()
}
func (s *StateLocation) UnmarshalBinary(data []byte) error {
	return (*SetLocation)(s).UnmarshalBinary(data)
}

type GetGroup struct{ emptyPayload }

func (GetGroup) PayloadType() uint16 { return TypeGetGroup }

type SetGroup struct {
	Group     [16]byte
	Label     [32]byte
	UpdatedAt uint64
}

func (SetGroup) PayloadType() uint16 { return TypeSetGroup }
func (SetGroup) Size() int           { return 56 }
func (s SetGroup) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 56)
	copy(buf[0:16], s.Group[:])
	copy(buf[16:48], s.Label[:])
	binary.LittleEndian.PutUint64(buf[48:], s.UpdatedAt)
	return buf, nil
}
func (s *SetGroup) UnmarshalBinary(data []byte) error {
	if len(data) < 56 {
		return fmt.Errorf("wire: short SetGroup")
	}
	copy(s.Group[:], data[0:16])
	copy(s.Label[:], data[16:48])
	s.UpdatedAt = binary.LittleEndian.Uint64(data[48:])
	return nil
}

type StateGroup struct {
	Group     [16]byte
	Label     [32]byte
	UpdatedAt uint64
}

func (StateGroup) PayloadType() uint16 { return TypeStateGroup }
func (StateGroup) Size() int           { return 56 }
func (s StateGroup) MarshalBinary() ([]byte, error) {
	return (SetGroup(s)).MarshalBinary()
}
func (s *StateGroup) UnmarshalBinary(data []byte) error {
	return (*SetGroup)(s).UnmarshalBinary(data)
}

// EchoRequest/EchoResponse carry an opaque 64-byte blob that is echoed
// back verbatim.
type EchoRequest struct {
	Payload [64]byte
}

func (EchoRequest) PayloadType() uint16 { return TypeEchoRequest }
func (EchoRequest) Size() int           { return 64 }
func (e EchoRequest) MarshalBinary() ([]byte, error) {
	out := make([]byte, 64)
	copy(out, e.Payload[:])
	return out, nil
}
func (e *EchoRequest) UnmarshalBinary(data []byte) error {
	if len(data) < 64 {
		return fmt.Errorf("wire: short EchoRequest")
	}
	copy(e.Payload[:], data[:64])
	return nil
}

type EchoResponse struct {
	Payload [64]byte
}

func (EchoResponse) PayloadType() uint16 { return TypeEchoResponse }
func (EchoResponse) Size() int           { return 64 }
func (e EchoResponse) MarshalBinary() ([]byte, error) { return (EchoRequest(e)).MarshalBinary() }
func (e *EchoResponse) UnmarshalBinary(data []byte) error {
	return (*EchoRequest)(e).UnmarshalBinary(data)
}

// StateUnhandled reports that the device does not implement the
// requested operation; the payload is the rejected packet type.
type StateUnhandled struct {
	UnhandledType uint16
}

func (StateUnhandled) PayloadType() uint16 { return TypeStateUnhandled }
func (StateUnhandled) Size() int           { return 2 }
func (s StateUnhandled) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, s.UnhandledType)
	return buf, nil
}
func (s *StateUnhandled) UnmarshalBinary(data []byte) error {
	if len(data) < 2 {
		return fmt.Errorf("wire: short StateUnhandled")
	}
	s.UnhandledType = binary.LittleEndian.Uint16(data)
	return nil
}
