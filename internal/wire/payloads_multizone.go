package wire

import (
	"encoding/binary"
	"fmt"
)

// extendedMultizoneMaxZones bounds the zone count a single
// SetExtendedColorZones/StateExtendedColorZones packet can carry,
// matching the real protocol's fixed 82-slot color array.
const extendedMultizoneMaxZones = 82

func init() {
	register(TypeMultiZoneSetColorZones, func() Payload { return &MultiZoneSetColorZones{} })
	register(TypeMultiZoneGetColorZones, func() Payload { return &MultiZoneGetColorZones{} })
	register(TypeMultiZoneStateZone, func() Payload { return &MultiZoneStateZone{} })
	register(TypeMultiZoneStateMultiZone, func() Payload { return &MultiZoneStateMultiZone{} })
	register(TypeMultiZoneSetEffect, func() Payload { return &MultiZoneSetEffect{} })
	register(TypeMultiZoneGetEffect, func() Payload { return &MultiZoneGetEffect{} })
	register(TypeMultiZoneStateEffect, func() Payload { return &MultiZoneStateEffect{} })
	register(TypeMultiZoneSetExtendedColorZones, func() Payload { return &MultiZoneSetExtendedColorZones{} })
	register(TypeMultiZoneGetExtendedColorZones, func() Payload { return &MultiZoneGetExtendedColorZones{} })
	register(TypeMultiZoneStateExtendedColorZones, func() Payload { return &MultiZoneStateExtendedColorZones{} })
}

// MultiZoneSetColorZones writes a contiguous zone range [StartIndex,
// EndIndex] to a single color, used by clients that don't support the
// extended form.
type MultiZoneSetColorZones struct {
	StartIndex uint8
	EndIndex   uint8
	Color      Hsbk
	Duration   uint32
	Apply      MultiZoneApplicationRequest
}

const multiZoneSetColorZonesSize = 1 + 1 + hsbkSize + 4 + 1

func (MultiZoneSetColorZones) PayloadType() uint16 { return TypeMultiZoneSetColorZones }
func (MultiZoneSetColorZones) Size() int           { return multiZoneSetColorZonesSize }

func (s MultiZoneSetColorZones) MarshalBinary() ([]byte, error) {
	buf := make([]byte, multiZoneSetColorZonesSize)
	buf[0] = s.StartIndex
	buf[1] = s.EndIndex
	c, _ := s.Color.MarshalBinary()
	copy(buf[2:10], c)
	binary.LittleEndian.PutUint32(buf[10:], s.Duration)
	buf[14] = uint8(s.Apply)
	return buf, nil
}

func (s *MultiZoneSetColorZones) UnmarshalBinary(data []byte) error {
	if len(data) < multiZoneSetColorZonesSize {
		return fmt.Errorf("wire: short MultiZoneSetColorZones")
	}
	s.StartIndex = data[0]
	s.EndIndex = data[1]
	if err := (&s.Color).UnmarshalBinary(data[2:10]); err != nil {
		return err
	}
	s.Duration = binary.LittleEndian.Uint32(data[10:])
	s.Apply = MultiZoneApplicationRequest(data[14])
	return nil
}

// MultiZoneGetColorZones requests StateZone/StateMultiZone for a
// contiguous zone range.
type MultiZoneGetColorZones struct {
	StartIndex uint8
	EndIndex   uint8
}

func (MultiZoneGetColorZones) PayloadType() uint16 { return TypeMultiZoneGetColorZones }
func (MultiZoneGetColorZones) Size() int           { return 2 }
func (s MultiZoneGetColorZones) MarshalBinary() ([]byte, error) {
	return []byte{s.StartIndex, s.EndIndex}, nil
}
func (s *MultiZoneGetColorZones) UnmarshalBinary(data []byte) error {
	if len(data) < 2 {
		return fmt.Errorf("wire: short MultiZoneGetColorZones")
	}
	s.StartIndex, s.EndIndex = data[0], data[1]
	return nil
}

// MultiZoneStateZone reports a single zone's color and the total zone
// count on the strip.
type MultiZoneStateZone struct {
	ZonesCount uint8
	Index      uint8
	Color      Hsbk
}

const multiZoneStateZoneSize = 1 + 1 + hsbkSize

func (MultiZoneStateZone) PayloadType() uint16 { return TypeMultiZoneStateZone }
func (MultiZoneStateZone) Size() int           { return multiZoneStateZoneSize }
func (s MultiZoneStateZone) MarshalBinary() ([]byte, error) {
	buf := make([]byte, multiZoneStateZoneSize)
	buf[0] = s.ZonesCount
	buf[1] = s.Index
	c, _ := s.Color.MarshalBinary()
	copy(buf[2:10], c)
	return buf, nil
}
func (s *MultiZoneStateZone) UnmarshalBinary(data []byte) error {
	if len(data) < multiZoneStateZoneSize {
		return fmt.Errorf("wire: short MultiZoneStateZone")
	}
	s.ZonesCount = data[0]
	s.Index = data[1]
	return (&s.Color).UnmarshalBinary(data[2:10])
}

// MultiZoneStateMultiZone reports up to 8 consecutive zones in one
// packet, the non-extended multi-zone readback used when the device
// (or client) lacks extended multizone support.
type MultiZoneStateMultiZone struct {
	ZonesCount uint8
	Index      uint8
	Colors     [8]Hsbk
}

const multiZoneStateMultiZoneSize = 1 + 1 + 8*hsbkSize

func (MultiZoneStateMultiZone) PayloadType() uint16 { return TypeMultiZoneStateMultiZone }
func (MultiZoneStateMultiZone) Size() int           { return multiZoneStateMultiZoneSize }

func (s MultiZoneStateMultiZone) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, multiZoneStateMultiZoneSize)
	buf = append(buf, s.ZonesCount, s.Index)
	for _, c := range s.Colors {
		cb, _ := c.MarshalBinary()
		buf = append(buf, cb...)
	}
	return buf, nil
}

func (s *MultiZoneStateMultiZone) UnmarshalBinary(data []byte) error {
	if len(data) < multiZoneStateMultiZoneSize {
		return fmt.Errorf("wire: short MultiZoneStateMultiZone")
	}
	s.ZonesCount = data[0]
	s.Index = data[1]
	off := 2
	for i := range s.Colors {
		if err := (&s.Colors[i]).UnmarshalBinary(data[off:]); err != nil {
			return err
		}
		off += hsbkSize
	}
	return nil
}

type MultiZoneSetEffect struct {
	Settings MultiZoneEffectSettings
}

func (MultiZoneSetEffect) PayloadType() uint16 { return TypeMultiZoneSetEffect }
func (s MultiZoneSetEffect) Size() int         { return multiZoneEffectSettingsSize }
func (s MultiZoneSetEffect) MarshalBinary() ([]byte, error) { return s.Settings.MarshalBinary() }
func (s *MultiZoneSetEffect) UnmarshalBinary(data []byte) error {
	return (&s.Settings).UnmarshalBinary(data)
}

type MultiZoneGetEffect struct{ emptyPayload }

func (MultiZoneGetEffect) PayloadType() uint16 { return TypeMultiZoneGetEffect }

type MultiZoneStateEffect struct {
	Settings MultiZoneEffectSettings
}

func (MultiZoneStateEffect) PayloadType() uint16 { return TypeMultiZoneStateEffect }
func (s MultiZoneStateEffect) Size() int         { return multiZoneEffectSettingsSize }
func (s MultiZoneStateEffect) MarshalBinary() ([]byte, error) { return s.Settings.MarshalBinary() }
func (s *MultiZoneStateEffect) UnmarshalBinary(data []byte) error {
	return (&s.Settings).UnmarshalBinary(data)
}

// MultiZoneSetExtendedColorZones writes up to 82 zones in one packet
// starting at Index, the high-throughput form used by modern clients.
type MultiZoneSetExtendedColorZones struct {
	Duration    uint32
	Apply       MultiZoneApplicationRequest
	Index       uint16
	ColorsCount uint8
	Colors      [extendedMultizoneMaxZones]Hsbk
}

const multiZoneSetExtendedColorZonesSize = 4 + 1 + 2 + 1 + extendedMultizoneMaxZones*hsbkSize

func (MultiZoneSetExtendedColorZones) PayloadType() uint16 {
	return TypeMultiZoneSetExtendedColorZones
}
func (MultiZoneSetExtendedColorZones) Size() int { return multiZoneSetExtendedColorZonesSize }

func (s MultiZoneSetExtendedColorZones) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, multiZoneSetExtendedColorZonesSize)
	var tmp4 [4]byte
	binary.LittleEndian.PutUint32(tmp4[:], s.Duration)
	buf = append(buf, tmp4[:]...)
	buf = append(buf, uint8(s.Apply))
	var tmp2 [2]byte
	binary.LittleEndian.PutUint16(tmp2[:], s.Index)
	buf = append(buf, tmp2[:]...)
	buf = append(buf, s.ColorsCount)
	for _, c := range s.Colors {
		cb, _ := c.MarshalBinary()
		buf = append(buf, cb...)
	}
	return buf, nil
}

func (s *MultiZoneSetExtendedColorZones) UnmarshalBinary(data []byte) error {
	if len(data) < multiZoneSetExtendedColorZonesSize {
		return fmt.Errorf("wire: short MultiZoneSetExtendedColorZones")
	}
	s.Duration = binary.LittleEndian.Uint32(data[0:])
	s.Apply = MultiZoneApplicationRequest(data[4])
	s.Index = binary.LittleEndian.Uint16(data[5:])
	s.ColorsCount = data[7]
	off := 8
	for i := range s.Colors {
		if err := (&s.Colors[i]).UnmarshalBinary(data[off:]); err != nil {
			return err
		}
		off += hsbkSize
	}
	return nil
}

type MultiZoneGetExtendedColorZones struct{ emptyPayload }

func (MultiZoneGetExtendedColorZones) PayloadType() uint16 {
	return TypeMultiZoneGetExtendedColorZones
}

// MultiZoneStateExtendedColorZones is the extended readback: total
// zone count on the device, plus up to 82 zones starting at Index.
type MultiZoneStateExtendedColorZones struct {
	ZonesCount  uint16
	Index       uint16
	ColorsCount uint8
	Colors      [extendedMultizoneMaxZones]Hsbk
}

const multiZoneStateExtendedColorZonesSize = 2 + 2 + 1 + extendedMultizoneMaxZones*hsbkSize

func (MultiZoneStateExtendedColorZones) PayloadType() uint16 {
	return TypeMultiZoneStateExtendedColorZones
}
func (MultiZoneStateExtendedColorZones) Size() int { return multiZoneStateExtendedColorZonesSize }

func (s MultiZoneStateExtendedColorZones) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, multiZoneStateExtendedColorZonesSize)
	var tmp2 [2]byte
	binary.LittleEndian.PutUint16(tmp2[:], s.ZonesCount)
	buf = append(buf, tmp2[:]...)
	binary.LittleEndian.PutUint16(tmp2[:], s.Index)
	buf = append(buf, tmp2[:]...)
	buf = append(buf, s.ColorsCount)
	for _, c := range s.Colors {
		cb, _ := c.MarshalBinary()
		buf = append(buf, cb...)
	}
	return buf, nil
}

func (s *MultiZoneStateExtendedColorZones) UnmarshalBinary(data []byte) error {
	if len(data) < multiZoneStateExtendedColorZonesSize {
		return fmt.Errorf("wire: short MultiZoneStateExtendedColorZones")
	}
	s.ZonesCount = binary.LittleEndian.Uint16(data[0:])
	s.Index = binary.LittleEndian.Uint16(data[2:])
	s.ColorsCount = data[4]
	off := 5
	for i := range s.Colors {
		if err := (&s.Colors[i]).UnmarshalBinary(data[off:]); err != nil {
			return err
		}
		off += hsbkSize
	}
	return nil
}
