package wire

import (
	"encoding/binary"
	"fmt"
)

func init() {
	register(TypeLightGet, func() Payload { return &LightGet{} })
	register(TypeLightSetColor, func() Payload { return &LightSetColor{} })
	register(TypeLightSetWaveform, func() Payload { return &LightSetWaveform{} })
	register(TypeLightSetWaveformOptional, func() Payload { return &LightSetWaveformOptional{} })
	register(TypeLightState, func() Payload { return &LightState{} })
	register(TypeLightGetPower, func() Payload { return &LightGetPower{} })
	register(TypeLightSetPower, func() Payload { return &LightSetPower{} })
	register(TypeLightStatePower, func() Payload { return &LightStatePower{} })
	register(TypeLightGetInfrared, func() Payload { return &LightGetInfrared{} })
	register(TypeLightStateInfrared, func() Payload { return &LightStateInfrared{} })
	register(TypeLightSetInfrared, func() Payload { return &LightSetInfrared{} })
	register(TypeLightGetHevCycle, func() Payload { return &LightGetHevCycle{} })
	register(TypeLightSetHevCycle, func() Payload { return &LightSetHevCycle{} })
	register(TypeLightStateHevCycle, func() Payload { return &LightStateHevCycle{} })
	register(TypeLightGetHevCycleConfiguration, func() Payload { return &LightGetHevCycleConfiguration{} })
	register(TypeLightSetHevCycleConfiguration, func() Payload { return &LightSetHevCycleConfiguration{} })
	register(TypeLightStateHevCycleConfiguration, func() Payload { return &LightStateHevCycleConfiguration{} })
	register(TypeLightGetLastHevCycleResult, func() Payload { return &LightGetLastHevCycleResult{} })
	register(TypeLightStateLastHevCycleResult, func() Payload { return &LightStateLastHevCycleResult{} })
}

type LightGet struct{ emptyPayload }

func (LightGet) PayloadType() uint16 { return TypeLightGet }

// LightSetColor requests an immediate or transitioned change to the
// light's full HSBK color.
type LightSetColor struct {
	Reserved uint8
	Color    Hsbk
	Duration uint32
}

func (LightSetColor) PayloadType() uint16 { return TypeLightSetColor }
func (LightSetColor) Size() int           { return 13 }

func (s LightSetColor) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 13)
	buf[0] = s.Reserved
	c, _ := s.Color.MarshalBinary()
	copy(buf[1:9], c)
	binary.LittleEndian.PutUint32(buf[9:], s.Duration)
	return buf, nil
}

func (s *LightSetColor) UnmarshalBinary(data []byte) error {
	if len(data) < 13 {
		return fmt.Errorf("wire: short LightSetColor")
	}
	s.Reserved = data[0]
	if err := (&s.Color).UnmarshalBinary(data[1:9]); err != nil {
		return err
	}
	s.Duration = binary.LittleEndian.Uint32(data[9:])
	return nil
}

// LightSetWaveform drives a one-shot or looping waveform transition.
type LightSetWaveform struct {
	Reserved  uint8
	Transient bool
	Color     Hsbk
	Period    uint32
	Cycles    float32
	SkewRatio int16
	Waveform  Waveform
}

const lightSetWaveformSize = 21

func (LightSetWaveform) PayloadType() uint16 { return TypeLightSetWaveform }
func (LightSetWaveform) Size() int           { return lightSetWaveformSize }

func (s LightSetWaveform) MarshalBinary() ([]byte, error) {
	buf := make([]byte, lightSetWaveformSize)
	buf[0] = s.Reserved
	if s.Transient {
		buf[1] = 1
	}
	c, _ := s.Color.MarshalBinary()
	copy(buf[2:10], c)
	binary.LittleEndian.PutUint32(buf[10:], s.Period)
	binary.LittleEndian.PutUint32(buf[14:], float32bits(s.Cycles))
	binary.LittleEndian.PutUint16(buf[18:], uint16(s.SkewRatio))
	buf[20] = uint8(s.Waveform)
	return buf, nil
}

func (s *LightSetWaveform) UnmarshalBinary(data []byte) error {
	if len(data) < lightSetWaveformSize {
		return fmt.Errorf("wire: short LightSetWaveform")
	}
	s.Reserved = data[0]
	s.Transient = data[1] != 0
	if err := (&s.Color).UnmarshalBinary(data[2:10]); err != nil {
		return err
	}
	s.Period = binary.LittleEndian.Uint32(data[10:])
	s.Cycles = float32frombits(binary.LittleEndian.Uint32(data[14:]))
	s.SkewRatio = int16(binary.LittleEndian.Uint16(data[18:]))
	s.Waveform = Waveform(data[20])
	return nil
}

// LightSetWaveformOptional is LightSetWaveform plus per-field toggles
// that let a client change only a subset of the HSBK components.
type LightSetWaveformOptional struct {
	LightSetWaveform
	SetHue        bool
	SetSaturation bool
	SetBrightness bool
	SetKelvin     bool
}

const lightSetWaveformOptionalSize = lightSetWaveformSize + 4

func (LightSetWaveformOptional) PayloadType() uint16 { return TypeLightSetWaveformOptional }
func (LightSetWaveformOptional) Size() int           { return lightSetWaveformOptionalSize }

func (s LightSetWaveformOptional) MarshalBinary() ([]byte, error) {
	base, _ := s.LightSetWaveform.MarshalBinary()
	buf := make([]byte, 0, lightSetWaveformOptionalSize)
	buf = append(buf, base...)
	for _, set := range []bool{s.SetHue, s.SetSaturation, s.SetBrightness, s.SetKelvin} {
		if set {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
	}
	return buf, nil
}

func (s *LightSetWaveformOptional) UnmarshalBinary(data []byte) error {
	if len(data) < lightSetWaveformOptionalSize {
		return fmt.Errorf("wire: short LightSetWaveformOptional")
	}
	if err := (&s.LightSetWaveform).UnmarshalBinary(data[:lightSetWaveformSize]); err != nil {
		return err
	}
	tail := data[lightSetWaveformSize:lightSetWaveformOptionalSize]
	s.SetHue = tail[0] != 0
	s.SetSaturation = tail[1] != 0
	s.SetBrightness = tail[2] != 0
	s.SetKelvin = tail[3] != 0
	return nil
}

// LightState reports the light's current color, power and label.
type LightState struct {
	Color    Hsbk
	Reserved int16
	Power    uint16
	Label    [32]byte
	Reserved2 uint64
}

const lightStateSize = 8 + 2 + 2 + 32 + 8

func (LightState) PayloadType() uint16 { return TypeLightState }
func (LightState) Size() int           { return lightStateSize }

func (s LightState) MarshalBinary() ([]byte, error) {
	buf := make([]byte, lightStateSize)
	c, _ := s.Color.MarshalBinary()
	copy(buf[0:8], c)
	binary.LittleEndian.PutUint16(buf[8:], uint16(s.Reserved))
	binary.LittleEndian.PutUint16(buf[10:], s.Power)
	copy(buf[12:44], s.Label[:])
	binary.LittleEndian.PutUint64(buf[44:], s.Reserved2)
	return buf, nil
}

func (s *LightState) UnmarshalBinary(data []byte) error {
	if len(data) < lightStateSize {
		return fmt.Errorf("wire: short LightState")
	}
	if err := (&s.Color).UnmarshalBinary(data[0:8]); err != nil {
		return err
	}
	s.Reserved = int16(binary.LittleEndian.Uint16(data[8:]))
	s.Power = binary.LittleEndian.Uint16(data[10:])
	copy(s.Label[:], data[12:44])
	s.Reserved2 = binary.LittleEndian.Uint64(data[44:])
	return nil
}

type LightGetPower struct{ emptyPayload }

func (LightGetPower) PayloadType() uint16 { return TypeLightGetPower }

// LightSetPower/LightStatePower are the Light-namespace power pair,
// distinct from Device GetPower/SetPower/StatePower: a Light power
// write can carry a transition duration while the Device-level one
// cannot.
type LightSetPower struct {
	Level    uint16
	Duration uint32
}

func (LightSetPower) PayloadType() uint16 { return TypeLightSetPower }
func (LightSetPower) Size() int           { return 6 }
func (s LightSetPower) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 6)
	binary.LittleEndian.PutUint16(buf[0:], s.Level)
	binary.LittleEndian.PutUint32(buf[2:], s.Duration)
	return buf, nil
}
func (s *LightSetPower) UnmarshalBinary(data []byte) error {
	if len(data) < 6 {
		return fmt.Errorf("wire: short LightSetPower")
	}
	s.Level = binary.LittleEndian.Uint16(data[0:])
	s.Duration = binary.LittleEndian.Uint32(data[2:])
	return nil
}

type LightStatePower struct {
	Level uint16
}

func (LightStatePower) PayloadType() uint16 { return TypeLightStatePower }
func (LightStatePower) Size() int           { return 2 }
func (s LightStatePower) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, s.Level)
	return buf, nil
}
func (s *LightStatePower) UnmarshalBinary(data []byte) error {
	if len(data) < 2 {
		return fmt.Errorf("wire: short LightStatePower")
	}
	s.Level = binary.LittleEndian.Uint16(data)
	return nil
}

type LightGetInfrared struct{ emptyPayload }

func (LightGetInfrared) PayloadType() uint16 { return TypeLightGetInfrared }

type LightStateInfrared struct {
	Brightness uint16
}

func (LightStateInfrared) PayloadType() uint16 { return TypeLightStateInfrared }
func (LightStateInfrared) Size() int           { return 2 }
func (s LightStateInfrared) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, s.Brightness)
	return buf, nil
}
func (s *LightStateInfrared) UnmarshalBinary(data []byte) error {
	if len(data) < 2 {
		return fmt.Errorf("wire: short LightStateInfrared")
	}
	s.Brightness = binary.LittleEndian.Uint16(data)
	return nil
}

type LightSetInfrared struct {
	Brightness uint16
}

func (LightSetInfrared) PayloadType() uint16 { return TypeLightSetInfrared }
func (LightSetInfrared) Size() int           { return 2 }
func (s LightSetInfrared) MarshalBinary() ([]byte, error) {
	return (LightStateInfrared(s)).MarshalBinary()
}
func (s *LightSetInfrared) UnmarshalBinary(data []byte) error {
	return (*LightStateInfrared)(s).UnmarshalBinary(data)
}

type LightGetHevCycle struct{ emptyPayload }

func (LightGetHevCycle) PayloadType() uint16 { return TypeLightGetHevCycle }

// LightSetHevCycle starts (Enable=true) or cancels (Enable=false) an
// HEV cleaning cycle.
type LightSetHevCycle struct {
	Enable   bool
	Duration uint32
}

func (LightSetHevCycle) PayloadType() uint16 { return TypeLightSetHevCycle }
func (LightSetHevCycle) Size() int           { return 5 }
func (s LightSetHevCycle) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 5)
	if s.Enable {
		buf[0] = 1
	}
	binary.LittleEndian.PutUint32(buf[1:], s.Duration)
	return buf, nil
}
func (s *LightSetHevCycle) UnmarshalBinary(data []byte) error {
	if len(data) < 5 {
		return fmt.Errorf("wire: short LightSetHevCycle")
	}
	s.Enable = data[0] != 0
	s.Duration = binary.LittleEndian.Uint32(data[1:])
	return nil
}

// LightStateHevCycle reports cycle progress.
type LightStateHevCycle struct {
	Duration  uint32
	Remaining uint32
	LastPower bool
}

func (LightStateHevCycle) PayloadType() uint16 { return TypeLightStateHevCycle }
func (LightStateHevCycle) Size() int           { return 9 }
func (s LightStateHevCycle) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 9)
	binary.LittleEndian.PutUint32(buf[0:], s.Duration)
	binary.LittleEndian.PutUint32(buf[4:], s.Remaining)
	if s.LastPower {
		buf[8] = 1
	}
	return buf, nil
}
func (s *LightStateHevCycle) UnmarshalBinary(data []byte) error {
	if len(data) < 9 {
		return fmt.Errorf("wire: short LightStateHevCycle")
	}
	s.Duration = binary.LittleEndian.Uint32(data[0:])
	s.Remaining = binary.LittleEndian.Uint32(data[4:])
	s.LastPower = data[8] != 0
	return nil
}

type LightGetHevCycleConfiguration struct{ emptyPayload }

func (LightGetHevCycleConfiguration) PayloadType() uint16 {
	return TypeLightGetHevCycleConfiguration
}

// LightSetHevCycleConfiguration/LightStateHevCycleConfiguration carry
// the default cycle duration and whether other clients see an
// indicator flash while a cycle runs.
type LightSetHevCycleConfiguration struct {
	Indication HevCycleIndication
	Duration   uint32
}

func (LightSetHevCycleConfiguration) PayloadType() uint16 {
	return TypeLightSetHevCycleConfiguration
}
func (LightSetHevCycleConfiguration) Size() int { return 5 }
func (s LightSetHevCycleConfiguration) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 5)
	buf[0] = uint8(s.Indication)
	binary.LittleEndian.PutUint32(buf[1:], s.Duration)
	return buf, nil
}
func (s *LightSetHevCycleConfiguration) UnmarshalBinary(data []byte) error {
	if len(data) < 5 {
		return fmt.Errorf("wire: short LightSetHevCycleConfiguration")
	}
	s.Indication = HevCycleIndication(data[0])
	s.Duration = binary.LittleEndian.Uint32(data[1:])
	return nil
}

type LightStateHevCycleConfiguration struct {
	Indication HevCycleIndication
	Duration   uint32
}

func (LightStateHevCycleConfiguration) PayloadType() uint16 {
	return TypeLightStateHevCycleConfiguration
}
func (s LightStateHevCycleConfiguration) Size() int { return 5 }
func (s LightStateHevCycleConfiguration) MarshalBinary() ([]byte, error) {
	return (LightSetHevCycleConfiguration(s)).MarshalBinary()
}
func (s *LightStateHevCycleConfiguration) UnmarshalBinary(data []byte) error {
	return (*LightSetHevCycleConfiguration)(s).UnmarshalBinary(data)
}

type LightGetLastHevCycleResult struct{ emptyPayload }

func (LightGetLastHevCycleResult) PayloadType() uint16 {
	return TypeLightGetLastHevCycleResult
}

type LightStateLastHevCycleResult struct {
	Result LastHevCycleResult
}

func (LightStateLastHevCycleResult) PayloadType() uint16 {
	return TypeLightStateLastHevCycleResult
}
func (LightStateLastHevCycleResult) Size() int { return 1 }
func (s LightStateLastHevCycleResult) MarshalBinary() ([]byte, error) {
	return []byte{uint8(s.Result)}, nil
}
func (s *LightStateLastHevCycleResult) UnmarshalBinary(data []byte) error {
	if len(data) < 1 {
		return fmt.Errorf("wire: short LightStateLastHevCycleResult")
	}
	s.Result = LastHevCycleResult(data[0])
	return nil
}
