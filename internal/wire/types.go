package wire

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// Payload is implemented by every typed packet body. Size is the exact
// encoded length in bytes, known statically for every type the
// emulator speaks (none of them use a length-prefixed tail).
type Payload interface {
	PayloadType() uint16
	Size() int
	MarshalBinary() ([]byte, error)
	UnmarshalBinary([]byte) error
}

// payloadFactory constructs a zero-value Payload for a given wire type.
var payloadFactories = map[uint16]func() Payload{}

func register(t uint16, f func() Payload) {
	payloadFactories[t] = f
}

// NewPayload returns a zero-value payload for the given type, or false
// if the type is not one this emulator's codec table knows about.
func NewPayload(t uint16) (Payload, bool) {
	f, ok := payloadFactories[t]
	if !ok {
		return nil, false
	}
	return f(), true
}

// Hsbk is the four-field color used throughout the Light and MultiZone
// namespaces: hue, saturation, brightness and color temperature, each a
// full-range uint16 except Kelvin which real devices clamp to
// [1500, 9000].
type Hsbk struct {
	Hue        uint16
	Saturation uint16
	Brightness uint16
	Kelvin     uint16
}

const hsbkSize = 8

func (h Hsbk) MarshalBinary() ([]byte, error) {
	buf := make([]byte, hsbkSize)
	binary.LittleEndian.PutUint16(buf[0:], h.Hue)
	binary.LittleEndian.PutUint16(buf[2:], h.Saturation)
	binary.LittleEndian.PutUint16(buf[4:], h.Brightness)
	binary.LittleEndian.PutUint16(buf[6:], h.Kelvin)
	return buf, nil
}

func (h *Hsbk) UnmarshalBinary(data []byte) error {
	if len(data) < hsbkSize {
		return fmt.Errorf("wire: short Hsbk: got %d bytes, want %d", len(data), hsbkSize)
	}
	h.Hue = binary.LittleEndian.Uint16(data[0:])
	h.Saturation = binary.LittleEndian.Uint16(data[2:])
	h.Brightness = binary.LittleEndian.Uint16(data[4:])
	h.Kelvin = binary.LittleEndian.Uint16(data[6:])
	return nil
}

// TileBufferRect addresses a rectangular window of a tile's
// framebuffer: which buffer (0 is visible, 1-7 are scratch), the
// top-left corner and the row width used to lay out the flat pixel
// array.
type TileBufferRect struct {
	FbIndex uint8
	X       uint8
	Y       uint8
	Width   uint8
}

const tileBufferRectSize = 4

func (r TileBufferRect) MarshalBinary() ([]byte, error) {
	return []byte{r.FbIndex, r.X, r.Y, r.Width}, nil
}

func (r *TileBufferRect) UnmarshalBinary(data []byte) error {
	if len(data) < tileBufferRectSize {
		return fmt.Errorf("wire: short TileBufferRect: got %d bytes, want %d", len(data), tileBufferRectSize)
	}
	r.FbIndex, r.X, r.Y, r.Width = data[0], data[1], data[2], data[3]
	return nil
}

// TileStateDevice describes one tile's position in a chain, its pixel
// dimensions and the firmware it reports.
type TileStateDevice struct {
	AccelMeasX     int16
	AccelMeasY     int16
	AccelMeasZ     int16
	UserX          float32
	UserY          float32
	Width          uint8
	Height         uint8
	DeviceVersionVendor  uint32
	DeviceVersionProduct uint32
	FirmwareBuild        uint64
	FirmwareVersionMinor uint16
	FirmwareVersionMajor uint16
}

const tileStateDeviceSize = 2 + 2 + 2 + 4 + 4 + 1 + 1 + 4 + 4 + 8 + 2 + 2

func (t TileStateDevice) MarshalBinary() ([]byte, error) {
	buf := make([]byte, tileStateDeviceSize)
	i := 0
	binary.LittleEndian.PutUint16(buf[i:], uint16(t.AccelMeasX))
	i += 2
	binary.LittleEndian.PutUint16(buf[i:], uint16(t.AccelMeasY))
	i += 2
	binary.LittleEndian.PutUint16(buf[i:], uint16(t.AccelMeasZ))
	i += 2
	binary.LittleEndian.PutUint32(buf[i:], float32bits(t.UserX))
	i += 4
	binary.LittleEndian.PutUint32(buf[i:], float32bits(t.UserY))
	i += 4
	buf[i] = t.Width
	i++
	buf[i] = t.Height
	i++
	binary.LittleEndian.PutUint32(buf[i:], t.DeviceVersionVendor)
	i += 4
	binary.LittleEndian.PutUint32(buf[i:], t.DeviceVersionProduct)
	i += 4
	binary.LittleEndian.PutUint64(buf[i:], t.FirmwareBuild)
	i += 8
	binary.LittleEndian.PutUint16(buf[i:], t.FirmwareVersionMinor)
	i += 2
	binary.LittleEndian.PutUint16(buf[i:], t.FirmwareVersionMajor)
	return buf, nil
}

func (t *TileStateDevice) UnmarshalBinary(data []byte) error {
	if len(data) < tileStateDeviceSize {
		return fmt.Errorf("wire: short TileStateDevice: got %d bytes, want %d", len(data), tileStateDeviceSize)
	}
	i := 0
	t.AccelMeasX = int16(binary.LittleEndian.Uint16(data[i:]))
	i += 2
	t.AccelMeasY = int16(binary.LittleEndian.Uint16(data[i:]))
	i += 2
	t.AccelMeasZ = int16(binary.LittleEndian.Uint16(data[i:]))
	i += 2
	t.UserX = float32frombits(binary.LittleEndian.Uint32(data[i:]))
	i += 4
	t.UserY = float32frombits(binary.LittleEndian.Uint32(data[i:]))
	i += 4
	t.Width = data[i]
	i++
	t.Height = data[i]
	i++
	t.DeviceVersionVendor = binary.LittleEndian.Uint32(data[i:])
	i += 4
	t.DeviceVersionProduct = binary.LittleEndian.Uint32(data[i:])
	i += 4
	t.FirmwareBuild = binary.LittleEndian.Uint64(data[i:])
	i += 8
	t.FirmwareVersionMinor = binary.LittleEndian.Uint16(data[i:])
	i += 2
	t.FirmwareVersionMajor = binary.LittleEndian.Uint16(data[i:])
	return nil
}

// TileEffectParameter is one of the four generic 32-bit slots a tile
// effect's settings carry; meaning depends on TileEffectType.
type TileEffectParameter struct {
	Parameter0 uint32
	Parameter1 uint32
	Parameter2 uint32
	Parameter3 uint32
}

const tileEffectParameterSize = 16

func (p TileEffectParameter) MarshalBinary() ([]byte, error) {
	buf := make([]byte, tileEffectParameterSize)
	binary.LittleEndian.PutUint32(buf[0:], p.Parameter0)
	binary.LittleEndian.PutUint32(buf[4:], p.Parameter1)
	binary.LittleEndian.PutUint32(buf[8:], p.Parameter2)
	binary.LittleEndian.PutUint32(buf[12:], p.Parameter3)
	return buf, nil
}

func (p *TileEffectParameter) UnmarshalBinary(data []byte) error {
	if len(data) < tileEffectParameterSize {
		return fmt.Errorf("wire: short TileEffectParameter: got %d bytes, want %d", len(data), tileEffectParameterSize)
	}
	p.Parameter0 = binary.LittleEndian.Uint32(data[0:])
	p.Parameter1 = binary.LittleEndian.Uint32(data[4:])
	p.Parameter2 = binary.LittleEndian.Uint32(data[8:])
	p.Parameter3 = binary.LittleEndian.Uint32(data[12:])
	return nil
}

// TileEffectSettings describes a running (or requested) matrix effect.
type TileEffectSettings struct {
	Instanceid   uint32
	Type         TileEffectType
	Speed        uint32
	Duration     uint64
	Parameter    TileEffectParameter
	PaletteCount uint8
	Palette      [16]Hsbk
}

const tileEffectSettingsFixedSize = 4 + 1 + 4 + 8 + tileEffectParameterSize + 1

func (s TileEffectSettings) Size() int {
	return tileEffectSettingsFixedSize + 16*hsbkSize
}

func (s TileEffectSettings) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, s.Size())
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], s.Instanceid)
	buf = append(buf, tmp[:]...)
	buf = append(buf, uint8(s.Type))
	binary.LittleEndian.PutUint32(tmp[:], s.Speed)
	buf = append(buf, tmp[:]...)
	var tmp8 [8]byte
	binary.LittleEndian.PutUint64(tmp8[:], s.Duration)
	buf = append(buf, tmp8[:]...)
	p, _ := s.Parameter.MarshalBinary()
	buf = append(buf, p...)
	buf = append(buf, s.PaletteCount)
	for _, c := range s.Palette {
		cb, _ := c.MarshalBinary()
		buf = append(buf, cb...)
	}
	return buf, nil
}

func (s *TileEffectSettings) UnmarshalBinary(data []byte) error {
	if len(data) < s.Size() {
		return fmt.Errorf("wire: short TileEffectSettings: got %d bytes, want %d", len(data), s.Size())
	}
	i := 0
	s.Instanceid = binary.LittleEndian.Uint32(data[i:])
	i += 4
	s.Type = TileEffectType(data[i])
	i++
	s.Speed = binary.LittleEndian.Uint32(data[i:])
	i += 4
	s.Duration = binary.LittleEndian.Uint64(data[i:])
	i += 8
	if err := (&s.Parameter).UnmarshalBinary(data[i:]); err != nil {
		return err
	}
	i += tileEffectParameterSize
	s.PaletteCount = data[i]
	i++
	for j := range s.Palette {
		if err := (&s.Palette[j]).UnmarshalBinary(data[i:]); err != nil {
			return err
		}
		i += hsbkSize
	}
	return nil
}

// MultiZoneEffectParameter mirrors TileEffectParameter for multizone
// effects (two 32-bit slots in the real protocol).
type MultiZoneEffectParameter struct {
	Parameter0 uint32
	Parameter1 uint32
}

const multiZoneEffectParameterSize = 8

func (p MultiZoneEffectParameter) MarshalBinary() ([]byte, error) {
	buf := make([]byte, multiZoneEffectParameterSize)
	binary.LittleEndian.PutUint32(buf[0:], p.Parameter0)
	binary.LittleEndian.PutUint32(buf[4:], p.Parameter1)
	return buf, nil
}

func (p *MultiZoneEffectParameter) UnmarshalBinary(data []byte) error {
	if len(data) < multiZoneEffectParameterSize {
		return fmt.Errorf("wire: short MultiZoneEffectParameter: got %d bytes, want %d", len(data), multiZoneEffectParameterSize)
	}
	p.Parameter0 = binary.LittleEndian.Uint32(data[0:])
	p.Parameter1 = binary.LittleEndian.Uint32(data[4:])
	return nil
}

// MultiZoneEffectSettings describes a running (or requested) multizone
// effect.
type MultiZoneEffectSettings struct {
	Instanceid uint32
	Type       MultiZoneEffectType
	Speed      uint32
	Duration   uint64
	Parameter  MultiZoneEffectParameter
}

const multiZoneEffectSettingsSize = 4 + 1 + 4 + 8 + multiZoneEffectParameterSize

func (s MultiZoneEffectSettings) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, multiZoneEffectSettingsSize)
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], s.Instanceid)
	buf = append(buf, tmp[:]...)
	buf = append(buf, uint8(s.Type))
	binary.LittleEndian.PutUint32(tmp[:], s.Speed)
	buf = append(buf, tmp[:]...)
	var tmp8 [8]byte
	binary.LittleEndian.PutUint64(tmp8[:], s.Duration)
	buf = append(buf, tmp8[:]...)
	p, _ := s.Parameter.MarshalBinary()
	buf = append(buf, p...)
	return buf, nil
}

func (s *MultiZoneEffectSettings) UnmarshalBinary(data []byte) error {
	if len(data) < multiZoneEffectSettingsSize {
		return fmt.Errorf("wire: short MultiZoneEffectSettings: got %d bytes, want %d", len(data), multiZoneEffectSettingsSize)
	}
	i := 0
	s.Instanceid = binary.LittleEndian.Uint32(data[i:])
	i += 4
	s.Type = MultiZoneEffectType(data[i])
	i++
	s.Speed = binary.LittleEndian.Uint32(data[i:])
	i += 4
	s.Duration = binary.LittleEndian.Uint64(data[i:])
	i += 8
	if err := (&s.Parameter).UnmarshalBinary(data[i:]); err != nil {
		return err
	}
	return nil
}

// EncodeLabel packs a string into a fixed 32-byte field, truncating at
// a UTF-8 rune boundary rather than mid-rune if it is too long.
func EncodeLabel(label string) [32]byte {
	var out [32]byte
	if len(label) <= len(out) {
		copy(out[:], label)
		return out
	}
	// label[n] is the first byte cut off; while it is a continuation
	// byte the cut is mid-rune, so move back to the rune's lead byte.
	n := len(out)
	for n > 0 && !isRuneStart(label[:n+1]) {
		n--
	}
	copy(out[:], label[:n])
	return out
}

func isRuneStart(s string) bool {
	if s == "" {
		return true
	}
	b := s[len(s)-1]
	return b&0xC0 != 0x80
}

// DecodeLabel trims the trailing NUL padding from a fixed 32-byte
// label field.
func DecodeLabel(raw [32]byte) string {
	return strings.TrimRight(string(raw[:]), "\x00")
}

func float32bits(f float32) uint32 {
	return math.Float32bits(f)
}

func float32frombits(b uint32) float32 {
	return math.Float32frombits(b)
}
