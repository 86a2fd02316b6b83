package wire

import (
	"encoding/binary"
	"fmt"
)

// maxChainLength bounds TileStateDevice entries in a device chain
// response, matching the real protocol's fixed 16-tile chain array.
const maxChainLength = 16

func init() {
	register(TypeTileGetDeviceChain, func() Payload { return &TileGetDeviceChain{} })
	register(TypeTileStateDeviceChain, func() Payload { return &TileStateDeviceChain{} })
	register(TypeTileSetUserPosition, func() Payload { return &TileSetUserPosition{} })
	register(TypeTileGetUserPosition, func() Payload { return &TileGetUserPosition{} })
	register(TypeTileStateUserPosition, func() Payload { return &TileStateUserPosition{} })
	register(TypeTileGet64, func() Payload { return &TileGet64{} })
	register(TypeTileState64, func() Payload { return &TileState64{} })
	register(TypeTileSet64, func() Payload { return &TileSet64{} })
	register(TypeTileCopyFrameBuffer, func() Payload { return &TileCopyFrameBuffer{} })
	register(TypeTileGetEffect, func() Payload { return &TileGetEffect{} })
	register(TypeTileSetEffect, func() Payload { return &TileSetEffect{} })
	register(TypeTileStateEffect, func() Payload { return &TileStateEffect{} })
}

type TileGetDeviceChain struct{ emptyPayload }

func (TileGetDeviceChain) PayloadType() uint16 { return TypeTileGetDeviceChain }

// TileStateDeviceChain reports every tile in the chain starting at
// StartIndex.
type TileStateDeviceChain struct {
	StartIndex  uint8
	TileDevices [maxChainLength]TileStateDevice
	TotalCount  uint8
}

const tileStateDeviceChainSize = 1 + maxChainLength*tileStateDeviceSize + 1

func (TileStateDeviceChain) PayloadType() uint16 { return TypeTileStateDeviceChain }
func (TileStateDeviceChain) Size() int           { return tileStateDeviceChainSize }

func (s TileStateDeviceChain) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, tileStateDeviceChainSize)
	buf = append(buf, s.StartIndex)
	for _, t := range s.TileDevices {
		tb, _ := t.MarshalBinary()
		buf = append(buf, tb...)
	}
	buf = append(buf, s.TotalCount)
	return buf, nil
}

func (s *TileStateDeviceChain) UnmarshalBinary(data []byte) error {
	if len(data) < tileStateDeviceChainSize {
		return fmt.Errorf("wire: short TileStateDeviceChain")
	}
	s.StartIndex = data[0]
	off := 1
	for i := range s.TileDevices {
		if err := (&s.TileDevices[i]).UnmarshalBinary(data[off:]); err != nil {
			return err
		}
		off += tileStateDeviceSize
	}
	s.TotalCount = data[off]
	return nil
}

// TileSetUserPosition repositions a tile within the client's on-screen
// chain layout; purely cosmetic, has no effect on pixel addressing.
type TileSetUserPosition struct {
	TileIndex uint8
	Reserved  uint16
	UserX     float32
	UserY     float32
}

const tileSetUserPositionSize = 1 + 2 + 4 + 4

func (TileSetUserPosition) PayloadType() uint16 { return TypeTileSetUserPosition }
func (TileSetUserPosition) Size() int           { return tileSetUserPositionSize }

func (s TileSetUserPosition) MarshalBinary() ([]byte, error) {
	buf := make([]byte, tileSetUserPositionSize)
	buf[0] = s.TileIndex
	binary.LittleEndian.PutUint16(buf[1:], s.Reserved)
	binary.LittleEndian.PutUint32(buf[3:], float32bits(s.UserX))
	binary.LittleEndian.PutUint32(buf[7:], float32bits(s.UserY))
	return buf, nil
}

func (s *TileSetUserPosition) UnmarshalBinary(data []byte) error {
	if len(data) < tileSetUserPositionSize {
		return fmt.Errorf("wire: short TileSetUserPosition")
	}
	s.TileIndex = data[0]
	s.Reserved = binary.LittleEndian.Uint16(data[1:])
	s.UserX = float32frombits(binary.LittleEndian.Uint32(data[3:]))
	s.UserY = float32frombits(binary.LittleEndian.Uint32(data[7:]))
	return nil
}

// TileGetUserPosition/TileStateUserPosition are the supplemented
// read-back pair for TileSetUserPosition.
type TileGetUserPosition struct {
	TileIndex uint8
}

func (TileGetUserPosition) PayloadType() uint16 { return TypeTileGetUserPosition }
func (TileGetUserPosition) Size() int           { return 1 }
func (s TileGetUserPosition) MarshalBinary() ([]byte, error) { return []byte{s.TileIndex}, nil }
func (s *TileGetUserPosition) UnmarshalBinary(data []byte) error {
	if len(data) < 1 {
		return fmt.Errorf("wire: short TileGetUserPosition")
	}
	s.TileIndex = data[0]
	return nil
}

type TileStateUserPosition struct {
	TileIndex uint8
	Reserved  uint16
	UserX     float32
	UserY     float32
}

func (TileStateUserPosition) PayloadType() uint16 { return TypeTileStateUserPosition }
func (s TileStateUserPosition) Size() int         { return tileSetUserPositionSize }
func (s TileStateUserPosition) MarshalBinary() ([]byte, error) {
	return (TileSetUserPosition(s)).MarshalBinary()
}
func (s *TileStateUserPosition) UnmarshalBinary(data []byte) error {
	return (*TileSetUserPosition)(s).UnmarshalBinary(data)
}

// TileGet64 requests a rectangular window of pixel colors from one
// tile's framebuffer.
type TileGet64 struct {
	TileIndex uint8
	Length    uint8
	Rect      TileBufferRect
}

const tileGet64Size = 1 + 1 + tileBufferRectSize

func (TileGet64) PayloadType() uint16 { return TypeTileGet64 }
func (TileGet64) Size() int           { return tileGet64Size }

func (s TileGet64) MarshalBinary() ([]byte, error) {
	buf := make([]byte, tileGet64Size)
	buf[0] = s.TileIndex
	buf[1] = s.Length
	r, _ := s.Rect.MarshalBinary()
	copy(buf[2:], r)
	return buf, nil
}

func (s *TileGet64) UnmarshalBinary(data []byte) error {
	if len(data) < tileGet64Size {
		return fmt.Errorf("wire: short TileGet64")
	}
	s.TileIndex = data[0]
	s.Length = data[1]
	return (&s.Rect).UnmarshalBinary(data[2:])
}

const tile64MaxPixels = 64

// TileState64 reports up to 64 pixels from the requested window.
type TileState64 struct {
	TileIndex uint8
	Rect      TileBufferRect
	Colors    [tile64MaxPixels]Hsbk
}

const tileState64Size = 1 + tileBufferRectSize + tile64MaxPixels*hsbkSize

func (TileState64) PayloadType() uint16 { return TypeTileState64 }
func (TileState64) Size() int           { return tileState64Size }

func (s TileState64) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, tileState64Size)
	buf = append(buf, s.TileIndex)
	r, _ := s.Rect.MarshalBinary()
	buf = append(buf, r...)
	for _, c := range s.Colors {
		cb, _ := c.MarshalBinary()
		buf = append(buf, cb...)
	}
	return buf, nil
}

func (s *TileState64) UnmarshalBinary(data []byte) error {
	if len(data) < tileState64Size {
		return fmt.Errorf("wire: short TileState64")
	}
	s.TileIndex = data[0]
	if err := (&s.Rect).UnmarshalBinary(data[1:]); err != nil {
		return err
	}
	off := 1 + tileBufferRectSize
	for i := range s.Colors {
		if err := (&s.Colors[i]).UnmarshalBinary(data[off:]); err != nil {
			return err
		}
		off += hsbkSize
	}
	return nil
}

// TileSet64 writes up to 64 pixels into the requested window.
type TileSet64 struct {
	TileIndex uint8
	Length    uint8
	Rect      TileBufferRect
	Duration  uint32
	Colors    [tile64MaxPixels]Hsbk
}

const tileSet64Size = 1 + 1 + tileBufferRectSize + 4 + tile64MaxPixels*hsbkSize

func (TileSet64) PayloadType() uint16 { return TypeTileSet64 }
func (TileSet64) Size() int           { return tileSet64Size }

func (s TileSet64) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, tileSet64Size)
	buf = append(buf, s.TileIndex, s.Length)
	r, _ := s.Rect.MarshalBinary()
	buf = append(buf, r...)
	var tmp4 [4]byte
	binary.LittleEndian.PutUint32(tmp4[:], s.Duration)
	buf = append(buf, tmp4[:]...)
	for _, c := range s.Colors {
		cb, _ := c.MarshalBinary()
		buf = append(buf, cb...)
	}
	return buf, nil
}

func (s *TileSet64) UnmarshalBinary(data []byte) error {
	if len(data) < tileSet64Size {
		return fmt.Errorf("wire: short TileSet64")
	}
	s.TileIndex = data[0]
	s.Length = data[1]
	if err := (&s.Rect).UnmarshalBinary(data[2:]); err != nil {
		return err
	}
	off := 2 + tileBufferRectSize
	s.Duration = binary.LittleEndian.Uint32(data[off:])
	off += 4
	for i := range s.Colors {
		if err := (&s.Colors[i]).UnmarshalBinary(data[off:]); err != nil {
			return err
		}
		off += hsbkSize
	}
	return nil
}

// TileCopyFrameBuffer copies pixels between two framebuffers on the
// same tile, e.g. compositing a scratch buffer onto the visible one.
type TileCopyFrameBuffer struct {
	TileIndex uint8
	Length    uint8
	SrcRect   TileBufferRect
	DstRect   TileBufferRect
}

const tileCopyFrameBufferSize = 1 + 1 + 2*tileBufferRectSize

func (TileCopyFrameBuffer) PayloadType() uint16 { return TypeTileCopyFrameBuffer }
func (TileCopyFrameBuffer) Size() int           { return tileCopyFrameBufferSize }

func (s TileCopyFrameBuffer) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, tileCopyFrameBufferSize)
	buf = append(buf, s.TileIndex, s.Length)
	sr, _ := s.SrcRect.MarshalBinary()
	buf = append(buf, sr...)
	dr, _ := s.DstRect.MarshalBinary()
	buf = append(buf, dr...)
	return buf, nil
}

func (s *TileCopyFrameBuffer) UnmarshalBinary(data []byte) error {
	if len(data) < tileCopyFrameBufferSize {
		return fmt.Errorf("wire: short TileCopyFrameBuffer")
	}
	s.TileIndex = data[0]
	s.Length = data[1]
	if err := (&s.SrcRect).UnmarshalBinary(data[2:]); err != nil {
		return err
	}
	return (&s.DstRect).UnmarshalBinary(data[2+tileBufferRectSize:])
}

type TileGetEffect struct{ emptyPayload }

func (TileGetEffect) PayloadType() uint16 { return TypeTileGetEffect }

type TileSetEffect struct {
	Settings TileEffectSettings
}

func (TileSetEffect) PayloadType() uint16 { return TypeTileSetEffect }
func (s TileSetEffect) Size() int         { return s.Settings.Size() }
func (s TileSetEffect) MarshalBinary() ([]byte, error) { return s.Settings.MarshalBinary() }
func (s *TileSetEffect) UnmarshalBinary(data []byte) error {
	return (&s.Settings).UnmarshalBinary(data)
}

type TileStateEffect struct {
	Settings TileEffectSettings
}

func (TileStateEffect) PayloadType() uint16 { return TypeTileStateEffect }
func (s TileStateEffect) Size() int         { return s.Settings.Size() }
func (s TileStateEffect) MarshalBinary() ([]byte, error) { return s.Settings.MarshalBinary() }
func (s *TileStateEffect) UnmarshalBinary(data []byte) error {
	return (&s.Settings).UnmarshalBinary(data)
}
