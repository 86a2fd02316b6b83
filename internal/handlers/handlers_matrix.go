package handlers

import "github.com/alessio-palumbo/lifx-emulator/internal/wire"

func init() {
	register(wire.TypeTileGetDeviceChain, handleTileGetDeviceChain)
	register(wire.TypeTileSetUserPosition, handleTileSetUserPosition)
	register(wire.TypeTileGetUserPosition, handleTileGetUserPosition)
	register(wire.TypeTileGet64, handleTileGet64)
	register(wire.TypeTileSet64, handleTileSet64)
	register(wire.TypeTileCopyFrameBuffer, handleTileCopyFrameBuffer)
	register(wire.TypeTileGetEffect, handleTileGetEffect)
	register(wire.TypeTileSetEffect, handleTileSetEffect)
}

func requireMatrix(ctx *Context) bool {
	return ctx.Device.Features.HasMatrix
}

func handleTileGetDeviceChain(ctx *Context) []wire.Payload {
	if !requireMatrix(ctx) {
		return []wire.Payload{Unhandled(ctx.Header.Type)}
	}
	var chain [16]wire.TileStateDevice
	tiles := ctx.Device.Tiles()
	copy(chain[:], tiles)
	return []wire.Payload{&wire.TileStateDeviceChain{
		StartIndex:  0,
		TileDevices: chain,
		TotalCount:  uint8(len(tiles)),
	}}
}

func handleTileSetUserPosition(ctx *Context) []wire.Payload {
	if !requireMatrix(ctx) {
		return []wire.Payload{Unhandled(ctx.Header.Type)}
	}
	// User position is cosmetic chain layout metadata; the emulator
	// does not persist it against a tile today.
	return nil
}

func handleTileGetUserPosition(ctx *Context) []wire.Payload {
	if !requireMatrix(ctx) {
		return []wire.Payload{Unhandled(ctx.Header.Type)}
	}
	p, ok := ctx.Payload.(*wire.TileGetUserPosition)
	if !ok {
		return nil
	}
	return []wire.Payload{&wire.TileStateUserPosition{TileIndex: p.TileIndex}}
}

// handleTileGet64 reads a rectangular pixel window from each of Length
// consecutive tiles starting at TileIndex, one StateTile64 per tile.
func handleTileGet64(ctx *Context) []wire.Payload {
	if !requireMatrix(ctx) {
		return []wire.Payload{Unhandled(ctx.Header.Type)}
	}
	p, ok := ctx.Payload.(*wire.TileGet64)
	if !ok {
		return nil
	}

	var out []wire.Payload
	for i := uint8(0); i < p.Length; i++ {
		tileIdx := int(p.TileIndex) + int(i)
		out = append(out, tileState64(ctx, tileIdx, p.Rect))
	}
	return out
}

func tileState64(ctx *Context, tileIdx int, rect wire.TileBufferRect) *wire.TileState64 {
	resp := &wire.TileState64{TileIndex: uint8(tileIdx), Rect: rect}
	pixels, ok := ctx.Device.TileFramebuffer(tileIdx, rect.FbIndex)
	if !ok {
		return resp
	}
	width, _, _ := ctx.Device.MatrixLayout()
	for i := range resp.Colors {
		x := int(rect.X) + i%int(rect.Width)
		y := int(rect.Y) + i/int(rect.Width)
		idx := y*width + x
		if idx >= 0 && idx < len(pixels) {
			resp.Colors[i] = pixels[idx]
		}
	}
	return resp
}

// handleTileSet64 writes the same pixel window to each of Length
// consecutive tiles starting at TileIndex. A non-visible framebuffer
// (FbIndex != 0) is allocated on first write, the same as real
// firmware's scratch buffers.
func handleTileSet64(ctx *Context) []wire.Payload {
	if !requireMatrix(ctx) {
		return []wire.Payload{Unhandled(ctx.Header.Type)}
	}
	p, ok := ctx.Payload.(*wire.TileSet64)
	if !ok {
		return nil
	}

	for i := uint8(0); i < p.Length; i++ {
		tileIdx := int(p.TileIndex) + int(i)
		ctx.Device.SetTilePixels(tileIdx, p.Rect, p.Colors[:])
	}

	if !ctx.ResRequired {
		return nil
	}
	var out []wire.Payload
	for i := uint8(0); i < p.Length; i++ {
		tileIdx := int(p.TileIndex) + int(i)
		out = append(out, tileState64(ctx, tileIdx, p.Rect))
	}
	return out
}

// handleTileCopyFrameBuffer copies a pixel window from SrcRect's
// framebuffer to DstRect's framebuffer, across each of Length
// consecutive tiles starting at TileIndex. This is how a client
// composites a scratch buffer staged with Set64 onto the visible
// buffer (FbIndex 0).
func handleTileCopyFrameBuffer(ctx *Context) []wire.Payload {
	if !requireMatrix(ctx) {
		return []wire.Payload{Unhandled(ctx.Header.Type)}
	}
	p, ok := ctx.Payload.(*wire.TileCopyFrameBuffer)
	if !ok {
		return nil
	}

	for i := uint8(0); i < p.Length; i++ {
		tileIdx := int(p.TileIndex) + int(i)
		ctx.Device.CopyTileFramebuffer(tileIdx, p.SrcRect, p.DstRect)
	}
	return nil
}

func handleTileGetEffect(ctx *Context) []wire.Payload {
	if !requireMatrix(ctx) {
		return []wire.Payload{Unhandled(ctx.Header.Type)}
	}
	return []wire.Payload{&wire.TileStateEffect{Settings: ctx.Device.MatrixEffect()}}
}

func handleTileSetEffect(ctx *Context) []wire.Payload {
	if !requireMatrix(ctx) {
		return []wire.Payload{Unhandled(ctx.Header.Type)}
	}
	p, ok := ctx.Payload.(*wire.TileSetEffect)
	if !ok {
		return nil
	}
	ctx.Device.SetMatrixEffect(p.Settings)
	if !ctx.ResRequired {
		return nil
	}
	return []wire.Payload{&wire.TileStateEffect{Settings: ctx.Device.MatrixEffect()}}
}
