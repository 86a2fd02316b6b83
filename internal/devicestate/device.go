// Package devicestate holds the in-memory, mutable record for one
// emulated device: everything a real bulb, strip, tile or switch would
// report back over the Device/Light/MultiZone/Matrix/Relay namespaces.
//
// Every sub-record is gated by the device's registry.FeatureSet. A read
// against a capability the device doesn't have returns its documented
// default rather than an error; a write against a missing capability
// is a silent no-op. This mirrors how real firmware behaves: a LIFX
// Mini White simply doesn't run the multizone or matrix code paths,
// it doesn't reject the request.
package devicestate

import (
	"sync"
	"time"

	"github.com/alessio-palumbo/lifx-emulator/internal/registry"
	"github.com/alessio-palumbo/lifx-emulator/internal/wire"
)

// Serial is a device's 6-byte LIFX MAC-derived identifier.
type Serial [6]byte

func (s Serial) String() string {
	const hexDigits = "0123456789abcdef"
	out := make([]byte, 0, 12)
	for _, b := range s {
		out = append(out, hexDigits[b>>4], hexDigits[b&0xF])
	}
	return string(out)
}

// Core holds the fields every device reports regardless of type:
// label, power, firmware and version identity.
type Core struct {
	Label           string
	PoweredOn       bool
	FirmwareBuild   uint64
	FirmwareMinor   uint16
	FirmwareMajor   uint16
	CreatedAt       time.Time
}

// Network holds the fields behind GetWifiInfo/StateWifiInfo.
type Network struct {
	Signal float32
}

// Location and Group share the same shape: a 16-byte id, a label and
// an update timestamp, set together whenever either field changes.
type Location struct {
	ID        [16]byte
	Label     string
	UpdatedAt uint64
}

type Group struct {
	ID        [16]byte
	Label     string
	UpdatedAt uint64
}

// Waveform records the most recently requested SetWaveform transition,
// surfaced only for diagnostics; the emulator does not animate it.
type Waveform struct {
	Active    bool
	Transient bool
	Color     wire.Hsbk
	Period    uint32
	Cycles    float32
	SkewRatio int16
	Kind      wire.Waveform
}

// Infrared holds the IR brightness level for products with an IR LED.
type Infrared struct {
	Brightness uint16
}

// Hev holds HEV (high energy visible / cleaning) cycle state.
type Hev struct {
	Running        bool
	Duration       uint32
	Remaining      uint32
	LastPower      bool
	LastResult     wire.LastHevCycleResult
	Indication     wire.HevCycleIndication
	DefaultDuration uint32
}

// Multizone holds per-zone color state for strip-type devices.
type Multizone struct {
	Zones   []wire.Hsbk
	Effect  wire.MultiZoneEffectSettings
}

// matrixFramebufferCount is the number of framebuffers each tile
// carries: buffer 0 is the visible one, buffers 1-7 are scratch space
// for staging pixels before a CopyFrameBuffer onto the visible buffer.
const matrixFramebufferCount = 8

// matrixWindowPixels is the fixed pixel-window size Get64/Set64/
// CopyFrameBuffer all operate on.
const matrixWindowPixels = 64

// Matrix holds per-tile pixel state for tile/chain devices.
type Matrix struct {
	Width       int
	Height      int
	ChainLength int
	Tiles       []wire.TileStateDevice
	// Framebuffers[i][b] is the flattened Width*Height color grid for
	// tile i, framebuffer b. Buffer 0 is allocated at device creation;
	// buffers 1-7 stay nil until first written.
	Framebuffers [][matrixFramebufferCount][]wire.Hsbk
	Effect       wire.TileEffectSettings
}

// Relay holds per-channel power state for switch devices.
type Relay struct {
	Levels []uint16
}

// Device is the full mutable record for one emulated LIFX device.
type Device struct {
	mu sync.RWMutex

	Serial   Serial
	Vendor   uint32
	Product  uint32
	Features registry.FeatureSet

	core      Core
	network   Network
	location  Location
	group     Group
	color     wire.Hsbk
	waveform  Waveform
	infrared  Infrared
	hev       Hev
	multizone Multizone
	matrix    Matrix
	relay     Relay

	// onChange, if set, is called after every mutating method,
	// outside the lock, so scenario caches and persistence can react.
	onChange func(Serial)
}

// New creates a device record for the given serial and product,
// seeding capability-appropriate defaults (zone count, tile layout,
// Kelvin range) from the registry feature set.
func New(serial Serial, vendor, product uint32, features registry.FeatureSet, label string) *Device {
	d := &Device{
		Serial:   serial,
		Vendor:   vendor,
		Product:  product,
		Features: features,
		core: Core{
			Label:     label,
			CreatedAt: time.Now(),
		},
		color: wire.Hsbk{Brightness: 65535, Kelvin: clampKelvin(features, 3500)},
	}

	if features.HasMultiZone {
		n := features.DefaultZoneCount
		if n == 0 {
			n = 1
		}
		d.multizone.Zones = make([]wire.Hsbk, n)
	}

	if features.HasMatrix {
		w, h, l := features.DefaultTileWidth, features.DefaultTileHeight, features.DefaultChainLength
		if w == 0 {
			w = 1
		}
		if h == 0 {
			h = 1
		}
		if l == 0 {
			l = 1
		}
		d.matrix.Width, d.matrix.Height, d.matrix.ChainLength = w, h, l
		d.matrix.Tiles = make([]wire.TileStateDevice, l)
		for i := range d.matrix.Tiles {
			d.matrix.Tiles[i].Width = uint8(w)
			d.matrix.Tiles[i].Height = uint8(h)
		}
		d.matrix.Framebuffers = make([][matrixFramebufferCount][]wire.Hsbk, l)
		for i := range d.matrix.Framebuffers {
			d.matrix.Framebuffers[i][0] = make([]wire.Hsbk, w*h)
		}
	}

	if features.HasRelays {
		d.relay.Levels = make([]uint16, 1)
	}

	return d
}

// OnChange registers a callback invoked, outside the lock, after any
// mutating method runs. Only one observer is supported; devicemgr
// wraps this to fan out to both the scenario cache invalidator and the
// persistence debouncer.
func (d *Device) OnChange(fn func(Serial)) {
	d.mu.Lock()
	d.onChange = fn
	d.mu.Unlock()
}

func (d *Device) notify() {
	d.mu.RLock()
	fn := d.onChange
	d.mu.RUnlock()
	if fn != nil {
		fn(d.Serial)
	}
}

func clampKelvin(f registry.FeatureSet, k uint16) uint16 {
	min, max := f.MinKelvin, f.MaxKelvin
	if min == 0 && max == 0 {
		return k
	}
	if k < min {
		return min
	}
	if k > max {
		return max
	}
	return k
}

// --- Core ---

func (d *Device) Label() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.core.Label
}

func (d *Device) SetLabel(label string) {
	d.mu.Lock()
	d.core.Label = label
	d.mu.Unlock()
	d.notify()
}

func (d *Device) PoweredOn() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.core.PoweredOn
}

func (d *Device) SetPoweredOn(on bool) {
	d.mu.Lock()
	d.core.PoweredOn = on
	d.mu.Unlock()
	d.notify()
}

func (d *Device) Firmware() (build uint64, minor, major uint16) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.core.FirmwareBuild, d.core.FirmwareMinor, d.core.FirmwareMajor
}

func (d *Device) SetFirmware(build uint64, minor, major uint16) {
	d.mu.Lock()
	d.core.FirmwareBuild, d.core.FirmwareMinor, d.core.FirmwareMajor = build, minor, major
	d.mu.Unlock()
	d.notify()
}

func (d *Device) Uptime() time.Duration {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return time.Since(d.core.CreatedAt)
}

// --- Network ---

func (d *Device) WifiSignal() float32 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.network.Signal
}

func (d *Device) SetWifiSignal(signal float32) {
	d.mu.Lock()
	d.network.Signal = signal
	d.mu.Unlock()
	d.notify()
}

// --- Location / Group ---

func (d *Device) Location() Location {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.location
}

func (d *Device) SetLocation(loc Location) {
	d.mu.Lock()
	d.location = loc
	d.mu.Unlock()
	d.notify()
}

func (d *Device) Group() Group {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.group
}

func (d *Device) SetGroup(g Group) {
	d.mu.Lock()
	d.group = g
	d.mu.Unlock()
	d.notify()
}

// --- Color (Light namespace) ---

// Color returns the current HSBK. On a device without HasColor this
// is always a Kelvin-only white at the last-set brightness, matching
// real non-color firmware which ignores hue/saturation entirely.
func (d *Device) Color() wire.Hsbk {
	d.mu.RLock()
	defer d.mu.RUnlock()
	c := d.color
	if !d.Features.HasColor {
		c.Hue, c.Saturation = 0, 0
	}
	return c
}

// SetColor writes a new HSBK, clamping Kelvin to the product's range
// and silently dropping hue/saturation on non-color products. On a
// multizone device it fills every zone with the same color; on a
// matrix device it fills every tile's visible framebuffer.
func (d *Device) SetColor(c wire.Hsbk) {
	d.mu.Lock()
	if !d.Features.HasColor {
		c.Hue, c.Saturation = 0, 0
	}
	c.Kelvin = clampKelvin(d.Features, c.Kelvin)
	d.color = c

	if d.Features.HasMultiZone {
		for i := range d.multizone.Zones {
			d.multizone.Zones[i] = c
		}
	}
	if d.Features.HasMatrix {
		for i, fbs := range d.matrix.Framebuffers {
			if fbs[0] == nil {
				continue
			}
			for j := range fbs[0] {
				d.matrix.Framebuffers[i][0][j] = c
			}
		}
	}

	d.mu.Unlock()
	d.notify()
}

func (d *Device) Waveform() Waveform {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.waveform
}

func (d *Device) SetWaveform(w Waveform) {
	d.mu.Lock()
	w.Color.Kelvin = clampKelvin(d.Features, w.Color.Kelvin)
	d.waveform = w
	d.mu.Unlock()
	d.notify()
}

// --- Infrared ---

// Infrared returns the IR brightness, always 0 on a device without
// HasInfrared.
func (d *Device) Infrared() uint16 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if !d.Features.HasInfrared {
		return 0
	}
	return d.infrared.Brightness
}

// SetInfrared is a no-op on a device without HasInfrared.
func (d *Device) SetInfrared(brightness uint16) {
	d.mu.Lock()
	if !d.Features.HasInfrared {
		d.mu.Unlock()
		return
	}
	d.infrared.Brightness = brightness
	d.mu.Unlock()
	d.notify()
}

// --- Hev ---

func (d *Device) Hev() Hev {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if !d.Features.HasHev {
		return Hev{LastResult: wire.HevResultNone}
	}
	return d.hev
}

// StartHevCycle is a no-op on a device without HasHev.
func (d *Device) StartHevCycle(enable bool, duration uint32) {
	d.mu.Lock()
	if !d.Features.HasHev {
		d.mu.Unlock()
		return
	}
	if enable {
		d.hev.Running = true
		d.hev.Duration = duration
		d.hev.Remaining = duration
	} else {
		if d.hev.Running {
			d.hev.LastResult = wire.HevResultInterruptedByLan
		}
		d.hev.Running = false
		d.hev.Remaining = 0
	}
	d.hev.LastPower = d.core.PoweredOn
	d.mu.Unlock()
	d.notify()
}

func (d *Device) SetHevConfiguration(indication wire.HevCycleIndication, defaultDuration uint32) {
	d.mu.Lock()
	if !d.Features.HasHev {
		d.mu.Unlock()
		return
	}
	d.hev.Indication = indication
	d.hev.DefaultDuration = defaultDuration
	d.mu.Unlock()
	d.notify()
}

// --- Multizone ---

// Zones returns a copy of the current per-zone colors, empty on a
// device without HasMultiZone.
func (d *Device) Zones() []wire.Hsbk {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if !d.Features.HasMultiZone {
		return nil
	}
	out := make([]wire.Hsbk, len(d.multizone.Zones))
	copy(out, d.multizone.Zones)
	return out
}

// SetZones writes colors starting at index, clamped to the zone
// array's bounds. A no-op on a device without HasMultiZone.
func (d *Device) SetZones(index int, colors []wire.Hsbk) {
	d.mu.Lock()
	if !d.Features.HasMultiZone || index >= len(d.multizone.Zones) {
		d.mu.Unlock()
		return
	}
	n := copy(d.multizone.Zones[index:], colors)
	_ = n
	d.mu.Unlock()
	d.notify()
}

func (d *Device) MultizoneEffect() wire.MultiZoneEffectSettings {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.multizone.Effect
}

func (d *Device) SetMultizoneEffect(e wire.MultiZoneEffectSettings) {
	d.mu.Lock()
	if !d.Features.HasMultiZone {
		d.mu.Unlock()
		return
	}
	d.multizone.Effect = e
	d.mu.Unlock()
	d.notify()
}

// --- Matrix ---

func (d *Device) MatrixLayout() (width, height, chainLength int) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.matrix.Width, d.matrix.Height, d.matrix.ChainLength
}

func (d *Device) Tile(index int) (wire.TileStateDevice, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if !d.Features.HasMatrix || index < 0 || index >= len(d.matrix.Tiles) {
		return wire.TileStateDevice{}, false
	}
	return d.matrix.Tiles[index], true
}

func (d *Device) Tiles() []wire.TileStateDevice {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]wire.TileStateDevice, len(d.matrix.Tiles))
	copy(out, d.matrix.Tiles)
	return out
}

// TilePixels returns a copy of one tile's visible (framebuffer 0)
// flattened pixel grid.
func (d *Device) TilePixels(tileIndex int) ([]wire.Hsbk, bool) {
	return d.TileFramebuffer(tileIndex, 0)
}

// TileFramebuffer returns a copy of one tile's flattened pixel grid
// for the given framebuffer (0 = visible, 1-7 = scratch). A scratch
// buffer that has never been written returns a zero-valued grid of the
// tile's full size rather than failing: real firmware reports an
// unwritten scratch buffer as all-black, not as an error.
func (d *Device) TileFramebuffer(tileIndex int, fbIndex uint8) ([]wire.Hsbk, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if !d.Features.HasMatrix || tileIndex < 0 || tileIndex >= len(d.matrix.Framebuffers) || int(fbIndex) >= matrixFramebufferCount {
		return nil, false
	}
	grid := d.matrix.Framebuffers[tileIndex][fbIndex]
	if grid == nil {
		return make([]wire.Hsbk, d.matrix.Width*d.matrix.Height), true
	}
	out := make([]wire.Hsbk, len(grid))
	copy(out, grid)
	return out, true
}

// SetTilePixels writes colors into the rectangular window described by
// rect (whose FbIndex selects the target framebuffer), row-major
// starting at (rect.X, rect.Y). A no-op on a device without HasMatrix
// or an out-of-range tile index. Writing to a scratch framebuffer
// (FbIndex != 0) allocates it on first write.
func (d *Device) SetTilePixels(tileIndex int, rect wire.TileBufferRect, colors []wire.Hsbk) {
	d.mu.Lock()
	if !d.Features.HasMatrix || tileIndex < 0 || tileIndex >= len(d.matrix.Framebuffers) || int(rect.FbIndex) >= matrixFramebufferCount {
		d.mu.Unlock()
		return
	}
	d.ensureFramebufferLocked(tileIndex, rect.FbIndex)
	grid := d.matrix.Framebuffers[tileIndex][rect.FbIndex]
	writeWindow(grid, d.matrix.Width, rect, colors)
	d.mu.Unlock()
	d.notify()
}

// CopyTileFramebuffer copies a rectangular pixel window from one
// framebuffer to another on the same tile, the operation behind
// CopyFrameBuffer: staging pixels in a scratch buffer with Set64, then
// compositing them onto the visible buffer. The destination
// framebuffer is allocated on first write, same as SetTilePixels.
// Reports false on a device without HasMatrix or an out-of-range tile
// index.
func (d *Device) CopyTileFramebuffer(tileIndex int, srcRect, dstRect wire.TileBufferRect) bool {
	d.mu.Lock()
	if !d.Features.HasMatrix || tileIndex < 0 || tileIndex >= len(d.matrix.Framebuffers) ||
		int(srcRect.FbIndex) >= matrixFramebufferCount || int(dstRect.FbIndex) >= matrixFramebufferCount {
		d.mu.Unlock()
		return false
	}

	width := d.matrix.Width
	srcGrid := d.matrix.Framebuffers[tileIndex][srcRect.FbIndex]
	if srcGrid == nil {
		srcGrid = make([]wire.Hsbk, width*d.matrix.Height)
	}
	window := readWindow(srcGrid, width, srcRect, matrixWindowPixels)

	d.ensureFramebufferLocked(tileIndex, dstRect.FbIndex)
	dstGrid := d.matrix.Framebuffers[tileIndex][dstRect.FbIndex]
	writeWindow(dstGrid, width, dstRect, window)
	d.mu.Unlock()

	d.notify()
	return true
}

// ensureFramebufferLocked lazily allocates a tile's framebuffer if it
// has never been written. Callers must hold d.mu for writing.
func (d *Device) ensureFramebufferLocked(tileIndex int, fbIndex uint8) {
	if d.matrix.Framebuffers[tileIndex][fbIndex] == nil {
		d.matrix.Framebuffers[tileIndex][fbIndex] = make([]wire.Hsbk, d.matrix.Width*d.matrix.Height)
	}
}

// readWindow extracts up to n pixels from grid's rectangular window
// described by rect, row-major.
func readWindow(grid []wire.Hsbk, width int, rect wire.TileBufferRect, n int) []wire.Hsbk {
	out := make([]wire.Hsbk, n)
	for i := range out {
		x := int(rect.X) + i%int(rect.Width)
		y := int(rect.Y) + i/int(rect.Width)
		idx := y*width + x
		if idx >= 0 && idx < len(grid) {
			out[i] = grid[idx]
		}
	}
	return out
}

// writeWindow writes colors into grid's rectangular window described
// by rect, row-major.
func writeWindow(grid []wire.Hsbk, width int, rect wire.TileBufferRect, colors []wire.Hsbk) {
	for i, c := range colors {
		x := int(rect.X) + i%int(rect.Width)
		y := int(rect.Y) + i/int(rect.Width)
		idx := y*width + x
		if idx < 0 || idx >= len(grid) {
			continue
		}
		grid[idx] = c
	}
}

func (d *Device) MatrixEffect() wire.TileEffectSettings {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.matrix.Effect
}

func (d *Device) SetMatrixEffect(e wire.TileEffectSettings) {
	d.mu.Lock()
	if !d.Features.HasMatrix {
		d.mu.Unlock()
		return
	}
	d.matrix.Effect = e
	d.mu.Unlock()
	d.notify()
}

// --- Relay ---

// RelayLevel returns one channel's power level, 0 on a device without
// HasRelays or an out-of-range channel.
func (d *Device) RelayLevel(index int) uint16 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if !d.Features.HasRelays || index < 0 || index >= len(d.relay.Levels) {
		return 0
	}
	return d.relay.Levels[index]
}

// SetRelayLevel is a no-op on a device without HasRelays or an
// out-of-range channel.
func (d *Device) SetRelayLevel(index int, level uint16) {
	d.mu.Lock()
	if !d.Features.HasRelays || index < 0 || index >= len(d.relay.Levels) {
		d.mu.Unlock()
		return
	}
	d.relay.Levels[index] = level
	d.mu.Unlock()
	d.notify()
}

// Snapshot is the JSON-serializable projection of a Device's full
// state, used by internal/persistence to save and restore a device
// across restarts.
type Snapshot struct {
	Serial    Serial
	Vendor    uint32
	Product   uint32
	Core      Core
	Network   Network
	Location  Location
	Group     Group
	Color     wire.Hsbk
	Waveform  Waveform
	Infrared  Infrared
	Hev       Hev
	Multizone Multizone
	Matrix    Matrix
	Relay     Relay
}

// Snapshot captures the device's full state for persistence. The
// returned value shares no memory with the device: subsequent writes
// to the device do not retroactively change it.
func (d *Device) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()

	zones := make([]wire.Hsbk, len(d.multizone.Zones))
	copy(zones, d.multizone.Zones)

	framebuffers := make([][matrixFramebufferCount][]wire.Hsbk, len(d.matrix.Framebuffers))
	for i, fbs := range d.matrix.Framebuffers {
		for b, p := range fbs {
			if p == nil {
				continue
			}
			row := make([]wire.Hsbk, len(p))
			copy(row, p)
			framebuffers[i][b] = row
		}
	}
	tiles := make([]wire.TileStateDevice, len(d.matrix.Tiles))
	copy(tiles, d.matrix.Tiles)

	levels := make([]uint16, len(d.relay.Levels))
	copy(levels, d.relay.Levels)

	return Snapshot{
		Serial:   d.Serial,
		Vendor:   d.Vendor,
		Product:  d.Product,
		Core:     d.core,
		Network:  d.network,
		Location: d.location,
		Group:    d.group,
		Color:    d.color,
		Waveform: d.waveform,
		Infrared: d.infrared,
		Hev:      d.hev,
		Multizone: Multizone{
			Zones:  zones,
			Effect: d.multizone.Effect,
		},
		Matrix: Matrix{
			Width:        d.matrix.Width,
			Height:       d.matrix.Height,
			ChainLength:  d.matrix.ChainLength,
			Tiles:        tiles,
			Framebuffers: framebuffers,
			Effect:       d.matrix.Effect,
		},
		Relay: Relay{Levels: levels},
	}
}

// Restore overwrites the device's state from a previously captured
// Snapshot. Serial, Vendor, Product and Features are left untouched:
// a snapshot is only ever applied to the same device it was taken
// from, constructed fresh via New with the correct identity and
// capability set first. It does not invoke the onChange observer.
func (d *Device) Restore(s Snapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.core = s.Core
	d.network = s.Network
	d.location = s.Location
	d.group = s.Group
	d.color = s.Color
	d.waveform = s.Waveform
	d.infrared = s.Infrared
	d.hev = s.Hev
	d.multizone = Multizone{Zones: append([]wire.Hsbk(nil), s.Multizone.Zones...), Effect: s.Multizone.Effect}

	framebuffers := make([][matrixFramebufferCount][]wire.Hsbk, len(s.Matrix.Framebuffers))
	for i, fbs := range s.Matrix.Framebuffers {
		for b, p := range fbs {
			if p == nil {
				continue
			}
			framebuffers[i][b] = append([]wire.Hsbk(nil), p...)
		}
	}
	d.matrix = Matrix{
		Width:        s.Matrix.Width,
		Height:       s.Matrix.Height,
		ChainLength:  s.Matrix.ChainLength,
		Tiles:        append([]wire.TileStateDevice(nil), s.Matrix.Tiles...),
		Framebuffers: framebuffers,
		Effect:       s.Matrix.Effect,
	}
	d.relay = Relay{Levels: append([]uint16(nil), s.Relay.Levels...)}
}
