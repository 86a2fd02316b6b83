// Package registry is a static table of LIFX product capabilities,
// keyed by vendor/product id as reported in StateVersion. It stands in
// for the hosted product registry a real device firmware is built
// against: the emulator needs the same fields (what capabilities a
// product has, its default Kelvin range, its default zone/tile layout)
// but none of the network lookup that backs the real thing.
package registry

// FeatureSet describes what a product supports. Fields absent on the
// device's actual hardware gate the corresponding sub-state to
// default-on-absence reads and no-op writes in internal/devicestate.
type FeatureSet struct {
	Name                  string
	HasColor              bool
	HasInfrared           bool
	HasMultiZone          bool
	HasExtendedMultiZone  bool
	HasMatrix             bool
	HasHev                bool
	HasRelays             bool
	HasButtons            bool
	MinKelvin             uint16
	MaxKelvin             uint16
	DefaultZoneCount      int
	DefaultChainLength    int
	DefaultTileWidth      int
	DefaultTileHeight     int

	// MinExtendedMultiZoneFirmwareBuild is set on products whose
	// extended multizone support was granted after the fact by a
	// firmware update rather than present from the first shipped
	// firmware. Zero means no such gate applies; check
	// SupportsExtendedMultiZone rather than this field directly.
	MinExtendedMultiZoneFirmwareBuild uint64
}

// SupportsExtendedMultiZone reports whether a device of this product
// supports extended multizone addressing given its currently reported
// firmware build. Products with native support (HasExtendedMultiZone)
// always qualify; products gated by MinExtendedMultiZoneFirmwareBuild
// qualify once the reported build meets or exceeds the threshold.
func (fs FeatureSet) SupportsExtendedMultiZone(firmwareBuild uint64) bool {
	if fs.HasExtendedMultiZone {
		return true
	}
	if !fs.HasMultiZone || fs.MinExtendedMultiZoneFirmwareBuild == 0 {
		return false
	}
	return firmwareBuild >= fs.MinExtendedMultiZoneFirmwareBuild
}

// Product keys the feature table by the (vendor, product) pair carried
// in StateVersion.
type Product struct {
	Vendor  uint32
	Product uint32
}

const lifxVendorID uint32 = 1

// products is a representative slice of the real LIFX product catalog,
// enough to exercise every capability combination the emulator's
// handlers branch on: plain color bulbs, IR-capable bulbs, multizone
// strips (legacy and extended), matrix/tile devices, HEV-capable
// bulbs, and relay-only switches.
var products = map[Product]FeatureSet{
	{lifxVendorID, 1}: { // Original 1000
		Name: "LIFX Original 1000", HasColor: true,
		MinKelvin: 2500, MaxKelvin: 9000,
	},
	{lifxVendorID, 29}: { // A19
		Name: "LIFX A19", HasColor: true,
		MinKelvin: 2500, MaxKelvin: 9000,
	},
	{lifxVendorID, 30}: { // BR30
		Name: "LIFX BR30", HasColor: true,
		MinKelvin: 2500, MaxKelvin: 9000,
	},
	{lifxVendorID, 31}: { // A19 IR
		Name: "LIFX+ A19", HasColor: true, HasInfrared: true,
		MinKelvin: 2500, MaxKelvin: 9000,
	},
	{lifxVendorID, 38}: { // Z strip: extended multizone came later via firmware update
		Name: "LIFX Z", HasColor: true, HasMultiZone: true,
		MinKelvin: 2500, MaxKelvin: 9000, DefaultZoneCount: 16,
		MinExtendedMultiZoneFirmwareBuild: 1532997580,
	},
	{lifxVendorID, 32}: { // Z strip 2, extended multizone from first firmware
		Name: "LIFX Z 2", HasColor: true, HasMultiZone: true, HasExtendedMultiZone: true,
		MinKelvin: 2500, MaxKelvin: 9000, DefaultZoneCount: 32,
	},
	{lifxVendorID, 55}: { // Tile
		Name: "LIFX Tile", HasColor: true, HasMatrix: true,
		MinKelvin: 2500, MaxKelvin: 9000,
		DefaultChainLength: 5, DefaultTileWidth: 8, DefaultTileHeight: 8,
	},
	{lifxVendorID, 109}: { // Candle (matrix, fixed single tile)
		Name: "LIFX Candle", HasColor: true, HasMatrix: true,
		MinKelvin: 2500, MaxKelvin: 9000,
		DefaultChainLength: 1, DefaultTileWidth: 5, DefaultTileHeight: 6,
	},
	{lifxVendorID, 90}: { // Clean (HEV)
		Name: "LIFX Clean", HasColor: true, HasHev: true,
		MinKelvin: 2500, MaxKelvin: 9000,
	},
	{lifxVendorID, 70}: { // Switch
		Name: "LIFX Switch", HasRelays: true, HasButtons: true,
	},
	{lifxVendorID, 81}: { // Mini White
		Name: "LIFX Mini White",
		MinKelvin: 2700, MaxKelvin: 6500,
	},
}

// Lookup returns the feature set for a (vendor, product) pair. Unknown
// products get a conservative all-capabilities-off default rather than
// an error: a malformed or newer-than-known product id should still
// produce a device that responds, just with nothing beyond the Device
// namespace enabled.
func Lookup(vendor, product uint32) FeatureSet {
	if fs, ok := products[Product{vendor, product}]; ok {
		return fs
	}
	return FeatureSet{Name: "Unknown", MinKelvin: 2500, MaxKelvin: 9000}
}

// ByName returns the (vendor, product) pair and feature set for a
// known product name. The second return value is false if no product
// with that name is registered.
func ByName(name string) (Product, FeatureSet, bool) {
	for p, fs := range products {
		if fs.Name == name {
			return p, fs, true
		}
	}
	return Product{}, FeatureSet{}, false
}
