package wire

// Packet type numbers, grouped by protocol namespace ranges.
// Acknowledgment and StateUnhandled are namespace-agnostic control
// packets the transport can emit for any request.
const (
	// Device namespace: 2-59.
	TypeGetService         uint16 = 2
	TypeStateService       uint16 = 3
	TypeGetHostFirmware    uint16 = 14
	TypeStateHostFirmware  uint16 = 15
	TypeGetWifiFirmware    uint16 = 18
	TypeStateWifiFirmware  uint16 = 19
	TypeGetWifiInfo        uint16 = 16
	TypeStateWifiInfo      uint16 = 17
	TypeGetPower           uint16 = 20
	TypeSetPower           uint16 = 21
	TypeStatePower         uint16 = 22
	TypeGetLabel           uint16 = 23
	TypeSetLabel           uint16 = 24
	TypeStateLabel         uint16 = 25
	TypeGetVersion         uint16 = 32
	TypeStateVersion       uint16 = 33
	TypeGetInfo            uint16 = 34
	TypeStateInfo          uint16 = 35
	TypeAcknowledgement    uint16 = 45
	TypeGetLocation        uint16 = 48
	TypeSetLocation        uint16 = 49
	TypeStateLocation      uint16 = 50
	TypeGetGroup           uint16 = 51
	TypeSetGroup           uint16 = 52
	TypeStateGroup         uint16 = 53
	TypeEchoRequest        uint16 = 58
	TypeEchoResponse       uint16 = 59
	TypeStateUnhandled     uint16 = 223

	// Light namespace: 101-149.
	TypeLightGet                         uint16 = 101
	TypeLightSetColor                    uint16 = 102
	TypeLightSetWaveform                 uint16 = 103
	TypeLightState                       uint16 = 107
	TypeLightGetPower                    uint16 = 116
	TypeLightSetPower                    uint16 = 117
	TypeLightStatePower                  uint16 = 118
	TypeLightSetWaveformOptional         uint16 = 119
	TypeLightGetInfrared                 uint16 = 120
	TypeLightStateInfrared               uint16 = 121
	TypeLightSetInfrared                 uint16 = 122
	TypeLightGetHevCycle                 uint16 = 142
	TypeLightSetHevCycle                 uint16 = 143
	TypeLightStateHevCycle               uint16 = 144
	TypeLightGetHevCycleConfiguration    uint16 = 145
	TypeLightSetHevCycleConfiguration    uint16 = 146
	TypeLightStateHevCycleConfiguration  uint16 = 147
	TypeLightGetLastHevCycleResult       uint16 = 148
	TypeLightStateLastHevCycleResult     uint16 = 149

	// MultiZone namespace: 501-512.
	TypeMultiZoneSetColorZones              uint16 = 501
	TypeMultiZoneGetColorZones               uint16 = 502
	TypeMultiZoneStateZone                   uint16 = 503
	TypeMultiZoneStateMultiZone               uint16 = 506
	TypeMultiZoneSetEffect                   uint16 = 507
	TypeMultiZoneGetEffect                   uint16 = 508
	TypeMultiZoneStateEffect                 uint16 = 509
	TypeMultiZoneSetExtendedColorZones       uint16 = 510
	TypeMultiZoneGetExtendedColorZones       uint16 = 511
	TypeMultiZoneStateExtendedColorZones     uint16 = 512

	// Matrix/Tile namespace: 701-720.
	TypeTileGetDeviceChain   uint16 = 701
	TypeTileStateDeviceChain uint16 = 702
	TypeTileSetUserPosition  uint16 = 703
	TypeTileGetUserPosition  uint16 = 704
	TypeTileStateUserPosition uint16 = 705
	TypeTileGet64            uint16 = 706
	TypeTileState64          uint16 = 707
	TypeTileSet64            uint16 = 708
	TypeTileCopyFrameBuffer  uint16 = 709
	TypeTileGetEffect        uint16 = 710
	TypeTileSetEffect        uint16 = 711
	TypeTileStateEffect      uint16 = 712

	// Relay (switch) namespace, kept inside the reserved 800-series
	// range so it can never collide with a Device/Light/MultiZone/Tile
	// number.
	TypeRelayGetRPower   uint16 = 816
	TypeRelaySetRPower   uint16 = 817
	TypeRelayStateRPower uint16 = 818
)

// PacketClassOf reports the protocol namespace a packet type number
// belongs to, for capability-gating decisions in the handler registry.
type Namespace int

const (
	NamespaceUnknown Namespace = iota
	NamespaceDevice
	NamespaceLight
	NamespaceMultiZone
	NamespaceMatrix
	NamespaceRelay
)

func PacketClassOf(t uint16) Namespace {
	switch {
	case t >= 2 && t <= 59:
		return NamespaceDevice
	case t >= 101 && t <= 149:
		return NamespaceLight
	case t >= 501 && t <= 512:
		return NamespaceMultiZone
	case t >= 701 && t <= 720:
		return NamespaceMatrix
	case t >= 800 && t <= 899:
		return NamespaceRelay
	default:
		return NamespaceUnknown
	}
}
