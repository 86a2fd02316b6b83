package handlers

import (
	"github.com/alessio-palumbo/lifx-emulator/internal/devicestate"
	"github.com/alessio-palumbo/lifx-emulator/internal/wire"
)

// standardPort is the UDP port every emulated device advertises in
// StateService.
const standardPort = 56700

func init() {
	register(wire.TypeGetService, handleGetService)
	register(wire.TypeGetHostFirmware, handleGetHostFirmware)
	register(wire.TypeGetWifiFirmware, handleGetWifiFirmware)
	register(wire.TypeGetWifiInfo, handleGetWifiInfo)
	register(wire.TypeGetPower, handleGetPower)
	register(wire.TypeSetPower, handleSetPower)
	register(wire.TypeGetLabel, handleGetLabel)
	register(wire.TypeSetLabel, handleSetLabel)
	register(wire.TypeGetVersion, handleGetVersion)
	register(wire.TypeGetInfo, handleGetInfo)
	register(wire.TypeGetLocation, handleGetLocation)
	register(wire.TypeSetLocation, handleSetLocation)
	register(wire.TypeGetGroup, handleGetGroup)
	register(wire.TypeSetGroup, handleSetGroup)
	register(wire.TypeEchoRequest, handleEchoRequest)
}

func handleGetService(ctx *Context) []wire.Payload {
	return []wire.Payload{&wire.StateService{Service: wire.ServiceUDP, Port: standardPort}}
}

// firmwareVersion reports the device's firmware build/minor/major,
// substituting the scenario-configured override when one is set.
func firmwareVersion(ctx *Context) (build uint64, minor, major uint16) {
	build, minor, major = ctx.Device.Firmware()
	if fw := ctx.Rules.FirmwareVersion; fw != nil {
		minor, major = fw.Minor, fw.Major
	}
	return
}

func handleGetHostFirmware(ctx *Context) []wire.Payload {
	build, minor, major := firmwareVersion(ctx)
	return []wire.Payload{&wire.StateHostFirmware{Build: build, VersionMinor: minor, VersionMajor: major}}
}

func handleGetWifiFirmware(ctx *Context) []wire.Payload {
	build, minor, major := firmwareVersion(ctx)
	return []wire.Payload{&wire.StateWifiFirmware{Build: build, VersionMinor: minor, VersionMajor: major}}
}

func handleGetWifiInfo(ctx *Context) []wire.Payload {
	return []wire.Payload{&wire.StateWifiInfo{Signal: ctx.Device.WifiSignal()}}
}

func handleGetPower(ctx *Context) []wire.Payload {
	return []wire.Payload{statePower(ctx.Device.PoweredOn())}
}

func handleSetPower(ctx *Context) []wire.Payload {
	p, ok := ctx.Payload.(*wire.SetPower)
	if !ok {
		return nil
	}
	ctx.Device.SetPoweredOn(p.Level != 0)
	if !ctx.ResRequired {
		return nil
	}
	return []wire.Payload{statePower(ctx.Device.PoweredOn())}
}

func statePower(on bool) *wire.StatePower {
	if on {
		return &wire.StatePower{Level: 65535}
	}
	return &wire.StatePower{Level: 0}
}

func handleGetLabel(ctx *Context) []wire.Payload {
	return []wire.Payload{&wire.StateLabel{Label: wire.EncodeLabel(ctx.Device.Label())}}
}

func handleSetLabel(ctx *Context) []wire.Payload {
	p, ok := ctx.Payload.(*wire.SetLabel)
	if !ok {
		return nil
	}
	ctx.Device.SetLabel(wire.DecodeLabel(p.Label))
	if !ctx.ResRequired {
		return nil
	}
	return []wire.Payload{&wire.StateLabel{Label: p.Label}}
}

func handleGetVersion(ctx *Context) []wire.Payload {
	return []wire.Payload{&wire.StateVersion{Vendor: ctx.Device.Vendor, Product: ctx.Device.Product}}
}

func handleGetInfo(ctx *Context) []wire.Payload {
	uptime := ctx.Device.Uptime()
	return []wire.Payload{&wire.StateInfo{
		Time:     uint64(uptime.Nanoseconds()),
		Uptime:   uint64(uptime.Nanoseconds()),
		Downtime: 0,
	}}
}

func handleGetLocation(ctx *Context) []wire.Payload {
	loc := ctx.Device.Location()
	return []wire.Payload{&wire.StateLocation{
		Location:  loc.ID,
		Label:     wire.EncodeLabel(loc.Label),
		UpdatedAt: loc.UpdatedAt,
	}}
}

func handleSetLocation(ctx *Context) []wire.Payload {
	p, ok := ctx.Payload.(*wire.SetLocation)
	if !ok {
		return nil
	}
	loc := devicestateLocation(p)
	ctx.Device.SetLocation(loc)
	if !ctx.ResRequired {
		return nil
	}
	return []wire.Payload{&wire.StateLocation{Location: p.Location, Label: p.Label, UpdatedAt: p.UpdatedAt}}
}

func handleGetGroup(ctx *Context) []wire.Payload {
	g := ctx.Device.Group()
	return []wire.Payload{&wire.StateGroup{
		Group:     g.ID,
		Label:     wire.EncodeLabel(g.Label),
		UpdatedAt: g.UpdatedAt,
	}}
}

func handleSetGroup(ctx *Context) []wire.Payload {
	p, ok := ctx.Payload.(*wire.SetGroup)
	if !ok {
		return nil
	}
	ctx.Device.SetGroup(devicestateGroup(p))
	if !ctx.ResRequired {
		return nil
	}
	return []wire.Payload{&wire.StateGroup{Group: p.Group, Label: p.Label, UpdatedAt: p.UpdatedAt}}
}

func devicestateLocation(p *wire.SetLocation) devicestate.Location {
	return devicestate.Location{ID: p.Location, Label: wire.DecodeLabel(p.Label), UpdatedAt: p.UpdatedAt}
}

func devicestateGroup(p *wire.SetGroup) devicestate.Group {
	return devicestate.Group{ID: p.Group, Label: wire.DecodeLabel(p.Label), UpdatedAt: p.UpdatedAt}
}

func handleEchoRequest(ctx *Context) []wire.Payload {
	p, ok := ctx.Payload.(*wire.EchoRequest)
	if !ok {
		return nil
	}
	return []wire.Payload{&wire.EchoResponse{Payload: p.Payload}}
}
