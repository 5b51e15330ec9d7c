package sender

import (
	"net"

	"github.com/nullgraph/lldpd/pkg/codec"
	"github.com/nullgraph/lldpd/pkg/sysinfo"
)

// buildFrame constructs the mandatory-then-optional TLV set for one
// interface (spec section 4.5, algorithm step 3): Chassis ID, Port ID,
// TTL, System Name, System Description, Port Description, System
// Capabilities, Management Address. The wire order is fixed by
// codec.EncodeFrame: Chassis ID, Port ID, TTL, Port Description, System
// Name, System Description, System Capabilities, Management Address.
func buildFrame(iface sysinfo.Interface, cfg Config, ttl uint16) (codec.Frame, error) {
	frame := codec.Frame{
		Chassis: codec.ChassisID{Subtype: codec.ChassisIDSubtypeMAC, Value: []byte(iface.MAC)},
		Port:    codec.PortID{Subtype: codec.PortIDSubtypeInterfaceName, Value: []byte(iface.Name)},
		TTL:     ttl,
	}

	if name := resolveSystemName(cfg.SystemName); name != "" {
		frame.SysName = strPtrSender(name)
	}
	if desc := resolveSystemDescription(cfg.SystemDescription); desc != "" {
		frame.SysDesc = strPtrSender(desc)
	}
	if cfg.PortDescription != "" {
		frame.PortDesc = strPtrSender(cfg.PortDescription)
	}

	supported := codec.CapStationOnly
	enabled := codec.CapStationOnly
	frame.CapsSupported = &supported
	frame.CapsEnabled = &enabled

	if addr, ok := resolveManagementAddress(cfg.ManagementAddress, iface); ok {
		frame.MgmtAddrs = []codec.MgmtAddress{{
			Subtype: codec.MgmtAddrIPv4,
			Address: addr,
			IfIndex: 0,
		}}
	}

	return frame, nil
}

func strPtrSender(s string) *string { return &s }

// resolveSystemName implements the "auto" default: fall back to the OS
// hostname, and "unknown" if even that is unavailable.
func resolveSystemName(configured string) string {
	if configured != "" && configured != "auto" {
		return configured
	}
	snap, err := sysinfo.Collect()
	if err != nil || snap.Hostname == "" {
		return "unknown"
	}
	return snap.Hostname
}

// resolveSystemDescription resolves the Open Question recorded in
// SPEC_FULL section 4.7: an explicitly configured description always
// wins; an empty configuration falls back to the OS-version snapshot
// string rather than omitting the TLV.
func resolveSystemDescription(configured string) string {
	if configured != "" {
		return configured
	}
	snap, err := sysinfo.Collect()
	if err != nil {
		return ""
	}
	return snap.OSVersion
}

// resolveManagementAddress implements "auto" resolution (the interface's
// primary IPv4, omitted entirely if none) versus a literal configured
// address (used verbatim regardless of the interface's own addresses).
func resolveManagementAddress(configured string, iface sysinfo.Interface) (net.IP, bool) {
	if configured != "" && configured != "auto" {
		ip := net.ParseIP(configured).To4()
		if ip == nil {
			return nil, false
		}
		return ip, true
	}
	ip := iface.PrimaryIPv4()
	if ip == nil {
		return nil, false
	}
	v4 := ip.To4()
	if v4 == nil {
		return nil, false
	}
	return v4, true
}
