// Package sysinfo collects the live system information the sender needs
// to build an LLDP advertisement: hostname, an OS-version string, and the
// set of operational network interfaces (spec section 4.6).
package sysinfo

import (
	"fmt"
	"net"
	"os"
	"strings"
)

// Interface describes one network interface as observed at snapshot time.
type Interface struct {
	Name         string
	MAC          net.HardwareAddr
	IPv4Addrs    []net.IP
	IsOperational bool
}

// PrimaryIPv4 returns the first IPv4 address bound to the interface, or
// nil if it has none.
func (i Interface) PrimaryIPv4() net.IP {
	if len(i.IPv4Addrs) == 0 {
		return nil
	}
	return i.IPv4Addrs[0]
}

// Snapshot is the pure data this package gathers on each call: hostname,
// OS-version string, and every interface net.Interfaces() reports.
type Snapshot struct {
	Hostname  string
	OSVersion string
	Interfaces []Interface
}

// Collect gathers a fresh Snapshot. It has no side effects beyond the OS
// queries needed to build it (spec section 4.6: "Pure function (no side
// effects beyond OS queries)").
func Collect() (Snapshot, error) {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	ifaces, err := net.Interfaces()
	if err != nil {
		return Snapshot{}, fmt.Errorf("enumerate interfaces: %w", err)
	}

	snap := Snapshot{
		Hostname:  hostname,
		OSVersion: osVersionString(),
	}
	for _, ni := range ifaces {
		snap.Interfaces = append(snap.Interfaces, toInterface(ni))
	}
	return snap, nil
}

// Operational returns every interface with a non-loopback MAC and the up
// flag set (spec section 4.6: "Interfaces with state 'down' or without an
// L2 MAC are excluded from the operational set").
func (s Snapshot) Operational() []Interface {
	var out []Interface
	for _, i := range s.Interfaces {
		if i.IsOperational {
			out = append(out, i)
		}
	}
	return out
}

// ByName returns the interface with the given name, if present.
func (s Snapshot) ByName(name string) (Interface, bool) {
	for _, i := range s.Interfaces {
		if i.Name == name {
			return i, true
		}
	}
	return Interface{}, false
}

func toInterface(ni net.Interface) Interface {
	out := Interface{
		Name: ni.Name,
		MAC:  ni.HardwareAddr,
	}

	addrs, err := ni.Addrs()
	if err == nil {
		for _, a := range addrs {
			ipNet, ok := a.(*net.IPNet)
			if !ok {
				continue
			}
			if v4 := ipNet.IP.To4(); v4 != nil {
				out.IPv4Addrs = append(out.IPv4Addrs, v4)
			}
		}
	}

	isLoopback := ni.Flags&net.FlagLoopback != 0
	hasMAC := len(ni.HardwareAddr) > 0 && !isLoopback
	isUp := ni.Flags&net.FlagUp != 0
	out.IsOperational = hasMAC && isUp

	return out
}

// osVersionString formats "<family> <major>.<minor>.<build> <arch>" per
// spec section 4.6, e.g. "Windows 10.0.26100 AMD64". The per-OS detail is
// filled in by the build-tagged files in this package; platforms without
// a specific reader fall back to the generic family/arch form with a
// zeroed version.
var osVersionDetail = func() string { return "0.0.0" }

func osVersionString() string {
	return fmt.Sprintf("%s %s %s", osFamily(), osVersionDetail(), strings.ToUpper(osArch()))
}
