package sysinfo

import (
	"net"
	"testing"
)

func TestToInterfaceExcludesLoopback(t *testing.T) {
	ni := net.Interface{Name: "lo", Flags: net.FlagUp | net.FlagLoopback, HardwareAddr: nil}
	got := toInterface(ni)
	if got.IsOperational {
		t.Fatalf("loopback interface must not be operational")
	}
}

func TestToInterfaceExcludesDown(t *testing.T) {
	ni := net.Interface{Name: "eth0", Flags: 0, HardwareAddr: net.HardwareAddr{0, 1, 2, 3, 4, 5}}
	got := toInterface(ni)
	if got.IsOperational {
		t.Fatalf("down interface must not be operational")
	}
}

func TestToInterfaceOperationalRequiresMACAndUp(t *testing.T) {
	ni := net.Interface{Name: "eth0", Flags: net.FlagUp, HardwareAddr: net.HardwareAddr{0, 1, 2, 3, 4, 5}}
	got := toInterface(ni)
	if !got.IsOperational {
		t.Fatalf("up interface with MAC should be operational")
	}
}

func TestSnapshotOperationalFiltersDownInterfaces(t *testing.T) {
	snap := Snapshot{Interfaces: []Interface{
		{Name: "eth0", IsOperational: true},
		{Name: "eth1", IsOperational: false},
	}}
	live := snap.Operational()
	if len(live) != 1 || live[0].Name != "eth0" {
		t.Fatalf("expected only eth0 to be operational, got %+v", live)
	}
}

func TestOSVersionStringHasThreeFields(t *testing.T) {
	s := osVersionString()
	parts := splitFields(s)
	if len(parts) != 3 {
		t.Fatalf("expected '<family> <version> <arch>' (3 space-separated fields), got %q", s)
	}
}

func splitFields(s string) []string {
	var fields []string
	start := -1
	for i, r := range s {
		if r == ' ' {
			if start >= 0 {
				fields = append(fields, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		fields = append(fields, s[start:])
	}
	return fields
}
