//go:build linux

package sysinfo

import (
	"os"
	"strings"
)

func init() {
	osVersionDetail = linuxVersionDetail
}

// linuxVersionDetail reads the kernel release from /proc/sys/kernel/osrelease
// (e.g. "6.18.5-fc-v18") and reshapes it into the "<major>.<minor>.<build>"
// form the OS-version string uses. Unparseable or missing data falls back
// to "0.0.0" rather than failing the snapshot.
func linuxVersionDetail() string {
	data, err := os.ReadFile("/proc/sys/kernel/osrelease")
	if err != nil {
		return "0.0.0"
	}
	release := strings.TrimSpace(string(data))
	// Keep only the leading dotted-numeric run (e.g. "6.18.5" out of
	// "6.18.5-fc-v18"); anything after the first non-numeric component is
	// build metadata this format has no field for.
	fields := strings.SplitN(release, "-", 2)
	core := fields[0]
	parts := strings.Split(core, ".")
	for len(parts) < 3 {
		parts = append(parts, "0")
	}
	return strings.Join(parts[:3], ".")
}
