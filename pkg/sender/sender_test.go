package sender

import (
	"net"
	"testing"
	"time"

	"github.com/nullgraph/lldpd/pkg/codec"
	"github.com/nullgraph/lldpd/pkg/sysinfo"
)

type fakeDriver struct {
	sent [][]byte
	err  error
}

func (f *fakeDriver) SendEthernet(dstMAC, srcMAC []byte, etherType uint16, payload []byte) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, append([]byte(nil), payload...))
	return nil
}

func testIface() sysinfo.Interface {
	return sysinfo.Interface{
		Name:      "eth0",
		MAC:       net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x55},
		IPv4Addrs: []net.IP{net.ParseIP("10.0.0.5").To4()},
	}
}

func TestResolveTargetsSingleInterface(t *testing.T) {
	snap := sysinfo.Snapshot{Interfaces: []sysinfo.Interface{testIface()}}
	got := ResolveTargets(snap, "eth0")
	if len(got) != 1 || got[0].Name != "eth0" {
		t.Fatalf("expected [eth0], got %v", got)
	}
}

func TestResolveTargetsAllDedupesByMAC(t *testing.T) {
	iface1 := testIface()
	iface2 := testIface()
	iface2.Name = "eth1"
	iface2.IsOperational = true
	iface1.IsOperational = true

	snap := sysinfo.Snapshot{Interfaces: []sysinfo.Interface{iface1, iface2}}
	got := ResolveTargets(snap, "all")
	if len(got) != 1 {
		t.Fatalf("expected duplicate MAC to be deduped to 1 interface, got %d", len(got))
	}
	if got[0].Name != "eth0" {
		t.Fatalf("expected first enumeration-order interface to win, got %s", got[0].Name)
	}
}

func TestResolveTargetsAllSkipsInterfacesWithoutIPv4(t *testing.T) {
	iface := testIface()
	iface.IsOperational = true
	iface.IPv4Addrs = nil

	snap := sysinfo.Snapshot{Interfaces: []sysinfo.Interface{iface}}
	got := ResolveTargets(snap, "all")
	if len(got) != 0 {
		t.Fatalf("expected no targets for interface without an IPv4 address, got %v", got)
	}
}

func TestBuildFrameOmitsManagementAddressWhenAutoHasNoIPv4(t *testing.T) {
	iface := testIface()
	iface.IPv4Addrs = nil
	cfg := Config{ManagementAddress: "auto", SystemName: "host1", TTL: 120}

	frame, err := buildFrame(iface, cfg, cfg.TTL)
	if err != nil {
		t.Fatalf("buildFrame: %v", err)
	}
	if len(frame.MgmtAddrs) != 0 {
		t.Fatalf("expected no management address TLV, got %v", frame.MgmtAddrs)
	}
}

func TestBuildFrameUsesConfiguredManagementAddress(t *testing.T) {
	iface := testIface()
	cfg := Config{ManagementAddress: "192.0.2.1", SystemName: "host1", TTL: 120}

	frame, err := buildFrame(iface, cfg, cfg.TTL)
	if err != nil {
		t.Fatalf("buildFrame: %v", err)
	}
	if len(frame.MgmtAddrs) != 1 || frame.MgmtAddrs[0].Address.String() != "192.0.2.1" {
		t.Fatalf("expected configured management address, got %v", frame.MgmtAddrs)
	}
}

func TestBuildFrameUsesConfiguredSystemName(t *testing.T) {
	// A literal SystemName override is checked for the simple
	// pass-through path; the "auto" hostname path and its "unknown"
	// fallback depend on sysinfo.Collect and are not exercised here.
	iface := testIface()
	cfg := Config{SystemName: "custom-host", TTL: 120}

	frame, err := buildFrame(iface, cfg, cfg.TTL)
	if err != nil {
		t.Fatalf("buildFrame: %v", err)
	}
	if frame.SysName == nil || *frame.SysName != "custom-host" {
		t.Fatalf("expected configured system name, got %v", frame.SysName)
	}
}

func TestEmitSendsEncodedFrameThroughDriver(t *testing.T) {
	driver := &fakeDriver{}
	s := &Sender{
		Config: Config{ManagementAddress: "auto", SystemName: "host1", TTL: 120},
		Open: func(iface string) (Driver, func(), error) {
			return driver, func() {}, nil
		},
	}

	if err := s.emit(testIface(), 120); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(driver.sent) != 1 {
		t.Fatalf("expected exactly one frame sent, got %d", len(driver.sent))
	}

	raw := make([]byte, 0, 14+len(driver.sent[0]))
	raw = append(raw, codec.LLDPMulticast...)
	raw = append(raw, testIface().MAC...)
	raw = append(raw, 0x88, 0xcc)
	raw = append(raw, driver.sent[0]...)

	frame, err := codec.DecodeFrame(raw)
	if err != nil {
		t.Fatalf("decode sent frame: %v", err)
	}
	if frame.TTL != 120 {
		t.Fatalf("expected TTL 120, got %d", frame.TTL)
	}
}

func TestRunStopsImmediatelyOnStopChannel(t *testing.T) {
	s := &Sender{
		Config: Config{Interval: time.Hour, Interface: "nonexistent0"},
	}
	stop := make(chan struct{})
	close(stop)

	done := make(chan struct{})
	go func() {
		s.Run(stop)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return promptly after stop was closed")
	}
}
