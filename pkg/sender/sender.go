// Package sender builds and emits LLDP advertisement frames on a timer
// (spec section 4.5).
package sender

import (
	"net"
	"time"

	"github.com/nullgraph/lldpd/pkg/capture"
	"github.com/nullgraph/lldpd/pkg/codec"
	"github.com/nullgraph/lldpd/pkg/config"
	"github.com/nullgraph/lldpd/pkg/logging"
	"github.com/nullgraph/lldpd/pkg/sysinfo"
)

// Driver is the narrow L2 send capability the sender needs; *capture.Engine
// satisfies it, and tests substitute a fake.
type Driver interface {
	SendEthernet(dstMAC, srcMAC []byte, etherType uint16, payload []byte) error
}

// Sender builds and emits frames on a cooperative timer.
type Sender struct {
	Config Config
	Open   func(iface string) (Driver, func(), error) // opens a driver bound to iface; returns it plus a closer
}

// Config mirrors the fields of pkg/config.Config the sender consumes,
// kept separate so tests can construct one without the env/.env loader.
type Config struct {
	Interval          time.Duration
	Interface         string // "all" or a single name
	SystemName        string // "auto" or a literal name
	SystemDescription string // empty means "use the OS-version snapshot"
	PortDescription   string
	ManagementAddress string // "auto" or a literal IPv4
	TTL               uint16
}

// FromLoaded adapts a loaded pkg/config.Config into a sender Config.
func FromLoaded(c config.Config) Config {
	return Config{
		Interval:          time.Duration(c.Interval) * time.Second,
		Interface:         c.Interface,
		SystemName:        c.SystemName,
		SystemDescription: c.SystemDescription,
		PortDescription:   c.PortDescription,
		ManagementAddress: c.ManagementAddress,
		TTL:               uint16(c.TTL),
	}
}

// NewWithCapture returns a Sender whose Driver is backed by
// pkg/capture.Engine.
func NewWithCapture(cfg Config) *Sender {
	return &Sender{
		Config: cfg,
		Open: func(iface string) (Driver, func(), error) {
			engine, err := capture.New(iface, logging.Verbosity())
			if err != nil {
				return nil, nil, err
			}
			return engine, engine.Close, nil
		},
	}
}

// Run drives the sender on a cooperative loop until stop is closed,
// calling Tick once per interval. Unlike a plain time.Ticker, the next
// fire time is computed as tickStart + interval rather than now +
// interval, so a slow Tick does not accumulate drift across many cycles
// (spec section 4.5: "the loop MUST compensate for its own drift").
func (s *Sender) Run(stop <-chan struct{}) {
	interval := s.Config.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	next := time.Now()
	timer := time.NewTimer(time.Until(next))
	defer timer.Stop()

	for {
		select {
		case <-stop:
			return
		case <-timer.C:
			tickStart := time.Now()
			if err := s.Tick(); err != nil {
				logging.Warning("sender: tick failed: %v", err)
			}
			next = tickStart.Add(interval)
			delay := time.Until(next)
			if delay < 0 {
				delay = 0
			}
			timer.Reset(delay)
		}
	}
}

// Tick performs one emission cycle across every resolved target
// interface (spec section 4.5, algorithm steps 1-3). Per-interface
// failures are logged and do not abort the tick.
func (s *Sender) Tick() error {
	snap, err := sysinfo.Collect()
	if err != nil {
		return err
	}

	targets := ResolveTargets(snap, s.Config.Interface)
	for _, iface := range targets {
		if err := s.emit(iface, s.Config.TTL); err != nil {
			logging.Warning("sender: failed to emit on %s: %v", iface.Name, err)
		}
	}
	return nil
}

// Withdraw emits a single TTL=0 frame per resolved target interface,
// best-effort, used on shutdown (spec section 4.5: "A 'shutdown' mode
// emits a single frame per interface with TTL=0").
func (s *Sender) Withdraw() {
	snap, err := sysinfo.Collect()
	if err != nil {
		logging.Warning("sender: withdraw: failed to snapshot system: %v", err)
		return
	}
	targets := ResolveTargets(snap, s.Config.Interface)
	for _, iface := range targets {
		if err := s.emit(iface, 0); err != nil {
			logging.Warning("sender: withdraw failed on %s: %v", iface.Name, err)
		}
	}
}

func (s *Sender) emit(iface sysinfo.Interface, ttl uint16) error {
	frame, err := buildFrame(iface, s.Config, ttl)
	if err != nil {
		return err
	}
	payload, err := codec.EncodeFrame(frame, iface.MAC)
	if err != nil {
		return err
	}

	driver, closer, err := s.Open(iface.Name)
	if err != nil {
		return err
	}
	defer closer()

	// payload already carries the full Ethernet header; strip it back
	// off so Driver.SendEthernet (which re-adds dst/src/EtherType) does
	// not duplicate it.
	const ethHeaderLen = 14
	return driver.SendEthernet(codec.LLDPMulticast, iface.MAC, codec.EtherTypeLLDP, payload[ethHeaderLen:])
}

// ResolveTargets implements spec section 4.5 step 2 plus the MAC-collision
// open-question resolution from SPEC_FULL section 4.7: either the single
// configured interface, or every operational interface with a MAC and at
// least one IPv4 address, deduplicated by MAC with the first
// enumeration-order winner kept.
func ResolveTargets(snap sysinfo.Snapshot, configured string) []sysinfo.Interface {
	if configured != "all" {
		if iface, ok := snap.ByName(configured); ok {
			return []sysinfo.Interface{iface}
		}
		return nil
	}

	seenMAC := map[string]bool{}
	var out []sysinfo.Interface
	for _, iface := range snap.Operational() {
		if len(iface.MAC) == 0 || isZeroMAC(iface.MAC) {
			continue
		}
		if len(iface.IPv4Addrs) == 0 {
			continue
		}
		key := iface.MAC.String()
		if seenMAC[key] {
			logging.Warning("duplicate chassis MAC, skipping %s", iface.Name)
			continue
		}
		seenMAC[key] = true
		out = append(out, iface)
	}
	return out
}

func isZeroMAC(mac net.HardwareAddr) bool {
	for _, b := range mac {
		if b != 0 {
			return false
		}
	}
	return true
}
