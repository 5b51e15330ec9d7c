// Package neighbor implements the durable, cross-process-safe table of
// LLDP neighbor records described in the component design: atomic
// read/modify/write against a JSON file, keyed by (interface, chassis-id,
// port-id), aged out by TTL.
package neighbor

import (
	"fmt"
	"time"

	"github.com/nullgraph/lldpd/pkg/codec"
)

// Key identifies a neighbor record. Two observations with the same Key
// describe the same neighbor and must merge rather than duplicate.
type Key struct {
	Interface string
	ChassisID string // hex/text form, see encodeChassisIdentifier
	PortID    string
}

func (k Key) String() string {
	return fmt.Sprintf("%s|%s|%s", k.Interface, k.ChassisID, k.PortID)
}

// Record is one entry in the neighbor table.
type Record struct {
	Interface            string
	ChassisIDSubtype     codec.ChassisIDSubtype
	ChassisID            string
	PortIDSubtype        codec.PortIDSubtype
	PortID               string
	PortDescription      string
	SystemName           string
	SystemDescription    string
	CapabilitiesSupported uint16
	CapabilitiesEnabled   uint16
	ManagementAddresses  []string
	ReceivedTTL          uint16
	FirstSeen            time.Time
	LastSeen             time.Time
	RawTLVDump           []byte
}

// Key returns the identity triple this record is stored under.
func (r Record) Key() Key {
	return Key{Interface: r.Interface, ChassisID: r.ChassisID, PortID: r.PortID}
}

// IsLive reports whether the record is still within its advertised TTL as
// of now (spec invariant: "A neighbor is live iff now - last_seen <=
// received_TTL").
func (r Record) IsLive(now time.Time) bool {
	if r.ReceivedTTL == 0 {
		return false
	}
	age := now.Sub(r.LastSeen)
	return age <= time.Duration(r.ReceivedTTL)*time.Second
}

// FromFrame builds a Record from a decoded codec.Frame observed on iface
// at time now, preserving raw for diagnostics.
func FromFrame(f codec.Frame, iface string, now time.Time, raw []byte) Record {
	r := Record{
		Interface:        iface,
		ChassisIDSubtype: f.Chassis.Subtype,
		ChassisID:        encodeChassisIdentifier(f.Chassis.Subtype, f.Chassis.Value),
		PortIDSubtype:    f.Port.Subtype,
		PortID:           encodePortIdentifier(f.Port.Subtype, f.Port.Value),
		ReceivedTTL:      f.TTL,
		FirstSeen:        now,
		LastSeen:         now,
		RawTLVDump:       raw,
	}
	if f.PortDesc != nil {
		r.PortDescription = *f.PortDesc
	}
	if f.SysName != nil {
		r.SystemName = *f.SysName
	}
	if f.SysDesc != nil {
		r.SystemDescription = *f.SysDesc
	}
	if f.CapsSupported != nil {
		r.CapabilitiesSupported = *f.CapsSupported
	}
	if f.CapsEnabled != nil {
		r.CapabilitiesEnabled = *f.CapsEnabled
	}
	for _, m := range f.MgmtAddrs {
		if m.Address != nil {
			r.ManagementAddresses = append(r.ManagementAddresses, m.Address.String())
		}
	}
	return r
}

// mergeInto copies the mutable fields of fresh onto existing, preserving
// existing.FirstSeen (spec invariant: "a second observation updates
// last-seen and mutable fields but preserves first-seen").
func mergeInto(existing, fresh Record) Record {
	merged := fresh
	merged.FirstSeen = existing.FirstSeen
	return merged
}
