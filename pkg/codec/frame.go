package codec

import (
	"encoding/binary"
	"net"

	"github.com/nullgraph/lldpd/pkg/lldperr"
)

// LLDPMulticast is the destination MAC every LLDP frame is addressed to.
var LLDPMulticast = net.HardwareAddr{0x01, 0x80, 0xc2, 0x00, 0x00, 0x0e}

// EtherTypeLLDP is the EtherType carried in the Ethernet-II header.
const EtherTypeLLDP = 0x88CC

// ethernetHeaderLen is dst MAC (6) + src MAC (6) + EtherType (2).
const ethernetHeaderLen = 14

// MaxFrameBytes is the wire budget an emitted frame must fit within (spec
// section 8: "Every emitted frame is <= 1500 bytes on the wire").
const MaxFrameBytes = 1500

// ChassisID is the mandatory Chassis ID TLV payload.
type ChassisID struct {
	Subtype ChassisIDSubtype
	Value   []byte
}

// PortID is the mandatory Port ID TLV payload.
type PortID struct {
	Subtype PortIDSubtype
	Value   []byte
}

// MgmtAddress is a single Management Address TLV (spec section 3).
type MgmtAddress struct {
	Subtype MgmtAddrSubtype
	Address net.IP
	IfIndex uint32
}

// OrgSpecific is an Organizationally Specific TLV payload (type 127).
type OrgSpecific struct {
	OUI     [3]byte
	Subtype uint8
	Data    []byte
}

// Unknown preserves an optional TLV of a type this engine does not
// interpret, for forward-compatible decoding (spec section 9: "Unknown is
// mandatory for forward-compatible decoding").
type Unknown struct {
	Type  TLVType
	Bytes []byte
}

// Frame is the ordered, tagged-variant representation of an LLDP TLV
// stream, independent of wire encoding (spec section 9).
type Frame struct {
	Chassis  ChassisID
	Port     PortID
	TTL      uint16
	PortDesc *string
	SysName  *string
	SysDesc  *string
	CapsSupported *uint16
	CapsEnabled   *uint16
	MgmtAddrs     []MgmtAddress
	OrgSpecifics  []OrgSpecific
	Unknowns      []Unknown
}

// strPtr is a small helper for constructing *string fields inline.
func strPtr(s string) *string { return &s }

// EncodeFrame serializes f into a complete Ethernet-II frame ready for an
// L2 send driver. srcMAC becomes the Ethernet source address.
func EncodeFrame(f Frame, srcMAC net.HardwareAddr) ([]byte, error) {
	payload, err := encodePayload(f)
	if err != nil {
		return nil, err
	}

	frame := make([]byte, ethernetHeaderLen+len(payload))
	copy(frame[0:6], LLDPMulticast)
	copy(frame[6:12], srcMAC)
	binary.BigEndian.PutUint16(frame[12:14], EtherTypeLLDP)
	copy(frame[14:], payload)

	if len(frame) > MaxFrameBytes {
		return nil, lldperr.Newf(lldperr.FrameTooLong, "encoded frame is %d bytes, exceeds %d", len(frame), MaxFrameBytes)
	}
	return frame, nil
}

// encodePayload builds the TLV stream (everything after the Ethernet
// header) in the mandatory order required by spec section 3: Chassis ->
// Port -> TTL -> optional TLVs -> End.
func encodePayload(f Frame) ([]byte, error) {
	var buf []byte
	var err error

	chassisPayload := append([]byte{byte(f.Chassis.Subtype)}, f.Chassis.Value...)
	if buf, err = encodeTLV(buf, TypeChassisID, chassisPayload); err != nil {
		return nil, err
	}

	portPayload := append([]byte{byte(f.Port.Subtype)}, f.Port.Value...)
	if buf, err = encodeTLV(buf, TypePortID, portPayload); err != nil {
		return nil, err
	}

	ttlPayload := make([]byte, 2)
	binary.BigEndian.PutUint16(ttlPayload, f.TTL)
	if buf, err = encodeTLV(buf, TypeTTL, ttlPayload); err != nil {
		return nil, err
	}

	if f.PortDesc != nil {
		if buf, err = encodeTLV(buf, TypePortDesc, []byte(*f.PortDesc)); err != nil {
			return nil, err
		}
	}
	if f.SysName != nil {
		if buf, err = encodeTLV(buf, TypeSystemName, []byte(*f.SysName)); err != nil {
			return nil, err
		}
	}
	if f.SysDesc != nil {
		if buf, err = encodeTLV(buf, TypeSystemDesc, []byte(*f.SysDesc)); err != nil {
			return nil, err
		}
	}
	if f.CapsSupported != nil && f.CapsEnabled != nil {
		capsPayload := make([]byte, 4)
		binary.BigEndian.PutUint16(capsPayload[0:2], *f.CapsSupported)
		binary.BigEndian.PutUint16(capsPayload[2:4], *f.CapsEnabled)
		if buf, err = encodeTLV(buf, TypeSystemCaps, capsPayload); err != nil {
			return nil, err
		}
	}
	for _, m := range f.MgmtAddrs {
		payload := encodeMgmtAddress(m)
		if buf, err = encodeTLV(buf, TypeManagementAddr, payload); err != nil {
			return nil, err
		}
	}
	for _, o := range f.OrgSpecifics {
		payload := append([]byte{o.OUI[0], o.OUI[1], o.OUI[2], o.Subtype}, o.Data...)
		if buf, err = encodeTLV(buf, TypeOrgSpecific, payload); err != nil {
			return nil, err
		}
	}
	for _, u := range f.Unknowns {
		if buf, err = encodeTLV(buf, u.Type, u.Bytes); err != nil {
			return nil, err
		}
	}

	buf, err = encodeTLV(buf, TypeEnd, nil)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// encodeMgmtAddress builds the Management Address TLV payload described in
// spec section 3: address-string-length, address-subtype, address bytes,
// fixed ifIndex subtype, 4-byte interface number, zero-length OID.
func encodeMgmtAddress(m MgmtAddress) []byte {
	var addrBytes []byte
	if m.Subtype == MgmtAddrIPv4 {
		addrBytes = m.Address.To4()
	} else {
		addrBytes = m.Address.To16()
	}
	// address-string-length counts the subtype byte plus the address
	// bytes, per IEEE 802.1AB management address string encoding.
	addrStrLen := 1 + len(addrBytes)

	payload := make([]byte, 0, 1+addrStrLen+1+4+1)
	payload = append(payload, byte(addrStrLen))
	payload = append(payload, byte(m.Subtype))
	payload = append(payload, addrBytes...)
	payload = append(payload, byte(ifIndexSubtype))
	ifIndexBytes := make([]byte, 4)
	binary.BigEndian.PutUint32(ifIndexBytes, m.IfIndex)
	payload = append(payload, ifIndexBytes...)
	payload = append(payload, 0) // OID length, always empty per spec.
	return payload
}
