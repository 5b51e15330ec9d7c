package codec

import (
	"net"
	"unicode/utf8"

	"github.com/nullgraph/lldpd/pkg/lldperr"
)

// DecodeFrame parses a complete captured Ethernet-II frame into a Frame.
// It verifies the EtherType, then walks the TLV stream starting at byte
// 14. Decoding stops at an End-of-LLDPDU TLV or at buffer exhaustion,
// whichever comes first.
func DecodeFrame(raw []byte) (Frame, error) {
	if len(raw) < ethernetHeaderLen {
		return Frame{}, lldperr.Newf(lldperr.MalformedFrame, "frame shorter than Ethernet header (%d bytes)", len(raw))
	}
	etherType := uint16(raw[12])<<8 | uint16(raw[13])
	if etherType != EtherTypeLLDP {
		return Frame{}, lldperr.Newf(lldperr.MalformedFrame, "unexpected EtherType 0x%04x", etherType)
	}
	return decodePayload(raw[ethernetHeaderLen:])
}

// decodePayload walks the TLV stream and builds a Frame. It enforces the
// mandatory Chassis -> Port -> TTL ordering at the head of the stream
// (spec section 4.1) and preserves unrecognized optional TLV types
// verbatim.
func decodePayload(buf []byte) (Frame, error) {
	var f Frame
	mandatorySeen := 0 // 0=none, 1=chassis, 2=chassis+port, 3=all mandatory seen

	pos := 0
	for pos < len(buf) {
		if pos+2 > len(buf) {
			return Frame{}, lldperr.Newf(lldperr.MalformedFrame, "truncated TLV header at offset %d", pos)
		}
		t, length := decodeHeader(buf[pos:])
		pos += 2

		if pos+length > len(buf) {
			return Frame{}, lldperr.Newf(lldperr.MalformedFrame, "TLV type %d declares length %d but only %d bytes remain", t, length, len(buf)-pos)
		}
		payload := buf[pos : pos+length]
		pos += length

		if t == TypeEnd {
			break
		}

		switch t {
		case TypeChassisID:
			if mandatorySeen != 0 {
				return Frame{}, lldperr.Newf(lldperr.FrameOrderInvalid, "Chassis ID TLV out of order")
			}
			if length < 1 {
				return Frame{}, lldperr.Newf(lldperr.MalformedFrame, "Chassis ID TLV too short")
			}
			f.Chassis = ChassisID{Subtype: ChassisIDSubtype(payload[0]), Value: cloneBytes(payload[1:])}
			mandatorySeen = 1

		case TypePortID:
			if mandatorySeen != 1 {
				return Frame{}, lldperr.Newf(lldperr.FrameOrderInvalid, "Port ID TLV out of order")
			}
			if length < 1 {
				return Frame{}, lldperr.Newf(lldperr.MalformedFrame, "Port ID TLV too short")
			}
			f.Port = PortID{Subtype: PortIDSubtype(payload[0]), Value: cloneBytes(payload[1:])}
			mandatorySeen = 2

		case TypeTTL:
			if mandatorySeen != 2 {
				return Frame{}, lldperr.Newf(lldperr.FrameOrderInvalid, "TTL TLV out of order")
			}
			if length != 2 {
				return Frame{}, lldperr.Newf(lldperr.MalformedFrame, "TTL TLV must be 2 bytes, got %d", length)
			}
			f.TTL = uint16(payload[0])<<8 | uint16(payload[1])
			mandatorySeen = 3

		case TypePortDesc:
			f.PortDesc = strPtr(decodeText(payload))
		case TypeSystemName:
			f.SysName = strPtr(decodeText(payload))
		case TypeSystemDesc:
			f.SysDesc = strPtr(decodeText(payload))
		case TypeSystemCaps:
			if length != 4 {
				break
			}
			supported := uint16(payload[0])<<8 | uint16(payload[1])
			enabled := uint16(payload[2])<<8 | uint16(payload[3])
			f.CapsSupported = &supported
			f.CapsEnabled = &enabled
		case TypeManagementAddr:
			if m, ok := decodeMgmtAddress(payload); ok {
				f.MgmtAddrs = append(f.MgmtAddrs, m)
			}
		case TypeOrgSpecific:
			if length < 4 {
				break
			}
			f.OrgSpecifics = append(f.OrgSpecifics, OrgSpecific{
				OUI:     [3]byte{payload[0], payload[1], payload[2]},
				Subtype: payload[3],
				Data:    cloneBytes(payload[4:]),
			})
		default:
			f.Unknowns = append(f.Unknowns, Unknown{Type: t, Bytes: cloneBytes(payload)})
		}
	}

	if mandatorySeen != 3 {
		return Frame{}, lldperr.Newf(lldperr.FrameOrderInvalid, "frame missing mandatory Chassis/Port/TTL TLVs")
	}
	return f, nil
}

// decodeText decodes a string TLV payload as UTF-8 with lossy replacement;
// it must never fail on invalid UTF-8 (spec section 4.1).
func decodeText(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	return string([]rune(string(b)))
}

// decodeMgmtAddress parses a Management Address TLV payload back into a
// MgmtAddress. Malformed payloads are dropped silently (the TLV is
// optional and this is diagnostic data, not mandatory protocol state).
func decodeMgmtAddress(b []byte) (MgmtAddress, bool) {
	if len(b) < 2 {
		return MgmtAddress{}, false
	}
	addrStrLen := int(b[0])
	if addrStrLen < 1 || len(b) < 1+addrStrLen {
		return MgmtAddress{}, false
	}
	subtype := MgmtAddrSubtype(b[1])
	addrBytes := b[2 : 1+addrStrLen]
	var ip net.IP
	switch subtype {
	case MgmtAddrIPv4:
		if len(addrBytes) != 4 {
			return MgmtAddress{}, false
		}
		ip = net.IP(cloneBytes(addrBytes)).To4()
	case MgmtAddrIPv6:
		if len(addrBytes) != 16 {
			return MgmtAddress{}, false
		}
		ip = net.IP(cloneBytes(addrBytes))
	default:
		return MgmtAddress{}, false
	}

	rest := b[1+addrStrLen:]
	if len(rest) < 1+4+1 {
		return MgmtAddress{}, false
	}
	// rest[0] is the interface-numbering subtype, always 2 (ifIndex) on
	// the wire this engine produces; accepted as-is on decode.
	ifIndex := uint32(rest[1])<<24 | uint32(rest[2])<<16 | uint32(rest[3])<<8 | uint32(rest[4])
	return MgmtAddress{Subtype: subtype, Address: ip, IfIndex: ifIndex}, true
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
