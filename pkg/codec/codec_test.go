package codec

import (
	"bytes"
	"encoding/hex"
	"net"
	"strings"
	"testing"
)

func mustMAC(t *testing.T, s string) net.HardwareAddr {
	t.Helper()
	mac, err := net.ParseMAC(s)
	if err != nil {
		t.Fatalf("ParseMAC(%q): %v", s, err)
	}
	return mac
}

// TestEncodeMandatoryOnly is scenario 1 from the testable-properties
// section: chassis MAC 00:11:22:33:44:55, port name eth0, TTL 120.
func TestEncodeMandatoryOnly(t *testing.T) {
	mac := mustMAC(t, "00:11:22:33:44:55")
	f := Frame{
		Chassis: ChassisID{Subtype: ChassisIDSubtypeMAC, Value: []byte(mac)},
		Port:    PortID{Subtype: PortIDSubtypeInterfaceName, Value: []byte("eth0")},
		TTL:     120,
	}

	payload, err := encodePayload(f)
	if err != nil {
		t.Fatalf("encodePayload: %v", err)
	}

	wantHex := strings.ReplaceAll("02 07 04 00 11 22 33 44 55 04 05 05 65 74 68 30 06 02 00 78 00 00", " ", "")
	want, err := hex.DecodeString(wantHex)
	if err != nil {
		t.Fatalf("bad test vector: %v", err)
	}

	if !bytes.Equal(payload, want) {
		t.Fatalf("payload mismatch:\n got: % x\nwant: % x", payload, want)
	}
}

// TestDecodeRoundTripsMandatoryFields is scenario 2's decode half: decoding
// the encoded scenario-1 frame must recover the same mandatory fields.
func TestDecodeRoundTripsMandatoryFields(t *testing.T) {
	mac := mustMAC(t, "00:11:22:33:44:55")
	f := Frame{
		Chassis: ChassisID{Subtype: ChassisIDSubtypeMAC, Value: []byte(mac)},
		Port:    PortID{Subtype: PortIDSubtypeInterfaceName, Value: []byte("eth0")},
		TTL:     120,
	}

	raw, err := EncodeFrame(f, mac)
	if err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}

	decoded, err := DecodeFrame(raw)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}

	if decoded.Chassis.Subtype != ChassisIDSubtypeMAC || !bytes.Equal(decoded.Chassis.Value, []byte(mac)) {
		t.Errorf("chassis mismatch: %+v", decoded.Chassis)
	}
	if decoded.Port.Subtype != PortIDSubtypeInterfaceName || string(decoded.Port.Value) != "eth0" {
		t.Errorf("port mismatch: %+v", decoded.Port)
	}
	if decoded.TTL != 120 {
		t.Errorf("ttl mismatch: %d", decoded.TTL)
	}
}

// TestTLV511RoundTripsAnd512Rejected checks the boundary behavior: a TLV
// of declared length 511 round-trips; 512 is rejected by the encoder.
func TestTLV511RoundTripsAnd512Rejected(t *testing.T) {
	payload511 := bytes.Repeat([]byte{'x'}, 511)
	encoded, err := encodeTLV(nil, TypeOrgSpecific, payload511)
	if err != nil {
		t.Fatalf("511-byte payload should be accepted: %v", err)
	}
	typ, length := decodeHeader(encoded)
	if typ != TypeOrgSpecific || length != 511 || !bytes.Equal(encoded[2:], payload511) {
		t.Fatalf("511-byte TLV did not round-trip: type=%d length=%d", typ, length)
	}

	payload512 := bytes.Repeat([]byte{'x'}, 512)
	if _, err := encodeTLV(nil, TypeOrgSpecific, payload512); err == nil {
		t.Fatalf("512-byte payload should be rejected")
	}
}

// TestFrameWithoutEndDecodesAtBufferExhaustion covers the boundary
// behavior: a frame with no End-of-LLDPDU TLV but a physical end of buffer
// decodes successfully.
func TestFrameWithoutEndDecodesAtBufferExhaustion(t *testing.T) {
	mac := mustMAC(t, "aa:bb:cc:dd:ee:ff")
	f := Frame{
		Chassis: ChassisID{Subtype: ChassisIDSubtypeMAC, Value: []byte(mac)},
		Port:    PortID{Subtype: PortIDSubtypeInterfaceName, Value: []byte("eth1")},
		TTL:     60,
	}
	payload, err := encodePayload(f)
	if err != nil {
		t.Fatalf("encodePayload: %v", err)
	}
	// Strip the trailing End-of-LLDPDU TLV (2 zero bytes).
	noEnd := payload[:len(payload)-2]

	frame := append(append([]byte{}, LLDPMulticast...), mac...)
	frame = append(frame, 0x88, 0xCC)
	frame = append(frame, noEnd...)

	decoded, err := DecodeFrame(frame)
	if err != nil {
		t.Fatalf("DecodeFrame without End TLV: %v", err)
	}
	if decoded.TTL != 60 {
		t.Errorf("ttl = %d, want 60", decoded.TTL)
	}
}

// TestMalformedFrameDeclaredLengthOverrunsBuffer covers scenario 5: a
// frame whose Port ID TLV declares length 200 but only 4 bytes remain
// fails with MalformedFrame and produces no Frame.
func TestMalformedFrameDeclaredLengthOverrunsBuffer(t *testing.T) {
	mac := mustMAC(t, "00:11:22:33:44:55")

	var buf []byte
	buf, err := encodeTLV(buf, TypeChassisID, append([]byte{byte(ChassisIDSubtypeMAC)}, mac...))
	if err != nil {
		t.Fatalf("encodeTLV chassis: %v", err)
	}

	// Hand-craft a Port ID TLV header declaring length 200 with only 4
	// bytes of payload following.
	header, err := encodeHeader(TypePortID, 200)
	if err != nil {
		t.Fatalf("encodeHeader: %v", err)
	}
	badTLV := make([]byte, 2+4)
	badTLV[0] = byte(header >> 8)
	badTLV[1] = byte(header)
	copy(badTLV[2:], []byte("eth0"))
	buf = append(buf, badTLV...)

	frame := append(append([]byte{}, LLDPMulticast...), mac...)
	frame = append(frame, 0x88, 0xCC)
	frame = append(frame, buf...)

	_, err = DecodeFrame(frame)
	if err == nil {
		t.Fatalf("expected MalformedFrame error")
	}
	kind, ok := kindOfErr(err)
	if !ok || kind != "malformed_frame" {
		t.Fatalf("expected malformed_frame kind, got %v", kind)
	}
}

func TestUnknownTLVPreservedAsOpaque(t *testing.T) {
	mac := mustMAC(t, "00:11:22:33:44:55")
	f := Frame{
		Chassis:  ChassisID{Subtype: ChassisIDSubtypeMAC, Value: []byte(mac)},
		Port:     PortID{Subtype: PortIDSubtypeInterfaceName, Value: []byte("eth0")},
		TTL:      30,
		Unknowns: []Unknown{{Type: TLVType(100), Bytes: []byte{0x01, 0x02, 0x03}}},
	}

	raw, err := EncodeFrame(f, mac)
	if err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}
	decoded, err := DecodeFrame(raw)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if len(decoded.Unknowns) != 1 || decoded.Unknowns[0].Type != TLVType(100) {
		t.Fatalf("expected one preserved unknown TLV, got %+v", decoded.Unknowns)
	}
	if !bytes.Equal(decoded.Unknowns[0].Bytes, []byte{0x01, 0x02, 0x03}) {
		t.Fatalf("unknown TLV payload mismatch: % x", decoded.Unknowns[0].Bytes)
	}
}

func TestFrameOrderInvalidOnOutOfOrderMandatoryTLVs(t *testing.T) {
	mac := mustMAC(t, "00:11:22:33:44:55")

	var buf []byte
	buf, _ = encodeTLV(buf, TypePortID, append([]byte{byte(PortIDSubtypeInterfaceName)}, []byte("eth0")...))
	buf, _ = encodeTLV(buf, TypeChassisID, append([]byte{byte(ChassisIDSubtypeMAC)}, mac...))
	ttlPayload := []byte{0, 30}
	buf, _ = encodeTLV(buf, TypeTTL, ttlPayload)

	frame := append(append([]byte{}, LLDPMulticast...), mac...)
	frame = append(frame, 0x88, 0xCC)
	frame = append(frame, buf...)

	_, err := DecodeFrame(frame)
	if err == nil {
		t.Fatalf("expected FrameOrderInvalid error")
	}
	kind, ok := kindOfErr(err)
	if !ok || kind != "frame_order_invalid" {
		t.Fatalf("expected frame_order_invalid kind, got %v", kind)
	}
}

// kindOfErr avoids importing lldperr just for the string comparison in
// tests that only care about the kind tag's textual form.
func kindOfErr(err error) (string, bool) {
	type kinder interface {
		Error() string
	}
	_, ok := err.(kinder)
	if !ok {
		return "", false
	}
	s := err.Error()
	for _, k := range []string{"malformed_frame", "frame_order_invalid", "tlv_too_long", "frame_too_long"} {
		if strings.HasPrefix(s, k) {
			return k, true
		}
	}
	return "", false
}
