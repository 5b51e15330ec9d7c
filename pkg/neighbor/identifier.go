package neighbor

import (
	"fmt"
	"strings"

	"github.com/nullgraph/lldpd/pkg/codec"
)

// encodeChassisIdentifier renders raw Chassis ID TLV bytes into the
// store's text encoding (spec section 4.2): lowercase colon-separated hex
// for MAC subtypes, otherwise a hex: prefixed string (this engine never
// emits non-MAC chassis subtypes, but decode must still round-trip
// whatever a neighbor sends).
func encodeChassisIdentifier(subtype codec.ChassisIDSubtype, value []byte) string {
	if subtype == codec.ChassisIDSubtypeMAC {
		return hexColon(value)
	}
	return hexPrefixed(value)
}

// encodePortIdentifier renders raw Port ID TLV bytes per the same rule,
// except name subtypes are stored as UTF-8 text (spec section 4.2).
func encodePortIdentifier(subtype codec.PortIDSubtype, value []byte) string {
	switch subtype {
	case codec.PortIDSubtypeMAC:
		return hexColon(value)
	case codec.PortIDSubtypeInterfaceName:
		return string(value)
	default:
		return hexPrefixed(value)
	}
}

func hexColon(b []byte) string {
	parts := make([]string, len(b))
	for i, c := range b {
		parts[i] = fmt.Sprintf("%02x", c)
	}
	return strings.Join(parts, ":")
}

func hexPrefixed(b []byte) string {
	return "hex:" + fmt.Sprintf("%x", b)
}
