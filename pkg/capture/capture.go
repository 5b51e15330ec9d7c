// Package capture wraps raw L2 packet capture and injection for the LLDP
// engine's sender and capture worker, built on gopacket/pcap.
package capture

import (
	"fmt"
	"net"
	"strings"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"

	"github.com/nullgraph/lldpd/pkg/lldperr"
	"github.com/nullgraph/lldpd/pkg/logging"
)

// LLDPFilter is the BPF expression every capture handle opened by this
// engine for neighbor discovery installs (spec section 4.3).
const LLDPFilter = "ether proto 0x88cc and ether dst 01:80:c2:00:00:0e"

// Engine handles packet capture and injection on one interface.
type Engine struct {
	interfaceName string
	handle        *pcap.Handle
	debugLevel    int
}

// New opens interfaceName in promiscuous mode with no BPF filter applied
// yet; callers that only send frames (the sender) never need one.
func New(interfaceName string, debugLevel int) (*Engine, error) {
	handle, err := pcap.OpenLive(
		interfaceName,
		1600,
		true,
		pcap.BlockForever,
	)
	if err != nil {
		return nil, classifyOpenError(interfaceName, err)
	}

	return &Engine{
		interfaceName: interfaceName,
		handle:        handle,
		debugLevel:    debugLevel,
	}, nil
}

// classifyOpenError maps pcap's permission failures onto PrivilegeDenied
// so callers can map it to exit code 3 (spec section 7). libpcap reports
// permission failures as a plain activation-error string, not a distinct
// error type, so the message text is the only signal available.
func classifyOpenError(interfaceName string, err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "permission denied") || strings.Contains(msg, "operation not permitted") {
		return lldperr.OnInterface(lldperr.PrivilegeDenied, interfaceName, err)
	}
	return lldperr.OnInterface(lldperr.L2IOError, interfaceName, err)
}

// Close closes the capture engine.
func (e *Engine) Close() {
	if e.handle != nil {
		e.handle.Close()
	}
}

// SendPacket sends a raw packet on the interface.
func (e *Engine) SendPacket(packet []byte) error {
	if err := e.handle.WritePacketData(packet); err != nil {
		return lldperr.OnInterface(lldperr.L2IOError, e.interfaceName, err)
	}
	logging.VDebug(3, "sent %d bytes on %s", len(packet), e.interfaceName)
	return nil
}

// SendEthernet serializes and sends an Ethernet frame carrying payload.
func (e *Engine) SendEthernet(dstMAC, srcMAC []byte, etherType uint16, payload []byte) error {
	eth := &layers.Ethernet{
		SrcMAC:       srcMAC,
		DstMAC:       dstMAC,
		EthernetType: layers.EthernetType(etherType),
	}

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{
		FixLengths:       true,
		ComputeChecksums: true,
	}

	if err := gopacket.SerializeLayers(buf, opts, eth, gopacket.Payload(payload)); err != nil {
		return lldperr.OnInterface(lldperr.L2IOError, e.interfaceName, err)
	}

	return e.SendPacket(buf.Bytes())
}

// StartCapture applies the LLDP BPF filter and calls handler for every
// captured packet until stop is closed or the handle is closed.
func (e *Engine) StartCapture(stop <-chan struct{}, handler func(gopacket.Packet)) error {
	if err := e.handle.SetBPFFilter(LLDPFilter); err != nil {
		return lldperr.OnInterface(lldperr.L2IOError, e.interfaceName, err)
	}

	packetSource := gopacket.NewPacketSource(e.handle, e.handle.LinkType())
	packetSource.NoCopy = true
	logging.VDebug(1, "started LLDP capture on %s", e.interfaceName)

	packets := packetSource.Packets()
	for {
		select {
		case <-stop:
			return nil
		case packet, ok := <-packets:
			if !ok {
				return nil
			}
			handler(packet)
		}
	}
}

// Stats returns capture statistics from the underlying pcap handle.
func (e *Engine) Stats() (*pcap.Stats, error) {
	stats, err := e.handle.Stats()
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	return stats, nil
}

// InterfaceMAC returns the hardware address of the named interface,
// resolved via the standard library rather than pcap's address list
// (pcap does not reliably report a link-layer MAC there).
func InterfaceMAC(name string) (net.HardwareAddr, error) {
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return nil, lldperr.OnInterface(lldperr.L2IOError, name, err)
	}
	if len(iface.HardwareAddr) == 0 {
		return nil, lldperr.OnInterface(lldperr.L2IOError, name, fmt.Errorf("interface has no hardware address"))
	}
	return iface.HardwareAddr, nil
}
