package capture

import (
	"fmt"

	"github.com/google/gopacket/pcap"
)

// InterfaceExists checks if a network interface exists.
func InterfaceExists(name string) bool {
	devices, err := pcap.FindAllDevs()
	if err != nil {
		return false
	}
	for _, device := range devices {
		if device.Name == name {
			return true
		}
	}
	return false
}

// GetInterface returns pcap's view of a specific interface.
func GetInterface(name string) (*pcap.Interface, error) {
	devices, err := pcap.FindAllDevs()
	if err != nil {
		return nil, fmt.Errorf("error finding devices: %w", err)
	}
	for _, device := range devices {
		if device.Name == name {
			return &device, nil
		}
	}
	return nil, fmt.Errorf("interface %s not found", name)
}

// GetAllInterfaces returns every interface pcap can open.
func GetAllInterfaces() ([]pcap.Interface, error) {
	devices, err := pcap.FindAllDevs()
	if err != nil {
		return nil, fmt.Errorf("error finding devices: %w", err)
	}
	return devices, nil
}
