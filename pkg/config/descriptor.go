package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ServiceDescriptor is optional deployment metadata about the host —
// site, role, and free-text notes an operator wants advertised but that
// has no natural env-var representation. Its absence is never an error.
type ServiceDescriptor struct {
	Role  string `yaml:"role"`
	Site  string `yaml:"site"`
	Notes string `yaml:"notes"`
}

// String renders the descriptor as a single-line fallback for the System
// Description TLV, used only when LLDP_SYSTEM_DESCRIPTION is unset.
func (d ServiceDescriptor) String() string {
	switch {
	case d.Role != "" && d.Site != "":
		return fmt.Sprintf("%s @ %s", d.Role, d.Site)
	case d.Role != "":
		return d.Role
	case d.Site != "":
		return d.Site
	default:
		return ""
	}
}

// LoadServiceDescriptor reads dir/lldpd.yaml if present. A missing file
// returns a zero-value descriptor and no error.
func LoadServiceDescriptor(dir string) (ServiceDescriptor, error) {
	data, err := os.ReadFile(filepath.Join(dir, "lldpd.yaml"))
	if err != nil {
		if os.IsNotExist(err) {
			return ServiceDescriptor{}, nil
		}
		return ServiceDescriptor{}, err
	}
	var d ServiceDescriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return ServiceDescriptor{}, fmt.Errorf("parse lldpd.yaml: %w", err)
	}
	return d, nil
}
