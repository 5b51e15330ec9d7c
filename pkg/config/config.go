// Package config loads the LLDP engine's configuration from the process
// environment, optionally preloaded from a sibling .env file, and
// validates it per spec section 6's table before any network I/O runs.
package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nullgraph/lldpd/pkg/lldperr"
)

// Config is the fully resolved, validated runtime configuration.
type Config struct {
	Interval           int    // seconds, 5-3600
	Interface          string // "all" or a single interface name
	SystemName         string // "auto" resolved to hostname by the caller
	SystemDescription  string // empty means "use the OS-version snapshot"
	PortDescription    string
	ManagementAddress  string // "auto" or a literal IPv4
	TTL                int    // seconds, > Interval, < 65536
	NeighborsFile      string // relative to the executable directory
}

const (
	envInterval          = "LLDP_INTERVAL"
	envInterface         = "LLDP_INTERFACE"
	envSystemName        = "LLDP_SYSTEM_NAME"
	envSystemDescription = "LLDP_SYSTEM_DESCRIPTION"
	envPortDescription   = "LLDP_PORT_DESCRIPTION"
	envManagementAddress = "LLDP_MANAGEMENT_ADDRESS"
	envTTL               = "LLDP_TTL"
	envNeighborsFile     = "LLDP_NEIGHBORS_FILE"
)

func defaults() Config {
	return Config{
		Interval:          30,
		Interface:         "all",
		SystemName:        "auto",
		SystemDescription: "",
		PortDescription:   "Ethernet Port",
		ManagementAddress: "auto",
		TTL:               120,
		NeighborsFile:     "neighbors.json",
	}
}

// Load reads environment overrides, layering a sibling .env file (if
// present) underneath the real environment, then validates the result.
// dotenvDir is the directory to look for .env in; pass "" to skip it.
func Load(dotenvDir string) (Config, error) {
	env := map[string]string{}
	if dotenvDir != "" {
		if fileEnv, err := readDotenv(filepath.Join(dotenvDir, ".env")); err == nil {
			for k, v := range fileEnv {
				env[k] = v
			}
		}
	}
	// Real environment variables take precedence over .env values.
	for _, key := range []string{envInterval, envInterface, envSystemName, envSystemDescription, envPortDescription, envManagementAddress, envTTL, envNeighborsFile} {
		if v, ok := os.LookupEnv(key); ok {
			env[key] = v
		}
	}

	cfg := defaults()
	var errs []string

	if v, ok := env[envInterval]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %q is not an integer", envInterval, v))
		} else {
			cfg.Interval = n
		}
	}
	if v, ok := env[envTTL]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %q is not an integer", envTTL, v))
		} else {
			cfg.TTL = n
		}
	}
	if v, ok := env[envInterface]; ok && v != "" {
		cfg.Interface = v
	}
	if v, ok := env[envSystemName]; ok && v != "" {
		cfg.SystemName = v
	}
	if v, ok := env[envSystemDescription]; ok {
		cfg.SystemDescription = v
	}
	if v, ok := env[envPortDescription]; ok && v != "" {
		cfg.PortDescription = v
	}
	if v, ok := env[envManagementAddress]; ok && v != "" {
		cfg.ManagementAddress = v
	}
	if v, ok := env[envNeighborsFile]; ok && v != "" {
		cfg.NeighborsFile = v
	}

	errs = append(errs, validate(cfg)...)
	if len(errs) > 0 {
		return Config{}, lldperr.Newf(lldperr.ConfigInvalid, "%s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

// validate range-checks the loaded fields per spec section 6's table,
// collecting every violation instead of stopping at the first (grounded
// on the multi-error reporting style of a config validator that reports
// all problems in one pass).
func validate(cfg Config) []string {
	var errs []string

	if cfg.Interval < 5 || cfg.Interval > 3600 {
		errs = append(errs, fmt.Sprintf("%s: %d out of range [5, 3600]", envInterval, cfg.Interval))
	}
	if cfg.TTL >= 65536 {
		errs = append(errs, fmt.Sprintf("%s: %d must be < 65536", envTTL, cfg.TTL))
	}
	if cfg.TTL <= cfg.Interval {
		errs = append(errs, fmt.Sprintf("%s: %d must be greater than %s (%d)", envTTL, cfg.TTL, envInterval, cfg.Interval))
	}
	if cfg.ManagementAddress != "auto" {
		if ip := net.ParseIP(cfg.ManagementAddress); ip == nil || ip.To4() == nil {
			errs = append(errs, fmt.Sprintf("%s: %q is not a valid IPv4 address", envManagementAddress, cfg.ManagementAddress))
		}
	}
	return errs
}

// readDotenv parses simple KEY=VALUE lines: blank lines and lines starting
// with '#' are skipped, and a single pair of surrounding double quotes
// around the value is stripped. No other escaping is supported.
func readDotenv(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	out := map[string]string{}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
			value = value[1 : len(value)-1]
		}
		out[key] = value
	}
	return out, nil
}
