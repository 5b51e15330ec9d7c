package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nullgraph/lldpd/pkg/sysinfo"
)

func clearLLDPEnv(t *testing.T) {
	t.Helper()
	keys := []string{envInterval, envInterface, envSystemName, envSystemDescription, envPortDescription, envManagementAddress, envTTL, envNeighborsFile}
	for _, k := range keys {
		old, had := os.LookupEnv(k)
		os.Unsetenv(k)
		t.Cleanup(func() {
			if had {
				os.Setenv(k, old)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	clearLLDPEnv(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Interval != 30 || cfg.TTL != 120 || cfg.Interface != "all" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadRejectsTTLNotGreaterThanInterval(t *testing.T) {
	clearLLDPEnv(t)
	os.Setenv(envInterval, "30")
	os.Setenv(envTTL, "30")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected ConfigInvalid when TTL == interval")
	}
}

func TestLoadRejectsOutOfRangeInterval(t *testing.T) {
	clearLLDPEnv(t)
	os.Setenv(envInterval, "1")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected ConfigInvalid for interval below 5")
	}
}

func TestLoadRejectsTTLAtOrAbove65536(t *testing.T) {
	clearLLDPEnv(t)
	os.Setenv(envInterval, "30")
	os.Setenv(envTTL, "65536")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected ConfigInvalid for TTL >= 65536")
	}
}

func TestLoadReadsDotenvFile(t *testing.T) {
	clearLLDPEnv(t)
	dir := t.TempDir()
	content := "LLDP_INTERVAL=45\nLLDP_TTL=180\n# a comment\nLLDP_SYSTEM_NAME=\"my-host\"\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Interval != 45 || cfg.TTL != 180 || cfg.SystemName != "my-host" {
		t.Fatalf("unexpected config from .env: %+v", cfg)
	}
}

func TestEnvironmentOverridesDotenv(t *testing.T) {
	clearLLDPEnv(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("LLDP_INTERVAL=45\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	os.Setenv(envInterval, "60")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Interval != 60 {
		t.Fatalf("expected real environment to win, got interval=%d", cfg.Interval)
	}
}

func TestValidateInterfaceRejectsUnknownName(t *testing.T) {
	snap := sysinfo.Snapshot{Interfaces: []sysinfo.Interface{{Name: "eth0", IsOperational: true}}}
	cfg := Config{Interface: "eth9"}
	if err := ValidateInterface(cfg, snap); err == nil {
		t.Fatalf("expected ConfigInvalid for unknown interface")
	}
}

func TestValidateInterfaceAllAlwaysPasses(t *testing.T) {
	snap := sysinfo.Snapshot{}
	cfg := Config{Interface: "all"}
	if err := ValidateInterface(cfg, snap); err != nil {
		t.Fatalf("expected 'all' to always validate, got %v", err)
	}
}
