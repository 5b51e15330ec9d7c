package config

import (
	"github.com/nullgraph/lldpd/pkg/lldperr"
	"github.com/nullgraph/lldpd/pkg/sysinfo"
)

// ValidateInterface checks that cfg.Interface is either "all" or names an
// interface present in snap, per spec section 7's "unknown interface" user
// error. It is separate from validate() because resolving interface
// names requires an OS query, while the rest of validation is pure.
func ValidateInterface(cfg Config, snap sysinfo.Snapshot) error {
	if cfg.Interface == "all" {
		return nil
	}
	if _, ok := snap.ByName(cfg.Interface); !ok {
		return lldperr.Newf(lldperr.ConfigInvalid, "%s: unknown interface %q", envInterface, cfg.Interface)
	}
	return nil
}
