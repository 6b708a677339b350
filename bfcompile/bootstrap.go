package bfcompile

import _ "embed"

// BootstrapVariant names one of the two fixed boot payloads.
type BootstrapVariant string

const (
	// BootstrapFusion adds the NVMe scratch-disk aggregation needed by the
	// Fusion file system.
	BootstrapFusion BootstrapVariant = "fusion"
	// BootstrapCLI is the plain variant without any disk handling.
	BootstrapCLI BootstrapVariant = "cli"
)

//go:embed userdata/fusion.mime
var fusionUserData string

//go:embed userdata/cli.mime
var cliUserData string

// Bootstrap is the boot-time payload handed to the launch template.
type Bootstrap struct {
	Variant BootstrapVariant
	Script  string
}

// SelectBootstrap picks the boot payload for cfg. The payloads themselves are
// static; the fusion flag is the only variable. Container runtime timeouts and
// the kernel memory-pressure tuning inside both payloads are fixed constants,
// not configuration.
func SelectBootstrap(cfg Config) Bootstrap {
	if cfg.EnableFusion {
		return Bootstrap{Variant: BootstrapFusion, Script: fusionUserData}
	}
	return Bootstrap{Variant: BootstrapCLI, Script: cliUserData}
}
