// Package build holds build-time information.
package build

// Build information. These are overwritten by linker flags on release builds.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
