// Package version provides build-time version information.
package version

import "fmt"

// Set at build time with -ldflags "-X segaug/internal/version.Version=...".
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String formats the version block printed by --version.
func String() string {
	return fmt.Sprintf("segaug %s\ncommit: %s\nbuilt: %s\n", Version, GitCommit, BuildTime)
}
