// Package version reports the markupdown release the binary was built from.
package version

import "fmt"

// Version is set at build time:
// go build -ldflags "-X git.home.luguber.info/inful/markupdown/internal/version.Version=v0.3.0".
var Version = "dev"

// Build metadata, set the same way as Version.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String returns the version line printed by --version.
func String() string {
	if GitCommit == "unknown" {
		return "markupdown " + Version
	}
	return fmt.Sprintf("markupdown %s (%s, built %s)", Version, GitCommit, BuildTime)
}
