package stegx

import "fmt"

// Version of the stegx library
const Version = "0.3.0"

// Build information (set by ldflags during build)
var (
	GitCommit string
	BuildDate string
)

// VersionInfo returns formatted version information
func VersionInfo() string {
	if GitCommit == "" {
		return fmt.Sprintf("stegx v%s", Version)
	}
	return fmt.Sprintf("stegx v%s (commit: %s, built: %s)", Version, GitCommit, BuildDate)
}
