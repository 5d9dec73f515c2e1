// Package version provides build-time version information.
package version

import "fmt"

var (
	// Version is the semantic version, set via ldflags.
	Version = "dev"
	// Commit is the short git commit hash, set via ldflags.
	Commit = "unknown"
	// GitTime is the commit timestamp in ISO 8601 UTC format, set via ldflags.
	GitTime = "unknown"
)

// Full returns the version with its commit metadata, as reported by the CLI
// version flag.
func Full() string {
	return fmt.Sprintf("%s (commit %s, %s)", Version, Commit, GitTime)
}
