package version

import "fmt"

// Version is the semantic version of the screenflow engine.
// It is overridable at build time via -ldflags "-X screenflow/internal/version.Version=...".
var Version = "0.3.0-dev"

// Commit is the VCS revision, injected at build time when available.
var Commit = ""

// String returns a human-readable version string.
func String() string {
	if Commit != "" {
		return fmt.Sprintf("%s (%s)", Version, Commit)
	}
	return Version
}
