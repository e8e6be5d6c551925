// Package version exposes build-time version metadata.
package version

// Version is set via ldflags in release builds:
// go build -ldflags "-X git.home.luguber.info/inful/docregistry/internal/version.Version=v1.0.0".
var Version = "dev"

// Build metadata, also set via ldflags.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version with the short commit when one is known.
func String() string {
	if GitCommit == "unknown" {
		return Version
	}
	commit := GitCommit
	if len(commit) > 8 {
		commit = commit[:8]
	}
	return Version + " (" + commit + ")"
}
