// Package version holds build metadata injected with -ldflags.
package version

// Set via -ldflags "-X github.com/orris-inc/templink/internal/shared/version.Version=...".
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// String renders the version line printed by the CLI.
func String() string {
	return Version + " (" + Commit + ", built " + BuildTime + ")"
}
