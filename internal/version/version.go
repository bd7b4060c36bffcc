package version

import "fmt"

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/arthur-debert/dopatch/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/arthur-debert/dopatch/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/arthur-debert/dopatch/internal/version.Date={{.Date}}
)

// String is the one-line version banner.
func String() string {
	return fmt.Sprintf("dopatch %s (commit %s, built %s)", Version, Commit, Date)
}
