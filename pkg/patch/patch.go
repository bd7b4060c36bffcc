package patch

import (
	"github.com/arthur-debert/dopatch/pkg/identity"
	"github.com/arthur-debert/dopatch/pkg/manifest"
	"github.com/arthur-debert/dopatch/pkg/resolver"
)

// Patch is a planned upgrade. Fresh is set when there was no baseline.
// Baseline is the baseline manifest's identity, which is zero for a fresh
// install and may be zero for a baseline file that did not record one.
type Patch struct {
	Identity identity.Identity
	Baseline identity.Identity
	Fresh    bool
	Artifact *resolver.Artifact
	Manifest *manifest.Manifest
	Actions  []manifest.Record
}

// Summary counts the planned actions.
func (p *Patch) Summary() manifest.Summary {
	return manifest.Summarize(p.Actions)
}

// IsNoop reports whether installing the patch changes nothing.
func (p *Patch) IsNoop() bool {
	return p.Summary().Changes() == 0
}

// Result returns the manifest of the tree after the actions are applied to
// baseline. It equals Manifest when baseline is the one the patch was planned
// against, and is what should be saved as the next baseline.
func (p *Patch) Result(baseline *manifest.Manifest) (*manifest.Manifest, error) {
	return manifest.Apply(baseline, p.Identity, p.Actions)
}
