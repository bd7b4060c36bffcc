// Package display holds the view models every renderer understands. They
// are plain data with json and yaml tags, built from domain values by the
// From* constructors.
package display

import (
	"github.com/arthur-debert/dopatch/pkg/errors"
	"github.com/arthur-debert/dopatch/pkg/identity"
	"github.com/arthur-debert/dopatch/pkg/manifest"
	"github.com/arthur-debert/dopatch/pkg/patch"
	"github.com/arthur-debert/dopatch/pkg/resolver"
)

// ArtifactResult describes one resolved artifact.
type ArtifactResult struct {
	Identity   string `json:"identity" yaml:"identity"`
	Path       string `json:"path" yaml:"path"`
	Checksum   string `json:"checksum" yaml:"checksum"`
	Downloaded bool   `json:"downloaded" yaml:"downloaded"`
}

// VersionsResult lists the published versions of one artifact name.
type VersionsResult struct {
	Name     string   `json:"name" yaml:"name"`
	Versions []string `json:"versions" yaml:"versions"`
	Latest   string   `json:"latest,omitempty" yaml:"latest,omitempty"`
}

// ManifestResult is a manifest's records.
type ManifestResult struct {
	Identity string            `json:"identity,omitempty" yaml:"identity,omitempty"`
	Records  []manifest.Record `json:"records" yaml:"records"`
}

// PlanResult is a planned patch.
type PlanResult struct {
	Target   string            `json:"target" yaml:"target"`
	Baseline string            `json:"baseline,omitempty" yaml:"baseline,omitempty"`
	Fresh    bool              `json:"fresh,omitempty" yaml:"fresh,omitempty"`
	Artifact string            `json:"artifact,omitempty" yaml:"artifact,omitempty"`
	Actions  []manifest.Record `json:"actions" yaml:"actions"`
	Summary  manifest.Summary  `json:"summary" yaml:"summary"`
}

// ErrorResult is the shape errors take in structured output.
type ErrorResult struct {
	Error   string                 `json:"error" yaml:"error"`
	Code    string                 `json:"code,omitempty" yaml:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty" yaml:"details,omitempty"`
}

// FromArtifact builds an ArtifactResult.
func FromArtifact(a *resolver.Artifact) *ArtifactResult {
	return &ArtifactResult{
		Identity:   a.Identity.Coordinate(),
		Path:       a.Path,
		Checksum:   a.Checksum.String(),
		Downloaded: a.Downloaded,
	}
}

// FromVersions builds a VersionsResult from ascending versions.
func FromVersions(name string, versions []identity.Version) *VersionsResult {
	out := &VersionsResult{Name: name, Versions: make([]string, len(versions))}
	for i, v := range versions {
		out.Versions[i] = v.String()
	}
	if n := len(versions); n > 0 {
		out.Latest = versions[n-1].String()
	}
	return out
}

// FromManifest builds a ManifestResult.
func FromManifest(m *manifest.Manifest) *ManifestResult {
	out := &ManifestResult{Records: m.Records()}
	if id := m.Identity(); !id.IsZero() {
		out.Identity = id.Coordinate()
	}
	return out
}

// FromActions builds a PlanResult for a bare diff between two manifests.
func FromActions(target, baseline identity.Identity, actions []manifest.Record) *PlanResult {
	out := &PlanResult{
		Actions: actions,
		Summary: manifest.Summarize(actions),
	}
	if !target.IsZero() {
		out.Target = target.Coordinate()
	}
	if !baseline.IsZero() {
		out.Baseline = baseline.Coordinate()
	}
	if out.Actions == nil {
		out.Actions = []manifest.Record{}
	}
	return out
}

// FromPatch builds a PlanResult.
func FromPatch(p *patch.Patch) *PlanResult {
	out := FromActions(p.Identity, p.Baseline, p.Actions)
	out.Fresh = p.Fresh
	if p.Artifact != nil {
		out.Artifact = p.Artifact.Path
	}
	return out
}

// NewErrorResult converts err into its structured form.
func NewErrorResult(err error) *ErrorResult {
	out := &ErrorResult{Error: err.Error()}
	if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		out.Code = string(code)
		out.Details = errors.GetErrorDetails(err)
	}
	return out
}
