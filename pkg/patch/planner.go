package patch

import (
	"context"

	"github.com/arthur-debert/dopatch/pkg/errors"
	"github.com/arthur-debert/dopatch/pkg/identity"
	"github.com/arthur-debert/dopatch/pkg/logging"
	"github.com/arthur-debert/dopatch/pkg/manifest"
	"github.com/arthur-debert/dopatch/pkg/resolver"
	"github.com/arthur-debert/dopatch/pkg/types"
)

var log = logging.GetLogger("patch")

// ArtifactResolver is the part of *resolver.Resolver the planner uses.
type ArtifactResolver interface {
	Resolve(ctx context.Context, id identity.Identity) (*resolver.Artifact, error)
	Latest(ctx context.Context, name string) (identity.Identity, error)
}

// Planner builds patches. Manifests are persisted next to the cached
// artifacts so each archive is expanded at most once.
type Planner struct {
	resolver ArtifactResolver
	store    *manifest.Store
	fs       types.FS
}

// NewPlanner returns a planner reading the cache through fsys, which must be
// the filesystem the resolver writes to.
func NewPlanner(res ArtifactResolver, fsys types.FS) *Planner {
	return &Planner{resolver: res, store: manifest.NewStore(fsys), fs: fsys}
}

// Target resolves id and returns its artifact and manifest, building and
// persisting the manifest on first use or when the persisted copy is
// corrupt.
func (p *Planner) Target(ctx context.Context, id identity.Identity) (*resolver.Artifact, *manifest.Manifest, error) {
	artifact, err := p.resolver.Resolve(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	m, found, err := p.store.Load(id, artifact.Path, artifact.Checksum.Hex)
	if err != nil {
		// The archive is verified, so a damaged manifest is rebuilt from it.
		if !errors.IsErrorCode(err, errors.ErrCorruptManifest) {
			return nil, nil, err
		}
		log.Debug().Err(err).Str("artifact", id.Coordinate()).Msg("Rebuilding corrupt manifest")
		found = false
	}
	if found {
		log.Debug().Str("artifact", id.Coordinate()).Msg("Using persisted manifest")
		return artifact, m, nil
	}

	done := logging.LogOperationStart(log, "build manifest")
	m, err = manifest.BuildFile(p.fs, id, artifact.Path)
	done()
	if err != nil {
		return nil, nil, err
	}
	if err := p.store.Save(m, artifact.Path, artifact.Checksum.Hex); err != nil {
		return nil, nil, err
	}
	return artifact, m, nil
}

// Plan computes the patch from baseline to id. A nil baseline plans a fresh
// install.
func (p *Planner) Plan(ctx context.Context, id identity.Identity, baseline *manifest.Manifest, opts ...manifest.DiffOption) (*Patch, error) {
	artifact, target, err := p.Target(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := &Patch{
		Identity: id,
		Artifact: artifact,
		Manifest: target,
		Actions:  manifest.Diff(baseline, target, opts...),
		Fresh:    baseline == nil,
	}
	if baseline != nil {
		patch.Baseline = baseline.Identity()
	}

	s := patch.Summary()
	log.Info().
		Str("target", id.Coordinate()).
		Int("add", s.Added).
		Int("update", s.Updated).
		Int("delete", s.Deleted).
		Msg("Planned patch")
	return patch, nil
}

// PlanLatest plans against the highest published version of name.
func (p *Planner) PlanLatest(ctx context.Context, name string, baseline *manifest.Manifest, opts ...manifest.DiffOption) (*Patch, error) {
	id, err := p.resolver.Latest(ctx, name)
	if err != nil {
		return nil, err
	}
	return p.Plan(ctx, id, baseline, opts...)
}

// PlanUpgrade plans between two published versions, using the manifest of
// from as the baseline.
func (p *Planner) PlanUpgrade(ctx context.Context, from, to identity.Identity, opts ...manifest.DiffOption) (*Patch, error) {
	if from.Name != to.Name {
		return nil, errors.Newf(errors.ErrInvalidInput, "cannot plan %s onto %s: different artifacts", to.Coordinate(), from.Coordinate())
	}
	_, baseline, err := p.Target(ctx, from)
	if err != nil {
		return nil, err
	}
	return p.Plan(ctx, to, baseline, opts...)
}
