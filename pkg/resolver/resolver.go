package resolver

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/arthur-debert/dopatch/pkg/errors"
	"github.com/arthur-debert/dopatch/pkg/filesystem"
	"github.com/arthur-debert/dopatch/pkg/identity"
	"github.com/arthur-debert/dopatch/pkg/logging"
	"github.com/arthur-debert/dopatch/pkg/repository"
	"github.com/arthur-debert/dopatch/pkg/types"
)

var log = logging.GetLogger("resolver")

// Artifact is a verified file in the local cache.
type Artifact struct {
	Identity   identity.Identity   `json:"identity" yaml:"identity"`
	Path       string              `json:"path" yaml:"path"`
	Checksum   repository.Checksum `json:"checksum" yaml:"checksum"`
	Downloaded bool                `json:"downloaded" yaml:"downloaded"`
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithOpener sets how the repository handle is opened.
func WithOpener(o repository.Opener) Option {
	return func(r *Resolver) { r.opener = o }
}

// WithFS sets the filesystem holding the cache.
func WithFS(fsys types.FS) Option {
	return func(r *Resolver) { r.fs = fsys }
}

// WithListener sets the transfer listener.
func WithListener(l TransferListener) Option {
	return func(r *Resolver) { r.listener = l }
}

// WithTimeout bounds every Resolve and ListVersions call. Zero means no
// bound beyond the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) { r.timeout = d }
}

// WithExtension sets the artifact packaging, e.g. "zip" or "tar.gz".
func WithExtension(ext string) Option {
	return func(r *Resolver) { r.ext = strings.TrimPrefix(ext, ".") }
}

// Resolver resolves identities against one endpoint. It is safe for
// concurrent use; the repository handle is opened on first use and shared.
type Resolver struct {
	endpoint repository.Endpoint
	opener   repository.Opener
	fs       types.FS
	listener TransferListener
	timeout  time.Duration
	ext      string

	mu     sync.Mutex
	repo   repository.Repository
	closed bool
}

// New returns a resolver for endpoint. No I/O happens until the first call
// that needs the remote.
func New(endpoint repository.Endpoint, opts ...Option) (*Resolver, error) {
	if endpoint.LocalCachePath == "" {
		return nil, errors.New(errors.ErrConfigValid, "local cache path is empty")
	}
	r := &Resolver{
		endpoint: endpoint,
		listener: NopListener{},
		ext:      repository.DefaultExtension,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.fs == nil {
		r.fs = filesystem.NewOS()
	}
	if r.opener == nil {
		r.opener = repository.NewOpener(r.fs)
	}
	if r.ext == "" {
		return nil, errors.New(errors.ErrConfigValid, "artifact extension is empty")
	}
	return r, nil
}

// Endpoint returns the endpoint the resolver was built for.
func (r *Resolver) Endpoint() repository.Endpoint {
	return r.endpoint
}

// Extension returns the artifact packaging in use.
func (r *Resolver) Extension() string {
	return r.ext
}

// CachePath returns where id lives (or would live) in the local cache.
func (r *Resolver) CachePath(id identity.Identity) string {
	return filepath.Join(r.endpoint.LocalCachePath, filepath.FromSlash(repository.ArtifactPath(id, r.ext)))
}

// handle opens the repository once. A failed open is not remembered, so the
// next call tries again.
func (r *Resolver) handle(ctx context.Context) (repository.Repository, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, errors.New(errors.ErrInternal, "resolver is closed")
	}
	if r.repo != nil {
		return r.repo, nil
	}

	log.Debug().Str("remote", r.endpoint.RemoteURL).Msg("Opening repository")
	repo, err := r.opener.Open(ctx, r.endpoint)
	if err != nil {
		return nil, asNetwork(ctx, err, "open repository")
	}
	r.repo = repo
	return repo, nil
}

func (r *Resolver) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout > 0 {
		return context.WithTimeout(ctx, r.timeout)
	}
	return context.WithCancel(ctx)
}

// Resolve returns a verified local copy of id.
func (r *Resolver) Resolve(ctx context.Context, id identity.Identity) (*Artifact, error) {
	if id.IsZero() {
		return nil, errors.New(errors.ErrInvalidInput, "identity is empty")
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	s := newSession(r, id)
	artifact, err := s.run(ctx)
	if err != nil {
		s.log.Debug().Err(err).Dur("elapsed", time.Since(s.started)).Msg("Resolution failed")
		return nil, err
	}
	s.log.Debug().Bool("downloaded", artifact.Downloaded).Dur("elapsed", time.Since(s.started)).Msg("Resolved")
	return artifact, nil
}

// ListVersions returns the published versions of name, ascending.
func (r *Resolver) ListVersions(ctx context.Context, name string) ([]identity.Version, error) {
	if name == "" {
		return nil, errors.New(errors.ErrInvalidInput, "artifact name is empty")
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	repo, err := r.handle(ctx)
	if err != nil {
		return nil, err
	}
	versions, err := repo.Versions(ctx, name)
	if err != nil {
		return nil, asNetwork(ctx, err, "list versions")
	}
	identity.SortVersions(versions)
	return versions, nil
}

// Latest returns the identity of the highest published version of name.
func (r *Resolver) Latest(ctx context.Context, name string) (identity.Identity, error) {
	versions, err := r.ListVersions(ctx, name)
	if err != nil {
		return identity.Identity{}, err
	}
	if len(versions) == 0 {
		return identity.Identity{}, errors.Newf(errors.ErrArtifactNotFound, "no versions published for %s", name)
	}
	return identity.Identity{Name: name, Version: versions[len(versions)-1]}, nil
}

// Close releases the repository handle. Later calls fail.
func (r *Resolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	if r.repo == nil {
		return nil
	}
	err := r.repo.Close()
	r.repo = nil
	return err
}

// asNetwork keeps coded errors as they are and classifies the rest as
// network failures.
func asNetwork(ctx context.Context, err error, op string) error {
	if errors.GetErrorCode(err) != errors.ErrUnknown {
		return err
	}
	wrapped := errors.Wrap(err, errors.ErrNetwork, op)
	if ctxErr := ctx.Err(); ctxErr != nil {
		wrapped = wrapped.WithDetail("context", ctxErr.Error())
	}
	return wrapped
}
