package repository

import (
	"context"
	"io"
	"path"

	"github.com/arthur-debert/dopatch/pkg/identity"
	"github.com/arthur-debert/dopatch/pkg/logging"
)

var log = logging.GetLogger("repository")

// DefaultExtension is the artifact packaging used when none is configured.
const DefaultExtension = "zip"

// MetadataFile is the per-name version listing.
const MetadataFile = "maven-metadata.xml"

// Endpoint is where artifacts come from and where they are cached. It is
// immutable once handed to a resolver.
type Endpoint struct {
	RemoteURL      string `json:"remote_url" yaml:"remote_url"`
	LocalCachePath string `json:"local_cache_path" yaml:"local_cache_path"`
}

// Download is an open artifact transfer. Size is -1 when the remote did not
// announce a length.
type Download struct {
	Body io.ReadCloser
	Size int64
}

// Repository is the minimal store contract the resolver needs. Missing
// artifacts are reported as ErrArtifactNotFound; transport failures as
// ErrNetwork. Implementations must be safe for concurrent use.
type Repository interface {
	// Checksum returns the published checksum of the artifact.
	Checksum(ctx context.Context, id identity.Identity, ext string) (Checksum, error)

	// Fetch opens the artifact content. The caller closes Body.
	Fetch(ctx context.Context, id identity.Identity, ext string) (*Download, error)

	// Versions lists the versions published for name, in any order.
	Versions(ctx context.Context, name string) ([]identity.Version, error)

	// Close releases the handle. The repository is unusable afterwards.
	Close() error
}

// Opener creates a repository handle for an endpoint. Opening may be
// expensive; resolvers call it once and share the handle.
type Opener interface {
	Open(ctx context.Context, endpoint Endpoint) (Repository, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context, endpoint Endpoint) (Repository, error)

// Open implements Opener
func (f OpenerFunc) Open(ctx context.Context, endpoint Endpoint) (Repository, error) {
	return f(ctx, endpoint)
}

// ArtifactPath is the slash-separated path of the artifact relative to the
// repository (or cache) root.
func ArtifactPath(id identity.Identity, ext string) string {
	return path.Join(id.Name, id.Version.String(), id.FileName(ext))
}

// SidecarPath is the path of the checksum sidecar for alg.
func SidecarPath(id identity.Identity, ext string, alg Algorithm) string {
	return ArtifactPath(id, ext) + alg.Extension()
}

// MetadataPath is the path of the version listing for name.
func MetadataPath(name string) string {
	return path.Join(name, MetadataFile)
}
