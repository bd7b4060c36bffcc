package repository

import (
	"context"
	"os"
	"path/filepath"

	"github.com/arthur-debert/dopatch/pkg/errors"
	"github.com/arthur-debert/dopatch/pkg/identity"
	"github.com/arthur-debert/dopatch/pkg/types"
)

// Dir is a Repository backed by a directory tree in the repository layout,
// such as a mounted share or a file:// remote.
type Dir struct {
	fs   types.FS
	root string
}

// NewDir returns a repository rooted at root on fsys.
func NewDir(fsys types.FS, root string) *Dir {
	return &Dir{fs: fsys, root: root}
}

func (d *Dir) abs(rel string) string {
	return filepath.Join(d.root, filepath.FromSlash(rel))
}

// Checksum implements Repository.
func (d *Dir) Checksum(ctx context.Context, id identity.Identity, ext string) (Checksum, error) {
	if err := ctx.Err(); err != nil {
		return Checksum{}, errors.Wrap(err, errors.ErrNetwork, "checksum lookup cancelled")
	}
	for _, alg := range Algorithms {
		data, err := d.fs.ReadFile(d.abs(SidecarPath(id, ext, alg)))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return Checksum{}, errors.Wrap(err, errors.ErrFileAccess, "read checksum sidecar")
		}
		return ParseSidecar(alg, data)
	}
	return Checksum{}, errors.Newf(errors.ErrArtifactNotFound, "artifact %s not found", id.Coordinate()).
		WithDetail("path", d.abs(ArtifactPath(id, ext)))
}

// Fetch implements Repository.
func (d *Dir) Fetch(ctx context.Context, id identity.Identity, ext string) (*Download, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrNetwork, "fetch cancelled")
	}
	p := d.abs(ArtifactPath(id, ext))
	f, err := d.fs.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrArtifactNotFound, "artifact %s not found", id.Coordinate()).
				WithDetail("path", p)
		}
		return nil, errors.Wrap(err, errors.ErrFileAccess, "open artifact")
	}
	size := int64(-1)
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}
	return &Download{Body: f, Size: size}, nil
}

// Versions implements Repository.
func (d *Dir) Versions(ctx context.Context, name string) ([]identity.Version, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrNetwork, "listing cancelled")
	}
	data, err := d.fs.ReadFile(d.abs(MetadataPath(name)))
	if err == nil {
		md, err := ParseMetadata(data)
		if err != nil {
			return nil, err
		}
		return md.Versions, nil
	}
	if !os.IsNotExist(err) {
		return nil, errors.Wrap(err, errors.ErrFileAccess, "read maven metadata")
	}

	// No metadata: fall back to the version directories.
	entries, err := d.fs.ReadDir(d.abs(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, errors.ErrFileAccess, "list versions")
	}
	var versions []identity.Version
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if v, err := identity.ParseVersion(e.Name()); err == nil {
			versions = append(versions, v)
		}
	}
	return versions, nil
}

// Close implements Repository.
func (d *Dir) Close() error { return nil }
