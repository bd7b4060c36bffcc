package resolver

import (
	"context"
	"encoding/hex"
	"io"
	"path/filepath"

	"github.com/arthur-debert/dopatch/pkg/errors"
	"github.com/arthur-debert/dopatch/pkg/filesystem"
	"github.com/arthur-debert/dopatch/pkg/identity"
	"github.com/arthur-debert/dopatch/pkg/repository"
	"github.com/arthur-debert/dopatch/pkg/types"
)

// download streams the artifact into a temp file next to its final path,
// hashing as it writes, and renames it into place only after the digest
// matches. On any failure the temp file is removed.
func (s *session) download(ctx context.Context, repo repository.Repository, expected repository.Checksum) (*Artifact, error) {
	dl, err := repo.Fetch(ctx, s.id, s.r.ext)
	if err != nil {
		err = asNetwork(ctx, err, "fetch artifact")
		s.r.listener.Failed(s.id, err)
		return nil, err
	}
	defer dl.Body.Close()

	s.r.listener.Started(s.id, dl.Size)
	n, err := s.publish(ctx, dl, expected)
	if err != nil {
		s.r.listener.Failed(s.id, err)
		return nil, err
	}
	s.r.listener.Succeeded(s.id, n)
	return s.artifact(expected, true), nil
}

func (s *session) publish(ctx context.Context, dl *repository.Download, expected repository.Checksum) (int64, error) {
	fsys := s.r.fs
	dir := filepath.Dir(s.path)
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return 0, errors.Wrap(err, errors.ErrDirCreate, "create cache directory").WithDetail("path", dir)
	}

	tmp, err := fsys.CreateTemp(dir, filesystem.TempPattern(s.path))
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrFileWrite, "create temp file").WithDetail("dir", dir)
	}
	tmpName := tmp.Name()
	published := false
	defer func() {
		if !published {
			_ = tmp.Close()
			_ = fsys.Remove(tmpName)
		}
	}()

	h := expected.Algorithm.New()
	progress := &progressWriter{listener: s.r.listener, id: s.id, size: dl.Size}
	dst := io.MultiWriter(&fileWriter{tmp}, h, progress)
	n, err := io.Copy(dst, &ctxReader{ctx: ctx, r: dl.Body})
	if err != nil {
		return n, asNetwork(ctx, err, "download artifact")
	}
	if err := tmp.Sync(); err != nil {
		return n, errors.Wrap(err, errors.ErrFileWrite, "sync temp file")
	}
	if err := tmp.Close(); err != nil {
		return n, errors.Wrap(err, errors.ErrFileWrite, "close temp file")
	}

	if !expected.Matches(h) {
		return n, errors.Newf(errors.ErrChecksumMismatch, "checksum mismatch for %s", s.id.Coordinate()).
			WithDetails(map[string]interface{}{
				"algorithm": string(expected.Algorithm),
				"expected":  expected.Hex,
				"actual":    hex.EncodeToString(h.Sum(nil)),
				"bytes":     n,
			})
	}

	// The sidecar is staged before the artifact moves, so a failed write
	// leaves the cache untouched.
	sidecar, err := stage(fsys, s.path+expected.Algorithm.Extension(), repository.FormatSidecar(expected))
	if err != nil {
		return n, err
	}
	defer sidecar.discard()

	if err := fsys.Rename(tmpName, s.path); err != nil {
		return n, errors.Wrap(err, errors.ErrFileWrite, "publish artifact").WithDetail("path", s.path)
	}
	published = true

	// A stale sidecar left by a failed rename here no longer matches the
	// verified artifact, and the next Resolve re-checks it remotely.
	if err := sidecar.commit(); err != nil {
		return n, err
	}
	s.log.Debug().Int64("bytes", n).Str("path", s.path).Msg("Artifact cached")
	return n, nil
}

// stagedFile is a complete temp file waiting to be renamed onto target.
type stagedFile struct {
	fs        types.FS
	tmp       string
	target    string
	committed bool
}

func stage(fsys types.FS, target string, data []byte) (*stagedFile, error) {
	tmp, err := fsys.CreateTemp(filepath.Dir(target), filesystem.TempPattern(target))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFileWrite, "create temp file").WithDetail("path", target)
	}
	name := tmp.Name()
	_, err = tmp.Write(data)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = fsys.Remove(name)
		return nil, errors.Wrap(err, errors.ErrFileWrite, "write temp file").WithDetail("path", target)
	}
	return &stagedFile{fs: fsys, tmp: name, target: target}, nil
}

func (f *stagedFile) commit() error {
	if err := f.fs.Rename(f.tmp, f.target); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "publish file").WithDetail("path", f.target)
	}
	f.committed = true
	return nil
}

func (f *stagedFile) discard() {
	if !f.committed {
		_ = f.fs.Remove(f.tmp)
	}
}

// hashFile hashes the file at path with alg.
func hashFile(fsys types.FS, path string, alg repository.Algorithm) (repository.Checksum, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return repository.Checksum{}, err
	}
	defer f.Close()
	h := alg.New()
	if _, err := io.Copy(h, f); err != nil {
		return repository.Checksum{}, err
	}
	return repository.Checksum{Algorithm: alg, Hex: hex.EncodeToString(h.Sum(nil))}, nil
}

func writeAtomic(fsys types.FS, path string, data []byte) error {
	if err := filesystem.WriteFileAtomic(fsys, path, data); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "write cache file").WithDetail("path", path)
	}
	return nil
}

// ctxReader stops a copy as soon as ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// fileWriter tags local write failures so they are not mistaken for
// transport errors.
type fileWriter struct {
	w io.Writer
}

func (f *fileWriter) Write(p []byte) (int, error) {
	n, err := f.w.Write(p)
	if err != nil {
		return n, errors.Wrap(err, errors.ErrFileWrite, "write temp file")
	}
	return n, nil
}

type progressWriter struct {
	listener    TransferListener
	id          identity.Identity
	size        int64
	transferred int64
}

func (p *progressWriter) Write(b []byte) (int, error) {
	p.transferred += int64(len(b))
	p.listener.Progressed(p.id, p.transferred, p.size)
	return len(b), nil
}
