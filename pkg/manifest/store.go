package manifest

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/dopatch/pkg/errors"
	"github.com/arthur-debert/dopatch/pkg/filesystem"
	"github.com/arthur-debert/dopatch/pkg/identity"
	"github.com/arthur-debert/dopatch/pkg/types"
)

// FileExtension is the suffix of persisted manifest files.
const FileExtension = ".manifest"

// Store persists manifests next to the cached artifacts they describe. A
// manifest file is named after the artifact checksum, so a re-published
// artifact never picks up a manifest built from different bytes.
type Store struct {
	fs types.FS
}

// NewStore returns a store writing through fsys.
func NewStore(fsys types.FS) *Store {
	return &Store{fs: fsys}
}

// PathFor returns where the manifest for an artifact with the given
// checksum lives.
func PathFor(artifactPath, checksum string) string {
	return filepath.Join(filepath.Dir(artifactPath), checksum+FileExtension)
}

// Load returns the persisted manifest, or (nil, false, nil) if none exists.
func (s *Store) Load(id identity.Identity, artifactPath, checksum string) (*Manifest, bool, error) {
	p := PathFor(artifactPath, checksum)
	m, err := ReadFile(s.fs, id, p)
	if err != nil {
		if errors.IsErrorCode(err, errors.ErrFileNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return m, true, nil
}

// Save persists m for the artifact atomically.
func (s *Store) Save(m *Manifest, artifactPath, checksum string) error {
	return WriteFile(s.fs, PathFor(artifactPath, checksum), m)
}

// ReadFile decodes the manifest file at path.
func ReadFile(fsys types.FS, id identity.Identity, path string) (*Manifest, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.ErrFileNotFound, "manifest not found: %s", path)
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read manifest %s", path)
	}
	m, err := Decode(id, data)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrCorruptManifest, "failed to decode %s", path)
	}
	return m, nil
}

// WriteFile encodes m to path with write-temp-then-rename.
func WriteFile(fsys types.FS, path string, m *Manifest) error {
	if err := filesystem.WriteFileAtomic(fsys, path, Encode(m)); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write manifest %s", path)
	}
	log.Debug().Str("path", path).Int("records", m.Len()).Msg("Saved manifest")
	return nil
}
