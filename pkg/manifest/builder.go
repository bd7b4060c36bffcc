package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"io"

	"github.com/arthur-debert/dopatch/pkg/errors"
	"github.com/arthur-debert/dopatch/pkg/identity"
	"github.com/arthur-debert/dopatch/pkg/types"
)

// Build reads every entry of entries once and returns the manifest of its
// regular files. Directories and non-regular members (links, devices) are
// skipped. Any unsafe or duplicate path aborts the build; no partial
// manifest is returned. Build does not close entries.
func Build(id identity.Identity, entries EntryReader) (*Manifest, error) {
	records := []Record{}
	seen := make(map[string]string)

	for {
		entry, err := entries.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if entry.Dir {
			continue
		}
		if !entry.Regular {
			log.Debug().Str("entry", entry.Name).Msg("Skipping non-regular archive entry")
			continue
		}

		p, err := NormalizePath(entry.Name)
		if err != nil {
			return nil, err
		}
		if first, dup := seen[p]; dup {
			return nil, errors.Newf(errors.ErrDuplicateEntry, "entries %q and %q both normalize to %s", first, entry.Name, p).
				WithDetail("path", p)
		}
		seen[p] = entry.Name

		fp, err := Fingerprint(entry.Content)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrArchiveRead, "failed to read entry %s", entry.Name)
		}
		records = append(records, Record{Path: p, Fingerprint: fp})
	}

	m, err := newSorted(id, records)
	if err != nil {
		return nil, err
	}
	log.Trace().Str("identity", id.Coordinate()).Int("records", m.Len()).Msg("Built manifest")
	return m, nil
}

// BuildFile opens the archive at path on fsys, choosing the entry reader from
// the filename suffix.
func BuildFile(fsys types.FS, id identity.Identity, path string) (*Manifest, error) {
	format := DetectFormat(path)
	if format == FormatUnknown {
		return nil, errors.Newf(errors.ErrInvalidInput, "unsupported archive format: %s", path)
	}

	f, err := fsys.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to open archive %s", path)
	}
	defer f.Close()

	var entries EntryReader
	switch format {
	case FormatZip:
		info, err := f.Stat()
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to stat archive %s", path)
		}
		entries, err = ZipEntries(f, info.Size())
		if err != nil {
			return nil, err
		}
	case FormatTar:
		entries = TarEntries(f)
	case FormatTarGz:
		entries, err = GzipTarEntries(f)
		if err != nil {
			return nil, err
		}
	}
	defer entries.Close()

	return Build(id, entries)
}

// Fingerprint returns the hex SHA-256 of everything read from r.
func Fingerprint(r io.Reader) (string, error) {
	h := sha256.New()
	if r != nil {
		if _, err := io.Copy(h, r); err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
