package manifest

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	stderrors "errors"
	"io"
	"strings"

	"github.com/arthur-debert/dopatch/pkg/errors"
)

// Entry describes one archive member. Content is only readable until the
// next call to EntryReader.Next.
type Entry struct {
	Name    string
	Dir     bool
	Regular bool
	Content io.Reader
}

// EntryReader walks an archive's members once, in archive order. Next
// returns io.EOF after the last entry.
type EntryReader interface {
	Next() (*Entry, error)
	Close() error
}

// Format identifies an archive container.
type Format int

const (
	FormatUnknown Format = iota
	FormatZip
	FormatTar
	FormatTarGz
)

// DetectFormat picks the archive format from a filename suffix.
func DetectFormat(name string) Format {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".zip"), strings.HasSuffix(lower, ".jar"):
		return FormatZip
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return FormatTarGz
	case strings.HasSuffix(lower, ".tar"):
		return FormatTar
	}
	return FormatUnknown
}

type tarEntries struct {
	tr     *tar.Reader
	closer io.Closer
}

// TarEntries reads an uncompressed tar stream.
func TarEntries(r io.Reader) EntryReader {
	return &tarEntries{tr: tar.NewReader(r)}
}

// GzipTarEntries reads a gzip-compressed tar stream.
func GzipTarEntries(r io.Reader) (EntryReader, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrArchiveRead, "failed to open gzip stream")
	}
	return &tarEntries{tr: tar.NewReader(gz), closer: gz}, nil
}

func (t *tarEntries) Next() (*Entry, error) {
	hdr, err := t.tr.Next()
	if err == io.EOF {
		return nil, io.EOF
	}
	// Non-local names are rejected by NormalizePath with a typed error.
	if err != nil && !(stderrors.Is(err, tar.ErrInsecurePath) && hdr != nil) {
		return nil, errors.Wrap(err, errors.ErrArchiveRead, "failed to read tar header")
	}
	return &Entry{
		Name:    hdr.Name,
		Dir:     hdr.Typeflag == tar.TypeDir,
		Regular: hdr.Typeflag == tar.TypeReg,
		Content: t.tr,
	}, nil
}

func (t *tarEntries) Close() error {
	if t.closer != nil {
		return t.closer.Close()
	}
	return nil
}

type zipEntries struct {
	files   []*zip.File
	next    int
	current io.ReadCloser
}

// ZipEntries reads a zip archive of the given size.
func ZipEntries(r io.ReaderAt, size int64) (EntryReader, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil && !(stderrors.Is(err, zip.ErrInsecurePath) && zr != nil) {
		return nil, errors.Wrap(err, errors.ErrArchiveRead, "failed to open zip archive")
	}
	return &zipEntries{files: zr.File}, nil
}

func (z *zipEntries) Next() (*Entry, error) {
	if err := z.closeCurrent(); err != nil {
		return nil, err
	}
	if z.next >= len(z.files) {
		return nil, io.EOF
	}
	f := z.files[z.next]
	z.next++

	mode := f.Mode()
	entry := &Entry{
		Name:    f.Name,
		Dir:     mode.IsDir() || strings.HasSuffix(f.Name, "/"),
		Regular: mode.IsRegular(),
	}
	if entry.Dir || !entry.Regular {
		return entry, nil
	}

	rc, err := f.Open()
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrArchiveRead, "failed to open zip entry %s", f.Name)
	}
	z.current = rc
	entry.Content = rc
	return entry, nil
}

func (z *zipEntries) closeCurrent() error {
	if z.current == nil {
		return nil
	}
	err := z.current.Close()
	z.current = nil
	if err != nil {
		return errors.Wrap(err, errors.ErrArchiveRead, "failed to close zip entry")
	}
	return nil
}

func (z *zipEntries) Close() error {
	return z.closeCurrent()
}
