package testutil

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"testing"
)

// Entry is one member of an archive built by the helpers below. Entries are
// written in slice order so tests can control physical ordering.
type Entry struct {
	Name    string
	Content string
	Dir     bool
	Symlink string
}

// File is shorthand for a regular file entry.
func File(name, content string) Entry {
	return Entry{Name: name, Content: content}
}

// Dir is shorthand for a directory entry.
func Dir(name string) Entry {
	return Entry{Name: name, Dir: true}
}

// ZipArchive returns the bytes of a zip archive holding entries.
func ZipArchive(t testing.TB, entries ...Entry) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		name := e.Name
		if e.Dir && (len(name) == 0 || name[len(name)-1] != '/') {
			name += "/"
		}
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if e.Dir {
			continue
		}
		if _, err := w.Write([]byte(e.Content)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

// TarArchive returns the bytes of an uncompressed tar archive.
func TarArchive(t testing.TB, entries ...Entry) []byte {
	t.Helper()

	var buf bytes.Buffer
	writeTar(t, &buf, entries)
	return buf.Bytes()
}

// TarGzArchive returns the bytes of a gzip-compressed tar archive.
func TarGzArchive(t testing.TB, entries ...Entry) []byte {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	writeTar(t, gz, entries)
	if err := gz.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

func writeTar(t testing.TB, w io.Writer, entries []Entry) {
	t.Helper()

	tw := tar.NewWriter(w)
	for _, e := range entries {
		hdr := &tar.Header{Name: e.Name, Mode: 0644}
		switch {
		case e.Dir:
			hdr.Typeflag = tar.TypeDir
			hdr.Mode = 0755
		case e.Symlink != "":
			hdr.Typeflag = tar.TypeSymlink
			hdr.Linkname = e.Symlink
		default:
			hdr.Typeflag = tar.TypeReg
			hdr.Size = int64(len(e.Content))
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("tar header %s: %v", e.Name, err)
		}
		if hdr.Typeflag == tar.TypeReg {
			if _, err := tw.Write([]byte(e.Content)); err != nil {
				t.Fatalf("tar write %s: %v", e.Name, err)
			}
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("tar close: %v", err)
	}
}

// SHA256 returns the hex SHA-256 of data, the form used for fingerprints
// and .sha256 sidecars.
func SHA256(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// SHA256String is SHA256 for string content.
func SHA256String(s string) string {
	return SHA256([]byte(s))
}
