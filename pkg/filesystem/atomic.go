package filesystem

import (
	"bytes"
	"io"
	"path/filepath"

	"github.com/arthur-debert/dopatch/pkg/types"
)

// TempPattern returns the CreateTemp pattern used for files that will be
// renamed onto target. Temp files live in target's directory so the final
// rename never crosses a filesystem boundary.
func TempPattern(target string) string {
	return "." + filepath.Base(target) + ".tmp.*"
}

// WriteFileAtomic writes data to path through a temp file in the same
// directory and renames it into place. Readers see either the old file or
// the complete new one; on error no temp file is left behind. The file is
// created with CreateTemp's restrictive mode.
func WriteFileAtomic(fsys types.FS, path string, data []byte) error {
	return CopyAtomic(fsys, path, bytes.NewReader(data))
}

// CopyAtomic streams r into path with the same guarantees as WriteFileAtomic.
func CopyAtomic(fsys types.FS, path string, r io.Reader) error {
	dir := filepath.Dir(path)
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := fsys.CreateTemp(dir, TempPattern(path))
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if committed {
			return
		}
		_ = tmp.Close()
		_ = fsys.Remove(tmpName)
	}()

	if _, err := io.Copy(tmp, r); err != nil {
		return err
	}
	_ = tmp.Sync()
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := fsys.Rename(tmpName, path); err != nil {
		_ = fsys.Remove(tmpName)
		committed = true
		return err
	}
	committed = true
	return nil
}
