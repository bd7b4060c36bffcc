package manifest

import (
	"path"
	"strings"
	"unicode/utf8"

	"github.com/arthur-debert/dopatch/pkg/errors"
)

// NormalizePath turns an archive entry name into a manifest path: forward
// slashes, no leading "./", "." and ".." segments resolved. It fails with
// ErrUnsafeEntryPath for names that are absolute, escape the archive root,
// resolve to the root itself, or that the text codec cannot represent.
func NormalizePath(name string) (string, error) {
	if err := checkRepresentable(name); err != nil {
		return "", err
	}

	p := strings.ReplaceAll(name, `\`, "/")
	if strings.HasPrefix(p, "/") || hasDriveLetter(p) {
		return "", unsafePath(name, "absolute path")
	}

	p = path.Clean(p)
	switch {
	case p == ".":
		return "", unsafePath(name, "empty path")
	case p == ".." || strings.HasPrefix(p, "../"):
		return "", unsafePath(name, "escapes archive root")
	}
	return p, nil
}

// ValidatePath reports whether p is already a normalized manifest path.
func ValidatePath(p string) error {
	normalized, err := NormalizePath(p)
	if err != nil {
		return err
	}
	if normalized != p {
		return unsafePath(p, "not normalized")
	}
	return nil
}

func checkRepresentable(name string) error {
	if name == "" {
		return unsafePath(name, "empty path")
	}
	if !utf8.ValidString(name) {
		return unsafePath(name, "invalid UTF-8")
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return unsafePath(name, "control character")
		}
	}
	return nil
}

func hasDriveLetter(p string) bool {
	if len(p) < 2 || p[1] != ':' {
		return false
	}
	c := p[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func unsafePath(name, reason string) error {
	return errors.Newf(errors.ErrUnsafeEntryPath, "unsafe entry path %q: %s", name, reason).
		WithDetail("entry", name).
		WithDetail("reason", reason)
}
