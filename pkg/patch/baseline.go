package patch

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dopatch/pkg/identity"
	"github.com/arthur-debert/dopatch/pkg/manifest"
	"github.com/arthur-debert/dopatch/pkg/types"
)

// BaselineFileName is the conventional name of an installed tree's baseline.
func BaselineFileName(id identity.Identity) string {
	return id.FileName(manifest.FileExtension)
}

// LoadBaseline reads the manifest an installer saved after its last
// install. The identity is taken from a "<name>-<version>.manifest" file
// name when it has one and left zero otherwise.
func LoadBaseline(fsys types.FS, path string) (*manifest.Manifest, error) {
	var id identity.Identity
	stem := strings.TrimSuffix(filepath.Base(path), manifest.FileExtension)
	if parsed, err := identity.Parse(stem); err == nil {
		id = parsed
	}
	return manifest.ReadFile(fsys, id, path)
}

// SaveBaseline atomically writes m as the installer's baseline.
func SaveBaseline(fsys types.FS, path string, m *manifest.Manifest) error {
	return manifest.WriteFile(fsys, path, m)
}
