package identity

import (
	"sort"
	"strings"
	"unicode"

	"github.com/arthur-debert/dopatch/pkg/errors"
)

// ArchiveExtensions are the filename suffixes Parse strips before splitting
// name and version. Longer suffixes come first so ".tar.gz" wins over ".gz".
var ArchiveExtensions = []string{".tar.gz", ".tgz", ".zip", ".jar", ".tar"}

// Identity names one distributable artifact. It is an immutable value; use
// Compare or Equal rather than == since Version holds a slice.
type Identity struct {
	Name    string
	Version Version
}

// New validates name and version and returns the identity.
func New(name, version string) (Identity, error) {
	if err := validateName(name); err != nil {
		return Identity{}, err
	}
	v, err := ParseVersion(version)
	if err != nil {
		return Identity{}, err
	}
	return Identity{Name: name, Version: v}, nil
}

// MustParse is like Parse but panics on error. Intended for tests.
func MustParse(source string) Identity {
	id, err := Parse(source)
	if err != nil {
		panic(err)
	}
	return id
}

// Parse reads an identity from a coordinate ("name:version") or from a
// filename ("name-version[.ext]"). In a filename the name ends at the first
// '-' that is followed by a valid version, so names may contain dashes.
func Parse(source string) (Identity, error) {
	if source == "" {
		return Identity{}, errors.New(errors.ErrMalformedIdentity, "empty identity")
	}

	if name, version, ok := strings.Cut(source, ":"); ok {
		id, err := New(name, version)
		if err != nil {
			return Identity{}, errors.Wrapf(err, errors.ErrMalformedIdentity, "invalid coordinate %q", source)
		}
		return id, nil
	}

	stem := stripExtension(source)
	for i := 0; i < len(stem)-1; i++ {
		if stem[i] != '-' || !isDigit(stem[i+1]) {
			continue
		}
		v, err := ParseVersion(stem[i+1:])
		if err != nil {
			continue
		}
		name := stem[:i]
		if err := validateName(name); err != nil {
			return Identity{}, errors.Wrapf(err, errors.ErrMalformedIdentity, "invalid identity %q", source)
		}
		return Identity{Name: name, Version: v}, nil
	}

	return Identity{}, errors.Newf(errors.ErrMalformedIdentity, "no <name>-<version> in %q", source).
		WithDetail("source", source)
}

// Coordinate returns "name:version". Parse(id.Coordinate()) equals id.
func (id Identity) Coordinate() string {
	return id.Name + ":" + id.Version.String()
}

// String implements fmt.Stringer
func (id Identity) String() string {
	return id.Coordinate()
}

// FileName returns the artifact filename "name-version.ext". ext may be
// given with or without the leading dot; an empty ext yields no suffix.
func (id Identity) FileName(ext string) string {
	base := id.Name + "-" + id.Version.String()
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return base
	}
	return base + "." + ext
}

// IsZero reports whether id is the zero Identity.
func (id Identity) IsZero() bool {
	return id.Name == "" && id.Version.IsZero()
}

// Compare orders by name (ordinal) and then by version.
func Compare(a, b Identity) int {
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return a.Version.Compare(b.Version)
}

// Equal reports whether id and other name the same artifact, i.e. the same
// name and the same version text.
func (id Identity) Equal(other Identity) bool {
	return Compare(id, other) == 0
}

// Sort sorts ids ascending in place.
func Sort(ids []Identity) {
	sort.SliceStable(ids, func(i, j int) bool {
		return Compare(ids[i], ids[j]) < 0
	})
}

func validateName(name string) error {
	switch {
	case name == "":
		return errors.New(errors.ErrMalformedIdentity, "empty name")
	case strings.ContainsAny(name, `/\`):
		return errors.Newf(errors.ErrMalformedIdentity, "name %q contains a path separator", name)
	case strings.Contains(name, ":"):
		return errors.Newf(errors.ErrMalformedIdentity, "name %q contains ':'", name)
	case name == "." || name == "..":
		return errors.Newf(errors.ErrMalformedIdentity, "name %q is not allowed", name)
	case hasSpaceOrControl(name):
		return errors.Newf(errors.ErrMalformedIdentity, "name %q contains whitespace or control characters", name)
	}
	return nil
}

func hasSpaceOrControl(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	}) >= 0
}

func stripExtension(s string) string {
	lower := strings.ToLower(s)
	for _, ext := range ArchiveExtensions {
		if strings.HasSuffix(lower, ext) {
			return s[:len(s)-len(ext)]
		}
	}
	return s
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
