package identity

import (
	"sort"
	"strconv"
	"strings"

	"github.com/arthur-debert/dopatch/pkg/errors"
)

// Version is a dotted sequence of numeric segments with an optional
// qualifier, e.g. "1.2.3", "1.2.3-rc1" or "2.3.0.Final". The qualifier
// starts at the first '-' or at the first dotted segment that is not a
// number, so "7.1.0.redhat-1" has the qualifier "redhat-1". At least one
// numeric segment must lead. The zero value is not a valid version.
type Version struct {
	raw       string
	segments  []uint64
	qualifier string
}

// ParseVersion parses a version token.
func ParseVersion(s string) (Version, error) {
	if s == "" {
		return Version{}, errors.New(errors.ErrMalformedIdentity, "empty version")
	}

	var segments []uint64
	qualifier := ""
	rest := s
	for {
		end := strings.IndexAny(rest, ".-")
		part := rest
		if end >= 0 {
			part = rest[:end]
		}
		if part == "" {
			return Version{}, errors.Newf(errors.ErrMalformedIdentity, "version %q has an empty segment", s)
		}
		if !isDigits(part) {
			if len(segments) == 0 {
				return Version{}, errors.Newf(errors.ErrMalformedIdentity, "version %q does not start with a number", s)
			}
			qualifier = rest
			break
		}
		n, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return Version{}, errors.Wrapf(err, errors.ErrMalformedIdentity, "version %q segment %q out of range", s, part)
		}
		segments = append(segments, n)
		if end < 0 {
			break
		}
		sep := rest[end]
		rest = rest[end+1:]
		if sep == '-' {
			if rest == "" {
				return Version{}, errors.Newf(errors.ErrMalformedIdentity, "version %q has an empty qualifier", s)
			}
			qualifier = rest
			break
		}
	}

	if err := validateQualifier(s, qualifier); err != nil {
		return Version{}, err
	}
	return Version{raw: s, segments: segments, qualifier: qualifier}, nil
}

func validateQualifier(version, qualifier string) error {
	if strings.ContainsAny(qualifier, `/\:`) {
		return errors.Newf(errors.ErrMalformedIdentity, "version %q has an invalid qualifier", version)
	}
	if hasSpaceOrControl(qualifier) {
		return errors.Newf(errors.ErrMalformedIdentity, "version %q contains whitespace or control characters", version)
	}
	return nil
}

// MustParseVersion is like ParseVersion but panics on error. Intended for
// tests and constants.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the version exactly as it was parsed.
func (v Version) String() string {
	return v.raw
}

// IsZero reports whether v is the zero Version.
func (v Version) IsZero() bool {
	return v.raw == ""
}

// Segments returns a copy of the numeric segments.
func (v Version) Segments() []uint64 {
	out := make([]uint64, len(v.segments))
	copy(out, v.segments)
	return out
}

// Qualifier returns the non-numeric tail, or "" for a plain release.
func (v Version) Qualifier() string {
	return v.qualifier
}

// Compare orders versions numerically segment by segment. Missing trailing
// segments count as zero. For equal numbers a release sorts after any
// qualified version; qualifiers compare ordinally. Versions that are still
// tied but spelled differently ("1.2" and "1.2.0") are ordered by their
// text, so Compare returns 0 only for identical versions. They name
// different artifacts and different cache entries.
func (v Version) Compare(other Version) int {
	n := len(v.segments)
	if len(other.segments) > n {
		n = len(other.segments)
	}
	for i := 0; i < n; i++ {
		a, b := segmentAt(v.segments, i), segmentAt(other.segments, i)
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
	}

	switch {
	case v.qualifier == other.qualifier:
		return strings.Compare(v.raw, other.raw)
	case v.qualifier == "":
		return 1
	case other.qualifier == "":
		return -1
	}
	return strings.Compare(v.qualifier, other.qualifier)
}

// Equal reports whether v and other are the same version text.
func (v Version) Equal(other Version) bool {
	return v.Compare(other) == 0
}

// SortVersions sorts vs ascending in place.
func SortVersions(vs []Version) {
	sort.SliceStable(vs, func(i, j int) bool {
		return vs[i].Compare(vs[j]) < 0
	})
}

func segmentAt(segments []uint64, i int) uint64 {
	if i < len(segments) {
		return segments[i]
	}
	return 0
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
