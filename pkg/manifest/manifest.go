package manifest

import (
	"sort"

	"github.com/arthur-debert/dopatch/pkg/errors"
	"github.com/arthur-debert/dopatch/pkg/identity"
	"github.com/arthur-debert/dopatch/pkg/logging"
)

var log = logging.GetLogger("manifest")

// FingerprintLength is the length of a hex SHA-256 fingerprint.
const FingerprintLength = 64

// Action classifies a path between a baseline and a target manifest.
type Action int

const (
	// ActionNone is the zero value, carried by records that were not diffed.
	ActionNone Action = iota
	ActionAdd
	ActionUpdate
	ActionDelete
	ActionUnchanged
)

// String returns the upper-case action name.
func (a Action) String() string {
	switch a {
	case ActionAdd:
		return "ADD"
	case ActionUpdate:
		return "UPDATE"
	case ActionDelete:
		return "DELETE"
	case ActionUnchanged:
		return "UNCHANGED"
	default:
		return ""
	}
}

// MarshalText implements encoding.TextMarshaler so actions render by name in
// JSON and YAML output.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (a *Action) UnmarshalText(text []byte) error {
	switch string(text) {
	case "ADD":
		*a = ActionAdd
	case "UPDATE":
		*a = ActionUpdate
	case "DELETE":
		*a = ActionDelete
	case "UNCHANGED":
		*a = ActionUnchanged
	case "":
		*a = ActionNone
	default:
		return errors.Newf(errors.ErrInvalidInput, "unknown action %q", string(text))
	}
	return nil
}

// Record is one file of a manifest. Action is set only on records returned
// by Diff.
type Record struct {
	Path        string `json:"path" yaml:"path"`
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`
	Action      Action `json:"action,omitempty" yaml:"action,omitempty"`
}

// Manifest is the immutable, path-sorted set of records for one identity.
type Manifest struct {
	identity identity.Identity
	records  []Record
	index    map[string]int
}

// New builds a manifest from records in any order. Paths must already be
// normalized, fingerprints valid, and paths unique. The Action of each
// record is cleared.
func New(id identity.Identity, records []Record) (*Manifest, error) {
	sorted := make([]Record, len(records))
	for i, r := range records {
		if err := ValidatePath(r.Path); err != nil {
			return nil, err
		}
		if !ValidFingerprint(r.Fingerprint) {
			return nil, errors.Newf(errors.ErrInvalidInput, "invalid fingerprint %q for %s", r.Fingerprint, r.Path)
		}
		sorted[i] = Record{Path: r.Path, Fingerprint: r.Fingerprint}
	}
	return newSorted(id, sorted)
}

// Empty returns a manifest with no records.
func Empty(id identity.Identity) *Manifest {
	return &Manifest{identity: id, records: []Record{}, index: map[string]int{}}
}

func newSorted(id identity.Identity, records []Record) (*Manifest, error) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Path < records[j].Path
	})
	index := make(map[string]int, len(records))
	for i, r := range records {
		if _, dup := index[r.Path]; dup {
			return nil, errors.Newf(errors.ErrDuplicateEntry, "duplicate path %s", r.Path).
				WithDetail("path", r.Path)
		}
		index[r.Path] = i
	}
	return &Manifest{identity: id, records: records, index: index}, nil
}

// Identity returns the identity the manifest describes.
func (m *Manifest) Identity() identity.Identity {
	return m.identity
}

// Len returns the number of records.
func (m *Manifest) Len() int {
	if m == nil {
		return 0
	}
	return len(m.records)
}

// Records returns a copy of the records in path order.
func (m *Manifest) Records() []Record {
	if m == nil {
		return nil
	}
	out := make([]Record, len(m.records))
	copy(out, m.records)
	return out
}

// Paths returns the record paths in order.
func (m *Manifest) Paths() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.records))
	for i, r := range m.records {
		out[i] = r.Path
	}
	return out
}

// Get returns the record at path.
func (m *Manifest) Get(path string) (Record, bool) {
	if m == nil {
		return Record{}, false
	}
	i, ok := m.index[path]
	if !ok {
		return Record{}, false
	}
	return m.records[i], true
}

// Equal reports whether both manifests have the same identity and records.
func (m *Manifest) Equal(other *Manifest) bool {
	if m.Len() != other.Len() {
		return false
	}
	if m != nil && other != nil && !m.identity.Equal(other.identity) {
		return false
	}
	for i := 0; i < m.Len(); i++ {
		if m.records[i] != other.records[i] {
			return false
		}
	}
	return true
}

// ValidFingerprint reports whether s is a lowercase hex SHA-256 digest.
func ValidFingerprint(s string) bool {
	if len(s) != FingerprintLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
