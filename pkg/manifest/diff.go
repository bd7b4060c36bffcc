package manifest

import (
	"github.com/arthur-debert/dopatch/pkg/errors"
	"github.com/arthur-debert/dopatch/pkg/identity"
)

type diffOptions struct {
	includeUnchanged bool
}

// DiffOption configures Diff.
type DiffOption func(*diffOptions)

// IncludeUnchanged makes Diff emit UNCHANGED records for paths whose
// fingerprints match. They are omitted by default.
func IncludeUnchanged() DiffOption {
	return func(o *diffOptions) { o.includeUnchanged = true }
}

// WithUnchanged is IncludeUnchanged driven by a flag or config value.
func WithUnchanged(include bool) DiffOption {
	return func(o *diffOptions) { o.includeUnchanged = include }
}

// Diff returns the actions that turn baseline into target, ordered by path.
// A nil baseline is a fresh install and yields only ADD records. Records
// carry the target fingerprint, or the baseline one for DELETE.
func Diff(baseline, target *Manifest, opts ...DiffOption) []Record {
	var o diffOptions
	for _, opt := range opts {
		opt(&o)
	}

	var base, next []Record
	if baseline != nil {
		base = baseline.records
	}
	if target != nil {
		next = target.records
	}

	actions := []Record{}
	i, j := 0, 0
	for i < len(base) || j < len(next) {
		switch {
		case j >= len(next) || (i < len(base) && base[i].Path < next[j].Path):
			actions = append(actions, Record{Path: base[i].Path, Fingerprint: base[i].Fingerprint, Action: ActionDelete})
			i++
		case i >= len(base) || next[j].Path < base[i].Path:
			actions = append(actions, Record{Path: next[j].Path, Fingerprint: next[j].Fingerprint, Action: ActionAdd})
			j++
		default:
			if base[i].Fingerprint != next[j].Fingerprint {
				actions = append(actions, Record{Path: next[j].Path, Fingerprint: next[j].Fingerprint, Action: ActionUpdate})
			} else if o.includeUnchanged {
				actions = append(actions, Record{Path: next[j].Path, Fingerprint: next[j].Fingerprint, Action: ActionUnchanged})
			}
			i++
			j++
		}
	}
	return actions
}

// Apply returns the manifest obtained by executing actions against baseline,
// labelled with id. It is what an installer's tree looks like after a
// successful install and is the baseline for the next cycle. An action that
// does not fit baseline (ADD of an existing path, UPDATE or DELETE of a
// missing one) fails with ErrInvalidInput.
func Apply(baseline *Manifest, id identity.Identity, actions []Record) (*Manifest, error) {
	state := make(map[string]string, baseline.Len())
	for _, r := range baseline.Records() {
		state[r.Path] = r.Fingerprint
	}

	for _, a := range actions {
		_, exists := state[a.Path]
		switch a.Action {
		case ActionAdd:
			if exists {
				return nil, conflict(a, "path already present")
			}
			state[a.Path] = a.Fingerprint
		case ActionUpdate:
			if !exists {
				return nil, conflict(a, "path not present")
			}
			state[a.Path] = a.Fingerprint
		case ActionDelete:
			if !exists {
				return nil, conflict(a, "path not present")
			}
			delete(state, a.Path)
		case ActionUnchanged:
		default:
			return nil, conflict(a, "record carries no action")
		}
	}

	records := make([]Record, 0, len(state))
	for p, fp := range state {
		records = append(records, Record{Path: p, Fingerprint: fp})
	}
	return New(id, records)
}

func conflict(r Record, reason string) error {
	return errors.Newf(errors.ErrInvalidInput, "cannot apply %s %s: %s", r.Action, r.Path, reason).
		WithDetail("path", r.Path)
}

// Summary counts actions by kind.
type Summary struct {
	Added     int `json:"added" yaml:"added"`
	Updated   int `json:"updated" yaml:"updated"`
	Deleted   int `json:"deleted" yaml:"deleted"`
	Unchanged int `json:"unchanged" yaml:"unchanged"`
}

// Summarize counts the actions in records.
func Summarize(records []Record) Summary {
	var s Summary
	for _, r := range records {
		switch r.Action {
		case ActionAdd:
			s.Added++
		case ActionUpdate:
			s.Updated++
		case ActionDelete:
			s.Deleted++
		case ActionUnchanged:
			s.Unchanged++
		}
	}
	return s
}

// Changes returns the number of ADD, UPDATE and DELETE actions.
func (s Summary) Changes() int {
	return s.Added + s.Updated + s.Deleted
}
