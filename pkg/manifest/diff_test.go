package manifest_test

import (
	"testing"

	"github.com/arthur-debert/dopatch/pkg/errors"
	"github.com/arthur-debert/dopatch/pkg/identity"
	"github.com/arthur-debert/dopatch/pkg/manifest"
	"github.com/arthur-debert/dopatch/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func actionsByPath(records []manifest.Record) map[string]manifest.Action {
	out := make(map[string]manifest.Action, len(records))
	for _, r := range records {
		out[r.Path] = r.Action
	}
	return out
}

func TestDiffClassifies(t *testing.T) {
	baseline := mustManifest(t, map[string]string{
		"bin/run":      "v1",
		"conf/app.xml": "same",
		"lib/old.jar":  "old",
	})
	target := mustManifest(t, map[string]string{
		"bin/run":      "v2",
		"conf/app.xml": "same",
		"lib/new.jar":  "new",
	})

	actions := manifest.Diff(baseline, target)

	assert.Equal(t, []string{"bin/run", "lib/new.jar", "lib/old.jar"}, pathsOf(actions))
	assert.Equal(t, map[string]manifest.Action{
		"bin/run":     manifest.ActionUpdate,
		"lib/new.jar": manifest.ActionAdd,
		"lib/old.jar": manifest.ActionDelete,
	}, actionsByPath(actions))

	byPath := map[string]manifest.Record{}
	for _, r := range actions {
		byPath[r.Path] = r
	}
	assert.Equal(t, testutil.SHA256String("v2"), byPath["bin/run"].Fingerprint)
	assert.Equal(t, testutil.SHA256String("old"), byPath["lib/old.jar"].Fingerprint)
}

func TestDiffIncludeUnchanged(t *testing.T) {
	baseline := mustManifest(t, map[string]string{"a": "1", "b": "2"})
	target := mustManifest(t, map[string]string{"a": "1", "b": "3"})

	assert.Len(t, manifest.Diff(baseline, target), 1)

	all := manifest.Diff(baseline, target, manifest.IncludeUnchanged())
	assert.Equal(t, map[string]manifest.Action{
		"a": manifest.ActionUnchanged,
		"b": manifest.ActionUpdate,
	}, actionsByPath(all))

	assert.Len(t, manifest.Diff(baseline, target, manifest.WithUnchanged(false)), 1)
}

func TestDiffReflexive(t *testing.T) {
	m := mustManifest(t, map[string]string{"a": "1", "b/c": "2", "d": "3"})

	assert.Empty(t, manifest.Diff(m, m))
	for _, r := range manifest.Diff(m, m, manifest.IncludeUnchanged()) {
		assert.Equal(t, manifest.ActionUnchanged, r.Action)
	}
}

func TestDiffFreshInstall(t *testing.T) {
	target := mustManifest(t, map[string]string{"a": "1", "b": "2"})

	actions := manifest.Diff(nil, target)
	assert.Equal(t, map[string]manifest.Action{
		"a": manifest.ActionAdd,
		"b": manifest.ActionAdd,
	}, actionsByPath(actions))

	assert.Empty(t, manifest.Diff(nil, nil))
}

func TestDiffConverges(t *testing.T) {
	cases := []struct {
		name     string
		baseline map[string]string
		target   map[string]string
	}{
		{"disjoint", map[string]string{"a": "1", "b": "2"}, map[string]string{"c": "3", "d": "4"}},
		{"mixed", map[string]string{"a": "1", "b": "2", "c": "3"}, map[string]string{"a": "1", "b": "x", "e": "5"}},
		{"to empty", map[string]string{"a": "1"}, map[string]string{}},
		{"from empty", map[string]string{}, map[string]string{"a": "1"}},
	}

	targetID := identity.MustParse("core:1.3.0")
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			baseline := mustManifest(t, tc.baseline)
			target := mustManifest(t, tc.target)

			actions := manifest.Diff(baseline, target, manifest.IncludeUnchanged())
			applied, err := manifest.Apply(baseline, targetID, actions)
			require.NoError(t, err)

			assert.Empty(t, manifest.Diff(applied, target))
			assert.Equal(t, target.Records(), applied.Records())
			assert.True(t, applied.Identity().Equal(targetID))
		})
	}
}

func TestDiffDoesNotMutateInputs(t *testing.T) {
	baseline := mustManifest(t, map[string]string{"a": "1", "b": "2"})
	target := mustManifest(t, map[string]string{"b": "3", "c": "4"})
	beforeBase := manifest.Encode(baseline)
	beforeTarget := manifest.Encode(target)

	actions := manifest.Diff(baseline, target)
	actions[0].Path = "mutated"

	assert.Equal(t, beforeBase, manifest.Encode(baseline))
	assert.Equal(t, beforeTarget, manifest.Encode(target))
	for _, r := range target.Records() {
		assert.Equal(t, manifest.ActionNone, r.Action)
	}
}

func TestApplyRejectsMismatchedActions(t *testing.T) {
	baseline := mustManifest(t, map[string]string{"a": "1"})
	fp := testutil.SHA256String("z")

	tests := []struct {
		name   string
		action manifest.Record
	}{
		{"add existing", manifest.Record{Path: "a", Fingerprint: fp, Action: manifest.ActionAdd}},
		{"update missing", manifest.Record{Path: "b", Fingerprint: fp, Action: manifest.ActionUpdate}},
		{"delete missing", manifest.Record{Path: "b", Fingerprint: fp, Action: manifest.ActionDelete}},
		{"no action", manifest.Record{Path: "a", Fingerprint: fp}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := manifest.Apply(baseline, coreID, []manifest.Record{tt.action})
			assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput), "got %v", err)
		})
	}
}

func TestSummarize(t *testing.T) {
	baseline := mustManifest(t, map[string]string{"a": "1", "b": "2", "c": "3"})
	target := mustManifest(t, map[string]string{"a": "1", "b": "x", "d": "4", "e": "5"})

	s := manifest.Summarize(manifest.Diff(baseline, target, manifest.IncludeUnchanged()))
	assert.Equal(t, manifest.Summary{Added: 2, Updated: 1, Deleted: 1, Unchanged: 1}, s)
	assert.Equal(t, 4, s.Changes())
}

func TestActionText(t *testing.T) {
	for _, a := range []manifest.Action{manifest.ActionAdd, manifest.ActionUpdate, manifest.ActionDelete, manifest.ActionUnchanged} {
		text, err := a.MarshalText()
		require.NoError(t, err)

		var back manifest.Action
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, a, back)
	}

	var bad manifest.Action
	assert.Error(t, bad.UnmarshalText([]byte("RENAME")))
}

func pathsOf(records []manifest.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Path
	}
	return out
}
