package patch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dopatch/pkg/errors"
	"github.com/arthur-debert/dopatch/pkg/identity"
	"github.com/arthur-debert/dopatch/pkg/manifest"
	"github.com/arthur-debert/dopatch/pkg/patch"
	"github.com/arthur-debert/dopatch/pkg/testutil"
)

func TestBaselineRoundTrip(t *testing.T) {
	fsys := testutil.NewTestFS()
	m, err := manifest.New(v1, []manifest.Record{
		{Path: "bin/run", Fingerprint: testutil.SHA256String("run")},
		{Path: "lib/a.jar", Fingerprint: testutil.SHA256String("a")},
	})
	require.NoError(t, err)

	path := "/srv/app/" + patch.BaselineFileName(v1)
	assert.Equal(t, "/srv/app/core-1.0.manifest", path)
	require.NoError(t, patch.SaveBaseline(fsys, path, m))

	loaded, err := patch.LoadBaseline(fsys, path)
	require.NoError(t, err)
	assert.True(t, loaded.Equal(m))
	assert.True(t, loaded.Identity().Equal(v1))
}

func TestLoadBaselineWithoutIdentityInName(t *testing.T) {
	fsys := testutil.NewTestFS()
	require.NoError(t, fsys.MkdirAll("/srv/app", 0755))
	require.NoError(t, fsys.WriteFile("/srv/app/installed.manifest", []byte("a="+testutil.SHA256String("a")+"\n"), 0644))

	loaded, err := patch.LoadBaseline(fsys, "/srv/app/installed.manifest")
	require.NoError(t, err)
	assert.Equal(t, identity.Identity{}, loaded.Identity())
	assert.Equal(t, []string{"a"}, loaded.Paths())
}

func TestLoadBaselineMissing(t *testing.T) {
	_, err := patch.LoadBaseline(testutil.NewTestFS(), "/nowhere/core-1.0.manifest")
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileNotFound))
}
