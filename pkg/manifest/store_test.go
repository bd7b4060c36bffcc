package manifest_test

import (
	"testing"

	"github.com/arthur-debert/dopatch/pkg/errors"
	"github.com/arthur-debert/dopatch/pkg/manifest"
	"github.com/arthur-debert/dopatch/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSaveLoad(t *testing.T) {
	fsys := testutil.NewTestFS()
	store := manifest.NewStore(fsys)
	artifact := "/cache/core/1.2.0/core-1.2.0.zip"
	checksum := testutil.SHA256String("archive bytes")
	m := mustManifest(t, map[string]string{"bin/run": "1", "lib/a.jar": "2"})

	_, found, err := store.Load(coreID, artifact, checksum)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Save(m, artifact, checksum))

	loaded, found, err := store.Load(coreID, artifact, checksum)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, m, loaded)

	data, err := fsys.ReadFile("/cache/core/1.2.0/" + checksum + ".manifest")
	require.NoError(t, err)
	assert.Equal(t, manifest.Encode(m), data)

	_, found, err = store.Load(coreID, artifact, testutil.SHA256String("other bytes"))
	require.NoError(t, err)
	assert.False(t, found, "manifests are keyed by artifact checksum")
}

func TestStoreLoadCorrupt(t *testing.T) {
	fsys := testutil.NewTestFS()
	artifact := "/cache/core/1.2.0/core-1.2.0.zip"
	checksum := testutil.SHA256String("archive bytes")
	require.NoError(t, fsys.MkdirAll("/cache/core/1.2.0", 0755))
	require.NoError(t, fsys.WriteFile(manifest.PathFor(artifact, checksum), []byte("garbage\n"), 0644))

	_, _, err := manifest.NewStore(fsys).Load(coreID, artifact, checksum)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCorruptManifest))
}
