package manifest_test

import (
	"bytes"
	"testing"

	"github.com/arthur-debert/dopatch/pkg/errors"
	"github.com/arthur-debert/dopatch/pkg/identity"
	"github.com/arthur-debert/dopatch/pkg/manifest"
	"github.com/arthur-debert/dopatch/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var coreID = identity.MustParse("core:1.2.0")

func buildZip(t *testing.T, entries ...testutil.Entry) (*manifest.Manifest, error) {
	t.Helper()
	data := testutil.ZipArchive(t, entries...)
	er, err := manifest.ZipEntries(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	defer er.Close()
	return manifest.Build(coreID, er)
}

func TestBuildSortsAndCountsRegularFiles(t *testing.T) {
	m, err := buildZip(t,
		testutil.Dir("lib"),
		testutil.File("lib/z.jar", "z"),
		testutil.File("bin/start.sh", "#!/bin/sh"),
		testutil.File("a.txt", "a"),
		testutil.Dir("empty/"),
	)
	require.NoError(t, err)

	assert.Equal(t, 3, m.Len())
	assert.Equal(t, []string{"a.txt", "bin/start.sh", "lib/z.jar"}, m.Paths())
	assert.True(t, m.Identity().Equal(coreID))

	rec, ok := m.Get("a.txt")
	require.True(t, ok)
	assert.Equal(t, testutil.SHA256String("a"), rec.Fingerprint)
	assert.Equal(t, manifest.ActionNone, rec.Action)
}

func TestBuildIgnoresPhysicalOrder(t *testing.T) {
	files := []testutil.Entry{
		testutil.File("conf/server.xml", "<server/>"),
		testutil.File("bin/run", "run"),
		testutil.File("README", "read me"),
	}
	reversed := []testutil.Entry{files[2], files[1], files[0]}

	a, err := buildZip(t, files...)
	require.NoError(t, err)
	b, err := buildZip(t, reversed...)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, manifest.Encode(a), manifest.Encode(b))
}

func TestBuildDistinguishesSameSizeContent(t *testing.T) {
	m, err := buildZip(t,
		testutil.File("one.bin", "abcd"),
		testutil.File("two.bin", "abce"),
	)
	require.NoError(t, err)

	one, _ := m.Get("one.bin")
	two, _ := m.Get("two.bin")
	assert.NotEqual(t, one.Fingerprint, two.Fingerprint)
}

func TestBuildNormalizesPaths(t *testing.T) {
	m, err := buildZip(t,
		testutil.File("./bin/run", "run"),
		testutil.File(`conf\app.properties`, "k=v"),
		testutil.File("lib/../lib/x.jar", "x"),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"bin/run", "conf/app.properties", "lib/x.jar"}, m.Paths())
}

func TestBuildRejectsUnsafePaths(t *testing.T) {
	names := []string{
		"../outside.txt",
		"bin/../../outside.txt",
		"/etc/passwd",
		`C:\windows\system.ini`,
		"line\nbreak",
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			m, err := buildZip(t,
				testutil.File("ok.txt", "ok"),
				testutil.File(name, "evil"),
			)
			require.Error(t, err)
			assert.Nil(t, m)
			assert.True(t, errors.IsErrorCode(err, errors.ErrUnsafeEntryPath), "got %v", err)
		})
	}
}

func TestBuildRejectsDuplicates(t *testing.T) {
	m, err := buildZip(t,
		testutil.File("lib/a.jar", "1"),
		testutil.File("./lib/a.jar", "2"),
	)
	require.Error(t, err)
	assert.Nil(t, m)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDuplicateEntry))
}

func TestBuildTarSkipsSymlinks(t *testing.T) {
	data := testutil.TarArchive(t,
		testutil.Dir("bin"),
		testutil.File("bin/run", "run"),
		testutil.Entry{Name: "bin/link", Symlink: "run"},
	)

	m, err := manifest.Build(coreID, manifest.TarEntries(bytes.NewReader(data)))
	require.NoError(t, err)
	assert.Equal(t, []string{"bin/run"}, m.Paths())
}

func TestBuildTarRejectsTraversal(t *testing.T) {
	data := testutil.TarArchive(t, testutil.File("../outside.txt", "evil"))

	m, err := manifest.Build(coreID, manifest.TarEntries(bytes.NewReader(data)))
	require.Error(t, err)
	assert.Nil(t, m)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnsafeEntryPath))
}

func TestBuildFile(t *testing.T) {
	entries := []testutil.Entry{
		testutil.File("b.txt", "b"),
		testutil.File("a.txt", "a"),
	}
	archives := map[string][]byte{
		"/cache/core-1.2.0.zip":    testutil.ZipArchive(t, entries...),
		"/cache/core-1.2.0.tar":    testutil.TarArchive(t, entries...),
		"/cache/core-1.2.0.tar.gz": testutil.TarGzArchive(t, entries...),
	}

	fsys := testutil.NewTestFS()
	require.NoError(t, fsys.MkdirAll("/cache", 0755))

	var built []*manifest.Manifest
	for path, data := range archives {
		require.NoError(t, fsys.WriteFile(path, data, 0644))
		m, err := manifest.BuildFile(fsys, coreID, path)
		require.NoError(t, err, path)
		built = append(built, m)
	}

	for _, m := range built[1:] {
		assert.Equal(t, built[0], m)
	}
	assert.Equal(t, []string{"a.txt", "b.txt"}, built[0].Paths())
}

func TestBuildFileUnsupportedFormat(t *testing.T) {
	fsys := testutil.NewTestFS()
	require.NoError(t, fsys.WriteFile("/core-1.0.rar", []byte("x"), 0644))

	_, err := manifest.BuildFile(fsys, coreID, "/core-1.0.rar")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestBuildFileCorruptArchive(t *testing.T) {
	fsys := testutil.NewTestFS()
	require.NoError(t, fsys.WriteFile("/core-1.0.zip", []byte("definitely not a zip"), 0644))

	_, err := manifest.BuildFile(fsys, coreID, "/core-1.0.zip")
	assert.True(t, errors.IsErrorCode(err, errors.ErrArchiveRead))
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"a/b", "a/b", true},
		{"./a//b/", "a/b", true},
		{`a\b`, "a/b", true},
		{"a/./b/../c", "a/c", true},
		{"..", "", false},
		{"./", "", false},
		{"", "", false},
		{"/abs", "", false},
		{"tab\there", "", false},
		{"\xff", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := manifest.NormalizePath(tt.in)
			if !tt.ok {
				assert.True(t, errors.IsErrorCode(err, errors.ErrUnsafeEntryPath), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
