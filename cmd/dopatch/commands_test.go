package dopatch

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dopatch/pkg/errors"
	"github.com/arthur-debert/dopatch/pkg/identity"
	"github.com/arthur-debert/dopatch/pkg/paths"
	"github.com/arthur-debert/dopatch/pkg/repository"
	"github.com/arthur-debert/dopatch/pkg/testutil"
	"github.com/arthur-debert/dopatch/pkg/ui/display"
)

// cliFixture isolates the CLI in a temp dir with a directory repository.
type cliFixture struct {
	t      *testing.T
	root   string
	remote string
	cache  string
}

func newCLIFixture(t *testing.T) *cliFixture {
	t.Helper()
	root := t.TempDir()
	f := &cliFixture{
		t:      t,
		root:   root,
		remote: filepath.Join(root, "remote"),
		cache:  filepath.Join(root, "cache"),
	}
	t.Setenv(paths.EnvCacheDir, f.cache)
	t.Setenv(paths.EnvConfigDir, filepath.Join(root, "config"))
	t.Setenv(paths.EnvStateDir, filepath.Join(root, "state"))
	t.Setenv(paths.EnvConfig, "")
	t.Setenv("DOPATCH_REPOSITORY_URL", f.remote)
	t.Setenv("NO_COLOR", "1")
	return f
}

func (f *cliFixture) publish(coord string, entries ...testutil.Entry) []byte {
	f.t.Helper()
	id := identity.MustParse(coord)
	data := testutil.ZipArchive(f.t, entries...)

	artifact := filepath.Join(f.remote, filepath.FromSlash(repository.ArtifactPath(id, "zip")))
	require.NoError(f.t, os.MkdirAll(filepath.Dir(artifact), 0755))
	require.NoError(f.t, os.WriteFile(artifact, data, 0644))

	sidecar := filepath.Join(f.remote, filepath.FromSlash(repository.SidecarPath(id, "zip", repository.SHA256)))
	require.NoError(f.t, os.WriteFile(sidecar, repository.FormatSidecar(repository.Sum(repository.SHA256, data)), 0644))
	return data
}

func (f *cliFixture) publishReleases() {
	f.publish("core:1.0",
		testutil.File("a.txt", "alpha"),
		testutil.File("b.txt", "bravo"),
		testutil.File("c.txt", "charlie"),
	)
	f.publish("core:2.0",
		testutil.File("a.txt", "alpha"),
		testutil.File("b.txt", "bravo v2"),
		testutil.File("d.txt", "delta"),
	)
}

func (f *cliFixture) run(args ...string) (string, string, error) {
	f.t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestResolveCommand(t *testing.T) {
	f := newCLIFixture(t)
	data := f.publish("core:1.0", testutil.File("a.txt", "alpha"))

	out, _, err := f.run("resolve", "core:1.0", "--format", "json")
	require.NoError(t, err)

	var got display.ArtifactResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "core:1.0", got.Identity)
	assert.True(t, got.Downloaded)
	assert.Equal(t, "sha256:"+testutil.SHA256(data), got.Checksum)
	assert.True(t, strings.HasPrefix(got.Path, f.cache))

	cached, err := os.ReadFile(got.Path)
	require.NoError(t, err)
	assert.Equal(t, data, cached)

	// Second resolve is served from the cache.
	out, _, err = f.run("resolve", "core:1.0", "--format", "json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.False(t, got.Downloaded)
}

func TestResolveCommandNotFound(t *testing.T) {
	f := newCLIFixture(t)

	_, _, err := f.run("resolve", "core:9.9")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrArtifactNotFound))
}

func TestResolveCommandMalformedIdentity(t *testing.T) {
	f := newCLIFixture(t)

	_, _, err := f.run("resolve", "not a coordinate")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrMalformedIdentity))
}

func TestResolveCommandWithoutRepository(t *testing.T) {
	f := newCLIFixture(t)
	t.Setenv("DOPATCH_REPOSITORY_URL", "")

	_, _, err := f.run("resolve", "core:1.0")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
	assert.Contains(t, err.Error(), "no repository configured")
}

func TestRepositoryFlagOverridesEnv(t *testing.T) {
	f := newCLIFixture(t)
	f.publish("core:1.0", testutil.File("a.txt", "alpha"))
	t.Setenv("DOPATCH_REPOSITORY_URL", filepath.Join(f.root, "elsewhere"))

	_, _, err := f.run("resolve", "core:1.0", "--repository", f.remote)
	require.NoError(t, err)
}

func TestVersionsCommand(t *testing.T) {
	f := newCLIFixture(t)
	f.publish("core:1.10", testutil.File("a.txt", "x"))
	f.publish("core:1.9", testutil.File("a.txt", "y"))
	f.publish("core:1.2", testutil.File("a.txt", "z"))

	out, _, err := f.run("versions", "core", "--format", "text")
	require.NoError(t, err)
	assert.Equal(t, "1.2\n1.9\n1.10 (latest)\n", out)
}

func TestManifestCommandFromCoordinate(t *testing.T) {
	f := newCLIFixture(t)
	f.publishReleases()

	out, _, err := f.run("manifest", "core:1.0", "--format", "text")
	require.NoError(t, err)
	assert.Equal(t,
		"a.txt="+testutil.SHA256String("alpha")+"\n"+
			"b.txt="+testutil.SHA256String("bravo")+"\n"+
			"c.txt="+testutil.SHA256String("charlie")+"\n", out)
}

func TestManifestCommandFromArchiveToFile(t *testing.T) {
	f := newCLIFixture(t)
	archive := filepath.Join(f.root, "core-3.0.zip")
	require.NoError(t, os.WriteFile(archive, testutil.ZipArchive(t,
		testutil.File("z.txt", "zulu"),
		testutil.Dir("empty/"),
	), 0644))
	target := filepath.Join(f.root, "out", "core-3.0.manifest")

	out, _, err := f.run("manifest", archive, "-o", target, "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote manifest to "+target)

	written, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "z.txt="+testutil.SHA256String("zulu")+"\n", string(written))
}

func TestDiffCommand(t *testing.T) {
	f := newCLIFixture(t)
	f.publishReleases()

	out, _, err := f.run("diff", "core:1.0", "core:2.0", "--format", "text")
	require.NoError(t, err)
	assert.Equal(t,
		"core:1.0 -> core:2.0\n"+
			"  ~ b.txt\n"+
			"  - c.txt\n"+
			"  + d.txt\n"+
			"1 added, 1 updated, 1 deleted\n", out)
}

func TestDiffCommandUnchanged(t *testing.T) {
	f := newCLIFixture(t)
	f.publishReleases()

	out, _, err := f.run("diff", "core:1.0", "core:2.0", "--unchanged", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "  = a.txt\n")
	assert.Contains(t, out, "1 unchanged")
}

func TestDiffCommandUnchangedFromConfig(t *testing.T) {
	f := newCLIFixture(t)
	f.publishReleases()
	t.Setenv("DOPATCH_DIFF_INCLUDE_UNCHANGED", "true")

	out, _, err := f.run("diff", "core:1.0", "core:2.0", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "  = a.txt\n")
}

func TestPlanCommandFreshInstallAndUpgrade(t *testing.T) {
	f := newCLIFixture(t)
	f.publishReleases()
	baseline := filepath.Join(f.root, "installed.manifest")

	out, stderr, err := f.run("plan", "core:1.0", "--save", baseline, "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "core:1.0 (fresh install)\n")
	assert.Contains(t, out, "3 added, 0 updated, 0 deleted\n")
	assert.Contains(t, stderr, "Saved baseline to "+baseline)

	out, _, err = f.run("plan", "core", "--latest", "--baseline", baseline, "--format", "json")
	require.NoError(t, err)

	var got display.PlanResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "core:2.0", got.Target)
	assert.Equal(t, 1, got.Summary.Added)
	assert.Equal(t, 1, got.Summary.Updated)
	assert.Equal(t, 1, got.Summary.Deleted)
	assert.False(t, got.Fresh)
	assert.NotEmpty(t, got.Artifact)
}

func TestPlanCommandSameRelease(t *testing.T) {
	f := newCLIFixture(t)
	f.publishReleases()
	baseline := filepath.Join(f.root, "installed.manifest")

	_, _, err := f.run("plan", "core:2.0", "--save", baseline)
	require.NoError(t, err)

	out, _, err := f.run("plan", "core:2.0", "--baseline", baseline, "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "No changes.")
}

func TestPlanCommandMissingBaseline(t *testing.T) {
	f := newCLIFixture(t)
	f.publishReleases()

	_, _, err := f.run("plan", "core:2.0", "--baseline", filepath.Join(f.root, "nope.manifest"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileNotFound))
}

func TestGenConfigCommand(t *testing.T) {
	f := newCLIFixture(t)

	out, _, err := f.run("genconfig")
	require.NoError(t, err)
	assert.Contains(t, out, "[repository]")
	assert.Contains(t, out, "# extension")

	target := filepath.Join(f.root, "config", "dopatch.toml")
	_, _, err = f.run("genconfig", "-w")
	require.NoError(t, err)
	assert.FileExists(t, target)

	_, _, err = f.run("genconfig", "-w")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileWrite))

	_, _, err = f.run("genconfig", "-w", "--force")
	require.NoError(t, err)
}

func TestGenConfigEffective(t *testing.T) {
	f := newCLIFixture(t)

	out, _, err := f.run("genconfig", "--effective")
	require.NoError(t, err)
	assert.Contains(t, out, f.remote)
	assert.Contains(t, out, f.cache)
}

func TestUnknownFormat(t *testing.T) {
	f := newCLIFixture(t)

	_, _, err := f.run("versions", "core", "--format", "xml")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}

func TestVersionCommand(t *testing.T) {
	f := newCLIFixture(t)

	out, _, err := f.run("version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "dopatch "))
	assert.NotContains(t, out, "log file")

	out, _, err = f.run("version", "-v")
	require.NoError(t, err)
	assert.Contains(t, out, "log file: "+filepath.Join(f.root, "state", "dopatch.log"))
}

func TestNoCommand(t *testing.T) {
	f := newCLIFixture(t)

	_, _, err := f.run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
}

func TestCompletionCommand(t *testing.T) {
	f := newCLIFixture(t)

	out, _, err := f.run("completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "dopatch")
}

func TestHelpTopics(t *testing.T) {
	f := newCLIFixture(t)

	out, _, err := f.run("help", "topics")
	require.NoError(t, err)
	assert.Contains(t, out, "  configuration\n")
	assert.Contains(t, out, "  manifest-format\n")
	assert.Contains(t, out, "  repository-layout\n")
}
