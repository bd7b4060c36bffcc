package topics_test

import (
	"bytes"
	"testing"
	"testing/fstest"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dopatch/pkg/cobrax/topics"
)

var topicFS = fstest.MapFS{
	"topics/manifest-format.md": {Data: []byte("# Manifest format\n")},
	"topics/cache.txt":          {Data: []byte("cache notes\n")},
	"topics/ignored.json":       {Data: []byte("{}")},
}

func TestLoad(t *testing.T) {
	m, err := topics.Load(topicFS, "topics", topics.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"cache", "manifest-format"}, m.Names())

	topic, ok := m.Get("--cache")
	require.True(t, ok)
	assert.Equal(t, "cache notes\n", m.Render(topic))

	_, ok = m.Get("ignored")
	assert.False(t, ok)
}

func TestLoadMissingDir(t *testing.T) {
	_, err := topics.Load(topicFS, "nope", topics.Options{})
	assert.Error(t, err)
}

func TestGlamourRendererPassesThroughNonMarkdown(t *testing.T) {
	r := topics.NewGlamourRenderer()
	assert.Equal(t, "plain", r.Render("plain", "notes.txt"))
}

func newRoot(t *testing.T) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	root := &cobra.Command{Use: "tool"}
	root.AddCommand(&cobra.Command{Use: "run", Short: "Run things", Run: func(*cobra.Command, []string) {}})

	m, err := topics.Load(topicFS, "topics", topics.Options{})
	require.NoError(t, err)
	m.Install(root)

	var out bytes.Buffer
	root.SetOut(&out)
	return root, &out
}

func TestHelpShowsTopic(t *testing.T) {
	root, out := newRoot(t)
	root.SetArgs([]string{"help", "cache"})
	require.NoError(t, root.Execute())
	assert.Equal(t, "cache notes\n", out.String())
}

func TestHelpListsTopics(t *testing.T) {
	root, out := newRoot(t)
	root.SetArgs([]string{"help", "topics"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "  manifest-format\n")
	assert.Contains(t, out.String(), "'tool help <topic>'")
}

func TestHelpFallsBackToCommands(t *testing.T) {
	root, out := newRoot(t)
	root.SetArgs([]string{"help", "run"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Run things")
}
