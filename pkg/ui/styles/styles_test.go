package styles_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dopatch/pkg/ui/styles"
)

func TestDefaultRegistryHasActionStyles(t *testing.T) {
	for _, name := range []string{"Header", "Add", "Update", "Delete", "Unchanged", "Path", "Muted", "Error"} {
		_, ok := styles.Default[name]
		assert.True(t, ok, "missing style %s", name)
	}
}

func TestParseRejectsUnknownColor(t *testing.T) {
	_, err := styles.Parse([]byte("styles:\n  Add:\n    foreground: purple\n"))
	assert.Error(t, err)

	_, err = styles.Parse([]byte("colors: [not a map"))
	assert.Error(t, err)
}

func TestRenderUnknownStyleIsIdentity(t *testing.T) {
	r, err := styles.Parse([]byte("styles: {}\n"))
	require.NoError(t, err)
	assert.Equal(t, "plain", r.Render("Nope", "plain"))
	assert.Contains(t, styles.Default.Render("Add", "file"), "file")
}
