package progress_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arthur-debert/dopatch/pkg/identity"
	"github.com/arthur-debert/dopatch/pkg/resolver"
	"github.com/arthur-debert/dopatch/pkg/ui/progress"
)

var _ resolver.TransferListener = (*progress.Listener)(nil)

var coreID = identity.MustParse("core:1.0")

func TestBarLifecycle(t *testing.T) {
	var buf bytes.Buffer
	l := progress.New(&buf)

	l.Started(coreID, 100)
	assert.Equal(t, 1, l.Active())

	l.Started(coreID, 100)
	assert.Equal(t, 1, l.Active(), "one bar per artifact")

	l.Progressed(coreID, 40, 100)
	l.Progressed(coreID, 150, 100)
	l.Succeeded(coreID, 100)
	assert.Equal(t, 0, l.Active())
}

func TestFailureStopsBar(t *testing.T) {
	l := progress.New(&bytes.Buffer{})
	l.Started(coreID, 10)
	l.Failed(coreID, errors.New("boom"))
	assert.Equal(t, 0, l.Active())
}

func TestUnknownSizeDrawsNothing(t *testing.T) {
	var buf bytes.Buffer
	l := progress.New(&buf)
	l.Started(coreID, -1)
	l.Progressed(coreID, 10, -1)
	l.Succeeded(coreID, 10)
	l.CacheHit(coreID, "/cache/core-1.0.zip")
	assert.Equal(t, 0, l.Active())
	assert.Empty(t, buf.String())
}
