package repository_test

import (
	"testing"

	"github.com/arthur-debert/dopatch/pkg/errors"
	"github.com/arthur-debert/dopatch/pkg/repository"
	"github.com/arthur-debert/dopatch/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSidecar(t *testing.T) {
	digest := testutil.SHA256String("payload")

	tests := []struct {
		name    string
		alg     repository.Algorithm
		body    string
		want    string
		wantErr bool
	}{
		{name: "bare digest", alg: repository.SHA256, body: digest, want: digest},
		{name: "trailing newline", alg: repository.SHA256, body: digest + "\n", want: digest},
		{name: "sha256sum format", alg: repository.SHA256, body: digest + "  core-1.0.zip\n", want: digest},
		{name: "uppercase is normalized", alg: repository.SHA256, body: "ABCDEF0123456789ABCDEF0123456789ABCDEF0123456789ABCDEF0123456789", want: "abcdef0123456789abcdef0123456789abcdef0123456789abcdef0123456789"},
		{name: "sha1", alg: repository.SHA1, body: "da39a3ee5e6b4b0d3255bfef95601890afd80709", want: "da39a3ee5e6b4b0d3255bfef95601890afd80709"},
		{name: "empty", alg: repository.SHA256, body: "  \n", wantErr: true},
		{name: "wrong length", alg: repository.SHA1, body: digest, wantErr: true},
		{name: "not hex", alg: repository.SHA1, body: "zz39a3ee5e6b4b0d3255bfef95601890afd80709", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repository.ParseSidecar(tt.alg, []byte(tt.body))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.alg, got.Algorithm)
			assert.Equal(t, tt.want, got.Hex)
		})
	}
}

func TestSumAndMatches(t *testing.T) {
	data := []byte("payload")
	sum := repository.Sum(repository.SHA256, data)
	assert.Equal(t, testutil.SHA256(data), sum.Hex)
	assert.Equal(t, "sha256:"+sum.Hex, sum.String())
	assert.False(t, sum.IsZero())

	h := sum.Algorithm.New()
	_, _ = h.Write(data)
	assert.True(t, sum.Matches(h))

	h = sum.Algorithm.New()
	_, _ = h.Write([]byte("other"))
	assert.False(t, sum.Matches(h))

	assert.Equal(t, "da39a3ee5e6b4b0d3255bfef95601890afd80709", repository.Sum(repository.SHA1, nil).Hex)
}

func TestFormatSidecarRoundTrip(t *testing.T) {
	sum := repository.Sum(repository.SHA256, []byte("x"))
	parsed, err := repository.ParseSidecar(repository.SHA256, repository.FormatSidecar(sum))
	require.NoError(t, err)
	assert.Equal(t, sum, parsed)
}
