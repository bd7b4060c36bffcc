package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dopatch/pkg/errors"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "plain",
			err:  errors.New(errors.ErrMalformedIdentity, "empty name"),
			want: "[MALFORMED_IDENTITY] empty name",
		},
		{
			name: "formatted",
			err:  errors.Newf(errors.ErrCorruptManifest, "line %d: %s", 3, "missing separator"),
			want: "[CORRUPT_MANIFEST] line 3: missing separator",
		},
		{
			name: "wrapped",
			err:  errors.Wrap(fmt.Errorf("connection reset"), errors.ErrNetwork, "fetch failed"),
			want: "[NETWORK] fetch failed: connection reset",
		},
		{
			name: "wrapped formatted",
			err:  errors.Wrapf(fmt.Errorf("denied"), errors.ErrFileWrite, "write %s", "a.manifest"),
			want: "[FILE_WRITE] write a.manifest: denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, errors.Wrap(nil, errors.ErrNetwork, "x"))
	assert.Nil(t, errors.Wrapf(nil, errors.ErrNetwork, "x %d", 1))
}

func TestDetails(t *testing.T) {
	err := errors.New(errors.ErrArtifactNotFound, "missing").
		WithDetail("coordinate", "core:1.0").
		WithDetails(map[string]interface{}{"repository": "file:///r", "attempts": 2})

	details := errors.GetErrorDetails(err)
	require.NotNil(t, details)
	assert.Equal(t, "core:1.0", details["coordinate"])
	assert.Equal(t, "file:///r", details["repository"])
	assert.Equal(t, 2, details["attempts"])

	// zero value still accepts details
	bare := &errors.DopatchError{Code: errors.ErrInternal}
	bare.WithDetail("k", "v")
	assert.Equal(t, "v", bare.Details["k"])

	assert.Nil(t, errors.GetErrorDetails(stderrors.New("plain")))
}

func TestCodeLookup(t *testing.T) {
	inner := errors.New(errors.ErrChecksumMismatch, "sha256 differs")
	outer := errors.Wrap(inner, errors.ErrArchiveRead, "open archive")
	std := fmt.Errorf("resolve: %w", outer)

	assert.Equal(t, errors.ErrArchiveRead, errors.GetErrorCode(std))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(stderrors.New("plain")))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(nil))

	assert.True(t, errors.IsErrorCode(std, errors.ErrArchiveRead))
	assert.True(t, errors.IsErrorCode(std, errors.ErrChecksumMismatch))
	assert.False(t, errors.IsErrorCode(std, errors.ErrNetwork))
	assert.False(t, errors.IsErrorCode(nil, errors.ErrNetwork))
}

func TestIsMatchesByCode(t *testing.T) {
	err := errors.Wrap(stderrors.New("eof"), errors.ErrCorruptManifest, "read")
	assert.True(t, stderrors.Is(err, errors.New(errors.ErrCorruptManifest, "other message")))
	assert.False(t, stderrors.Is(err, errors.New(errors.ErrDuplicateEntry, "read")))

	var target *errors.DopatchError
	require.True(t, stderrors.As(fmt.Errorf("ctx: %w", err), &target))
	assert.Equal(t, "read", target.Message)
	assert.Equal(t, "eof", stderrors.Unwrap(err).Error())
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"network", errors.New(errors.ErrNetwork, "timeout"), true},
		{"checksum", errors.New(errors.ErrChecksumMismatch, "differs"), true},
		{"wrapped network", errors.Wrap(errors.New(errors.ErrNetwork, "reset"), errors.ErrArtifactNotFound, "resolve"), true},
		{"not found", errors.New(errors.ErrArtifactNotFound, "gone"), false},
		{"malformed", errors.New(errors.ErrMalformedIdentity, "bad"), false},
		{"plain", stderrors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.IsRetryable(tt.err))
		})
	}
}
