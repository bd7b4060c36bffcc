package repository_test

import (
	"context"
	"testing"

	"github.com/arthur-debert/dopatch/pkg/errors"
	"github.com/arthur-debert/dopatch/pkg/repository"
	"github.com/arthur-debert/dopatch/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenerSchemes(t *testing.T) {
	opener := repository.NewOpener(testutil.NewTestFS())
	ctx := context.Background()

	tests := []struct {
		url     string
		want    interface{}
		errCode errors.ErrorCode
	}{
		{url: "https://repo.example.com/releases", want: &repository.HTTP{}},
		{url: "http://localhost:8081", want: &repository.HTTP{}},
		{url: "file:///srv/repo", want: &repository.Dir{}},
		{url: "/srv/repo", want: &repository.Dir{}},
		{url: "ftp://repo.example.com", errCode: errors.ErrConfigValid},
		{url: "", errCode: errors.ErrConfigValid},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			repo, err := opener.Open(ctx, repository.Endpoint{RemoteURL: tt.url, LocalCachePath: "/cache"})
			if tt.errCode != "" {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, tt.errCode))
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, repo)
			assert.NoError(t, repo.Close())
		})
	}
}
