package repository

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dopatch/pkg/errors"
	"github.com/arthur-debert/dopatch/pkg/types"
)

// NewOpener returns the production Opener. http and https remotes get an
// HTTP repository; file URLs and bare paths get a Dir on fsys.
func NewOpener(fsys types.FS, opts ...HTTPOption) Opener {
	return OpenerFunc(func(ctx context.Context, endpoint Endpoint) (Repository, error) {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, errors.ErrNetwork, "open cancelled")
		}
		remote := strings.TrimSpace(endpoint.RemoteURL)
		if remote == "" {
			return nil, errors.New(errors.ErrConfigValid, "repository URL is empty")
		}

		u, err := url.Parse(remote)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigValid, "invalid repository URL").
				WithDetail("url", remote)
		}
		switch u.Scheme {
		case "http", "https":
			log.Debug().Str("url", remote).Msg("Opening HTTP repository")
			return NewHTTP(remote, opts...), nil
		case "file":
			log.Debug().Str("path", u.Path).Msg("Opening directory repository")
			return NewDir(fsys, filepath.FromSlash(u.Path)), nil
		case "":
			log.Debug().Str("path", remote).Msg("Opening directory repository")
			return NewDir(fsys, remote), nil
		default:
			return nil, errors.Newf(errors.ErrConfigValid, "unsupported repository scheme %q", u.Scheme).
				WithDetail("url", remote)
		}
	})
}
