package resolver

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/dopatch/pkg/errors"
	"github.com/arthur-debert/dopatch/pkg/identity"
	"github.com/arthur-debert/dopatch/pkg/repository"
)

// session carries the state of a single Resolve call. It is never reused.
type session struct {
	r       *Resolver
	id      identity.Identity
	path    string
	started time.Time
	log     zerolog.Logger
}

func newSession(r *Resolver, id identity.Identity) *session {
	return &session{
		r:       r,
		id:      id,
		path:    r.CachePath(id),
		started: time.Now(),
		log:     log.With().Str("artifact", id.Coordinate()).Logger(),
	}
}

func (s *session) artifact(sum repository.Checksum, downloaded bool) *Artifact {
	return &Artifact{Identity: s.id, Path: s.path, Checksum: sum, Downloaded: downloaded}
}

func (s *session) run(ctx context.Context) (*Artifact, error) {
	if sum, ok := s.verifiedLocally(); ok {
		s.log.Trace().Str("path", s.path).Msg("Cache verified by local sidecar")
		s.r.listener.CacheHit(s.id, s.path)
		return s.artifact(sum, false), nil
	}

	repo, err := s.r.handle(ctx)
	if err != nil {
		return nil, err
	}
	expected, err := repo.Checksum(ctx, s.id, s.r.ext)
	if err != nil {
		return nil, asNetwork(ctx, err, "fetch checksum")
	}
	if expected.IsZero() {
		return nil, errors.Newf(errors.ErrNetwork, "remote published an empty checksum for %s", s.id.Coordinate())
	}

	if actual, err := hashFile(s.r.fs, s.path, expected.Algorithm); err == nil && actual == expected {
		s.log.Trace().Str("path", s.path).Msg("Cache verified by remote checksum")
		if err := s.writeSidecar(expected); err != nil {
			return nil, err
		}
		s.r.listener.CacheHit(s.id, s.path)
		return s.artifact(expected, false), nil
	}

	return s.download(ctx, repo, expected)
}

// verifiedLocally checks the cached file against its own sidecars without
// touching the remote.
func (s *session) verifiedLocally() (repository.Checksum, bool) {
	for _, alg := range repository.Algorithms {
		data, err := s.r.fs.ReadFile(s.path + alg.Extension())
		if err != nil {
			continue
		}
		want, err := repository.ParseSidecar(alg, data)
		if err != nil {
			s.log.Debug().Err(err).Msg("Ignoring unreadable local sidecar")
			continue
		}
		got, err := hashFile(s.r.fs, s.path, alg)
		if err != nil {
			return repository.Checksum{}, false
		}
		if got == want {
			return want, true
		}
		s.log.Debug().Str("want", want.Hex).Str("got", got.Hex).Msg("Cached file does not match its sidecar")
	}
	return repository.Checksum{}, false
}

func (s *session) writeSidecar(sum repository.Checksum) error {
	return writeAtomic(s.r.fs, s.path+sum.Algorithm.Extension(), repository.FormatSidecar(sum))
}
