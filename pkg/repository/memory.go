package repository

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/arthur-debert/dopatch/pkg/errors"
	"github.com/arthur-debert/dopatch/pkg/identity"
)

type memoryArtifact struct {
	id        identity.Identity
	data      []byte
	checksum  Checksum
	fetchErr  error
	fetches   int
	checksums int
}

// Memory is an in-process Repository. It counts transfers and can inject
// faults, which makes it the repository of choice for tests.
type Memory struct {
	mu        sync.Mutex
	artifacts map[string]*memoryArtifact
	latency   time.Duration
	opens     int
	closed    bool
}

// NewMemory returns an empty repository.
func NewMemory() *Memory {
	return &Memory{artifacts: make(map[string]*memoryArtifact)}
}

func memoryKey(id identity.Identity, ext string) string {
	return ArtifactPath(id, ext)
}

// Publish stores data under id with a correct sha256 checksum.
func (m *Memory) Publish(id identity.Identity, ext string, data []byte) {
	m.PublishWithChecksum(id, ext, data, Sum(SHA256, data))
}

// PublishWithChecksum stores data with an arbitrary published checksum, so a
// mismatching pair simulates a corrupted transfer. Republishing keeps the
// transfer counters.
func (m *Memory) PublishWithChecksum(id identity.Identity, ext string, data []byte, sum Checksum) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := memoryKey(id, ext)
	a, ok := m.artifacts[key]
	if !ok {
		a = &memoryArtifact{id: id}
		m.artifacts[key] = a
	}
	a.data = append([]byte(nil), data...)
	a.checksum = sum
}

// FailFetch makes every Fetch of id return err until cleared with nil.
func (m *Memory) FailFetch(id identity.Identity, ext string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.artifacts[memoryKey(id, ext)]; ok {
		a.fetchErr = err
	}
}

// SetLatency delays every call by d, honoring context cancellation.
func (m *Memory) SetLatency(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latency = d
}

// Fetches reports how many times id has been downloaded.
func (m *Memory) Fetches(id identity.Identity, ext string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.artifacts[memoryKey(id, ext)]; ok {
		return a.fetches
	}
	return 0
}

// ChecksumLookups reports how many times the checksum of id was requested.
func (m *Memory) ChecksumLookups(id identity.Identity, ext string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.artifacts[memoryKey(id, ext)]; ok {
		return a.checksums
	}
	return 0
}

// Opens reports how many times the repository was opened through Opener.
func (m *Memory) Opens() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opens
}

// Closed reports whether Close was called.
func (m *Memory) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Opener returns an Opener that always hands out m.
func (m *Memory) Opener() Opener {
	return OpenerFunc(func(ctx context.Context, _ Endpoint) (Repository, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.opens++
		m.closed = false
		return m, nil
	})
}

func (m *Memory) wait(ctx context.Context) error {
	m.mu.Lock()
	d := m.latency
	m.mu.Unlock()
	if d <= 0 {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, errors.ErrNetwork, "request cancelled")
		}
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), errors.ErrNetwork, "request cancelled")
	case <-t.C:
		return nil
	}
}

func (m *Memory) lookup(id identity.Identity, ext string) (*memoryArtifact, error) {
	a, ok := m.artifacts[memoryKey(id, ext)]
	if !ok {
		return nil, errors.Newf(errors.ErrArtifactNotFound, "artifact %s not found", id.Coordinate())
	}
	return a, nil
}

// Checksum implements Repository.
func (m *Memory) Checksum(ctx context.Context, id identity.Identity, ext string) (Checksum, error) {
	if err := m.wait(ctx); err != nil {
		return Checksum{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, err := m.lookup(id, ext)
	if err != nil {
		return Checksum{}, err
	}
	a.checksums++
	return a.checksum, nil
}

// Fetch implements Repository.
func (m *Memory) Fetch(ctx context.Context, id identity.Identity, ext string) (*Download, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, err := m.lookup(id, ext)
	if err != nil {
		return nil, err
	}
	if a.fetchErr != nil {
		return nil, a.fetchErr
	}
	a.fetches++
	return &Download{
		Body: io.NopCloser(bytes.NewReader(a.data)),
		Size: int64(len(a.data)),
	}, nil
}

// Versions implements Repository.
func (m *Memory) Versions(ctx context.Context, name string) ([]identity.Version, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string]bool)
	var versions []identity.Version
	for _, a := range m.artifacts {
		v := a.id.Version.String()
		if a.id.Name != name || seen[v] {
			continue
		}
		seen[v] = true
		versions = append(versions, a.id.Version)
	}
	identity.SortVersions(versions)
	return versions, nil
}

// Close implements Repository.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
