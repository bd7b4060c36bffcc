package repository

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/arthur-debert/dopatch/pkg/errors"
	"github.com/arthur-debert/dopatch/pkg/identity"
)

// HTTP is a Repository served over http(s). Authentication, proxies and TLS
// belong to the supplied *http.Client.
type HTTP struct {
	baseURL   string
	client    *http.Client
	userAgent string
	closed    chan struct{}
	closeOnce sync.Once
}

// HTTPOption configures an HTTP repository.
type HTTPOption func(*HTTP)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTP) { h.client = c }
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) HTTPOption {
	return func(h *HTTP) { h.userAgent = ua }
}

// NewHTTP returns a repository rooted at baseURL. Deadlines come from the
// request context, so the default client has no timeout of its own.
func NewHTTP(baseURL string, opts ...HTTPOption) *HTTP {
	h := &HTTP{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		closed:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type httpError struct {
	Status  int
	Message string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Status, e.Message)
}

func isMissing(err error) bool {
	var httpErr *httpError
	return stderrors.As(err, &httpErr) &&
		(httpErr.Status == http.StatusNotFound || httpErr.Status == http.StatusGone)
}

// url joins rel onto the base URL, escaping every segment so names like
// "app#x" reach the server as one path element.
func (h *HTTP) url(rel string) string {
	segments := strings.Split(rel, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return h.baseURL + "/" + strings.Join(segments, "/")
}

func (h *HTTP) get(ctx context.Context, rel string) (*http.Response, error) {
	select {
	case <-h.closed:
		return nil, errors.New(errors.ErrInternal, "repository is closed")
	default:
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url(rel), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "invalid repository URL").
			WithDetail("url", h.url(rel))
	}
	if h.userAgent != "" {
		req.Header.Set("User-Agent", h.userAgent)
	}

	log.Trace().Str("url", req.URL.String()).Msg("GET")
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrNetwork, "request failed").
			WithDetail("url", req.URL.String())
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		msg := strings.TrimSpace(string(data))
		if msg == "" {
			msg = resp.Status
		}
		return nil, &httpError{Status: resp.StatusCode, Message: msg}
	}
	return resp, nil
}

func (h *HTTP) getBytes(ctx context.Context, rel string) ([]byte, error) {
	resp, err := h.get(ctx, rel)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrNetwork, "read response body").
			WithDetail("url", h.url(rel))
	}
	return data, nil
}

// classify maps an httpError onto the resolution error codes.
func (h *HTTP) classify(err error, id identity.Identity, rel string) error {
	if isMissing(err) {
		return errors.Wrapf(err, errors.ErrArtifactNotFound, "artifact %s not found", id.Coordinate()).
			WithDetail("url", h.url(rel))
	}
	var httpErr *httpError
	if stderrors.As(err, &httpErr) {
		return errors.Wrapf(err, errors.ErrNetwork, "fetching %s", id.Coordinate()).
			WithDetail("url", h.url(rel)).
			WithDetail("status", httpErr.Status)
	}
	return err
}

// Checksum implements Repository. Sidecars are tried in Algorithms order.
func (h *HTTP) Checksum(ctx context.Context, id identity.Identity, ext string) (Checksum, error) {
	var last error
	for _, alg := range Algorithms {
		rel := SidecarPath(id, ext, alg)
		data, err := h.getBytes(ctx, rel)
		if err != nil {
			if isMissing(err) {
				last = err
				continue
			}
			return Checksum{}, h.classify(err, id, rel)
		}
		return ParseSidecar(alg, data)
	}
	return Checksum{}, h.classify(last, id, ArtifactPath(id, ext))
}

// Fetch implements Repository.
func (h *HTTP) Fetch(ctx context.Context, id identity.Identity, ext string) (*Download, error) {
	rel := ArtifactPath(id, ext)
	resp, err := h.get(ctx, rel)
	if err != nil {
		return nil, h.classify(err, id, rel)
	}
	return &Download{Body: resp.Body, Size: resp.ContentLength}, nil
}

// Versions implements Repository. A name with no metadata has no versions.
func (h *HTTP) Versions(ctx context.Context, name string) ([]identity.Version, error) {
	data, err := h.getBytes(ctx, MetadataPath(name))
	if err != nil {
		if isMissing(err) {
			return nil, nil
		}
		var httpErr *httpError
		if stderrors.As(err, &httpErr) {
			return nil, errors.Wrapf(err, errors.ErrNetwork, "listing versions of %s", name).
				WithDetail("status", httpErr.Status)
		}
		return nil, err
	}
	md, err := ParseMetadata(data)
	if err != nil {
		return nil, err
	}
	return md.Versions, nil
}

// Close implements Repository.
func (h *HTTP) Close() error {
	h.closeOnce.Do(func() {
		close(h.closed)
		h.client.CloseIdleConnections()
	})
	return nil
}
