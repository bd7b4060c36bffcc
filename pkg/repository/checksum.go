package repository

import (
	"crypto/sha1" // #nosec G505 -- legacy sidecars only, sha256 is preferred
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"strings"

	"github.com/arthur-debert/dopatch/pkg/errors"
)

// Algorithm names a checksum algorithm with a published sidecar.
type Algorithm string

const (
	SHA256 Algorithm = "sha256"
	SHA1   Algorithm = "sha1"
)

// Algorithms lists supported algorithms in order of preference.
var Algorithms = []Algorithm{SHA256, SHA1}

// Extension returns the sidecar suffix, e.g. ".sha256".
func (a Algorithm) Extension() string {
	return "." + string(a)
}

// New returns a fresh hash for the algorithm.
func (a Algorithm) New() hash.Hash {
	if a == SHA1 {
		return sha1.New() // #nosec G401
	}
	return sha256.New()
}

func (a Algorithm) hexLen() int {
	if a == SHA1 {
		return 40
	}
	return 64
}

// Checksum is an expected or computed artifact digest.
type Checksum struct {
	Algorithm Algorithm `json:"algorithm" yaml:"algorithm"`
	Hex       string    `json:"hex" yaml:"hex"`
}

// String returns "alg:hex".
func (c Checksum) String() string {
	return string(c.Algorithm) + ":" + c.Hex
}

// IsZero reports whether c is unset.
func (c Checksum) IsZero() bool {
	return c.Hex == ""
}

// Matches reports whether h (created by c.Algorithm.New) holds the same digest.
func (c Checksum) Matches(h hash.Hash) bool {
	return hex.EncodeToString(h.Sum(nil)) == c.Hex
}

// Sum computes the checksum of data with alg.
func Sum(alg Algorithm, data []byte) Checksum {
	h := alg.New()
	_, _ = h.Write(data)
	return Checksum{Algorithm: alg, Hex: hex.EncodeToString(h.Sum(nil))}
}

// ParseSidecar reads a sidecar file body. The digest is the first
// whitespace-separated token, so both bare digests and "digest  filename"
// lines (sha256sum output) are accepted.
func ParseSidecar(alg Algorithm, data []byte) (Checksum, error) {
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return Checksum{}, errors.Newf(errors.ErrInvalidInput, "empty %s sidecar", alg)
	}
	digest := strings.ToLower(fields[0])
	if len(digest) != alg.hexLen() {
		return Checksum{}, errors.Newf(errors.ErrInvalidInput, "%s sidecar has %d hex chars, want %d", alg, len(digest), alg.hexLen())
	}
	if _, err := hex.DecodeString(digest); err != nil {
		return Checksum{}, errors.Wrapf(err, errors.ErrInvalidInput, "%s sidecar is not hex", alg)
	}
	return Checksum{Algorithm: alg, Hex: digest}, nil
}

// FormatSidecar renders c as a sidecar body.
func FormatSidecar(c Checksum) []byte {
	return []byte(c.Hex + "\n")
}
