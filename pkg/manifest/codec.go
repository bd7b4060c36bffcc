package manifest

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/arthur-debert/dopatch/pkg/errors"
	"github.com/arthur-debert/dopatch/pkg/identity"
)

// Separator splits a manifest line into path and fingerprint.
const Separator = "="

// Encode renders m as one "path=fingerprint" line per record in path order.
func Encode(m *Manifest) []byte {
	var buf bytes.Buffer
	for _, r := range m.Records() {
		buf.WriteString(r.Path)
		buf.WriteString(Separator)
		buf.WriteString(r.Fingerprint)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// Decode parses the output of Encode. The identity is not part of the text
// form; the caller supplies it from the artifact the manifest sits next to.
// Lines may appear in any order; a missing final newline is accepted.
func Decode(id identity.Identity, data []byte) (*Manifest, error) {
	if !utf8.Valid(data) {
		return nil, errors.New(errors.ErrCorruptManifest, "manifest is not valid UTF-8")
	}

	text := string(data)
	text = strings.TrimSuffix(text, "\n")
	records := []Record{}
	if text == "" {
		return newSorted(id, records)
	}

	seen := make(map[string]int)
	for i, line := range strings.Split(text, "\n") {
		lineNo := i + 1
		sep := strings.LastIndex(line, Separator)
		if sep < 0 {
			return nil, corrupt(lineNo, "missing separator")
		}
		p, fp := line[:sep], line[sep+len(Separator):]
		if p == "" {
			return nil, corrupt(lineNo, "empty path")
		}
		if err := ValidatePath(p); err != nil {
			return nil, errors.Wrapf(err, errors.ErrCorruptManifest, "line %d: invalid path", lineNo).
				WithDetail("line", lineNo)
		}
		if !ValidFingerprint(fp) {
			return nil, corrupt(lineNo, "invalid fingerprint %q", fp)
		}
		if first, dup := seen[p]; dup {
			return nil, corrupt(lineNo, "duplicate path %s (first on line %d)", p, first)
		}
		seen[p] = lineNo
		records = append(records, Record{Path: p, Fingerprint: fp})
	}

	return newSorted(id, records)
}

func corrupt(line int, format string, args ...interface{}) error {
	return errors.Newf(errors.ErrCorruptManifest, "line %d: %s", line, fmt.Sprintf(format, args...)).
		WithDetail("line", line)
}
