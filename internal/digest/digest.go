package digest

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"redvalid/internal/domain"
	domaintypes "redvalid/internal/domain/types"
)

// SHA256 is the default DigestProducer.
type SHA256 struct{}

// Produce hashes everything read from r.
func (SHA256) Produce(r io.Reader) (domain.Digest, error) { return FromReader(r) }

var _ domain.DigestProducer = SHA256{}

// FromReader hashes r. Empty content and read failures are ErrContentInvalid.
func FromReader(r io.Reader) (domain.Digest, error) {
	h := sha256.New()
	n, err := io.Copy(h, r)
	if err != nil {
		return domain.Digest{}, fmt.Errorf("%w: %v", domaintypes.ErrContentInvalid, err)
	}
	if n == 0 {
		return domain.Digest{}, fmt.Errorf("%w: empty content", domaintypes.ErrContentInvalid)
	}
	return domaintypes.DigestFromBytes(h.Sum(nil))
}

// FromFile hashes the file at path.
func FromFile(path string) (domain.Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Digest{}, fmt.Errorf("%w: %v", domaintypes.ErrContentInvalid, err)
	}
	defer f.Close()
	return FromReader(f)
}

// ErrEmptyField is returned by FromReport when url or reporter is blank.
var ErrEmptyField = errors.New("url and reporter are required")

// FromReport fingerprints a link reported by reporter.
func FromReport(url, reporter string) (domain.Digest, error) {
	url, reporter = strings.TrimSpace(url), strings.TrimSpace(reporter)
	if url == "" || reporter == "" {
		return domain.Digest{}, ErrEmptyField
	}
	return sha256.Sum256([]byte(url + ":" + reporter)), nil
}

// Parse accepts a 64-character hex digest.
func Parse(s string) (domain.Digest, error) {
	return domaintypes.ParseDigest(s)
}
