package types

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// DigestSize is the exact length of an anchored content digest.
const DigestSize = 32

// Digest is the 32-byte content fingerprint bound to a transaction's hash memo.
type Digest [DigestSize]byte

// Slice returns the digest as a []byte.
func (d Digest) Slice() []byte { return d[:] }

// Hex returns the lowercase 64-character hex form.
func (d Digest) Hex() string { return hex.EncodeToString(d[:]) }

// String returns the hex form of the digest.
func (d Digest) String() string { return d.Hex() }

// MarshalText encodes the digest as hex so JSON and YAML stay readable.
func (d Digest) MarshalText() ([]byte, error) { return []byte(d.Hex()), nil }

// UnmarshalText mirrors MarshalText.
func (d *Digest) UnmarshalText(text []byte) error {
	parsed, err := ParseDigest(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDigest decodes a 64-character hex string.
func ParseDigest(s string) (Digest, error) {
	raw, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return Digest{}, fmt.Errorf("%w: %v", ErrInvalidDigest, err)
	}
	return DigestFromBytes(raw)
}

// DigestFromBytes copies exactly DigestSize bytes into a Digest.
func DigestFromBytes(b []byte) (Digest, error) {
	var d Digest
	if len(b) != DigestSize {
		return d, fmt.Errorf("%w: got %d bytes", ErrInvalidDigest, len(b))
	}
	copy(d[:], b)
	return d, nil
}
