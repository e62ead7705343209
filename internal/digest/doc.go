// Package digest produces the 32-byte fingerprints that attestations bind.
//
// Content is hashed with SHA-256. A reported link is fingerprinted as the
// SHA-256 of "url:reporter", so the same link reported by two people yields
// two distinct attestations.
package digest
