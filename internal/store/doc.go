// Package store provides persistence for redvalid's local state.
//
// It contains concrete implementations of the domain storage interfaces:
//   - The service secret seed, encrypted under a passphrase with
//     scrypt + ChaCha20-Poly1305, either in a file (SeedFileStore) or in the
//     OS keyring (KeyringSeedStore).
//   - The public identity profile, plain JSON next to the seed (ProfileFileStore).
//   - Attestation records in SQLite (AttestationSQLStore).
//
// All methods are concurrency-safe via internal locking. Files are written
// atomically (temp file + rename) with 0600 permissions.
package store
