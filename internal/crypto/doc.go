// Package crypto holds the service signing identity and the small helpers
// around Stellar ed25519 keys.
//
// Contents
//
//   - ServiceIdentity: the immutable service keypair (NewServiceIdentity,
//     GenerateServiceIdentity) exposing Address, Hint and Sign
//   - Signature hints and verification against a signing payload
//     (HintFor, VerifyDecorated)
//   - Short address labels for display/logging (ShortAddress)
//   - Base64 helpers (B64, UnB64)
//
// # Notes
//
// A ServiceIdentity never exposes the seed through its String form. Callers
// that need to persist it use Seed explicitly and wipe intermediate copies.
package crypto
