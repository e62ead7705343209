// Package attestation implements the co-signed transaction used to anchor a
// content digest on Stellar.
//
// # Shape
//
// One attestation is one transaction:
//   - source account and fee payer: the service
//   - memo: MEMO_HASH carrying exactly the 32 digest bytes
//   - one native Payment of a minimal amount, destination the service,
//     operation source the counterparty
//
// Because the payment's source is the counterparty, the network will not
// accept the transaction until the counterparty has signed it too.
//
// # Flows
//
// Service side:
//  1. Build the transaction from a fresh sequence number (Build).
//  2. Record the transaction id (hex of the network hash) before signing.
//  3. Sign the hash as the service and hand out the base64 envelope.
//
// Counterparty side:
//  1. Decode the envelope, sign the same hash, re-encode (SignEnvelope).
//
// Service side, on return:
//  1. Decode and Validate against the remembered digest and counterparty.
//  2. Broadcast only if Validate returned nil.
//
// # Errors
//
// Validate returns *types.ValidationError; use errors.Is with the per-reason
// sentinels (types.ErrDigestMismatch, ...) or inspect Reason directly.
//
// # Security notes
//
// Signature hints only select candidates. Both required signatures are
// verified with ed25519 over the transaction hash.
package attestation
