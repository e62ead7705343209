// Package ledgerstub is an in-memory, Horizon-compatible ledger used during
// development and in tests.
//
// HTTP API
//
//	GET  /accounts/{id}        account sequence and native balance
//	POST /transactions         form field tx = base64 XDR envelope
//	GET  /transactions/{hash}  an applied (or failed) transaction
//	GET  /friendbot?addr=G...  create and fund an account
//
// Behaviour
//
//   - Every submission that passes validation closes one ledger.
//   - Sequence numbers follow the network rules, including the min-seq-num
//     precondition.
//   - Time bounds, fees and balances are enforced.
//   - Every required signer (transaction source and each operation source) must
//     have a valid ed25519 signature over the transaction hash; unused
//     signatures are refused.
//   - Only native payments are supported as operations.
//   - Errors are problem+json documents with Stellar result codes.
//
// All state is held in memory and lost on process exit.
package ledgerstub
