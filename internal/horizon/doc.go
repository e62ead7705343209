// Package horizon provides an HTTP implementation of domain.LedgerNetwork
// against the Stellar Horizon API.
//
// Supported operations:
//   - Reading an account's current sequence number (GET /accounts/{id}).
//   - Submitting a base64 XDR envelope (POST /transactions).
//   - Looking up an included transaction (GET /transactions/{hash}).
//   - Funding test accounts through friendbot.
//
// All requests accept a context for cancellation and deadlines.
//
// # Errors
//
// Transport failures, timeouts and 5xx statuses come back as
// *types.NetworkError. For submissions they carry Requery=true: the
// transaction may or may not have been accepted, so the caller must look it up
// by hash rather than resubmit. Explicit refusals (4xx problem documents) come
// back as *types.RejectedError carrying Horizon's result codes.
package horizon
