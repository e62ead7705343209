// Package main runs the in-memory Horizon-compatible ledger used by redvalid
// during development and tests.
//
// HTTP API
//
//	GET /accounts/{id}
//	    Return the account's sequence number and native balance.
//
//	POST /transactions   (form field tx=<base64 envelope>)
//	    Apply a transaction. Sequence numbers, min-sequence and time-bound
//	    preconditions, balances and every required signature are checked.
//	    Failures are problem+json responses carrying Stellar result codes.
//
//	GET /transactions/{hash}
//	    Return an applied transaction, including its memo.
//
//	GET|POST /friendbot?addr=G...
//	    Create and fund an account with 10000 XLM.
//
// Behaviour
//
//   - All state is held in memory and lost on process exit.
//   - Every request is logged with method, path, status, bytes and duration.
//   - The default listen address is :8000.
package main
