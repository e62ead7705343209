// Package querier reads anchored attestations back from the ledger.
//
// Query is idempotent and side-effect free. A transaction the network does
// not know yet is reported as ok=false, not as an error.
package querier
