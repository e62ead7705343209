// Package attestation orchestrates the full anchoring flow with bookkeeping.
//
// It composes the preparer, submitter and querier with an AttestationStore:
//
//	Prepare   refuses digests that are already submitted or confirmed,
//	          prepares the transaction and records it as prepared.
//	Submit    refuses a digest anchored by another record, validates the
//	          counterparty-signed envelope against what was recorded,
//	          broadcasts it and records the outcome.
//	Verify    reads the transaction back, cross-checks the digest and
//	          records confirmation.
//	Reconcile resolves a submission whose outcome was unknown.
//
// A submission that ends in a *types.NetworkError leaves the record in the
// prepared state; call Reconcile before preparing the digest again.
package attestation
