package interfaces

import (
	"context"
	"io"

	domaintypes "redvalid/internal/domain/types"
)

// IdentityService creates and unlocks the service identity.
type IdentityService interface {
	GenerateIdentity(passphrase string) (IdentityProvider, error)
	LoadIdentity(passphrase string) (IdentityProvider, error)
}

// Preparer builds service-signed attestation transactions.
type Preparer interface {
	Prepare(
		ctx context.Context,
		counterparty domaintypes.Address,
		digest domaintypes.Digest,
	) (domaintypes.PreparedTransaction, error)
}

// Validator checks a co-signed envelope against what was prepared.
// It performs no I/O.
type Validator interface {
	Validate(envelope string, exp domaintypes.Expectation) error
}

// Submitter broadcasts envelopes to the ledger network.
type Submitter interface {
	Submit(ctx context.Context, envelope string) (domaintypes.SubmitResult, error)
	ValidateAndSubmit(
		ctx context.Context,
		envelope string,
		exp domaintypes.Expectation,
	) (domaintypes.SubmitResult, error)
}

// Querier reads anchored transactions back from the ledger.
type Querier interface {
	Query(ctx context.Context, id domaintypes.TransactionID) (domaintypes.LedgerRecord, bool, error)
}

// DigestProducer fingerprints content.
type DigestProducer interface {
	Produce(r io.Reader) (domaintypes.Digest, error)
}

// AttestationService drives the full prepare, submit and verify flow with
// bookkeeping.
type AttestationService interface {
	Prepare(
		ctx context.Context,
		counterparty domaintypes.Address,
		digest domaintypes.Digest,
	) (domaintypes.PreparedTransaction, error)
	Submit(
		ctx context.Context,
		preparedID domaintypes.TransactionID,
		envelope string,
	) (domaintypes.AttestationRecord, error)
	Verify(ctx context.Context, id domaintypes.TransactionID) (domaintypes.Verification, error)
	Reconcile(ctx context.Context, preparedID domaintypes.TransactionID) (domaintypes.Verification, error)
	Status(digest domaintypes.Digest) (domaintypes.AttestationRecord, bool, error)
}
