package interfaces

import (
	"context"

	domaintypes "redvalid/internal/domain/types"
)

// LedgerNetwork is the minimal view of the ledger the core needs: the three
// blocking round trips.
type LedgerNetwork interface {
	AccountSequence(ctx context.Context, account domaintypes.Address) (int64, error)
	SubmitTransaction(ctx context.Context, envelope string) (domaintypes.SubmitResult, error)
	// TransactionDetail returns ok=false when the network has no record.
	TransactionDetail(
		ctx context.Context,
		id domaintypes.TransactionID,
	) (domaintypes.LedgerTransaction, bool, error)
}

// Funder creates and funds accounts on test networks.
type Funder interface {
	Fund(ctx context.Context, account domaintypes.Address) error
}

// SequenceAllocator hands out per-account sequence numbers without collisions.
type SequenceAllocator interface {
	Next(ctx context.Context, account domaintypes.Address) (domaintypes.SequenceReservation, error)
	Forget(account domaintypes.Address)
}
