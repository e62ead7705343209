package querier

import (
	"context"
	"fmt"
	"time"

	"redvalid/internal/crypto"
	"redvalid/internal/domain"
	domaintypes "redvalid/internal/domain/types"
)

// DefaultTimeout bounds a query when none is configured.
const DefaultTimeout = 15 * time.Second

// Service queries a LedgerNetwork.
type Service struct {
	net     domain.LedgerNetwork
	timeout time.Duration
}

// New returns a querier. A zero timeout uses DefaultTimeout.
func New(net domain.LedgerNetwork, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{net: net, timeout: timeout}
}

// Query looks up id and recovers the digest from its hash memo.
func (s *Service) Query(ctx context.Context, id domain.TransactionID) (domain.LedgerRecord, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	tx, ok, err := s.net.TransactionDetail(ctx, id)
	if err != nil || !ok {
		return domain.LedgerRecord{}, false, err
	}
	digest, err := DigestFromMemo(tx.MemoType, tx.Memo)
	if err != nil {
		return domain.LedgerRecord{}, false, fmt.Errorf("transaction %s: %w", id, err)
	}
	return domain.LedgerRecord{
		Hash:           tx.Hash,
		Ledger:         tx.Ledger,
		CreatedAt:      tx.CreatedAt,
		OperationCount: tx.OperationCount,
		Digest:         digest,
		SourceAccount:  tx.SourceAccount,
		Successful:     tx.Successful,
	}, true, nil
}

// DigestFromMemo decodes Horizon's base64 hash memo into a digest.
func DigestFromMemo(memoType, memo string) (domain.Digest, error) {
	if memoType != "hash" {
		return domain.Digest{}, fmt.Errorf("%w: memo type %q", domaintypes.ErrNoBindingMetadata, memoType)
	}
	raw, err := crypto.UnB64(memo)
	if err != nil {
		return domain.Digest{}, fmt.Errorf("%w: %v", domaintypes.ErrNoBindingMetadata, err)
	}
	return domaintypes.DigestFromBytes(raw)
}

var _ domain.Querier = (*Service)(nil)
