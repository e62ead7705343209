package attestation

import (
	"fmt"
	"time"

	"github.com/stellar/go/strkey"
	"github.com/stellar/go/txnbuild"

	"redvalid/internal/domain"
	domaintypes "redvalid/internal/domain/types"
)

const (
	// DefaultAmount is one stroop, the smallest native amount.
	DefaultAmount = "0.0000001"
	// DefaultBaseFee is the network minimum per-operation fee in stroops.
	DefaultBaseFee int64 = txnbuild.MinBaseFee
)

// Params describes one attestation transaction.
type Params struct {
	Service      domain.Address
	Counterparty domain.Address
	Digest       domain.Digest

	// Sequence is used as-is for the transaction's sequence number.
	Sequence int64
	// MinSequence, when set, adds a min-seq-num precondition.
	MinSequence *int64

	Amount  string        // defaults to DefaultAmount
	BaseFee int64         // defaults to DefaultBaseFee
	Window  time.Duration // zero means no upper time bound
}

// Build assembles the unsigned attestation transaction.
func Build(p Params, passphrase string) (*Envelope, error) {
	if !strkey.IsValidEd25519PublicKey(string(p.Counterparty)) {
		return nil, fmt.Errorf("%w: counterparty %q is not an account address",
			domaintypes.ErrIdentityRejected, p.Counterparty)
	}
	if !strkey.IsValidEd25519PublicKey(string(p.Service)) {
		return nil, fmt.Errorf("%w: service %q is not an account address",
			domaintypes.ErrIdentityRejected, p.Service)
	}
	if p.Counterparty == p.Service {
		return nil, fmt.Errorf("%w: counterparty must differ from the service account",
			domaintypes.ErrIdentityRejected)
	}

	amount := p.Amount
	if amount == "" {
		amount = DefaultAmount
	}
	fee := p.BaseFee
	if fee == 0 {
		fee = DefaultBaseFee
	}
	bounds := txnbuild.NewInfiniteTimeout()
	if p.Window > 0 {
		bounds = txnbuild.NewTimeout(int64(p.Window / time.Second))
	}

	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount: &txnbuild.SimpleAccount{
			AccountID: string(p.Service),
			Sequence:  p.Sequence,
		},
		IncrementSequenceNum: false,
		BaseFee:              fee,
		Memo:                 txnbuild.MemoHash(p.Digest),
		Preconditions: txnbuild.Preconditions{
			TimeBounds:        bounds,
			MinSequenceNumber: p.MinSequence,
		},
		Operations: []txnbuild.Operation{
			&txnbuild.Payment{
				Destination:   string(p.Service),
				Amount:        amount,
				Asset:         txnbuild.NativeAsset{},
				SourceAccount: string(p.Counterparty),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("build transaction: %w", err)
	}
	return Wrap(tx.ToXDR(), passphrase)
}
