package preparer

import (
	"context"
	"fmt"
	"time"

	"github.com/stellar/go/strkey"

	"redvalid/internal/crypto"
	"redvalid/internal/domain"
	domaintypes "redvalid/internal/domain/types"
	"redvalid/internal/log"
	"redvalid/internal/protocol/attestation"
)

// Config holds the transaction parameters that do not vary per call.
type Config struct {
	Passphrase string
	Amount     string        // defaults to one stroop
	BaseFee    int64         // defaults to the network minimum
	Window     time.Duration // zero leaves the transaction valid indefinitely
}

// Service prepares attestation transactions for one service identity.
type Service struct {
	id   domain.IdentityProvider
	seqs domain.SequenceAllocator
	cfg  Config
}

// New returns a preparer signing as id.
func New(id domain.IdentityProvider, seqs domain.SequenceAllocator, cfg Config) *Service {
	return &Service{id: id, seqs: seqs, cfg: cfg}
}

// Prepare builds and service-signs a transaction binding digest to counterparty.
func (s *Service) Prepare(
	ctx context.Context,
	counterparty domain.Address,
	digest domain.Digest,
) (domain.PreparedTransaction, error) {
	if !strkey.IsValidEd25519PublicKey(string(counterparty)) {
		return domain.PreparedTransaction{}, fmt.Errorf("%w: %q is not an account address",
			domaintypes.ErrIdentityRejected, counterparty)
	}
	service := s.id.Address()
	if counterparty == service {
		return domain.PreparedTransaction{}, fmt.Errorf("%w: counterparty is the service account",
			domaintypes.ErrIdentityRejected)
	}

	res, err := s.seqs.Next(ctx, service)
	if err != nil {
		return domain.PreparedTransaction{}, err
	}
	minSeq := res.MinSequence

	env, err := attestation.Build(attestation.Params{
		Service:      service,
		Counterparty: counterparty,
		Digest:       digest,
		Sequence:     res.Sequence,
		MinSequence:  &minSeq,
		Amount:       s.cfg.Amount,
		BaseFee:      s.cfg.BaseFee,
		Window:       s.cfg.Window,
	}, s.cfg.Passphrase)
	if err != nil {
		return domain.PreparedTransaction{}, err
	}
	id := env.ID()

	sig, err := s.id.Sign(env.Payload())
	if err != nil {
		return domain.PreparedTransaction{}, fmt.Errorf("sign: %w", err)
	}
	env.AddSignature(sig)
	b64, err := env.Encode()
	if err != nil {
		return domain.PreparedTransaction{}, err
	}

	log.Info("prepared attestation",
		"tx_id", id,
		"counterparty", crypto.ShortAddress(counterparty),
		"digest", digest.Hex(),
		"sequence", res.Sequence,
	)
	return domain.PreparedTransaction{
		Envelope:     b64,
		ID:           id,
		Digest:       digest,
		Counterparty: counterparty,
		FeePayer:     service,
		Sequence:     res.Sequence,
	}, nil
}

var _ domain.Preparer = (*Service)(nil)
