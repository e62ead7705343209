package attestation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"redvalid/internal/crypto"
	"redvalid/internal/domain"
	domaintypes "redvalid/internal/domain/types"
	"redvalid/internal/log"
)

// Service implements domain.AttestationService.
type Service struct {
	preparer  domain.Preparer
	submitter domain.Submitter
	querier   domain.Querier
	store     domain.AttestationStore
	seqs      domain.SequenceAllocator
	service   domain.Address

	mu      sync.Mutex
	pending map[domain.Digest]*digestLock
}

type digestLock struct {
	mu   sync.Mutex
	refs int
}

// New wires the orchestrator. seqs may be nil when sequence watermarks are
// not shared with the preparer.
func New(
	p domain.Preparer,
	sub domain.Submitter,
	q domain.Querier,
	store domain.AttestationStore,
	seqs domain.SequenceAllocator,
	service domain.Address,
) *Service {
	return &Service{
		preparer:  p,
		submitter: sub,
		querier:   q,
		store:     store,
		seqs:      seqs,
		service:   service,
		pending:   make(map[domain.Digest]*digestLock),
	}
}

// lockDigest serialises submissions that share a digest.
func (s *Service) lockDigest(d domain.Digest) func() {
	s.mu.Lock()
	l, ok := s.pending[d]
	if !ok {
		l = &digestLock{}
		s.pending[d] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		if l.refs--; l.refs == 0 {
			delete(s.pending, d)
		}
		s.mu.Unlock()
	}
}

// Prepare builds a service-signed transaction for digest and records it.
func (s *Service) Prepare(
	ctx context.Context,
	counterparty domain.Address,
	digest domain.Digest,
) (domain.PreparedTransaction, error) {
	prev, ok, err := s.store.LookupAnchored(digest, "")
	if err != nil {
		return domain.PreparedTransaction{}, err
	}
	if ok {
		return domain.PreparedTransaction{}, anchoredError(prev)
	}

	tx, err := s.preparer.Prepare(ctx, counterparty, digest)
	if err != nil {
		return domain.PreparedTransaction{}, err
	}
	if _, err := s.store.RecordPrepared(tx.ID, tx.Digest, tx.Counterparty); err != nil {
		return domain.PreparedTransaction{}, fmt.Errorf("record prepared: %w", err)
	}
	return tx, nil
}

// Submit validates envelope against the prepared record and broadcasts it.
func (s *Service) Submit(
	ctx context.Context,
	preparedID domain.TransactionID,
	envelope string,
) (domain.AttestationRecord, error) {
	rec, err := s.requireRecord(preparedID)
	if err != nil {
		return domain.AttestationRecord{}, err
	}
	unlock := s.lockDigest(rec.Digest)
	defer unlock()
	if rec, err = s.requireRecord(preparedID); err != nil {
		return domain.AttestationRecord{}, err
	}
	switch {
	case rec.Status.Final():
		return rec, nil
	case rec.Status == domaintypes.StatusFailed:
		return rec, fmt.Errorf("attestation %s already failed: %s", preparedID, rec.Failure)
	}

	lg := log.With("tx_id", preparedID, "counterparty", crypto.ShortAddress(rec.Counterparty))

	prev, ok, err := s.store.LookupAnchored(rec.Digest, preparedID)
	if err != nil {
		return domain.AttestationRecord{}, err
	}
	if ok {
		if ferr := s.store.RecordFailed(preparedID, "already_anchored"); ferr != nil {
			lg.Error("recording failure", "error", ferr)
		}
		lg.Warn("digest already anchored", "anchor", displayID(prev))
		return domain.AttestationRecord{}, anchoredError(prev)
	}

	res, err := s.submitter.ValidateAndSubmit(ctx, envelope, domain.Expectation{
		Digest:       rec.Digest,
		Service:      s.service,
		Counterparty: rec.Counterparty,
		PreparedID:   preparedID,
	})
	if err != nil {
		var (
			ve  *domaintypes.ValidationError
			rej *domaintypes.RejectedError
			ne  *domaintypes.NetworkError
		)
		switch {
		case errors.As(err, &ve):
			// The counterparty may still return a correct envelope.
			lg.Warn("envelope rejected", "reason", ve.Reason)
		case errors.As(err, &rej):
			if rej.BadSequence() && s.seqs != nil {
				s.seqs.Forget(s.service)
			}
			if ferr := s.store.RecordFailed(preparedID, rej.Reason()); ferr != nil {
				lg.Error("recording failure", "error", ferr)
			}
			lg.Warn("attestation failed", "reason", rej.Reason())
		case errors.As(err, &ne):
			lg.Warn("attestation outcome unknown; reconcile before retrying", "error", err)
		}
		return domain.AttestationRecord{}, err
	}

	if err := s.store.RecordSubmitted(preparedID, res.Hash, res.Ledger); err != nil {
		return domain.AttestationRecord{}, fmt.Errorf("record submitted: %w", err)
	}
	lg.Info("attestation submitted", "ledger", res.Ledger)
	return s.requireRecord(preparedID)
}

// Verify reads id back from the ledger. id may be a prepared id, a network
// id, or a transaction this service never recorded.
func (s *Service) Verify(ctx context.Context, id domain.TransactionID) (domain.Verification, error) {
	rec, known, err := s.store.LookupByTransaction(id)
	if err != nil {
		return domain.Verification{}, err
	}
	queryID := id
	if known && rec.NetworkTxID != "" {
		queryID = rec.NetworkTxID
	}

	lr, ok, err := s.querier.Query(ctx, queryID)
	if err != nil {
		return domain.Verification{}, err
	}
	if !ok {
		v := domain.Verification{State: domaintypes.VerificationPending}
		if known {
			v.Attestation = &rec
		}
		return v, nil
	}
	if !known {
		return verification(lr, nil), nil
	}

	if lr.Digest != rec.Digest {
		return domain.Verification{}, fmt.Errorf("%w: ledger carries %s, recorded %s",
			domaintypes.ErrDigestMismatch, lr.Digest.Hex(), rec.Digest.Hex())
	}
	switch {
	case !lr.Successful && rec.Status != domaintypes.StatusFailed:
		err = s.store.RecordFailed(rec.TransactionID, "tx_failed")
	case lr.Successful && rec.Status != domaintypes.StatusConfirmed:
		err = s.store.RecordConfirmed(rec.TransactionID, lr)
	}
	if err != nil {
		return domain.Verification{}, err
	}
	if rec, err = s.requireRecord(rec.TransactionID); err != nil {
		return domain.Verification{}, err
	}
	log.Debug("verified", "tx_id", rec.TransactionID, "ledger", lr.Ledger, "status", rec.Status)
	return verification(lr, &rec), nil
}

// Reconcile verifies a recorded attestation by its prepared id.
func (s *Service) Reconcile(ctx context.Context, preparedID domain.TransactionID) (domain.Verification, error) {
	rec, err := s.requireRecord(preparedID)
	if err != nil {
		return domain.Verification{}, err
	}
	return s.Verify(ctx, rec.TransactionID)
}

// Status returns the latest record for digest.
func (s *Service) Status(digest domain.Digest) (domain.AttestationRecord, bool, error) {
	return s.store.LookupByDigest(digest)
}

func (s *Service) requireRecord(id domain.TransactionID) (domain.AttestationRecord, error) {
	rec, ok, err := s.store.LookupByTransaction(id)
	if err != nil {
		return domain.AttestationRecord{}, err
	}
	if !ok {
		return domain.AttestationRecord{}, fmt.Errorf("attestation %s: %w", id, domaintypes.ErrNotFound)
	}
	return rec, nil
}

func verification(lr domain.LedgerRecord, rec *domain.AttestationRecord) domain.Verification {
	state := domaintypes.VerificationAnchored
	if !lr.Successful {
		state = domaintypes.VerificationFailed
	}
	return domain.Verification{State: state, Record: &lr, Attestation: rec}
}

func anchoredError(prev domain.AttestationRecord) error {
	return fmt.Errorf("%w: %s is %s in %s",
		domaintypes.ErrAlreadyAnchored, prev.Digest.Hex(), prev.Status, displayID(prev))
}

func displayID(r domain.AttestationRecord) domain.TransactionID {
	if r.NetworkTxID != "" {
		return r.NetworkTxID
	}
	return r.TransactionID
}

var _ domain.AttestationService = (*Service)(nil)
