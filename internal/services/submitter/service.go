package submitter

import (
	"context"
	"errors"
	"time"

	"redvalid/internal/domain"
	domaintypes "redvalid/internal/domain/types"
	"redvalid/internal/log"
)

// DefaultTimeout bounds a submission when none is configured.
const DefaultTimeout = 60 * time.Second

// Service submits envelopes through a LedgerNetwork.
type Service struct {
	net       domain.LedgerNetwork
	validator domain.Validator
	timeout   time.Duration
}

// New returns a submitter. A zero timeout uses DefaultTimeout.
func New(net domain.LedgerNetwork, v domain.Validator, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{net: net, validator: v, timeout: timeout}
}

// Submit broadcasts envelope and waits for the network's verdict.
func (s *Service) Submit(ctx context.Context, envelope string) (domain.SubmitResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.net.SubmitTransaction(ctx, envelope)
	if err != nil {
		var (
			ne  *domaintypes.NetworkError
			rej *domaintypes.RejectedError
		)
		switch {
		case errors.As(err, &ne):
			log.Warn("submission outcome unknown", "error", err)
		case errors.As(err, &rej):
			log.Warn("submission rejected", "reason", rej.Reason(), "status", rej.Status)
		}
		return domain.SubmitResult{}, err
	}
	log.Info("submitted", "tx_id", res.Hash, "ledger", res.Ledger)
	return res, nil
}

// ValidateAndSubmit broadcasts envelope only if it passes validation.
func (s *Service) ValidateAndSubmit(
	ctx context.Context,
	envelope string,
	exp domain.Expectation,
) (domain.SubmitResult, error) {
	if err := s.validator.Validate(envelope, exp); err != nil {
		return domain.SubmitResult{}, err
	}
	return s.Submit(ctx, envelope)
}

var _ domain.Submitter = (*Service)(nil)
