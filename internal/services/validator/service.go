package validator

import (
	"redvalid/internal/domain"
	"redvalid/internal/log"
	"redvalid/internal/protocol/attestation"
)

// Service validates envelopes for one service account on one network.
type Service struct {
	service    domain.Address
	passphrase string
}

// New returns a validator expecting payments to service.
func New(service domain.Address, passphrase string) *Service {
	return &Service{service: service, passphrase: passphrase}
}

// Validate returns nil only if envelope is the faithful, fully signed
// attestation described by exp. exp.Service defaults to the bound service.
func (s *Service) Validate(envelope string, exp domain.Expectation) error {
	if exp.Service == "" {
		exp.Service = s.service
	}
	err := attestation.ValidateEnvelope(envelope, s.passphrase, exp)
	if err != nil {
		log.Debug("envelope rejected", "digest", exp.Digest.Hex(), "error", err)
	}
	return err
}

var _ domain.Validator = (*Service)(nil)
