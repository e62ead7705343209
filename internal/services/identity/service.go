package identity

import (
	"fmt"
	"unicode"

	"redvalid/internal/crypto"
	"redvalid/internal/domain"
)

const (
	// minPassphraseLength defines the minimum number of characters required for a passphrase.
	minPassphraseLength = 12
)

var (
	// ErrWeakPassphrase is returned when the passphrase fails the strength policy.
	ErrWeakPassphrase = fmt.Errorf(
		"passphrase is too weak (must be at least %d characters and include upper, lower, "+
			"number, and symbol)",
		minPassphraseLength,
	)
)

// Service manages the service keypair using a backing seed store.
type Service struct {
	seeds domain.SeedStore
}

// New returns an identity service backed by the given store.
func New(s domain.SeedStore) *Service { return &Service{seeds: s} }

// GenerateIdentity creates a new keypair and saves its seed encrypted with
// the passphrase.
func (s *Service) GenerateIdentity(passphrase string) (domain.IdentityProvider, error) {
	if !isSecurePassphrase(passphrase) {
		return nil, ErrWeakPassphrase
	}
	id, err := crypto.GenerateServiceIdentity()
	if err != nil {
		return nil, err
	}
	if err := s.seeds.SaveSeed(passphrase, id.Seed()); err != nil {
		return nil, fmt.Errorf("save seed: %w", err)
	}
	return id, nil
}

// ImportIdentity stores an existing seed under the passphrase.
func (s *Service) ImportIdentity(passphrase, seed string) (domain.IdentityProvider, error) {
	if !isSecurePassphrase(passphrase) {
		return nil, ErrWeakPassphrase
	}
	id, err := crypto.NewServiceIdentity(seed)
	if err != nil {
		return nil, err
	}
	if err := s.seeds.SaveSeed(passphrase, id.Seed()); err != nil {
		return nil, fmt.Errorf("save seed: %w", err)
	}
	return id, nil
}

// LoadIdentity decrypts the stored seed.
func (s *Service) LoadIdentity(passphrase string) (domain.IdentityProvider, error) {
	seed, err := s.seeds.LoadSeed(passphrase)
	if err != nil {
		return nil, err
	}
	return crypto.NewServiceIdentity(seed)
}

// isSecurePassphrase enforces a basic strength policy.
func isSecurePassphrase(passphrase string) bool {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	if len(passphrase) < minPassphraseLength {
		return false
	}
	for _, r := range passphrase {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r), unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSymbol
}

// Compile-time assertion that Service implements domain.IdentityService.
var _ domain.IdentityService = (*Service)(nil)
