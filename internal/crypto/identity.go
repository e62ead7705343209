package crypto

import (
	"errors"
	"fmt"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/xdr"

	"redvalid/internal/domain"
)

// ErrInvalidSeed is returned when a secret seed does not decode.
var ErrInvalidSeed = errors.New("invalid secret seed")

// ServiceIdentity is the service's long-lived signing keypair.
//
// It is immutable after construction and safe for concurrent use; signing is
// a pure function of the key and the payload.
type ServiceIdentity struct {
	kp *keypair.Full
}

// NewServiceIdentity parses an S... secret seed.
func NewServiceIdentity(seed string) (*ServiceIdentity, error) {
	kp, err := keypair.ParseFull(seed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}
	return &ServiceIdentity{kp: kp}, nil
}

// GenerateServiceIdentity creates a fresh random keypair.
func GenerateServiceIdentity() (*ServiceIdentity, error) {
	kp, err := keypair.Random()
	if err != nil {
		return nil, err
	}
	return &ServiceIdentity{kp: kp}, nil
}

// Address returns the public G... address.
func (s *ServiceIdentity) Address() domain.Address { return domain.Address(s.kp.Address()) }

// Hint returns the 4-byte signature hint of the public key.
func (s *ServiceIdentity) Hint() [4]byte { return s.kp.Hint() }

// Sign signs payload and returns the signature decorated with the hint.
func (s *ServiceIdentity) Sign(payload []byte) (xdr.DecoratedSignature, error) {
	return s.kp.SignDecorated(payload)
}

// Seed returns the secret seed. Only key storage should call this.
func (s *ServiceIdentity) Seed() string { return s.kp.Seed() }

// String never reveals the seed.
func (s *ServiceIdentity) String() string { return "ServiceIdentity(" + s.kp.Address() + ")" }

var _ domain.IdentityProvider = (*ServiceIdentity)(nil)
