package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/zalando/go-keyring"

	"redvalid/internal/crypto"
	"redvalid/internal/domain"
)

// KeyringAccount is the keyring entry name holding the sealed seed.
const KeyringAccount = "service-seed"

// KeyringSeedStore keeps the sealed seed in the OS keyring.
//
// The keyring only ever sees the passphrase-encrypted blob.
type KeyringSeedStore struct {
	service string
	kdf     kdfParams
	mu      sync.Mutex
}

// NewKeyringSeedStore uses service as the keyring service name.
func NewKeyringSeedStore(service string) *KeyringSeedStore {
	return &KeyringSeedStore{service: service, kdf: defaultKDF()}
}

// SaveSeed seals seed and stores it, replacing any previous entry.
func (s *KeyringSeedStore) SaveSeed(passphrase string, seed string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw := []byte(seed)
	defer wipe(raw)
	blob, err := seal(passphrase, raw, s.kdf)
	if err != nil {
		return err
	}
	if err := keyring.Set(s.service, KeyringAccount, crypto.B64(blob)); err != nil {
		return fmt.Errorf("keyring set: %w", err)
	}
	return nil
}

// LoadSeed fetches and opens the sealed seed.
func (s *KeyringSeedStore) LoadSeed(passphrase string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	encoded, err := keyring.Get(s.service, KeyringAccount)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("%w in keyring service %q", ErrNoSeed, s.service)
	}
	if err != nil {
		return "", fmt.Errorf("keyring get: %w", err)
	}
	blob, err := crypto.UnB64(encoded)
	if err != nil {
		return "", fmt.Errorf("keyring entry encoding: %w", err)
	}
	pt, err := open(passphrase, blob)
	if err != nil {
		return "", err
	}
	defer wipe(pt)
	return string(pt), nil
}

// Delete removes the keyring entry.
func (s *KeyringSeedStore) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := keyring.Delete(s.service, KeyringAccount); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("keyring delete: %w", err)
	}
	return nil
}

var _ domain.SeedStore = (*KeyringSeedStore)(nil)
