package store

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"redvalid/internal/domain"
)

const seedFilename = "seed.enc"

// ErrNoSeed is returned when no seed has been stored yet.
var ErrNoSeed = errors.New("no service seed stored")

// SeedFileStore keeps the encrypted service seed in a file.
type SeedFileStore struct {
	dir string
	kdf kdfParams
	mu  sync.Mutex
}

// NewSeedFileStore returns a SeedFileStore rooted at dir.
func NewSeedFileStore(dir string) *SeedFileStore {
	return &SeedFileStore{dir: dir, kdf: defaultKDF()}
}

// Path returns the keystore file location.
func (s *SeedFileStore) Path() string { return filepath.Join(s.dir, seedFilename) }

// SaveSeed encrypts seed and writes it atomically.
func (s *SeedFileStore) SaveSeed(passphrase string, seed string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw := []byte(seed)
	defer wipe(raw)
	blob, err := seal(passphrase, raw, s.kdf)
	if err != nil {
		return err
	}
	return writeFile(s.Path(), blob, 0o600)
}

// LoadSeed reads and decrypts the seed.
func (s *SeedFileStore) LoadSeed(passphrase string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := readFile(s.Path())
	if err != nil {
		return "", err
	}
	if b == nil {
		return "", fmt.Errorf("%w at %s", ErrNoSeed, s.Path())
	}
	pt, err := open(passphrase, b)
	if err != nil {
		return "", err
	}
	defer wipe(pt)
	return string(pt), nil
}

var _ domain.SeedStore = (*SeedFileStore)(nil)
