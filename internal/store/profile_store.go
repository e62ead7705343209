package store

import (
	"path/filepath"
	"sync"
	"time"

	"redvalid/internal/domain"
)

const profileFilename = "identity.json"

// Profile is the public half of the service identity, readable without a
// passphrase.
type Profile struct {
	Address   domain.Address `json:"address"`
	Source    string         `json:"source"`
	Network   string         `json:"network"`
	CreatedAt time.Time      `json:"created_at"`
}

// ProfileFileStore persists the identity profile as JSON.
type ProfileFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewProfileFileStore returns a ProfileFileStore rooted at dir.
func NewProfileFileStore(dir string) *ProfileFileStore {
	return &ProfileFileStore{dir: dir}
}

// SaveProfile writes p, replacing any previous profile.
func (s *ProfileFileStore) SaveProfile(p Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeJSON(filepath.Join(s.dir, profileFilename), p, 0o600)
}

// LoadProfile returns the stored profile; ok is false when none exists.
func (s *ProfileFileStore) LoadProfile() (Profile, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var p Profile
	if err := readJSON(filepath.Join(s.dir, profileFilename), &p); err != nil {
		return Profile{}, false, err
	}
	return p, p.Address != "", nil
}
