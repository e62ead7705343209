package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"redvalid/internal/crypto"
	"redvalid/internal/domain"
	"redvalid/internal/services/identity"
	"redvalid/internal/store"
)

// ErrNoEnvSecret is returned when the env identity source has no seed to read.
var ErrNoEnvSecret = fmt.Errorf("%s is not set", EnvSecret)

// App holds what commands need before the service identity is unlocked.
type App struct {
	Config   *Config
	IDs      *identity.Service
	Profiles *store.ProfileFileStore
}

// New builds the identity side of the app from cfg.
func New(cfg *Config) *App {
	return &App{
		Config:   cfg,
		IDs:      identity.New(SeedStore(cfg)),
		Profiles: store.NewProfileFileStore(cfg.Home),
	}
}

// SeedStore returns the seed store selected by the identity source. The env
// source has no store of its own and falls back to the keystore file.
func SeedStore(cfg *Config) domain.SeedStore {
	if cfg.Service.IdentitySource == SourceKeyring {
		return store.NewKeyringSeedStore(cfg.Service.KeyringService)
	}
	return store.NewSeedFileStore(cfg.Home)
}

// Identity unlocks the service identity from the configured source.
func (a *App) Identity(passphrase string) (domain.IdentityProvider, error) {
	if a.Config.Service.IdentitySource == SourceEnv {
		seed := strings.TrimSpace(os.Getenv(EnvSecret))
		if seed == "" {
			return nil, ErrNoEnvSecret
		}
		return crypto.NewServiceIdentity(seed)
	}
	if passphrase == "" {
		return nil, errors.New("passphrase required to unlock the service identity")
	}
	return a.IDs.LoadIdentity(passphrase)
}

// Remember records the public profile of id.
func (a *App) Remember(id domain.IdentityProvider, at time.Time) error {
	return a.Profiles.SaveProfile(store.Profile{
		Address:   id.Address(),
		Source:    a.Config.Service.IdentitySource,
		Network:   a.Config.Network.Passphrase,
		CreatedAt: at.UTC(),
	})
}

// Address returns the service address without unlocking the seed.
func (a *App) Address() (domain.Address, error) {
	p, ok, err := a.Profiles.LoadProfile()
	if err != nil {
		return "", err
	}
	if ok {
		return p.Address, nil
	}
	if a.Config.Service.IdentitySource == SourceEnv {
		id, err := a.Identity("")
		if err != nil {
			return "", err
		}
		return id.Address(), nil
	}
	return "", errors.New("no service identity; run keygen first")
}
