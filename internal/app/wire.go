package app

import (
	"fmt"
	"os"
	"path/filepath"

	"redvalid/internal/domain"
	"redvalid/internal/horizon"
	"redvalid/internal/sequence"
	"redvalid/internal/services/attestation"
	"redvalid/internal/services/preparer"
	"redvalid/internal/services/querier"
	"redvalid/internal/services/submitter"
	"redvalid/internal/services/validator"
	"redvalid/internal/store"
)

// Wire bundles all stores, services, and clients for the CLI.
type Wire struct {
	Identity     domain.IdentityProvider
	Horizon      *horizon.HTTP
	Sequences    *sequence.Allocator
	Preparer     *preparer.Service
	Validator    *validator.Service
	Submitter    *submitter.Service
	Querier      *querier.Service
	Attestations *attestation.Service
	Store        *store.AttestationSQLStore
}

// NewWire constructs the dependency graph from cfg around id.
func NewWire(cfg *Config, id domain.IdentityProvider) (*Wire, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0o700); err != nil {
		return nil, err
	}
	st, err := store.OpenAttestationStore(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("attestation store: %w", err)
	}

	hz := NewHorizon(cfg)
	seqs := sequence.New(hz)

	prep := preparer.New(id, seqs, preparer.Config{
		Passphrase: cfg.Network.Passphrase,
		Amount:     cfg.Transaction.Amount,
		BaseFee:    cfg.Transaction.BaseFee,
		Window:     cfg.Transaction.SigningWindow,
	})
	val := validator.New(id.Address(), cfg.Network.Passphrase)
	sub := submitter.New(hz, val, cfg.Network.Timeout)
	q := querier.New(hz, cfg.Network.Timeout)

	return &Wire{
		Identity:     id,
		Horizon:      hz,
		Sequences:    seqs,
		Preparer:     prep,
		Validator:    val,
		Submitter:    sub,
		Querier:      q,
		Attestations: attestation.New(prep, sub, q, st, seqs, id.Address()),
		Store:        st,
	}, nil
}

// NewHorizon returns the Horizon client described by cfg.
func NewHorizon(cfg *Config) *horizon.HTTP {
	opts := []horizon.Option{horizon.WithFriendbot(cfg.Network.FriendbotURL)}
	if cfg.Network.Timeout > 0 {
		opts = append(opts, horizon.WithTimeout(cfg.Network.Timeout))
	}
	return horizon.NewHTTP(cfg.Network.HorizonURL, opts...)
}

// Close releases the attestation store.
func (w *Wire) Close() error { return w.Store.Close() }
