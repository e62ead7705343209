package identity_test

import (
	"errors"
	"testing"

	"redvalid/internal/crypto"
	"redvalid/internal/services/identity"
	"redvalid/internal/store"
)

const strong = "Correct-Horse-42"

func TestGenerateAndLoad(t *testing.T) {
	svc := identity.New(store.NewSeedFileStore(t.TempDir()))

	id, err := svc.GenerateIdentity(strong)
	if err != nil {
		t.Fatalf("GenerateIdentity: %v", err)
	}
	loaded, err := svc.LoadIdentity(strong)
	if err != nil {
		t.Fatalf("LoadIdentity: %v", err)
	}
	if loaded.Address() != id.Address() {
		t.Fatalf("address mismatch: %s vs %s", loaded.Address(), id.Address())
	}
}

func TestGenerate_WeakPassphrase(t *testing.T) {
	svc := identity.New(store.NewSeedFileStore(t.TempDir()))
	for _, p := range []string{"short1!A", "alllowercase-123", "NoDigitsHere!!", "NoSymbols12345"} {
		if _, err := svc.GenerateIdentity(p); !errors.Is(err, identity.ErrWeakPassphrase) {
			t.Errorf("%q: want ErrWeakPassphrase, got %v", p, err)
		}
	}
}

func TestImportIdentity(t *testing.T) {
	existing, err := crypto.GenerateServiceIdentity()
	if err != nil {
		t.Fatalf("GenerateServiceIdentity: %v", err)
	}
	svc := identity.New(store.NewSeedFileStore(t.TempDir()))

	if _, err := svc.ImportIdentity(strong, "SNOTASEED"); !errors.Is(err, crypto.ErrInvalidSeed) {
		t.Fatalf("want ErrInvalidSeed, got %v", err)
	}
	if _, err := svc.ImportIdentity(strong, existing.Seed()); err != nil {
		t.Fatalf("ImportIdentity: %v", err)
	}
	loaded, err := svc.LoadIdentity(strong)
	if err != nil {
		t.Fatalf("LoadIdentity: %v", err)
	}
	if loaded.Address() != existing.Address() {
		t.Fatal("imported identity not returned by LoadIdentity")
	}
}

func TestLoad_WrongPassphrase(t *testing.T) {
	svc := identity.New(store.NewSeedFileStore(t.TempDir()))
	if _, err := svc.GenerateIdentity(strong); err != nil {
		t.Fatalf("GenerateIdentity: %v", err)
	}
	if _, err := svc.LoadIdentity("Wrong-Horse-42"); !errors.Is(err, store.ErrWrongPassphrase) {
		t.Fatalf("want ErrWrongPassphrase, got %v", err)
	}
}
