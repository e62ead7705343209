package crypto_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stellar/go/xdr"

	"redvalid/internal/crypto"
)

func newIdentity(t *testing.T) *crypto.ServiceIdentity {
	t.Helper()
	id, err := crypto.GenerateServiceIdentity()
	if err != nil {
		t.Fatalf("GenerateServiceIdentity: %v", err)
	}
	return id
}

func TestServiceIdentity_SeedRoundTrip(t *testing.T) {
	id := newIdentity(t)

	again, err := crypto.NewServiceIdentity(id.Seed())
	if err != nil {
		t.Fatalf("NewServiceIdentity: %v", err)
	}
	if again.Address() != id.Address() {
		t.Fatalf("address mismatch: %s vs %s", again.Address(), id.Address())
	}
	if !strings.HasPrefix(string(id.Address()), "G") {
		t.Fatalf("unexpected address %q", id.Address())
	}
}

func TestNewServiceIdentity_RejectsGarbage(t *testing.T) {
	_, err := crypto.NewServiceIdentity("not-a-seed")
	if !errors.Is(err, crypto.ErrInvalidSeed) {
		t.Fatalf("want ErrInvalidSeed, got %v", err)
	}
}

func TestServiceIdentity_StringHidesSeed(t *testing.T) {
	id := newIdentity(t)
	if strings.Contains(id.String(), id.Seed()) {
		t.Fatal("String leaked the seed")
	}
}

func TestHintFor_MatchesIdentityHint(t *testing.T) {
	id := newIdentity(t)
	hint, err := crypto.HintFor(id.Address())
	if err != nil {
		t.Fatalf("HintFor: %v", err)
	}
	if hint != id.Hint() {
		t.Fatalf("hint mismatch: %x vs %x", hint, id.Hint())
	}
}

func TestVerifyDecorated(t *testing.T) {
	id := newIdentity(t)
	other := newIdentity(t)
	payload := []byte("payload")

	sig, err := id.Sign(payload)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if err := crypto.VerifyDecorated(id.Address(), payload, []xdr.DecoratedSignature{sig}); err != nil {
		t.Fatalf("VerifyDecorated: %v", err)
	}

	// Wrong payload.
	if err := crypto.VerifyDecorated(id.Address(), []byte("other"), []xdr.DecoratedSignature{sig}); !errors.Is(err, crypto.ErrSignatureNotFound) {
		t.Fatalf("want ErrSignatureNotFound for other payload, got %v", err)
	}

	// Right hint, forged signature bytes.
	forged := xdr.DecoratedSignature{Hint: sig.Hint, Signature: make([]byte, 64)}
	if err := crypto.VerifyDecorated(id.Address(), payload, []xdr.DecoratedSignature{forged}); !errors.Is(err, crypto.ErrSignatureNotFound) {
		t.Fatalf("want ErrSignatureNotFound for forged signature, got %v", err)
	}

	// Signature by someone else.
	otherSig, err := other.Sign(payload)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if err := crypto.VerifyDecorated(id.Address(), payload, []xdr.DecoratedSignature{otherSig}); !errors.Is(err, crypto.ErrSignatureNotFound) {
		t.Fatalf("want ErrSignatureNotFound for other signer, got %v", err)
	}
}

func TestShortAddress(t *testing.T) {
	id := newIdentity(t)
	short := crypto.ShortAddress(id.Address())
	if len(short) != 11 || !strings.Contains(short, "...") {
		t.Fatalf("unexpected short address %q", short)
	}
}
