package crypto

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/xdr"

	"redvalid/internal/domain"
	domaintypes "redvalid/internal/domain/types"
)

// ErrSignatureNotFound is returned when no signature in a set verifies for an address.
var ErrSignatureNotFound = errors.New("no valid signature for address")

// HintFor returns the signature hint of an address.
//
// Stellar takes the hint from the last four bytes of the raw public key.
func HintFor(addr domain.Address) ([4]byte, error) {
	kp, err := keypair.ParseAddress(string(addr))
	if err != nil {
		return [4]byte{}, fmt.Errorf("%w: %v", domaintypes.ErrIdentityRejected, err)
	}
	return kp.Hint(), nil
}

// VerifyDecorated looks for a signature by addr over payload.
//
// The hint narrows the candidates; every candidate is then verified with
// ed25519, so a matching hint with a bad signature does not count.
func VerifyDecorated(addr domain.Address, payload []byte, sigs []xdr.DecoratedSignature) error {
	kp, err := keypair.ParseAddress(string(addr))
	if err != nil {
		return fmt.Errorf("%w: %v", domaintypes.ErrIdentityRejected, err)
	}
	hint := kp.Hint()
	for _, sig := range sigs {
		if !bytes.Equal(sig.Hint[:], hint[:]) {
			continue
		}
		if kp.Verify(payload, sig.Signature) == nil {
			return nil
		}
	}
	return ErrSignatureNotFound
}

// ShortAddress renders an address as GABC...WXYZ for logs and tables.
func ShortAddress(addr domain.Address) string {
	s := string(addr)
	if len(s) <= 12 {
		return s
	}
	return s[:4] + "..." + s[len(s)-4:]
}
