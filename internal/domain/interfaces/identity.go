package interfaces

import (
	"github.com/stellar/go/xdr"

	domaintypes "redvalid/internal/domain/types"
)

// IdentityProvider holds the service signing keypair.
//
// Implementations are immutable after construction and safe for concurrent use.
type IdentityProvider interface {
	Address() domaintypes.Address
	Hint() [4]byte
	Sign(payload []byte) (xdr.DecoratedSignature, error)
}
