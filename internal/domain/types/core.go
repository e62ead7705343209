package types

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Address is a strkey-encoded account identifier (G...).
type Address string

// String returns the string form of the address.
func (a Address) String() string { return string(a) }

// TransactionID is the hex-encoded network hash of a transaction.
//
// It is computed over the signature payload (network id + transaction body), so
// it is identical before and after signatures are attached.
type TransactionID string

// String returns the string form of the transaction id.
func (id TransactionID) String() string { return string(id) }

// ParseTransactionID normalises a 64-character hex transaction id.
func ParseTransactionID(s string) (TransactionID, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 64 {
		return "", fmt.Errorf("transaction id: want 64 hex characters, got %d", len(s))
	}
	if _, err := hex.DecodeString(s); err != nil {
		return "", fmt.Errorf("transaction id: %w", err)
	}
	return TransactionID(s), nil
}
