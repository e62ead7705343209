package types

import "time"

// Status tracks where an attestation is in its lifecycle.
type Status string

const (
	StatusPrepared  Status = "prepared"
	StatusSubmitted Status = "submitted"
	StatusConfirmed Status = "confirmed"
	StatusFailed    Status = "failed"
)

// Final reports whether the digest is anchored or about to be.
func (s Status) Final() bool { return s == StatusSubmitted || s == StatusConfirmed }

// AttestationRecord is the durable bookkeeping for one prepared transaction.
type AttestationRecord struct {
	ID            string        `json:"id"`
	TransactionID TransactionID `json:"transaction_id"`
	Digest        Digest        `json:"digest"`
	Counterparty  Address       `json:"counterparty"`
	Status        Status        `json:"status"`
	NetworkTxID   TransactionID `json:"network_tx_id,omitempty"`
	Ledger        int32         `json:"ledger,omitempty"`
	Failure       string        `json:"failure,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// VerificationState summarises what the network says about an attestation.
type VerificationState string

const (
	// VerificationAnchored means the transaction is in a closed ledger.
	VerificationAnchored VerificationState = "VERIFIED_ON_STELLAR"
	// VerificationPending means the network has no record yet.
	VerificationPending VerificationState = "PROCESSING_ON_BLOCKCHAIN"
	// VerificationFailed means the transaction was included but did not succeed.
	VerificationFailed VerificationState = "FAILED_ON_STELLAR"
)

// Verification is the outcome of checking an attestation against the ledger.
type Verification struct {
	State       VerificationState  `json:"state"`
	Record      *LedgerRecord      `json:"record,omitempty"`
	Attestation *AttestationRecord `json:"attestation,omitempty"`
}
