package types

import "time"

// PreparedTransaction is a service-signed attestation transaction that still
// lacks the counterparty's signature.
type PreparedTransaction struct {
	Envelope     string        `json:"envelope"`
	ID           TransactionID `json:"id"`
	Digest       Digest        `json:"digest"`
	Counterparty Address       `json:"counterparty"`
	FeePayer     Address       `json:"fee_payer"`
	Sequence     int64         `json:"sequence"`
}

// Expectation is what a returned envelope must still match before broadcast.
type Expectation struct {
	Digest       Digest        `json:"digest"`
	Service      Address       `json:"service"`
	Counterparty Address       `json:"counterparty"`
	PreparedID   TransactionID `json:"prepared_id,omitempty"` // optional
}

// SequenceReservation is a sequence number handed out for one transaction.
//
// MinSequence is the account sequence observed on the network when the
// reservation was made; transactions carry it as a min-seq precondition so
// that an abandoned reservation does not block later ones.
type SequenceReservation struct {
	Sequence    int64 `json:"sequence"`
	MinSequence int64 `json:"min_sequence"`
}

// SubmitResult is what the network reports for an accepted transaction.
type SubmitResult struct {
	Hash   TransactionID `json:"hash"`
	Ledger int32         `json:"ledger"`
}

// LedgerTransaction is the raw network view of an included transaction.
type LedgerTransaction struct {
	Hash           TransactionID `json:"hash"`
	Ledger         int32         `json:"ledger"`
	CreatedAt      time.Time     `json:"created_at"`
	SourceAccount  Address       `json:"source_account"`
	OperationCount int32         `json:"operation_count"`
	MemoType       string        `json:"memo_type"`
	Memo           string        `json:"memo,omitempty"`
	Successful     bool          `json:"successful"`
}

// LedgerRecord is a confirmed anchoring with the digest recovered from the memo.
type LedgerRecord struct {
	Hash           TransactionID `json:"hash"`
	Ledger         int32         `json:"ledger"`
	CreatedAt      time.Time     `json:"created_at"`
	OperationCount int32         `json:"operation_count"`
	Digest         Digest        `json:"digest"`
	SourceAccount  Address       `json:"source_account"`
	Successful     bool          `json:"successful"`
}
