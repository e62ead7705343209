package interfaces

import domaintypes "redvalid/internal/domain/types"

// SeedStore persists the service secret seed under a passphrase.
type SeedStore interface {
	SaveSeed(passphrase string, seed string) error
	LoadSeed(passphrase string) (string, error)
}

// AttestationStore is the persistence collaborator for attestation records.
type AttestationStore interface {
	RecordPrepared(
		id domaintypes.TransactionID,
		digest domaintypes.Digest,
		counterparty domaintypes.Address,
	) (domaintypes.AttestationRecord, error)
	RecordSubmitted(id domaintypes.TransactionID, networkID domaintypes.TransactionID, ledger int32) error
	RecordFailed(id domaintypes.TransactionID, reason string) error
	RecordConfirmed(id domaintypes.TransactionID, rec domaintypes.LedgerRecord) error
	// LookupByDigest returns the most recent record for digest.
	LookupByDigest(digest domaintypes.Digest) (domaintypes.AttestationRecord, bool, error)
	// LookupAnchored returns any submitted or confirmed record for digest
	// other than the one prepared as except.
	LookupAnchored(
		digest domaintypes.Digest,
		except domaintypes.TransactionID,
	) (domaintypes.AttestationRecord, bool, error)
	// LookupByTransaction matches either the prepared id or the network id.
	LookupByTransaction(id domaintypes.TransactionID) (domaintypes.AttestationRecord, bool, error)
}
