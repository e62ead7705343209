package domain

import (
	interfaces "redvalid/internal/domain/interfaces"
	types "redvalid/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	Address             = types.Address
	TransactionID       = types.TransactionID
	Digest              = types.Digest
	PreparedTransaction = types.PreparedTransaction
	Expectation         = types.Expectation
	SequenceReservation = types.SequenceReservation
	SubmitResult        = types.SubmitResult
	LedgerTransaction   = types.LedgerTransaction
	LedgerRecord        = types.LedgerRecord
	AttestationRecord   = types.AttestationRecord
	Status              = types.Status
	Verification        = types.Verification
	ValidationError     = types.ValidationError
	NetworkError        = types.NetworkError
	RejectedError       = types.RejectedError
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	IdentityProvider   = interfaces.IdentityProvider
	IdentityService    = interfaces.IdentityService
	LedgerNetwork      = interfaces.LedgerNetwork
	Funder             = interfaces.Funder
	SequenceAllocator  = interfaces.SequenceAllocator
	SeedStore          = interfaces.SeedStore
	AttestationStore   = interfaces.AttestationStore
	Preparer           = interfaces.Preparer
	Validator          = interfaces.Validator
	Submitter          = interfaces.Submitter
	Querier            = interfaces.Querier
	DigestProducer     = interfaces.DigestProducer
	AttestationService = interfaces.AttestationService
)
