package types

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidDigest is returned when a digest is not exactly 32 bytes.
	ErrInvalidDigest = errors.New("invalid digest")
	// ErrIdentityRejected is returned for addresses that do not parse as accounts.
	ErrIdentityRejected = errors.New("identity rejected")
	// ErrNoBindingMetadata is returned when a ledger transaction carries no hash memo.
	ErrNoBindingMetadata = errors.New("transaction has no hash memo")
	// ErrContentInvalid is returned when content cannot be read for hashing.
	ErrContentInvalid = errors.New("content invalid")
	// ErrNotFound is returned by lookups with no matching record.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyAnchored is returned when a digest already has a live attestation.
	ErrAlreadyAnchored = errors.New("digest already anchored")
)

// Sentinels matched by ValidationError.Is for each Reason.
var (
	ErrMalformedEnvelope   = errors.New("malformed envelope")
	ErrDigestMismatch      = errors.New("digest mismatch")
	ErrNoOperation         = errors.New("no operation")
	ErrMalformedOperation  = errors.New("malformed operation")
	ErrWrongDestination    = errors.New("wrong destination")
	ErrUnauthorizedSource  = errors.New("unauthorized source")
	ErrMissingSignature    = errors.New("missing signature")
	ErrTransactionMismatch = errors.New("transaction mismatch")
)

// Reason names a validation failure.
type Reason string

const (
	ReasonMalformedEnvelope   Reason = "malformed_envelope"
	ReasonDigestMismatch      Reason = "digest_mismatch"
	ReasonNoOperation         Reason = "no_operation"
	ReasonMalformedOperation  Reason = "malformed_operation"
	ReasonWrongDestination    Reason = "wrong_destination"
	ReasonUnauthorizedSource  Reason = "unauthorized_source"
	ReasonMissingSignature    Reason = "missing_signature"
	ReasonTransactionMismatch Reason = "transaction_mismatch"
)

var reasonSentinels = map[Reason]error{
	ReasonMalformedEnvelope:   ErrMalformedEnvelope,
	ReasonDigestMismatch:      ErrDigestMismatch,
	ReasonNoOperation:         ErrNoOperation,
	ReasonMalformedOperation:  ErrMalformedOperation,
	ReasonWrongDestination:    ErrWrongDestination,
	ReasonUnauthorizedSource:  ErrUnauthorizedSource,
	ReasonMissingSignature:    ErrMissingSignature,
	ReasonTransactionMismatch: ErrTransactionMismatch,
}

// Party identifies which signer a MissingSignature refers to.
type Party string

const (
	PartyService      Party = "service"
	PartyCounterparty Party = "counterparty"
)

// ValidationError is a local, non-retryable verdict on a returned envelope.
type ValidationError struct {
	Reason Reason
	Who    Party // set for ReasonMissingSignature
	Detail string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("validation: ")
	b.WriteString(string(e.Reason))
	if e.Who != "" {
		b.WriteString("(" + string(e.Who) + ")")
	}
	if e.Detail != "" {
		b.WriteString(": " + e.Detail)
	}
	return b.String()
}

// Is lets errors.Is match the per-reason sentinels.
func (e *ValidationError) Is(target error) bool {
	return reasonSentinels[e.Reason] == target
}

// Rejected builds a ValidationError with a formatted detail.
func Rejected(reason Reason, format string, args ...any) *ValidationError {
	return &ValidationError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// MissingSignature builds the MissingSignature(who) verdict.
func MissingSignature(who Party) *ValidationError {
	return &ValidationError{Reason: ReasonMissingSignature, Who: who}
}

// NetworkError is a connectivity failure whose outcome is unknown.
//
// When Requery is set the caller must look the transaction up by id before
// deciding anything; resubmitting is never safe.
type NetworkError struct {
	Op      string
	Requery bool
	Err     error
}

func (e *NetworkError) Error() string {
	msg := "network " + e.Op + ": " + e.Err.Error()
	if e.Requery {
		msg += " (outcome unknown, re-query by transaction id)"
	}
	return msg
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RejectedError is an explicit, terminal refusal by the ledger network.
type RejectedError struct {
	Op              string
	Status          int
	Title           string
	Detail          string
	TransactionCode string
	OperationCodes  []string
}

func (e *RejectedError) Error() string {
	msg := fmt.Sprintf("rejected by network %s: %d %s", e.Op, e.Status, e.Title)
	if e.TransactionCode != "" {
		msg += " [" + e.TransactionCode
		if len(e.OperationCodes) > 0 {
			msg += " " + strings.Join(e.OperationCodes, ",")
		}
		msg += "]"
	}
	return msg
}

// BadSequence reports whether the refusal was caused by a stale sequence number.
func (e *RejectedError) BadSequence() bool { return e.TransactionCode == "tx_bad_seq" }

// Reason returns the most specific result code available.
func (e *RejectedError) Reason() string {
	for _, c := range e.OperationCodes {
		if c != "" && c != "op_success" {
			return c
		}
	}
	if e.TransactionCode != "" {
		return e.TransactionCode
	}
	return e.Title
}
