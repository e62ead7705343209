package ledgerstub

import (
	"time"

	"redvalid/internal/horizon"
)

// FriendbotStroops is what friendbot gives a new account (10,000 XLM).
const FriendbotStroops int64 = 10_000 * 10_000_000

type account struct {
	balance  int64
	sequence int64
}

type record struct {
	tx    horizon.Transaction
	codes horizon.ResultCodes
}

// ResultError is a refused submission.
type ResultError struct {
	Status int
	Codes  horizon.ResultCodes
}

func (e *ResultError) Error() string {
	if len(e.Codes.Operations) > 0 {
		return e.Codes.Transaction + " " + e.Codes.Operations[0]
	}
	return e.Codes.Transaction
}

func txError(code string) *ResultError {
	return &ResultError{Status: 400, Codes: horizon.ResultCodes{Transaction: code}}
}

func opError(codes []string) *ResultError {
	return &ResultError{Status: 400, Codes: horizon.ResultCodes{Transaction: "tx_failed", Operations: codes}}
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(l *Ledger) { l.now = now } }

// WithBaseFee sets the minimum fee per operation in stroops.
func WithBaseFee(fee int64) Option { return func(l *Ledger) { l.baseFee = fee } }
