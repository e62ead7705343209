package attestation

import (
	"bytes"
	"errors"

	"github.com/stellar/go/amount"
	"github.com/stellar/go/xdr"

	"redvalid/internal/crypto"
	"redvalid/internal/domain"
	domaintypes "redvalid/internal/domain/types"
)

// Validate checks a co-signed envelope against what the service prepared.
//
// Checks run in a fixed order and stop at the first failure:
//  1. hash memo equals exp.Digest
//  2. at least one operation
//  3. first operation is a native payment with a destination and a positive amount
//  4. payment destination is exp.Service
//  5. operation source is exp.Counterparty
//  6. valid signatures by exp.Service and exp.Counterparty
//  7. when exp.PreparedID is set, the transaction id equals it
//
// Validate does no I/O; the same inputs always give the same verdict.
func Validate(env *Envelope, exp domain.Expectation) error {
	memo := env.env.Memo()
	hash, ok := memo.GetHash()
	if !ok {
		return domaintypes.Rejected(domaintypes.ReasonDigestMismatch, "memo type %s is not a hash memo", memo.Type)
	}
	if !bytes.Equal(hash[:], exp.Digest[:]) {
		return domaintypes.Rejected(domaintypes.ReasonDigestMismatch, "memo does not carry digest %s", exp.Digest.Hex())
	}

	ops := env.env.Operations()
	if len(ops) == 0 {
		return &domaintypes.ValidationError{Reason: domaintypes.ReasonNoOperation}
	}
	op := ops[0]

	pay, ok := op.Body.GetPaymentOp()
	if !ok {
		return domaintypes.Rejected(domaintypes.ReasonMalformedOperation, "first operation is %s, want payment", op.Body.Type)
	}
	dest, err := accountOf(pay.Destination)
	if err != nil || dest == "" {
		return domaintypes.Rejected(domaintypes.ReasonMalformedOperation, "payment has no destination")
	}
	if pay.Amount <= 0 {
		return domaintypes.Rejected(domaintypes.ReasonMalformedOperation, "payment amount %s is not positive", amount.String(pay.Amount))
	}
	if pay.Asset.Type != xdr.AssetTypeAssetTypeNative {
		return domaintypes.Rejected(domaintypes.ReasonMalformedOperation, "payment asset is not native")
	}

	if dest != exp.Service {
		return domaintypes.Rejected(domaintypes.ReasonWrongDestination, "destination %s", dest)
	}

	if op.SourceAccount == nil {
		return domaintypes.Rejected(domaintypes.ReasonUnauthorizedSource, "operation has no source account")
	}
	src, err := accountOf(*op.SourceAccount)
	if err != nil || src != exp.Counterparty {
		return domaintypes.Rejected(domaintypes.ReasonUnauthorizedSource, "operation source %s", src)
	}

	sigs := env.Signatures()
	payload := env.hash[:]
	if err := crypto.VerifyDecorated(exp.Service, payload, sigs); err != nil {
		return domaintypes.MissingSignature(domaintypes.PartyService)
	}
	if err := crypto.VerifyDecorated(exp.Counterparty, payload, sigs); err != nil {
		return domaintypes.MissingSignature(domaintypes.PartyCounterparty)
	}

	if exp.PreparedID != "" && env.ID() != exp.PreparedID {
		return domaintypes.Rejected(domaintypes.ReasonTransactionMismatch, "transaction %s, prepared %s", env.ID(), exp.PreparedID)
	}
	return nil
}

// ValidateEnvelope decodes b64 and runs Validate.
func ValidateEnvelope(b64, passphrase string, exp domain.Expectation) error {
	env, err := Decode(b64, passphrase)
	if err != nil {
		return err
	}
	return Validate(env, exp)
}

// IsRejection reports whether err is a validation verdict rather than a fault.
func IsRejection(err error) bool {
	var ve *domaintypes.ValidationError
	return errors.As(err, &ve)
}

// accountOf resolves a possibly multiplexed account to its G... address.
func accountOf(m xdr.MuxedAccount) (domain.Address, error) {
	id := m.ToAccountId()
	addr, err := id.GetAddress()
	if err != nil {
		return "", err
	}
	return domain.Address(addr), nil
}
