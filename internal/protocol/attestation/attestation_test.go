package attestation_test

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/network"
	"github.com/stellar/go/xdr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redvalid/internal/crypto"
	"redvalid/internal/domain"
	domaintypes "redvalid/internal/domain/types"
	"redvalid/internal/protocol/attestation"
)

const passphrase = network.TestNetworkPassphrase

var hexID = regexp.MustCompile(`^[0-9a-f]{64}$`)

type fixture struct {
	service      *crypto.ServiceIdentity
	counterparty *keypair.Full
	digest       domain.Digest
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	svc, err := crypto.GenerateServiceIdentity()
	require.NoError(t, err)
	cp, err := keypair.Random()
	require.NoError(t, err)
	var d domain.Digest
	for i := range d {
		d[i] = byte(i + 1)
	}
	return fixture{service: svc, counterparty: cp, digest: d}
}

func (f fixture) expectation() domain.Expectation {
	return domain.Expectation{
		Digest:       f.digest,
		Service:      f.service.Address(),
		Counterparty: domain.Address(f.counterparty.Address()),
	}
}

// prepare builds and service-signs, returning the base64 envelope and id.
func (f fixture) prepare(t *testing.T) (string, domain.TransactionID) {
	t.Helper()
	env, err := attestation.Build(attestation.Params{
		Service:      f.service.Address(),
		Counterparty: domain.Address(f.counterparty.Address()),
		Digest:       f.digest,
		Sequence:     42,
	}, passphrase)
	require.NoError(t, err)
	id := env.ID()
	sig, err := f.service.Sign(env.Payload())
	require.NoError(t, err)
	env.AddSignature(sig)
	b64, err := env.Encode()
	require.NoError(t, err)
	return b64, id
}

func (f fixture) cosign(t *testing.T, b64 string) string {
	t.Helper()
	out, err := attestation.SignEnvelope(b64, passphrase, f.counterparty.Seed())
	require.NoError(t, err)
	return out
}

// mutate decodes b64 into a fresh envelope, applies fn and re-wraps it.
func mutate(t *testing.T, b64 string, fn func(env *xdr.TransactionEnvelope)) *attestation.Envelope {
	t.Helper()
	var env xdr.TransactionEnvelope
	require.NoError(t, xdr.SafeUnmarshalBase64(b64, &env))
	fn(&env)
	out, err := attestation.Wrap(env, passphrase)
	require.NoError(t, err)
	return out
}

func requireReason(t *testing.T, err error, reason domaintypes.Reason) *domaintypes.ValidationError {
	t.Helper()
	var ve *domaintypes.ValidationError
	require.True(t, errors.As(err, &ve), "want *ValidationError, got %v", err)
	require.Equal(t, reason, ve.Reason, ve.Error())
	return ve
}

func TestServiceSignedOnly_MissingCounterpartySignature(t *testing.T) {
	f := newFixture(t)
	b64, _ := f.prepare(t)

	err := attestation.ValidateEnvelope(b64, passphrase, f.expectation())
	ve := requireReason(t, err, domaintypes.ReasonMissingSignature)
	assert.Equal(t, domaintypes.PartyCounterparty, ve.Who)
	assert.ErrorIs(t, err, domaintypes.ErrMissingSignature)
}

func TestFullyCoSigned_Valid(t *testing.T) {
	f := newFixture(t)
	b64, id := f.prepare(t)
	signed := f.cosign(t, b64)

	exp := f.expectation()
	exp.PreparedID = id
	assert.NoError(t, attestation.ValidateEnvelope(signed, passphrase, exp))
}

func TestTransactionID_StableAcrossSigning(t *testing.T) {
	f := newFixture(t)
	b64, id := f.prepare(t)
	assert.Regexp(t, hexID, string(id))

	decoded, err := attestation.Decode(b64, passphrase)
	require.NoError(t, err)
	assert.Equal(t, id, decoded.ID())

	signed, err := attestation.Decode(f.cosign(t, b64), passphrase)
	require.NoError(t, err)
	assert.Equal(t, id, signed.ID())
	assert.Len(t, signed.Signatures(), 2)
}

func TestFlippedMemoByte_DigestMismatch(t *testing.T) {
	f := newFixture(t)
	b64, _ := f.prepare(t)
	signed := f.cosign(t, b64)

	for i := 0; i < domaintypes.DigestSize; i++ {
		env := mutate(t, signed, func(env *xdr.TransactionEnvelope) {
			env.V1.Tx.Memo.Hash[i] ^= 0x01
		})
		requireReason(t, attestation.Validate(env, f.expectation()), domaintypes.ReasonDigestMismatch)
	}
}

func TestFlippedExpectedDigest_DigestMismatch(t *testing.T) {
	f := newFixture(t)
	b64, _ := f.prepare(t)
	signed := f.cosign(t, b64)

	exp := f.expectation()
	exp.Digest[31] ^= 0x80
	err := attestation.ValidateEnvelope(signed, passphrase, exp)
	requireReason(t, err, domaintypes.ReasonDigestMismatch)
	assert.ErrorIs(t, err, domaintypes.ErrDigestMismatch)
}

func TestTextMemo_DigestMismatch(t *testing.T) {
	f := newFixture(t)
	b64, _ := f.prepare(t)
	text := "not a hash"
	env := mutate(t, b64, func(env *xdr.TransactionEnvelope) {
		env.V1.Tx.Memo = xdr.Memo{Type: xdr.MemoTypeMemoText, Text: &text}
	})
	requireReason(t, attestation.Validate(env, f.expectation()), domaintypes.ReasonDigestMismatch)
}

func TestNoOperations(t *testing.T) {
	f := newFixture(t)
	b64, _ := f.prepare(t)
	env := mutate(t, b64, func(env *xdr.TransactionEnvelope) {
		env.V1.Tx.Operations = nil
	})
	requireReason(t, attestation.Validate(env, f.expectation()), domaintypes.ReasonNoOperation)
}

func TestMalformedOperation(t *testing.T) {
	f := newFixture(t)
	b64, _ := f.prepare(t)

	cases := map[string]func(env *xdr.TransactionEnvelope){
		"zero amount": func(env *xdr.TransactionEnvelope) {
			env.V1.Tx.Operations[0].Body.PaymentOp.Amount = 0
		},
		"negative amount": func(env *xdr.TransactionEnvelope) {
			env.V1.Tx.Operations[0].Body.PaymentOp.Amount = -5
		},
		"not a payment": func(env *xdr.TransactionEnvelope) {
			env.V1.Tx.Operations[0].Body = xdr.OperationBody{
				Type:           xdr.OperationTypeBumpSequence,
				BumpSequenceOp: &xdr.BumpSequenceOp{BumpTo: 100},
			}
		},
	}
	for name, fn := range cases {
		t.Run(name, func(t *testing.T) {
			env := mutate(t, b64, fn)
			requireReason(t, attestation.Validate(env, f.expectation()), domaintypes.ReasonMalformedOperation)
		})
	}
}

func TestWrongDestination(t *testing.T) {
	f := newFixture(t)
	b64, _ := f.prepare(t)
	other, err := keypair.Random()
	require.NoError(t, err)

	env := mutate(t, b64, func(env *xdr.TransactionEnvelope) {
		env.V1.Tx.Operations[0].Body.PaymentOp.Destination = xdr.MustMuxedAddress(other.Address())
	})
	requireReason(t, attestation.Validate(env, f.expectation()), domaintypes.ReasonWrongDestination)
}

func TestMissingOperationSource_Unauthorized(t *testing.T) {
	f := newFixture(t)
	b64, _ := f.prepare(t)
	env := mutate(t, b64, func(env *xdr.TransactionEnvelope) {
		env.V1.Tx.Operations[0].SourceAccount = nil
	})
	requireReason(t, attestation.Validate(env, f.expectation()), domaintypes.ReasonUnauthorizedSource)
}

func TestDifferentExpectedCounterparty_Unauthorized(t *testing.T) {
	f := newFixture(t)
	b64, _ := f.prepare(t)
	signed := f.cosign(t, b64)

	other, err := keypair.Random()
	require.NoError(t, err)
	exp := f.expectation()
	exp.Counterparty = domain.Address(other.Address())

	err = attestation.ValidateEnvelope(signed, passphrase, exp)
	requireReason(t, err, domaintypes.ReasonUnauthorizedSource)
	assert.ErrorIs(t, err, domaintypes.ErrUnauthorizedSource)
}

func TestCounterpartySignedOnly_MissingServiceSignature(t *testing.T) {
	f := newFixture(t)
	env, err := attestation.Build(attestation.Params{
		Service:      f.service.Address(),
		Counterparty: domain.Address(f.counterparty.Address()),
		Digest:       f.digest,
		Sequence:     7,
	}, passphrase)
	require.NoError(t, err)
	b64, err := env.Encode()
	require.NoError(t, err)

	err = attestation.ValidateEnvelope(f.cosign(t, b64), passphrase, f.expectation())
	ve := requireReason(t, err, domaintypes.ReasonMissingSignature)
	assert.Equal(t, domaintypes.PartyService, ve.Who)
}

func TestForgedSignatureWithMatchingHint(t *testing.T) {
	f := newFixture(t)
	b64, _ := f.prepare(t)

	env, err := attestation.Decode(b64, passphrase)
	require.NoError(t, err)
	env.AddSignature(xdr.DecoratedSignature{
		Hint:      xdr.SignatureHint(f.counterparty.Hint()),
		Signature: make([]byte, 64),
	})

	ve := requireReason(t, attestation.Validate(env, f.expectation()), domaintypes.ReasonMissingSignature)
	assert.Equal(t, domaintypes.PartyCounterparty, ve.Who)
}

func TestSignatureOverDifferentTransaction(t *testing.T) {
	f := newFixture(t)
	b64, _ := f.prepare(t)

	// The counterparty signs a transaction with a different sequence number.
	other, err := attestation.Build(attestation.Params{
		Service:      f.service.Address(),
		Counterparty: domain.Address(f.counterparty.Address()),
		Digest:       f.digest,
		Sequence:     43,
	}, passphrase)
	require.NoError(t, err)
	sig, err := f.counterparty.SignDecorated(other.Payload())
	require.NoError(t, err)

	env, err := attestation.Decode(b64, passphrase)
	require.NoError(t, err)
	env.AddSignature(sig)

	ve := requireReason(t, attestation.Validate(env, f.expectation()), domaintypes.ReasonMissingSignature)
	assert.Equal(t, domaintypes.PartyCounterparty, ve.Who)
}

func TestPreparedIDMismatch(t *testing.T) {
	f := newFixture(t)
	b64, _ := f.prepare(t)
	signed := f.cosign(t, b64)

	exp := f.expectation()
	exp.PreparedID = domain.TransactionID(strings.Repeat("ab", 32))
	err := attestation.ValidateEnvelope(signed, passphrase, exp)
	requireReason(t, err, domaintypes.ReasonTransactionMismatch)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := attestation.Decode("definitely not xdr", passphrase)
	requireReason(t, err, domaintypes.ReasonMalformedEnvelope)
	assert.True(t, attestation.IsRejection(err))
}

func TestZeroDigestScenario(t *testing.T) {
	f := newFixture(t)
	f.digest = domain.Digest{}

	b64, id := f.prepare(t)
	assert.NotEmpty(t, b64)
	assert.Regexp(t, hexID, string(id))

	err := attestation.ValidateEnvelope(b64, passphrase, f.expectation())
	requireReason(t, err, domaintypes.ReasonMissingSignature)

	signed := f.cosign(t, b64)
	assert.NoError(t, attestation.ValidateEnvelope(signed, passphrase, f.expectation()))
}

func TestBuild_RejectsBadCounterparty(t *testing.T) {
	f := newFixture(t)

	for name, cp := range map[string]domain.Address{
		"garbage": "not-an-address",
		"seed":    domain.Address(f.counterparty.Seed()),
		"service": f.service.Address(),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := attestation.Build(attestation.Params{
				Service:      f.service.Address(),
				Counterparty: cp,
				Digest:       f.digest,
				Sequence:     1,
			}, passphrase)
			assert.ErrorIs(t, err, domaintypes.ErrIdentityRejected)
		})
	}
}

func TestBuild_Shape(t *testing.T) {
	f := newFixture(t)
	minSeq := int64(41)
	env, err := attestation.Build(attestation.Params{
		Service:      f.service.Address(),
		Counterparty: domain.Address(f.counterparty.Address()),
		Digest:       f.digest,
		Sequence:     42,
		MinSequence:  &minSeq,
	}, passphrase)
	require.NoError(t, err)

	raw := env.XDR()
	assert.Equal(t, int64(42), env.Sequence())
	assert.Equal(t, uint32(attestation.DefaultBaseFee), raw.Fee())
	require.Len(t, raw.Operations(), 1)
	pay := raw.Operations()[0].Body.MustPaymentOp()
	assert.Equal(t, xdr.Int64(1), pay.Amount)
	assert.Equal(t, xdr.AssetTypeAssetTypeNative, pay.Asset.Type)

	hash, ok := raw.Memo().GetHash()
	require.True(t, ok)
	assert.Equal(t, f.digest[:], hash[:])

	cond := raw.Preconditions()
	require.Equal(t, xdr.PreconditionTypePrecondV2, cond.Type)
	require.NotNil(t, cond.V2.MinSeqNum)
	assert.Equal(t, xdr.SequenceNumber(41), *cond.V2.MinSeqNum)
	assert.Empty(t, env.Signatures())
}
