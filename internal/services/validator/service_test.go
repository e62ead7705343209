package validator_test

import (
	"testing"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redvalid/internal/domain"
	domaintypes "redvalid/internal/domain/types"
	"redvalid/internal/protocol/attestation"
	"redvalid/internal/services/validator"
)

func TestValidate_DefaultsServiceAddress(t *testing.T) {
	svc, err := keypair.Random()
	require.NoError(t, err)
	cp, err := keypair.Random()
	require.NoError(t, err)
	digest := domain.Digest{0xde, 0xad}

	env, err := attestation.Build(attestation.Params{
		Service:      domain.Address(svc.Address()),
		Counterparty: domain.Address(cp.Address()),
		Digest:       digest,
		Sequence:     2,
	}, network.TestNetworkPassphrase)
	require.NoError(t, err)
	for _, kp := range []*keypair.Full{svc, cp} {
		sig, err := kp.SignDecorated(env.Payload())
		require.NoError(t, err)
		env.AddSignature(sig)
	}
	b64, err := env.Encode()
	require.NoError(t, err)

	v := validator.New(domain.Address(svc.Address()), network.TestNetworkPassphrase)
	exp := domain.Expectation{Digest: digest, Counterparty: domain.Address(cp.Address())}
	assert.NoError(t, v.Validate(b64, exp))

	exp.Digest = domain.Digest{0xbe, 0xef}
	assert.ErrorIs(t, v.Validate(b64, exp), domaintypes.ErrDigestMismatch)

	assert.ErrorIs(t, v.Validate("not base64!", exp), domaintypes.ErrMalformedEnvelope)
}
