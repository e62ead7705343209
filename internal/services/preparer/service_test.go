package preparer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redvalid/internal/crypto"
	"redvalid/internal/domain"
	domaintypes "redvalid/internal/domain/types"
	"redvalid/internal/protocol/attestation"
	"redvalid/internal/services/preparer"
)

type fakeAllocator struct {
	res   domain.SequenceReservation
	err   error
	calls int
}

func (f *fakeAllocator) Next(context.Context, domain.Address) (domain.SequenceReservation, error) {
	f.calls++
	return f.res, f.err
}

func (f *fakeAllocator) Forget(domain.Address) {}

func newPreparer(t *testing.T, alloc *fakeAllocator) (*preparer.Service, *crypto.ServiceIdentity) {
	t.Helper()
	id, err := crypto.GenerateServiceIdentity()
	require.NoError(t, err)
	return preparer.New(id, alloc, preparer.Config{Passphrase: network.TestNetworkPassphrase}), id
}

func TestPrepare_ServiceSignedEnvelope(t *testing.T) {
	alloc := &fakeAllocator{res: domain.SequenceReservation{Sequence: 101, MinSequence: 100}}
	p, id := newPreparer(t, alloc)
	cp, err := keypair.Random()
	require.NoError(t, err)
	var digest domain.Digest
	digest[31] = 7

	tx, err := p.Prepare(context.Background(), domain.Address(cp.Address()), digest)
	require.NoError(t, err)
	assert.Equal(t, int64(101), tx.Sequence)
	assert.Equal(t, id.Address(), tx.FeePayer)
	assert.Equal(t, digest, tx.Digest)

	env, err := attestation.Decode(tx.Envelope, network.TestNetworkPassphrase)
	require.NoError(t, err)
	assert.Equal(t, tx.ID, env.ID())
	require.Len(t, env.Signatures(), 1)
	assert.NoError(t, crypto.VerifyDecorated(id.Address(), env.Payload(), env.Signatures()))

	// Everything but the counterparty's signature is already in place.
	err = attestation.Validate(env, domain.Expectation{
		Digest:       digest,
		Service:      id.Address(),
		Counterparty: domain.Address(cp.Address()),
		PreparedID:   tx.ID,
	})
	var ve *domaintypes.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, domaintypes.ReasonMissingSignature, ve.Reason)
	assert.Equal(t, domaintypes.PartyCounterparty, ve.Who)
}

func TestPrepare_RejectsBadCounterpartyBeforeNetwork(t *testing.T) {
	alloc := &fakeAllocator{}
	p, id := newPreparer(t, alloc)

	for _, cp := range []domain.Address{"", "not-an-address", "SBZVMB74Z76QZ3ZOY7UTDFYKMEGKW5XFJEB6PFKBF4UYSSWHG4EDH7PY", id.Address()} {
		_, err := p.Prepare(context.Background(), cp, domain.Digest{})
		assert.ErrorIs(t, err, domaintypes.ErrIdentityRejected, "counterparty %q", cp)
	}
	assert.Zero(t, alloc.calls)
}

func TestPrepare_SequenceReadFailure(t *testing.T) {
	netErr := &domaintypes.NetworkError{Op: "account", Err: errors.New("connection refused")}
	p, _ := newPreparer(t, &fakeAllocator{err: netErr})
	cp, err := keypair.Random()
	require.NoError(t, err)

	_, err = p.Prepare(context.Background(), domain.Address(cp.Address()), domain.Digest{})
	var ne *domaintypes.NetworkError
	assert.True(t, errors.As(err, &ne))
}

func TestPrepare_DeterministicForSameInputs(t *testing.T) {
	alloc := &fakeAllocator{res: domain.SequenceReservation{Sequence: 5, MinSequence: 4}}
	p, _ := newPreparer(t, alloc)
	cp, err := keypair.Random()
	require.NoError(t, err)

	a, err := p.Prepare(context.Background(), domain.Address(cp.Address()), domain.Digest{1})
	require.NoError(t, err)
	b, err := p.Prepare(context.Background(), domain.Address(cp.Address()), domain.Digest{1})
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)

	c, err := p.Prepare(context.Background(), domain.Address(cp.Address()), domain.Digest{2})
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, c.ID)
}
