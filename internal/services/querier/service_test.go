package querier_test

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redvalid/internal/domain"
	domaintypes "redvalid/internal/domain/types"
	"redvalid/internal/services/querier"
)

type fakeNetwork struct {
	txs map[domain.TransactionID]domain.LedgerTransaction
	err error
}

func (f fakeNetwork) AccountSequence(context.Context, domain.Address) (int64, error) { return 0, nil }

func (f fakeNetwork) SubmitTransaction(context.Context, string) (domain.SubmitResult, error) {
	return domain.SubmitResult{}, nil
}

func (f fakeNetwork) TransactionDetail(_ context.Context, id domain.TransactionID) (domain.LedgerTransaction, bool, error) {
	if f.err != nil {
		return domain.LedgerTransaction{}, false, f.err
	}
	tx, ok := f.txs[id]
	return tx, ok, nil
}

func TestQuery_RecoversDigest(t *testing.T) {
	var digest domain.Digest
	for i := range digest {
		digest[i] = byte(i)
	}
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	net := fakeNetwork{txs: map[domain.TransactionID]domain.LedgerTransaction{
		"aa": {
			Hash: "aa", Ledger: 77, CreatedAt: created, SourceAccount: "GSERVICE",
			OperationCount: 1, MemoType: "hash",
			Memo:       base64.StdEncoding.EncodeToString(digest[:]),
			Successful: true,
		},
	}}

	rec, ok, err := querier.New(net, time.Second).Query(context.Background(), "aa")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, digest, rec.Digest)
	assert.Equal(t, int32(77), rec.Ledger)
	assert.Equal(t, created, rec.CreatedAt)
	assert.Equal(t, int32(1), rec.OperationCount)
	assert.True(t, rec.Successful)

	again, ok, err := querier.New(net, time.Second).Query(context.Background(), "aa")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rec, again)
}

func TestQuery_NotFoundIsNotAnError(t *testing.T) {
	_, ok, err := querier.New(fakeNetwork{}, 0).Query(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestQuery_NetworkErrorPassesThrough(t *testing.T) {
	net := fakeNetwork{err: &domaintypes.NetworkError{Op: "query", Err: errors.New("timeout")}}
	_, _, err := querier.New(net, 0).Query(context.Background(), "aa")
	var ne *domaintypes.NetworkError
	assert.True(t, errors.As(err, &ne))
}

func TestDigestFromMemo(t *testing.T) {
	_, err := querier.DigestFromMemo("text", "hello")
	assert.ErrorIs(t, err, domaintypes.ErrNoBindingMetadata)

	_, err = querier.DigestFromMemo("none", "")
	assert.ErrorIs(t, err, domaintypes.ErrNoBindingMetadata)

	_, err = querier.DigestFromMemo("hash", "%%%")
	assert.ErrorIs(t, err, domaintypes.ErrNoBindingMetadata)

	_, err = querier.DigestFromMemo("hash", base64.StdEncoding.EncodeToString([]byte("short")))
	assert.ErrorIs(t, err, domaintypes.ErrInvalidDigest)
}
