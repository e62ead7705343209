package submitter_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redvalid/internal/domain"
	domaintypes "redvalid/internal/domain/types"
	"redvalid/internal/services/submitter"
)

type fakeNetwork struct {
	submit func(ctx context.Context, envelope string) (domain.SubmitResult, error)
	calls  int
}

func (f *fakeNetwork) AccountSequence(context.Context, domain.Address) (int64, error) { return 0, nil }

func (f *fakeNetwork) SubmitTransaction(ctx context.Context, envelope string) (domain.SubmitResult, error) {
	f.calls++
	return f.submit(ctx, envelope)
}

func (f *fakeNetwork) TransactionDetail(context.Context, domain.TransactionID) (domain.LedgerTransaction, bool, error) {
	return domain.LedgerTransaction{}, false, nil
}

type validatorFunc func(string, domain.Expectation) error

func (f validatorFunc) Validate(env string, exp domain.Expectation) error { return f(env, exp) }

var accept = validatorFunc(func(string, domain.Expectation) error { return nil })

func TestSubmit_ReturnsHashAndLedger(t *testing.T) {
	net := &fakeNetwork{submit: func(_ context.Context, env string) (domain.SubmitResult, error) {
		assert.Equal(t, "ENV", env)
		return domain.SubmitResult{Hash: "abcd", Ledger: 9}, nil
	}}
	res, err := submitter.New(net, accept, time.Second).Submit(context.Background(), "ENV")
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionID("abcd"), res.Hash)
	assert.Equal(t, int32(9), res.Ledger)
}

func TestSubmit_TimeoutIsNetworkError(t *testing.T) {
	net := &fakeNetwork{submit: func(ctx context.Context, _ string) (domain.SubmitResult, error) {
		<-ctx.Done()
		return domain.SubmitResult{}, &domaintypes.NetworkError{Op: "submit", Requery: true, Err: ctx.Err()}
	}}
	_, err := submitter.New(net, accept, 20*time.Millisecond).Submit(context.Background(), "ENV")
	var ne *domaintypes.NetworkError
	require.True(t, errors.As(err, &ne))
	assert.True(t, ne.Requery)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSubmit_RejectionPassesThrough(t *testing.T) {
	want := &domaintypes.RejectedError{Op: "submit", Status: 400, TransactionCode: "tx_bad_seq"}
	net := &fakeNetwork{submit: func(context.Context, string) (domain.SubmitResult, error) {
		return domain.SubmitResult{}, want
	}}
	_, err := submitter.New(net, accept, time.Second).Submit(context.Background(), "ENV")
	var rej *domaintypes.RejectedError
	require.True(t, errors.As(err, &rej))
	assert.True(t, rej.BadSequence())
}

func TestValidateAndSubmit_RejectedEnvelopeStaysLocal(t *testing.T) {
	net := &fakeNetwork{submit: func(context.Context, string) (domain.SubmitResult, error) {
		t.Fatal("network called")
		return domain.SubmitResult{}, nil
	}}
	reject := validatorFunc(func(string, domain.Expectation) error {
		return domaintypes.MissingSignature(domaintypes.PartyCounterparty)
	})
	_, err := submitter.New(net, reject, time.Second).ValidateAndSubmit(context.Background(), "ENV", domain.Expectation{})
	assert.ErrorIs(t, err, domaintypes.ErrMissingSignature)
	assert.Zero(t, net.calls)
}

func TestValidateAndSubmit_ForwardsExpectation(t *testing.T) {
	exp := domain.Expectation{Digest: domain.Digest{9}, Counterparty: "GCP"}
	var got domain.Expectation
	v := validatorFunc(func(_ string, e domain.Expectation) error { got = e; return nil })
	net := &fakeNetwork{submit: func(context.Context, string) (domain.SubmitResult, error) {
		return domain.SubmitResult{Hash: "h"}, nil
	}}
	_, err := submitter.New(net, v, 0).ValidateAndSubmit(context.Background(), "ENV", exp)
	require.NoError(t, err)
	assert.Equal(t, exp, got)
	assert.Equal(t, 1, net.calls)
}
