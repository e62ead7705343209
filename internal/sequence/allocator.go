package sequence

import (
	"context"
	"sync"

	"redvalid/internal/domain"
)

// Reader reads an account's current sequence number from the network.
type Reader interface {
	AccountSequence(ctx context.Context, account domain.Address) (int64, error)
}

// Allocator is a per-account sequence allocator.
type Allocator struct {
	net Reader

	mu       sync.Mutex
	accounts map[domain.Address]*accountState
}

type accountState struct {
	mu     sync.Mutex
	issued int64
}

// New returns an Allocator reading from net.
func New(net Reader) *Allocator {
	return &Allocator{net: net, accounts: make(map[domain.Address]*accountState)}
}

func (a *Allocator) state(account domain.Address) *accountState {
	a.mu.Lock()
	defer a.mu.Unlock()
	st, ok := a.accounts[account]
	if !ok {
		st = &accountState{}
		a.accounts[account] = st
	}
	return st
}

// Next reserves the next sequence number for account.
//
// MinSequence in the reservation is the network sequence observed during the
// call. A read failure is returned unchanged and reserves nothing.
func (a *Allocator) Next(ctx context.Context, account domain.Address) (domain.SequenceReservation, error) {
	st := a.state(account)
	st.mu.Lock()
	defer st.mu.Unlock()

	current, err := a.net.AccountSequence(ctx, account)
	if err != nil {
		return domain.SequenceReservation{}, err
	}
	base := current
	if st.issued > base {
		base = st.issued
	}
	st.issued = base + 1
	return domain.SequenceReservation{Sequence: st.issued, MinSequence: current}, nil
}

// Forget drops what was issued for account so the next call starts from the
// network value again.
func (a *Allocator) Forget(account domain.Address) {
	st := a.state(account)
	st.mu.Lock()
	st.issued = 0
	st.mu.Unlock()
}

var _ domain.SequenceAllocator = (*Allocator)(nil)
