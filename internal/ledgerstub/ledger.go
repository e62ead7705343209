package ledgerstub

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/stellar/go/amount"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/network"
	"github.com/stellar/go/strkey"
	"github.com/stellar/go/txnbuild"
	"github.com/stellar/go/xdr"

	"redvalid/internal/crypto"
	"redvalid/internal/horizon"
)

// ErrAccountExists is returned when funding an account that already exists.
var ErrAccountExists = errors.New("account already exists")

// Ledger is the in-memory ledger state.
type Ledger struct {
	passphrase string
	baseFee    int64
	now        func() time.Time

	mu       sync.Mutex
	seq      int32
	accounts map[string]*account
	txs      map[string]record
}

// New returns an empty ledger for passphrase at ledger 1.
func New(passphrase string, opts ...Option) *Ledger {
	l := &Ledger{
		passphrase: passphrase,
		baseFee:    txnbuild.MinBaseFee,
		now:        time.Now,
		seq:        1,
		accounts:   make(map[string]*account),
		txs:        make(map[string]record),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Passphrase returns the network passphrase transactions are hashed with.
func (l *Ledger) Passphrase() string { return l.passphrase }

// Fund creates address with stroops of native balance.
//
// New accounts start at sequence (current ledger << 32), as on the network.
func (l *Ledger) Fund(address string, stroops int64) error {
	if !strkey.IsValidEd25519PublicKey(address) {
		return fmt.Errorf("fund %q: not an account address", address)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.accounts[address]; ok {
		return fmt.Errorf("fund %s: %w", address, ErrAccountExists)
	}
	l.accounts[address] = &account{balance: stroops, sequence: int64(l.seq) << 32}
	return nil
}

// Account returns the horizon view of address.
func (l *Ledger) Account(address string) (horizon.Account, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.accounts[address]
	if !ok {
		return horizon.Account{}, false
	}
	return horizon.Account{
		ID:       address,
		Sequence: strconv.FormatInt(a.sequence, 10),
		Balances: []horizon.Balance{{AssetType: "native", Balance: amount.StringFromInt64(a.balance)}},
	}, true
}

// Balance returns the native balance of address in stroops.
func (l *Ledger) Balance(address string) (int64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.accounts[address]
	if !ok {
		return 0, false
	}
	return a.balance, true
}

// Transaction returns an applied transaction by hex hash.
func (l *Ledger) Transaction(hash string) (horizon.Transaction, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.txs[hash]
	return rec.tx, ok
}

// LedgerSequence returns the last closed ledger.
func (l *Ledger) LedgerSequence() int32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seq
}

// Submit validates and applies a base64 envelope.
//
// Resubmitting a transaction that was already applied returns the stored
// outcome without touching state.
func (l *Ledger) Submit(b64 string) (horizon.Transaction, error) {
	var env xdr.TransactionEnvelope
	if err := xdr.SafeUnmarshalBase64(b64, &env); err != nil {
		return horizon.Transaction{}, txError("tx_malformed")
	}
	if env.IsFeeBump() {
		return horizon.Transaction{}, txError("tx_not_supported")
	}
	hash, err := network.HashTransactionInEnvelope(env, l.passphrase)
	if err != nil {
		return horizon.Transaction{}, txError("tx_malformed")
	}
	id := hex.EncodeToString(hash[:])

	l.mu.Lock()
	defer l.mu.Unlock()

	if rec, ok := l.txs[id]; ok {
		if rec.tx.Successful {
			return rec.tx, nil
		}
		return rec.tx, &ResultError{Status: 400, Codes: rec.codes}
	}

	source, err := accountAddress(env.SourceAccount())
	if err != nil {
		return horizon.Transaction{}, txError("tx_malformed")
	}
	src, ok := l.accounts[source]
	if !ok {
		return horizon.Transaction{}, txError("tx_no_source_account")
	}

	ops := env.Operations()
	if len(ops) == 0 {
		return horizon.Transaction{}, txError("tx_missing_operation")
	}

	if rerr := l.checkPreconditions(env, src); rerr != nil {
		return horizon.Transaction{}, rerr
	}

	fee := int64(env.Fee())
	if fee < l.baseFee*int64(len(ops)) {
		return horizon.Transaction{}, txError("tx_insufficient_fee")
	}
	if src.balance < fee {
		return horizon.Transaction{}, txError("tx_insufficient_balance")
	}

	signers := []string{source}
	for i, op := range ops {
		if op.SourceAccount == nil {
			continue
		}
		addr, err := accountAddress(*op.SourceAccount)
		if err != nil {
			return horizon.Transaction{}, txError("tx_malformed")
		}
		if _, ok := l.accounts[addr]; !ok {
			codes := make([]string, len(ops))
			for j := range codes {
				codes[j] = "op_success"
			}
			codes[i] = "op_no_source_account"
			return horizon.Transaction{}, opError(codes)
		}
		signers = append(signers, addr)
	}
	if rerr := checkSignatures(hash, signers, env.Signatures()); rerr != nil {
		return horizon.Transaction{}, rerr
	}

	// Valid: from here the fee is charged and the sequence consumed.
	src.balance -= fee
	src.sequence = env.SeqNum()
	l.seq++

	tx := horizon.Transaction{
		ID:             id,
		Hash:           id,
		Ledger:         l.seq,
		CreatedAt:      l.now().UTC().Truncate(time.Second),
		SourceAccount:  source,
		OperationCount: int32(len(ops)),
		EnvelopeXDR:    b64,
		FeeCharged:     strconv.FormatInt(fee, 10),
	}
	tx.MemoType, tx.Memo = renderMemo(env.Memo())

	codes, ok := l.applyPayments(source, ops)
	tx.Successful = ok
	rc := horizon.ResultCodes{Transaction: "tx_success", Operations: codes}
	if !ok {
		rc.Transaction = "tx_failed"
	}
	l.txs[id] = record{tx: tx, codes: rc}
	if !ok {
		return tx, &ResultError{Status: 400, Codes: rc}
	}
	return tx, nil
}

func (l *Ledger) checkPreconditions(env xdr.TransactionEnvelope, src *account) *ResultError {
	var (
		bounds *xdr.TimeBounds
		minSeq *xdr.SequenceNumber
	)
	cond := env.Preconditions()
	switch cond.Type {
	case xdr.PreconditionTypePrecondTime:
		bounds = cond.TimeBounds
	case xdr.PreconditionTypePrecondV2:
		bounds = cond.V2.TimeBounds
		minSeq = cond.V2.MinSeqNum
	}

	if bounds != nil {
		now := uint64(l.now().Unix())
		if uint64(bounds.MinTime) > now {
			return txError("tx_too_early")
		}
		if bounds.MaxTime != 0 && now > uint64(bounds.MaxTime) {
			return txError("tx_too_late")
		}
	}

	seq := env.SeqNum()
	if minSeq != nil {
		if src.sequence < int64(*minSeq) || src.sequence >= seq {
			return txError("tx_bad_seq")
		}
	} else if seq != src.sequence+1 {
		return txError("tx_bad_seq")
	}
	return nil
}

// applyPayments runs the operations against a scratch copy of balances and
// commits only if every operation succeeds.
func (l *Ledger) applyPayments(txSource string, ops []xdr.Operation) ([]string, bool) {
	codes := make([]string, 0, len(ops))
	delta := make(map[string]int64)
	for _, op := range ops {
		code := l.applyPayment(txSource, op, delta)
		codes = append(codes, code)
		if code != "op_success" {
			return codes, false
		}
	}
	for addr, d := range delta {
		l.accounts[addr].balance += d
	}
	return codes, true
}

func (l *Ledger) applyPayment(txSource string, op xdr.Operation, delta map[string]int64) string {
	pay, ok := op.Body.GetPaymentOp()
	if !ok {
		return "op_not_supported"
	}
	if pay.Asset.Type != xdr.AssetTypeAssetTypeNative {
		return "op_not_supported"
	}
	if pay.Amount <= 0 {
		return "op_malformed"
	}
	from := txSource
	if op.SourceAccount != nil {
		addr, err := accountAddress(*op.SourceAccount)
		if err != nil {
			return "op_malformed"
		}
		from = addr
	}
	to, err := accountAddress(pay.Destination)
	if err != nil {
		return "op_malformed"
	}
	if _, ok := l.accounts[to]; !ok {
		return "op_no_destination"
	}
	amt := int64(pay.Amount)
	if l.accounts[from].balance+delta[from] < amt {
		return "op_underfunded"
	}
	delta[from] -= amt
	delta[to] += amt
	return "op_success"
}

// checkSignatures requires a valid signature for every signer and refuses
// signatures nobody needed.
func checkSignatures(hash [32]byte, signers []string, sigs []xdr.DecoratedSignature) *ResultError {
	used := make([]bool, len(sigs))
	for _, signer := range signers {
		kp, err := keypair.ParseAddress(signer)
		if err != nil {
			return txError("tx_bad_auth")
		}
		hint := xdr.SignatureHint(kp.Hint())
		found := false
		for i, sig := range sigs {
			if sig.Hint != hint {
				continue
			}
			if kp.Verify(hash[:], sig.Signature) == nil {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			return txError("tx_bad_auth")
		}
	}
	for _, u := range used {
		if !u {
			return txError("tx_bad_auth_extra")
		}
	}
	return nil
}

func accountAddress(m xdr.MuxedAccount) (string, error) {
	id := m.ToAccountId()
	return id.GetAddress()
}

// renderMemo returns Horizon's memo_type and memo fields.
func renderMemo(m xdr.Memo) (string, string) {
	switch m.Type {
	case xdr.MemoTypeMemoText:
		return "text", m.MustText()
	case xdr.MemoTypeMemoId:
		return "id", strconv.FormatUint(uint64(m.MustId()), 10)
	case xdr.MemoTypeMemoHash:
		h := m.MustHash()
		return "hash", crypto.B64(h[:])
	case xdr.MemoTypeMemoReturn:
		h := m.MustRetHash()
		return "return", crypto.B64(h[:])
	}
	return "none", ""
}
