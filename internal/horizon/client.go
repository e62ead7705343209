package horizon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"redvalid/internal/domain"
	domaintypes "redvalid/internal/domain/types"
)

// HTTP talks to one Horizon instance.
type HTTP struct {
	Base      string
	Friendbot string
	HTTP      *http.Client

	timeout time.Duration
}

// Option configures an HTTP client.
type Option func(*HTTP)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(c *http.Client) Option { return func(h *HTTP) { h.HTTP = c } }

// WithFriendbot sets the friendbot URL used by Fund.
func WithFriendbot(u string) Option { return func(h *HTTP) { h.Friendbot = u } }

// WithTimeout bounds every request made by the client. It applies to the
// final http.Client regardless of option order and never mutates a client
// passed to WithHTTPClient.
func WithTimeout(d time.Duration) Option { return func(h *HTTP) { h.timeout = d } }

// NewHTTP returns a client for the Horizon server at base.
func NewHTTP(base string, opts ...Option) *HTTP {
	h := &HTTP{Base: strings.TrimRight(base, "/"), HTTP: http.DefaultClient}
	for _, opt := range opts {
		opt(h)
	}
	if h.timeout > 0 {
		c := *h.HTTP
		c.Timeout = h.timeout
		h.HTTP = &c
	}
	return h
}

var (
	_ domain.LedgerNetwork = (*HTTP)(nil)
	_ domain.Funder        = (*HTTP)(nil)
)

// AccountSequence returns the current sequence number of account.
func (c *HTTP) AccountSequence(ctx context.Context, account domain.Address) (int64, error) {
	var acct Account
	status, err := c.getJSON(ctx, "/accounts/"+url.PathEscape(string(account)), &acct)
	if err != nil {
		return 0, &domaintypes.NetworkError{Op: "load account", Err: err}
	}
	if status != nil {
		if status.Status >= http.StatusInternalServerError {
			return 0, &domaintypes.NetworkError{
				Op:  "load account",
				Err: fmt.Errorf("horizon get /accounts: %d %s", status.Status, status.Title),
			}
		}
		// A missing account needs funding, not a retry.
		return 0, status.rejected("load account")
	}
	seq, err := strconv.ParseInt(acct.Sequence, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("horizon account %s: bad sequence %q: %w", account, acct.Sequence, err)
	}
	return seq, nil
}

// SubmitTransaction posts a base64 envelope and waits for inclusion.
func (c *HTTP) SubmitTransaction(ctx context.Context, envelope string) (domain.SubmitResult, error) {
	form := url.Values{"tx": {envelope}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+"/transactions", strings.NewReader(form.Encode()))
	if err != nil {
		return domain.SubmitResult{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return domain.SubmitResult{}, &domaintypes.NetworkError{Op: "submit", Requery: true, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		p := readProblem(resp)
		if p.retryable() {
			return domain.SubmitResult{}, &domaintypes.NetworkError{
				Op:      "submit",
				Requery: true,
				Err:     fmt.Errorf("horizon post /transactions: %s", resp.Status),
			}
		}
		return domain.SubmitResult{}, p.rejected("submit")
	}

	var tx Transaction
	if err := json.NewDecoder(resp.Body).Decode(&tx); err != nil {
		// Accepted but unreadable; the hash is still knowable by re-query.
		return domain.SubmitResult{}, &domaintypes.NetworkError{Op: "submit", Requery: true, Err: err}
	}
	return domain.SubmitResult{Hash: domain.TransactionID(tx.Hash), Ledger: tx.Ledger}, nil
}

// TransactionDetail looks up an included transaction by hash.
func (c *HTTP) TransactionDetail(ctx context.Context, id domain.TransactionID) (domain.LedgerTransaction, bool, error) {
	var tx Transaction
	status, err := c.getJSON(ctx, "/transactions/"+url.PathEscape(string(id)), &tx)
	if err != nil {
		return domain.LedgerTransaction{}, false, &domaintypes.NetworkError{Op: "query", Err: err}
	}
	if status != nil {
		if status.Status == http.StatusNotFound {
			return domain.LedgerTransaction{}, false, nil
		}
		return domain.LedgerTransaction{}, false, status.rejected("query")
	}
	return domain.LedgerTransaction{
		Hash:           domain.TransactionID(tx.Hash),
		Ledger:         tx.Ledger,
		CreatedAt:      tx.CreatedAt,
		SourceAccount:  domain.Address(tx.SourceAccount),
		OperationCount: tx.OperationCount,
		MemoType:       tx.MemoType,
		Memo:           tx.Memo,
		Successful:     tx.Successful,
	}, true, nil
}

// Fund asks friendbot to create and fund account.
func (c *HTTP) Fund(ctx context.Context, account domain.Address) error {
	if c.Friendbot == "" {
		return errors.New("horizon: no friendbot configured")
	}
	u := c.Friendbot + "?addr=" + url.QueryEscape(string(account))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &domaintypes.NetworkError{Op: "fund", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return readProblem(resp).rejected("fund")
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// getJSON decodes a 2xx body into out. A non-2xx response is returned as a
// *Problem with a nil error.
func (c *HTTP) getJSON(ctx context.Context, path string, out any) (*Problem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Base+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		p := readProblem(resp)
		if p.retryable() {
			return nil, fmt.Errorf("horizon get %s: %s", path, resp.Status)
		}
		return p, nil
	}
	return nil, json.NewDecoder(resp.Body).Decode(out)
}

func readProblem(resp *http.Response) *Problem {
	p := &Problem{}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err := json.Unmarshal(body, p); err != nil || p.Title == "" {
		p.Title = http.StatusText(resp.StatusCode)
	}
	p.Status = resp.StatusCode
	return p
}

// retryable reports whether the outcome of the request is unknown.
func (p *Problem) retryable() bool {
	switch {
	case p.Status == http.StatusGatewayTimeout, p.Type == ProblemTimeout:
		return true
	case p.Status == http.StatusTooManyRequests:
		return true
	case p.Status >= 500:
		return true
	}
	return false
}

func (p *Problem) rejected(op string) *domaintypes.RejectedError {
	e := &domaintypes.RejectedError{
		Op:     op,
		Status: p.Status,
		Title:  p.Title,
		Detail: p.Detail,
	}
	if p.Extras != nil {
		e.TransactionCode = p.Extras.ResultCodes.Transaction
		e.OperationCodes = p.Extras.ResultCodes.Operations
	}
	return e
}
