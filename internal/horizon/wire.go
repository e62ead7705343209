package horizon

import "time"

// Account is the subset of a Horizon account resource we read.
type Account struct {
	ID       string    `json:"id"`
	Sequence string    `json:"sequence"`
	Balances []Balance `json:"balances,omitempty"`
}

// Balance is one account balance line.
type Balance struct {
	AssetType string `json:"asset_type"`
	Balance   string `json:"balance"`
}

// Transaction is the subset of a Horizon transaction resource we read.
type Transaction struct {
	ID             string    `json:"id"`
	Hash           string    `json:"hash"`
	Ledger         int32     `json:"ledger"`
	CreatedAt      time.Time `json:"created_at"`
	SourceAccount  string    `json:"source_account"`
	OperationCount int32     `json:"operation_count"`
	MemoType       string    `json:"memo_type"`
	Memo           string    `json:"memo,omitempty"`
	Successful     bool      `json:"successful"`
	FeeCharged     string    `json:"fee_charged,omitempty"`
	EnvelopeXDR    string    `json:"envelope_xdr,omitempty"`
	ResultXDR      string    `json:"result_xdr,omitempty"`
}

// Problem is Horizon's problem+json error document.
type Problem struct {
	Type   string        `json:"type"`
	Title  string        `json:"title"`
	Status int           `json:"status"`
	Detail string        `json:"detail,omitempty"`
	Extras *ProblemExtra `json:"extras,omitempty"`
}

// ProblemExtra carries transaction result codes for failed submissions.
type ProblemExtra struct {
	EnvelopeXDR string      `json:"envelope_xdr,omitempty"`
	ResultXDR   string      `json:"result_xdr,omitempty"`
	ResultCodes ResultCodes `json:"result_codes"`
}

// ResultCodes are the symbolic transaction and operation result codes.
type ResultCodes struct {
	Transaction string   `json:"transaction"`
	Operations  []string `json:"operations,omitempty"`
}

// Problem types Horizon uses that we branch on.
const (
	ProblemNotFound          = "https://stellar.org/horizon-errors/not_found"
	ProblemTransactionFailed = "https://stellar.org/horizon-errors/transaction_failed"
	ProblemMalformed         = "https://stellar.org/horizon-errors/transaction_malformed"
	ProblemTimeout           = "https://stellar.org/horizon-errors/timeout"
	ProblemBadRequest        = "https://stellar.org/horizon-errors/bad_request"
	ProblemServerError       = "https://stellar.org/horizon-errors/server_error"
)
