package ledgerstub

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"redvalid/internal/horizon"
	"redvalid/internal/log"
)

// Server exposes a Ledger over the Horizon HTTP API.
type Server struct {
	ledger *Ledger
	router *mux.Router
}

// NewServer routes the Horizon endpoints to l.
func NewServer(l *Ledger) *Server {
	s := &Server{ledger: l, router: mux.NewRouter()}
	s.router.Use(accessLog)
	s.router.HandleFunc("/accounts/{id}", s.getAccount).Methods(http.MethodGet)
	s.router.HandleFunc("/transactions", s.postTransaction).Methods(http.MethodPost)
	s.router.HandleFunc("/transactions/{hash}", s.getTransaction).Methods(http.MethodGet)
	s.router.HandleFunc("/friendbot", s.friendbot).Methods(http.MethodGet, http.MethodPost)
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, notFound())
	})
	return s
}

// Ledger returns the backing ledger.
func (s *Server) Ledger() *Ledger { return s.ledger }

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.router.ServeHTTP(w, r) }

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	acct, ok := s.ledger.Account(mux.Vars(r)["id"])
	if !ok {
		writeProblem(w, notFound())
		return
	}
	writeJSON(w, http.StatusOK, acct)
}

func (s *Server) getTransaction(w http.ResponseWriter, r *http.Request) {
	tx, ok := s.ledger.Transaction(mux.Vars(r)["hash"])
	if !ok {
		writeProblem(w, notFound())
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) postTransaction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil || r.PostForm.Get("tx") == "" {
		writeProblem(w, horizon.Problem{
			Type:   horizon.ProblemBadRequest,
			Title:  "Bad Request",
			Status: http.StatusBadRequest,
			Detail: "missing tx form field",
		})
		return
	}
	tx, err := s.ledger.Submit(r.PostForm.Get("tx"))
	if err != nil {
		var re *ResultError
		if !errors.As(err, &re) {
			writeProblem(w, horizon.Problem{Type: horizon.ProblemServerError, Title: "Internal Server Error", Status: 500})
			return
		}
		log.Debug("ledgerstub: transaction refused", "tx_id", tx.Hash, "codes", re.Error())
		writeProblem(w, failed(re, r.PostForm.Get("tx")))
		return
	}
	log.Debug("ledgerstub: transaction applied", "tx_id", tx.Hash, "ledger", tx.Ledger)
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) friendbot(w http.ResponseWriter, r *http.Request) {
	addr := r.URL.Query().Get("addr")
	if err := s.ledger.Fund(addr, FriendbotStroops); err != nil {
		p := horizon.Problem{
			Type:   horizon.ProblemBadRequest,
			Title:  "Bad Request",
			Status: http.StatusBadRequest,
			Detail: err.Error(),
		}
		if errors.Is(err, ErrAccountExists) {
			p.Extras = &horizon.ProblemExtra{ResultCodes: horizon.ResultCodes{
				Transaction: "tx_failed",
				Operations:  []string{"op_already_exists"},
			}}
		}
		writeProblem(w, p)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"account": addr, "ledger": s.ledger.LedgerSequence()})
}

func notFound() horizon.Problem {
	return horizon.Problem{
		Type:   horizon.ProblemNotFound,
		Title:  "Resource Missing",
		Status: http.StatusNotFound,
		Detail: "The resource at the url requested was not found.",
	}
}

func failed(re *ResultError, envelope string) horizon.Problem {
	if re.Codes.Transaction == "tx_malformed" {
		return horizon.Problem{
			Type:   horizon.ProblemMalformed,
			Title:  "Transaction Malformed",
			Status: http.StatusBadRequest,
			Detail: "Horizon could not decode the transaction envelope in this request.",
		}
	}
	return horizon.Problem{
		Type:   horizon.ProblemTransactionFailed,
		Title:  "Transaction Failed",
		Status: re.Status,
		Detail: "The transaction failed when submitted to the stellar network.",
		Extras: &horizon.ProblemExtra{EnvelopeXDR: envelope, ResultCodes: re.Codes},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeProblem(w http.ResponseWriter, p horizon.Problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)
		log.Info("ledgerstub",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
			"status", sw.status,
			"bytes", sw.bytes,
			"duration", time.Since(start),
		)
	})
}
