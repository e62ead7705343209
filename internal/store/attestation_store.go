package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver registration

	"redvalid/internal/domain"
	domaintypes "redvalid/internal/domain/types"
)

// AttestationSQLStore keeps attestation records in SQLite.
type AttestationSQLStore struct {
	db  *sql.DB
	mu  sync.Mutex
	now func() time.Time
}

// OpenAttestationStore opens or creates the database at path.
// Use ":memory:" for a throwaway store.
func OpenAttestationStore(path string) (*AttestationSQLStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection: SQLite serialises writers anyway and :memory: databases
	// are per connection.
	db.SetMaxOpenConns(1)
	if err := createAttestationTables(db); err != nil {
		db.Close()
		return nil, err
	}
	return &AttestationSQLStore{db: db, now: time.Now}, nil
}

func createAttestationTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS attestations (
			id            TEXT PRIMARY KEY,
			tx_id         TEXT NOT NULL UNIQUE,
			digest        TEXT NOT NULL,
			counterparty  TEXT NOT NULL,
			status        TEXT NOT NULL,
			network_tx_id TEXT NOT NULL DEFAULT '',
			ledger        INTEGER NOT NULL DEFAULT 0,
			failure       TEXT NOT NULL DEFAULT '',
			created_at    TEXT NOT NULL,
			updated_at    TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_attestations_digest ON attestations(digest);
		CREATE INDEX IF NOT EXISTS idx_attestations_network ON attestations(network_tx_id);
	`)
	if err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *AttestationSQLStore) Close() error { return s.db.Close() }

// RecordPrepared inserts a new record in the prepared state.
func (s *AttestationSQLStore) RecordPrepared(
	id domain.TransactionID,
	digest domain.Digest,
	counterparty domain.Address,
) (domain.AttestationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	rec := domain.AttestationRecord{
		ID:            uuid.NewString(),
		TransactionID: id,
		Digest:        digest,
		Counterparty:  counterparty,
		Status:        domaintypes.StatusPrepared,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	_, err := s.db.Exec(`
		INSERT INTO attestations (id, tx_id, digest, counterparty, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, string(id), digest.Hex(), string(counterparty), string(rec.Status),
		now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano))
	if err != nil {
		return domain.AttestationRecord{}, fmt.Errorf("inserting attestation: %w", err)
	}
	return rec, nil
}

// RecordSubmitted marks id as accepted by the network.
func (s *AttestationSQLStore) RecordSubmitted(id domain.TransactionID, networkID domain.TransactionID, ledger int32) error {
	return s.update(id, `status = ?, network_tx_id = ?, ledger = ?, failure = ''`,
		string(domaintypes.StatusSubmitted), string(networkID), ledger)
}

// RecordFailed marks id as terminally refused.
func (s *AttestationSQLStore) RecordFailed(id domain.TransactionID, reason string) error {
	return s.update(id, `status = ?, failure = ?`, string(domaintypes.StatusFailed), reason)
}

// RecordConfirmed marks id as seen in a closed ledger.
func (s *AttestationSQLStore) RecordConfirmed(id domain.TransactionID, rec domain.LedgerRecord) error {
	return s.update(id, `status = ?, network_tx_id = ?, ledger = ?`,
		string(domaintypes.StatusConfirmed), string(rec.Hash), rec.Ledger)
}

func (s *AttestationSQLStore) update(id domain.TransactionID, set string, args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	args = append(args, s.now().UTC().Format(time.RFC3339Nano), string(id))
	res, err := s.db.Exec(`UPDATE attestations SET `+set+`, updated_at = ? WHERE tx_id = ?`, args...)
	if err != nil {
		return fmt.Errorf("updating attestation %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("attestation %s: %w", id, domaintypes.ErrNotFound)
	}
	return nil
}

// LookupByDigest returns the most recent record for digest.
func (s *AttestationSQLStore) LookupByDigest(digest domain.Digest) (domain.AttestationRecord, bool, error) {
	return s.lookup(`WHERE digest = ? ORDER BY rowid DESC LIMIT 1`, digest.Hex())
}

// LookupAnchored returns the oldest submitted or confirmed record for digest,
// ignoring the record prepared as except.
func (s *AttestationSQLStore) LookupAnchored(
	digest domain.Digest,
	except domain.TransactionID,
) (domain.AttestationRecord, bool, error) {
	return s.lookup(`WHERE digest = ? AND tx_id <> ? AND status IN (?, ?) ORDER BY rowid ASC LIMIT 1`,
		digest.Hex(), string(except),
		string(domaintypes.StatusSubmitted), string(domaintypes.StatusConfirmed))
}

// LookupByTransaction finds a record by prepared id or network id.
func (s *AttestationSQLStore) LookupByTransaction(id domain.TransactionID) (domain.AttestationRecord, bool, error) {
	return s.lookup(`WHERE tx_id = ? OR network_tx_id = ? ORDER BY rowid DESC LIMIT 1`, string(id), string(id))
}

// List returns up to limit records, newest first.
func (s *AttestationSQLStore) List(limit int) ([]domain.AttestationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT id, tx_id, digest, counterparty, status, network_tx_id, ledger, failure, created_at, updated_at
		FROM attestations ORDER BY rowid DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing attestations: %w", err)
	}
	defer rows.Close()

	var out []domain.AttestationRecord
	for rows.Next() {
		rec, err := scanAttestation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *AttestationSQLStore) lookup(where string, args ...any) (domain.AttestationRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRow(`
		SELECT id, tx_id, digest, counterparty, status, network_tx_id, ledger, failure, created_at, updated_at
		FROM attestations `+where, args...)
	rec, err := scanAttestation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.AttestationRecord{}, false, nil
	}
	if err != nil {
		return domain.AttestationRecord{}, false, err
	}
	return rec, true, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAttestation(row scanner) (domain.AttestationRecord, error) {
	var (
		rec                  domain.AttestationRecord
		txID, digest, cp     string
		status, networkID    string
		createdAt, updatedAt string
	)
	err := row.Scan(&rec.ID, &txID, &digest, &cp, &status, &networkID, &rec.Ledger, &rec.Failure, &createdAt, &updatedAt)
	if err != nil {
		return rec, err
	}
	d, err := domaintypes.ParseDigest(digest)
	if err != nil {
		return rec, fmt.Errorf("stored digest: %w", err)
	}
	rec.TransactionID = domain.TransactionID(txID)
	rec.Digest = d
	rec.Counterparty = domain.Address(cp)
	rec.Status = domain.Status(status)
	rec.NetworkTxID = domain.TransactionID(networkID)
	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return rec, fmt.Errorf("parsing created_at: %w", err)
	}
	if rec.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return rec, fmt.Errorf("parsing updated_at: %w", err)
	}
	return rec, nil
}

var _ domain.AttestationStore = (*AttestationSQLStore)(nil)
