package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"
	"github.com/NIT-JSR/PrivaShield-AI/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ScanCache = (*Store)(nil)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS processed_sites (
  url_hash          TEXT PRIMARY KEY,
  url               TEXT NOT NULL,
  risk_summary      TEXT NOT NULL DEFAULT '',
  vector_index_path TEXT NOT NULL DEFAULT '',
  created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_processed_sites_created_at ON processed_sites(created_at DESC);
`

// Store is a PostgreSQL-backed scan cache.
type Store struct {
	db *sql.DB
}

// Open connects to dsn and ensures the schema exists.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%w: empty postgres dsn", domain.ErrInvalidInput)
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		var pgErr *pq.Error
		if errors.As(err, &pgErr) {
			return nil, fmt.Errorf("connecting to postgres: %s (%s): %w", pgErr.Message, pgErr.Code.Name(), err)
		}
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	s := New(db)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing connection pool. Call Migrate before use.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the processed_sites table if needed.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get retrieves the record for fingerprint.
func (s *Store) Get(ctx context.Context, fingerprint string) (*domain.ScanRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT url_hash, url, risk_summary, vector_index_path, created_at, updated_at FROM processed_sites WHERE url_hash=$1`, fingerprint)
	var rec domain.ScanRecord
	if err := row.Scan(&rec.Fingerprint, &rec.URL, &rec.Summary, &rec.IndexPath, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning record: %w", err)
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.UpdatedAt = rec.UpdatedAt.UTC()
	return &rec, nil
}

// Upsert creates the record or rewrites it in place, keeping created_at.
func (s *Store) Upsert(ctx context.Context, record domain.ScanRecord) error {
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = now
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO processed_sites (url_hash, url, risk_summary, vector_index_path, created_at, updated_at) VALUES ($1,$2,$3,$4,$5,$6) ON CONFLICT (url_hash) DO UPDATE SET url=EXCLUDED.url, risk_summary=EXCLUDED.risk_summary, vector_index_path=EXCLUDED.vector_index_path, updated_at=EXCLUDED.updated_at`,
		record.Fingerprint, record.URL, record.Summary, record.IndexPath, record.CreatedAt, record.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving record: %w", err)
	}
	return nil
}

// Delete removes the record for fingerprint.
func (s *Store) Delete(ctx context.Context, fingerprint string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM processed_sites WHERE url_hash=$1`, fingerprint); err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}
	return nil
}

// List returns every record, most recently created first.
func (s *Store) List(ctx context.Context) ([]domain.ScanRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT url_hash, url, risk_summary, vector_index_path, created_at, updated_at FROM processed_sites ORDER BY created_at DESC, url_hash ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var out []domain.ScanRecord
	for rows.Next() {
		var rec domain.ScanRecord
		if err := rows.Scan(&rec.Fingerprint, &rec.URL, &rec.Summary, &rec.IndexPath, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		rec.CreatedAt = rec.CreatedAt.UTC()
		rec.UpdatedAt = rec.UpdatedAt.UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return out, nil
}

// Clear removes every record.
func (s *Store) Clear(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM processed_sites`)
	if err != nil {
		return 0, fmt.Errorf("clearing records: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting cleared records: %w", err)
	}
	return int(n), nil
}
