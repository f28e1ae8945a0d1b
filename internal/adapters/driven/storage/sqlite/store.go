package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/NIT-JSR/PrivaShield-AI/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"
	"github.com/NIT-JSR/PrivaShield-AI/internal/core/ports/driven"
)

// DBFile is the database file name inside the data directory.
const DBFile = "scans.db"

// Ensure Store implements the interface.
var _ driven.ScanCache = (*Store)(nil)

// Store is a SQLite-backed scan cache.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if needed) the scan database in dataDir.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("%w: empty data directory", domain.ErrInvalidInput)
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DBFile)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations and records each applied version.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_processed_sites.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Get retrieves the record for fingerprint.
func (s *Store) Get(ctx context.Context, fingerprint string) (*domain.ScanRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT url_hash, url, risk_summary, vector_index_path, created_at, updated_at
		FROM processed_sites WHERE url_hash = ?
	`, fingerprint)

	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning record: %w", err)
	}
	return rec, nil
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

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO processed_sites (url_hash, url, risk_summary, vector_index_path, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(url_hash) DO UPDATE SET
			url = excluded.url,
			risk_summary = excluded.risk_summary,
			vector_index_path = excluded.vector_index_path,
			updated_at = excluded.updated_at
	`, record.Fingerprint, record.URL, record.Summary, record.IndexPath,
		record.CreatedAt.UnixNano(), record.UpdatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("saving record: %w", err)
	}
	return nil
}

// Delete removes the record for fingerprint.
func (s *Store) Delete(ctx context.Context, fingerprint string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM processed_sites WHERE url_hash = ?", fingerprint)
	if err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}
	return nil
}

// List returns every record, most recently created first.
func (s *Store) List(ctx context.Context) ([]domain.ScanRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT url_hash, url, risk_summary, vector_index_path, created_at, updated_at
		FROM processed_sites
		ORDER BY created_at DESC, url_hash ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []domain.ScanRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return records, nil
}

// Clear removes every record.
func (s *Store) Clear(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM processed_sites")
	if err != nil {
		return 0, fmt.Errorf("clearing records: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting cleared records: %w", err)
	}
	return int(n), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*domain.ScanRecord, error) {
	var rec domain.ScanRecord
	var createdAt, updatedAt int64
	if err := row.Scan(&rec.Fingerprint, &rec.URL, &rec.Summary, &rec.IndexPath,
		&createdAt, &updatedAt); err != nil {
		return nil, err
	}
	rec.CreatedAt = time.Unix(0, createdAt).UTC()
	rec.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return &rec, nil
}
