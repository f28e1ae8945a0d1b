package driven

import (
	"context"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"
)

// ScanCache persists scan records, one per fingerprint.
type ScanCache interface {
	// Get retrieves the record for fingerprint.
	// Returns domain.ErrNotFound if none exists.
	Get(ctx context.Context, fingerprint string) (*domain.ScanRecord, error)

	// Upsert creates the record or updates it in place, preserving CreatedAt.
	Upsert(ctx context.Context, record domain.ScanRecord) error

	// Delete removes the record for fingerprint. Missing records are not an error.
	Delete(ctx context.Context, fingerprint string) error

	// List returns every record, most recently created first.
	List(ctx context.Context) ([]domain.ScanRecord, error)

	// Clear removes every record and returns how many were removed.
	Clear(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
