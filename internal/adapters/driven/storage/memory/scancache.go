package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"
	"github.com/NIT-JSR/PrivaShield-AI/internal/core/ports/driven"
)

// Ensure ScanCache implements the interface.
var _ driven.ScanCache = (*ScanCache)(nil)

// ScanCache is an in-memory implementation of driven.ScanCache.
type ScanCache struct {
	mu      sync.RWMutex
	records map[string]domain.ScanRecord
}

// NewScanCache creates a new in-memory scan cache.
func NewScanCache() *ScanCache {
	return &ScanCache{
		records: make(map[string]domain.ScanRecord),
	}
}

// Get retrieves the record for fingerprint.
func (c *ScanCache) Get(_ context.Context, fingerprint string) (*domain.ScanRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.records[fingerprint]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

// Upsert creates or updates a record, preserving CreatedAt.
func (c *ScanCache) Upsert(_ context.Context, record domain.ScanRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.records[record.Fingerprint]; ok {
		record.CreatedAt = existing.CreatedAt
	}
	c.records[record.Fingerprint] = record
	return nil
}

// Delete removes the record for fingerprint.
func (c *ScanCache) Delete(_ context.Context, fingerprint string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.records, fingerprint)
	return nil
}

// List returns every record, most recently created first.
func (c *ScanCache) List(_ context.Context) ([]domain.ScanRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]domain.ScanRecord, 0, len(c.records))
	for _, rec := range c.records {
		result = append(result, rec)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].Fingerprint < result[j].Fingerprint
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// Clear removes every record.
func (c *ScanCache) Clear(_ context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.records)
	c.records = make(map[string]domain.ScanRecord)
	return n, nil
}

// Close is a no-op.
func (c *ScanCache) Close() error {
	return nil
}
