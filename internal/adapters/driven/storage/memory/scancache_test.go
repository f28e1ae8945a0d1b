package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"
)

func record(url string, created time.Time) domain.ScanRecord {
	return domain.ScanRecord{
		Fingerprint: domain.Fingerprint(url),
		URL:         url,
		Summary:     "summary of " + url,
		IndexPath:   "/tmp/" + domain.IndexDirName(domain.Fingerprint(url)),
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func TestScanCache_GetMissing(t *testing.T) {
	cache := NewScanCache()

	_, err := cache.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestScanCache_UpsertPreservesCreatedAt(t *testing.T) {
	ctx := context.Background()
	cache := NewScanCache()
	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	rec := record("https://example.com/privacy", first)
	require.NoError(t, cache.Upsert(ctx, rec))

	rec.Summary = "rebuilt"
	rec.CreatedAt = first.Add(time.Hour)
	rec.UpdatedAt = first.Add(time.Hour)
	require.NoError(t, cache.Upsert(ctx, rec))

	got, err := cache.Get(ctx, rec.Fingerprint)
	require.NoError(t, err)
	assert.Equal(t, "rebuilt", got.Summary)
	assert.Equal(t, first, got.CreatedAt)
	assert.Equal(t, first.Add(time.Hour), got.UpdatedAt)
}

func TestScanCache_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	cache := NewScanCache()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, cache.Upsert(ctx, record("https://a.example", base)))
	require.NoError(t, cache.Upsert(ctx, record("https://b.example", base.Add(time.Minute))))

	records, err := cache.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "https://b.example", records[0].URL)
	assert.Equal(t, "https://a.example", records[1].URL)
}

func TestScanCache_DeleteAndClear(t *testing.T) {
	ctx := context.Background()
	cache := NewScanCache()
	now := time.Now()

	a := record("https://a.example", now)
	require.NoError(t, cache.Upsert(ctx, a))
	require.NoError(t, cache.Upsert(ctx, record("https://b.example", now)))
	require.NoError(t, cache.Upsert(ctx, record("https://c.example", now)))

	require.NoError(t, cache.Delete(ctx, a.Fingerprint))
	require.NoError(t, cache.Delete(ctx, a.Fingerprint))

	n, err := cache.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	records, err := cache.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NoError(t, cache.Close())
}
