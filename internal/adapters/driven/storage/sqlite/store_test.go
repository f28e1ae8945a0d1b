package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })

	return store
}

func testRecord(url string, created time.Time) domain.ScanRecord {
	return domain.ScanRecord{
		Fingerprint: domain.Fingerprint(url),
		URL:         url,
		Summary:     "* Shares data with advertisers",
		IndexPath:   "/data/" + domain.IndexDirName(domain.Fingerprint(url)),
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func TestNewStore_EmptyDir(t *testing.T) {
	_, err := NewStore("")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNewStore_Path(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, DBFile), store.Path())
	assert.FileExists(t, store.Path())
}

func TestNewStore_MigrationsIdempotent(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := NewStore(dir)
	require.NoError(t, err)
	rec := testRecord("https://example.com/privacy", time.Now().UTC())
	require.NoError(t, first.Upsert(ctx, rec))
	require.NoError(t, first.Close())

	second, err := NewStore(dir)
	require.NoError(t, err)
	defer second.Close()

	var versions int
	require.NoError(t, second.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&versions))
	assert.Equal(t, 1, versions)

	got, err := second.Get(ctx, rec.Fingerprint)
	require.NoError(t, err)
	assert.Equal(t, rec.URL, got.URL)
}

func TestStore_GetNotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Get(context.Background(), domain.Fingerprint("https://missing.example"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_UpsertAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	created := time.Date(2025, 3, 1, 10, 0, 0, 123, time.UTC)
	rec := testRecord("https://example.com/privacy", created)

	require.NoError(t, store.Upsert(ctx, rec))

	got, err := store.Get(ctx, rec.Fingerprint)
	require.NoError(t, err)
	assert.Equal(t, rec, *got)
}

func TestStore_UpsertPreservesCreatedAt(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	rec := testRecord("https://example.com/privacy", created)
	require.NoError(t, store.Upsert(ctx, rec))

	rebuilt := rec
	rebuilt.IndexPath = "/data/elsewhere"
	rebuilt.Summary = "updated"
	rebuilt.CreatedAt = created.Add(time.Hour)
	rebuilt.UpdatedAt = created.Add(time.Hour)
	require.NoError(t, store.Upsert(ctx, rebuilt))

	got, err := store.Get(ctx, rec.Fingerprint)
	require.NoError(t, err)
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, created.Add(time.Hour), got.UpdatedAt)
	assert.Equal(t, "/data/elsewhere", got.IndexPath)
	assert.Equal(t, "updated", got.Summary)

	all, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStore_ListNewestFirst(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Upsert(ctx, testRecord("https://a.example", base)))
	require.NoError(t, store.Upsert(ctx, testRecord("https://c.example", base.Add(2*time.Hour))))
	require.NoError(t, store.Upsert(ctx, testRecord("https://b.example", base.Add(time.Hour))))

	got, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "https://c.example", got[0].URL)
	assert.Equal(t, "https://b.example", got[1].URL)
	assert.Equal(t, "https://a.example", got[2].URL)
}

func TestStore_ListEmpty(t *testing.T) {
	store := setupTestStore(t)

	got, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_Delete(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	rec := testRecord("https://example.com/privacy", time.Now().UTC())
	require.NoError(t, store.Upsert(ctx, rec))

	require.NoError(t, store.Delete(ctx, rec.Fingerprint))
	_, err := store.Get(ctx, rec.Fingerprint)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.NoError(t, store.Delete(ctx, rec.Fingerprint))
}

func TestStore_Clear(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()
	require.NoError(t, store.Upsert(ctx, testRecord("https://a.example", now)))
	require.NoError(t, store.Upsert(ctx, testRecord("https://b.example", now)))

	n, err := store.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = store.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestStore_ClosedDatabase(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = store.Get(context.Background(), "x")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}
