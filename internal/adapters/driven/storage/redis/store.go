package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"
	"github.com/NIT-JSR/PrivaShield-AI/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ScanCache = (*Store)(nil)

// DefaultPrefix namespaces every key written by the store.
const DefaultPrefix = "privashield:"

// Hash fields.
const (
	fieldURL       = "url"
	fieldSummary   = "summary"
	fieldIndexPath = "index_path"
	fieldCreatedAt = "created_at"
	fieldUpdatedAt = "updated_at"
)

// Options configures the Redis connection.
type Options struct {
	Addr        string
	Password    string
	DB          int
	Prefix      string
	DialTimeout time.Duration
}

// Store is a Redis-backed scan cache.
type Store struct {
	client *redis.Client
	prefix string
}

// Open connects to Redis and verifies the connection with PING.
func Open(ctx context.Context, opts Options) (*Store, error) {
	if opts.Addr == "" {
		return nil, fmt.Errorf("%w: empty redis address", domain.ErrInvalidInput)
	}
	client := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: opts.DialTimeout,
	})

	pong, err := client.Ping(ctx).Result()
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	if pong != "PONG" {
		client.Close()
		return nil, fmt.Errorf("expected PONG, got %s", pong)
	}

	return New(client, opts.Prefix), nil
}

// New wraps an existing client. An empty prefix uses DefaultPrefix.
func New(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) recordKey(fingerprint string) string {
	return s.prefix + "scan:" + fingerprint
}

func (s *Store) setKey() string {
	return s.prefix + "scans"
}

// Get retrieves the record for fingerprint.
func (s *Store) Get(ctx context.Context, fingerprint string) (*domain.ScanRecord, error) {
	fields, err := s.client.HGetAll(ctx, s.recordKey(fingerprint)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading record: %w", err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrNotFound
	}
	return decodeRecord(fingerprint, fields)
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
	key := s.recordKey(record.Fingerprint)
	created := record.CreatedAt.UnixNano()

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSetNX(ctx, key, fieldCreatedAt, strconv.FormatInt(created, 10))
		pipe.HSet(ctx, key,
			fieldURL, record.URL,
			fieldSummary, record.Summary,
			fieldIndexPath, record.IndexPath,
			fieldUpdatedAt, strconv.FormatInt(record.UpdatedAt.UnixNano(), 10),
		)
		pipe.ZAddNX(ctx, s.setKey(), redis.Z{Score: float64(created), Member: record.Fingerprint})
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving record: %w", err)
	}
	return nil
}

// Delete removes the record for fingerprint.
func (s *Store) Delete(ctx context.Context, fingerprint string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.recordKey(fingerprint))
		pipe.ZRem(ctx, s.setKey(), fingerprint)
		return nil
	})
	if err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}
	return nil
}

// List returns every record, most recently created first.
func (s *Store) List(ctx context.Context) ([]domain.ScanRecord, error) {
	fingerprints, err := s.client.ZRevRange(ctx, s.setKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}

	records := make([]domain.ScanRecord, 0, len(fingerprints))
	for _, fp := range fingerprints {
		rec, err := s.Get(ctx, fp)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, nil
}

// Clear removes every record.
func (s *Store) Clear(ctx context.Context) (int, error) {
	fingerprints, err := s.client.ZRange(ctx, s.setKey(), 0, -1).Result()
	if err != nil {
		return 0, fmt.Errorf("listing records: %w", err)
	}
	if len(fingerprints) == 0 {
		return 0, nil
	}

	keys := make([]string, 0, len(fingerprints)+1)
	for _, fp := range fingerprints {
		keys = append(keys, s.recordKey(fp))
	}
	removed, err := s.client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("clearing records: %w", err)
	}
	if err := s.client.Del(ctx, s.setKey()).Err(); err != nil {
		return 0, fmt.Errorf("clearing index set: %w", err)
	}
	return int(removed), nil
}

// Close closes the client.
func (s *Store) Close() error {
	return s.client.Close()
}

func decodeRecord(fingerprint string, fields map[string]string) (*domain.ScanRecord, error) {
	created, err := parseNanos(fields[fieldCreatedAt])
	if err != nil {
		return nil, fmt.Errorf("parsing %s of %s: %w", fieldCreatedAt, fingerprint, err)
	}
	updated, err := parseNanos(fields[fieldUpdatedAt])
	if err != nil {
		return nil, fmt.Errorf("parsing %s of %s: %w", fieldUpdatedAt, fingerprint, err)
	}
	return &domain.ScanRecord{
		Fingerprint: fingerprint,
		URL:         fields[fieldURL],
		Summary:     fields[fieldSummary],
		IndexPath:   fields[fieldIndexPath],
		CreatedAt:   created,
		UpdatedAt:   updated,
	}, nil
}

func parseNanos(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(0, n).UTC(), nil
}
