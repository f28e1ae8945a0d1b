package flat

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/domain"
	"github.com/NIT-JSR/PrivaShield-AI/internal/core/ports/driven"
	"github.com/NIT-JSR/PrivaShield-AI/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.IndexStore = (*Store)(nil)

// Artifact file names and format version.
const (
	ManifestFile  = "manifest.json"
	VectorsFile   = "vectors.bin"
	FormatVersion = 1

	tmpMarker = ".tmp-"
	oldMarker = ".old-"
)

// Manifest describes a persisted index.
type Manifest struct {
	Version      int            `json:"version"`
	BuildID      string         `json:"build_id"`
	Fingerprint  string         `json:"fingerprint"`
	Model        string         `json:"model,omitempty"`
	Dimensions   int            `json:"dimensions"`
	Count        int            `json:"count"`
	VectorsCRC32 uint32         `json:"vectors_crc32"`
	CreatedAt    time.Time      `json:"created_at"`
	Chunks       []domain.Chunk `json:"chunks"`
}

// Store persists flat indexes under a root directory. Writers hold mu
// exclusively and readers share it, so a Load never sees the gap while an
// artifact is swapped.
type Store struct {
	root  string
	model string
	mu    sync.RWMutex
	now   func() time.Time
}

// NewStore creates a store rooted at root. model is recorded in each
// manifest so artifacts built with another embedding model can be spotted.
// Leftovers of an interrupted Persist are cleaned up.
func NewStore(root, model string) *Store {
	s := &Store{root: root, model: model, now: time.Now}
	s.sweep()
	return s
}

// sweep removes abandoned temp directories and restores an artifact that
// was moved aside but never replaced.
func (s *Store) sweep() {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		path := filepath.Join(s.root, name)
		if _, _, ok := strings.Cut(name, tmpMarker); ok {
			if err := os.RemoveAll(path); err != nil {
				logger.Warn("Removing stale index directory %s: %v", path, err)
			}
			continue
		}
		base, _, ok := strings.Cut(name, oldMarker)
		if !ok {
			continue
		}
		final := filepath.Join(s.root, base)
		if _, err := os.Stat(filepath.Join(final, ManifestFile)); err == nil {
			if err := os.RemoveAll(path); err != nil {
				logger.Warn("Removing replaced index %s: %v", path, err)
			}
			continue
		}
		_ = os.RemoveAll(final)
		if err := os.Rename(path, final); err != nil {
			logger.Warn("Restoring index %s: %v", final, err)
		}
	}
}

// Root returns the storage root.
func (s *Store) Root() string {
	return s.root
}

// Build constructs an in-memory index from embedded chunks.
func (s *Store) Build(entries []domain.IndexEntry) (driven.VectorIndex, error) {
	return NewIndex(entries)
}

// Location returns the artifact directory for fingerprint.
func (s *Store) Location(fingerprint string) string {
	return domain.IndexLocation(s.root, fingerprint)
}

// Exists reports whether a complete artifact exists for fingerprint.
func (s *Store) Exists(fingerprint string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, err := os.Stat(filepath.Join(s.Location(fingerprint), ManifestFile))
	return err == nil
}

// Persist writes index for fingerprint, replacing any prior artifact.
// The artifact is written to a temporary sibling directory. The previous
// artifact is renamed aside before the new one is renamed into place and is
// only removed after that, so a crash leaves one of them for sweep.
func (s *Store) Persist(ctx context.Context, fingerprint string, index driven.VectorIndex) (string, error) {
	if !domain.IsFingerprint(fingerprint) {
		return "", fmt.Errorf("%w: bad fingerprint %q", domain.ErrInvalidInput, fingerprint)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	entries := index.Entries()
	vectors := encodeVectors(entries)
	chunks := make([]domain.Chunk, len(entries))
	for i, e := range entries {
		chunks[i] = e.Chunk
	}
	manifest := Manifest{
		Version:      FormatVersion,
		BuildID:      uuid.New().String(),
		Fingerprint:  fingerprint,
		Model:        s.model,
		Dimensions:   index.Dimensions(),
		Count:        len(entries),
		VectorsCRC32: crc32.ChecksumIEEE(vectors),
		CreatedAt:    s.now().UTC(),
		Chunks:       chunks,
	}
	manifestData, err := json.Marshal(manifest)
	if err != nil {
		return "", fmt.Errorf("marshaling manifest: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return "", fmt.Errorf("creating storage root: %w", err)
	}
	tmpDir, err := os.MkdirTemp(s.root, domain.IndexDirName(fingerprint)+".tmp-")
	if err != nil {
		return "", fmt.Errorf("creating temp index directory: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = os.RemoveAll(tmpDir)
		}
	}()

	if err := writeFileSync(filepath.Join(tmpDir, VectorsFile), vectors); err != nil {
		return "", fmt.Errorf("writing vectors: %w", err)
	}
	if err := writeFileSync(filepath.Join(tmpDir, ManifestFile), manifestData); err != nil {
		return "", fmt.Errorf("writing manifest: %w", err)
	}

	final := s.Location(fingerprint)
	aside := ""
	if _, err := os.Stat(final); err == nil {
		aside = final + oldMarker + manifest.BuildID
		if err := os.Rename(final, aside); err != nil {
			return "", fmt.Errorf("moving previous index aside: %w", err)
		}
	}
	if err := os.Rename(tmpDir, final); err != nil {
		if aside != "" {
			_ = os.Rename(aside, final)
		}
		return "", fmt.Errorf("renaming index directory: %w", err)
	}
	committed = true
	if aside != "" {
		if err := os.RemoveAll(aside); err != nil {
			logger.Warn("Removing previous index %s: %v", aside, err)
		}
	}

	logger.Debug("Persisted index %s (%d chunks, build %s)", final, manifest.Count, manifest.BuildID)
	return final, nil
}

// Load reads the index for fingerprint.
func (s *Store) Load(ctx context.Context, fingerprint string) (driven.VectorIndex, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	manifest, err := s.manifest(fingerprint)
	if err != nil {
		return nil, err
	}

	dir := s.Location(fingerprint)
	data, err := os.ReadFile(filepath.Join(dir, VectorsFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s is missing %s", domain.ErrIndexCorrupt, dir, VectorsFile)
		}
		return nil, fmt.Errorf("reading vectors: %w", err)
	}
	if want := manifest.Count * manifest.Dimensions * 4; len(data) != want {
		return nil, fmt.Errorf("%w: %s has %d bytes, expected %d", domain.ErrIndexCorrupt, VectorsFile, len(data), want)
	}
	if sum := crc32.ChecksumIEEE(data); sum != manifest.VectorsCRC32 {
		return nil, fmt.Errorf("%w: %s checksum mismatch", domain.ErrIndexCorrupt, VectorsFile)
	}

	entries := make([]domain.IndexEntry, manifest.Count)
	for i, chunk := range manifest.Chunks {
		entries[i] = domain.IndexEntry{Chunk: chunk, Vector: decodeVector(data, i, manifest.Dimensions)}
	}

	index, err := NewIndex(entries)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIndexCorrupt, err)
	}
	return index, nil
}

// Manifest reads and validates the manifest of the artifact for fingerprint.
func (s *Store) Manifest(fingerprint string) (*Manifest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.manifest(fingerprint)
}

func (s *Store) manifest(fingerprint string) (*Manifest, error) {
	if !domain.IsFingerprint(fingerprint) {
		return nil, fmt.Errorf("%w: bad fingerprint %q", domain.ErrIndexNotFound, fingerprint)
	}
	dir := s.Location(fingerprint)
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrIndexNotFound, dir)
		}
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: parsing manifest: %w", domain.ErrIndexCorrupt, err)
	}
	switch {
	case m.Version != FormatVersion:
		return nil, fmt.Errorf("%w: unsupported format version %d", domain.ErrIndexCorrupt, m.Version)
	case m.Count <= 0 || m.Dimensions <= 0 || len(m.Chunks) != m.Count:
		return nil, fmt.Errorf("%w: manifest declares %d chunks of %d dimensions with %d texts",
			domain.ErrIndexCorrupt, m.Count, m.Dimensions, len(m.Chunks))
	}
	return &m, nil
}

// Delete removes the artifact for fingerprint.
func (s *Store) Delete(ctx context.Context, fingerprint string) error {
	if !domain.IsFingerprint(fingerprint) {
		return fmt.Errorf("%w: bad fingerprint %q", domain.ErrInvalidInput, fingerprint)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.RemoveAll(s.Location(fingerprint)); err != nil {
		return fmt.Errorf("removing index: %w", err)
	}
	return nil
}

func encodeVectors(entries []domain.IndexEntry) []byte {
	if len(entries) == 0 {
		return nil
	}
	dims := len(entries[0].Vector)
	buf := make([]byte, len(entries)*dims*4)
	off := 0
	for _, e := range entries {
		for _, f := range e.Vector {
			binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(f))
			off += 4
		}
	}
	return buf
}

func decodeVector(data []byte, row, dims int) []float32 {
	v := make([]float32, dims)
	base := row * dims * 4
	for j := range v {
		v[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[base+j*4:]))
	}
	return v
}

func writeFileSync(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
