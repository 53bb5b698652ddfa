package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/ArowuTest/bridgetunes-raffle/internal/models"
	"github.com/ArowuTest/bridgetunes-raffle/internal/repositories"
)

// Compile-time check to ensure GiftLimitRepository implements repositories.GiftLimitRepository
var _ repositories.GiftLimitRepository = (*GiftLimitRepository)(nil)

// GiftLimitRepository keeps the gift limits in a JSON side file
type GiftLimitRepository struct {
	path string
	mu   sync.Mutex
}

// NewGiftLimitRepository creates a GiftLimitRepository backed by path
func NewGiftLimitRepository(path string) *GiftLimitRepository {
	return &GiftLimitRepository{path: path}
}

// Path returns the location of the limits file
func (r *GiftLimitRepository) Path() string {
	return r.path
}

// Load reads the limits file. A missing file yields repositories.ErrLimitsNotFound.
func (r *GiftLimitRepository) Load(_ context.Context) (models.GiftLimits, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, repositories.ErrLimitsNotFound
		}
		return nil, fmt.Errorf("failed to read gift limits: %w", err)
	}

	// pointers so a null entry is rejected instead of decoding to 0
	var raw map[string]*int
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("malformed gift limits file %s: %w", r.path, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("malformed gift limits file %s: expected an object", r.path)
	}
	limits := make(models.GiftLimits, len(raw))
	for gift, limit := range raw {
		if limit == nil {
			return nil, fmt.Errorf("malformed gift limits file %s: limit for %q is null", r.path, gift)
		}
		if *limit < 0 || *limit > models.MaxGiftLimit {
			return nil, fmt.Errorf("malformed gift limits file %s: limit %d for %q out of range", r.path, *limit, gift)
		}
		limits[gift] = *limit
	}
	return limits, nil
}

// Save rewrites the limits file atomically: the data goes to a temp file in the
// same directory which is synced and then renamed over the old file.
func (r *GiftLimitRepository) Save(_ context.Context, limits models.GiftLimits) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(limits); err != nil {
		return fmt.Errorf("failed to encode gift limits: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create limits directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".gift_limits-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp limits file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("failed to write gift limits: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("failed to sync gift limits: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to close gift limits: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		cleanup()
		return fmt.Errorf("failed to replace gift limits file: %w", err)
	}
	return nil
}
