package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"quizhub-backend/models"
)

// ErrNoSnapshot is returned by Read when no snapshot file exists yet.
// That is a valid initial state; the caller fetches and populates.
var ErrNoSnapshot = errors.New("no category snapshot")

// FileCache is a file-backed snapshot of the category list. Writes go
// through a temp file and rename, so a concurrent reader sees either the
// old snapshot or the new one, never a partial write.
type FileCache struct {
	path string
}

func NewFileCache(path string) *FileCache {
	return &FileCache{path: path}
}

// Read loads the current snapshot.
func (c *FileCache) Read() ([]models.Category, error) {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("read snapshot %s: %w", c.path, err)
	}

	categories := []models.Category{}
	if err := json.Unmarshal(raw, &categories); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", c.path, err)
	}
	return categories, nil
}

// Write replaces the snapshot atomically. Last writer wins; the category
// list is append-mostly so that is acceptable.
func (c *FileCache) Write(categories []models.Category) error {
	// The snapshot contract is a JSON array; a nil slice would serialize
	// to null and readers would serve null after a refresh on an empty
	// store.
	if categories == nil {
		categories = []models.Category{}
	}
	raw, err := json.MarshalIndent(categories, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".categories-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close temp snapshot: %w", err)
	}

	if err := os.Rename(tmp.Name(), c.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace snapshot %s: %w", c.path, err)
	}
	return nil
}
