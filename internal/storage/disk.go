package storage

import (
	"context"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hyperjump/kyori/internal/stats"
)

// DiskStore keeps one gob file per key under a directory. Saves write to
// a temp file and rename into place so readers never observe a partially
// written record.
type DiskStore struct {
	dir string
}

// NewDiskStore creates the directory if needed and returns a store over it.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

func (s *DiskStore) path(key string) string {
	return filepath.Join(s.dir, key+".stats")
}

// Exists reports whether statistics are persisted under key.
func (s *DiskStore) Exists(_ context.Context, key string) (bool, error) {
	_, err := os.Stat(s.path(key))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Load reads the statistics persisted under key.
func (s *DiskStore) Load(_ context.Context, key string) (*stats.Gaussian, error) {
	f, err := os.Open(s.path(key))
	if err != nil {
		return nil, fmt.Errorf("failed to open statistics file: %w", err)
	}
	defer f.Close()

	var r record
	if err := gob.NewDecoder(f).Decode(&r); err != nil {
		return nil, fmt.Errorf("failed to decode statistics: %w", err)
	}
	return r.gaussian()
}

// Save persists the statistics under key, replacing any existing record.
func (s *DiskStore) Save(_ context.Context, key string, g *stats.Gaussian) error {
	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if err := gob.NewEncoder(tmp).Encode(toRecord(g)); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to encode statistics: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to move statistics into place: %w", err)
	}
	return nil
}

// Close is a no-op for DiskStore.
func (s *DiskStore) Close() error {
	return nil
}
