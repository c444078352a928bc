package tle

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Snapshot keeps an on-disk copy of the last successfully fetched element-set
// text so a restarted process can serve stale data before its first fetch
// succeeds. Only the current text is stored, never historical state.
type Snapshot struct {
	path string
}

// NewSnapshot creates a Snapshot stored at path.
func NewSnapshot(path string) *Snapshot {
	return &Snapshot{path: path}
}

// Write saves the raw element-set text, stamping the file's mtime with the
// fetch instant so Load can reconstruct the cache entry age.
func (s *Snapshot) Write(data []byte, fetchedAt time.Time) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating snapshot dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Chtimes(s.path, fetchedAt, fetchedAt); err != nil {
		return fmt.Errorf("stamping snapshot time: %w", err)
	}
	return nil
}

// Load reads the snapshot text and its fetch instant.
func (s *Snapshot) Load() ([]byte, time.Time, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("reading snapshot: %w", err)
	}
	info, err := os.Stat(s.path)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("reading snapshot mtime: %w", err)
	}
	return data, info.ModTime().UTC(), nil
}
