package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore implements Store on a local directory, one JSON file per
// bucket key. O_EXCL on create gives the same per-key exclusivity the
// remote store provides, which makes it a faithful backend for local runs
// and a simple one for tests. Keys are bucket ids (digits only), so they
// are safe as file names.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed and returns a store over it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &Error{Kind: KindInternal, Key: dir, Err: fmt.Errorf("creating store directory: %w", err)}
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get reads the record for a key, or (nil, nil) when no file exists.
func (s *FileStore) Get(_ context.Context, key string) (*Record, error) {
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, &Error{Kind: KindUnavailable, Key: key, Err: err}
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		// A half-written or corrupted file is a data-integrity problem for
		// the caller to surface, not something to silently repair here.
		return nil, &Error{Kind: KindInternal, Key: key, Err: fmt.Errorf("corrupted record file: %w", err)}
	}
	return &rec, nil
}

// Create writes the record atomically-if-absent via O_EXCL.
func (s *FileStore) Create(_ context.Context, key string, rec *Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return &Error{Kind: KindInternal, Key: key, Err: fmt.Errorf("marshaling record: %w", err)}
	}

	f, err := os.OpenFile(s.path(key), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if os.IsExist(err) {
		return &Error{Kind: KindAlreadyExists, Key: key}
	}
	if err != nil {
		return &Error{Kind: KindUnavailable, Key: key, Err: err}
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return &Error{Kind: KindInternal, Key: key, Err: err}
	}
	if err := f.Close(); err != nil {
		return &Error{Kind: KindInternal, Key: key, Err: err}
	}
	return nil
}
