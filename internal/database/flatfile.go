package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// FileStore keeps each collection as a JSON array file under one directory.
// Mutations of a collection are serialized by a per-file lock, so concurrent
// read-modify-write cycles inside this process never lose updates.
type FileStore struct {
	dir   string
	mu    sync.Mutex
	locks map[string]*sync.RWMutex
}

// NewFileStore creates the data directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStore{
		dir:   dir,
		locks: make(map[string]*sync.RWMutex),
	}, nil
}

// Path returns the on-disk path of a collection file.
func (s *FileStore) Path(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *FileStore) lock(name string) *sync.RWMutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[name]
	if !ok {
		l = &sync.RWMutex{}
		s.locks[name] = l
	}
	return l
}

// View reads a collection under its read lock.
func View[T any](s *FileStore, name string) ([]T, error) {
	l := s.lock(name)
	l.RLock()
	defer l.RUnlock()

	return ReadCollection[T](s.Path(name))
}

// Mutate reads a collection, applies fn and writes the result back while holding
// the collection's write lock. When fn fails nothing is written.
func Mutate[T any](s *FileStore, name string, fn func(records []T) ([]T, error)) error {
	l := s.lock(name)
	l.Lock()
	defer l.Unlock()

	path := s.Path(name)
	records, err := ReadCollection[T](path)
	if err != nil {
		return err
	}

	records, err = fn(records)
	if err != nil {
		return err
	}

	return WriteCollection(path, records)
}

// ReadCollection parses the JSON array at path. A missing file is an empty
// collection.
func ReadCollection[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// WriteCollection writes records as indented JSON to a temp file next to path,
// syncs it and renames it over path, so readers never observe a partial file.
func WriteCollection[T any](path string, records []T) error {
	if records == nil {
		records = []T{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}

	tmp := path + ".tmp." + uuid.NewString()
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to sync %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close %s: %w", filepath.Base(path), err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
