package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"data-integrity/core/record"
)

// FileStore keeps datasets as JSON array files below a directory:
// <dir>/datasets/<id>.json and <dir>/kv/<key>.json.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates a store rooted at dir. Directories are created on first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) datasetPath(id string) string {
	return filepath.Join(s.dir, "datasets", id+".json")
}

func (s *FileStore) keyPath(key string) string {
	return filepath.Join(s.dir, "kv", key+".json")
}

// Fetch reads a dataset file.
func (s *FileStore) Fetch(ctx context.Context, id string) ([]record.Value, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(id)
}

func (s *FileStore) read(id string) ([]record.Value, error) {
	data, err := os.ReadFile(s.datasetPath(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFound("dataset", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", id, err)
	}
	items, err := record.DecodeAll(data)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", id, err)
	}
	return items, nil
}

// Replace overwrites the dataset file.
func (s *FileStore) Replace(ctx context.Context, id string, items []record.Value) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(id, items)
}

// Append reads the dataset, extends it and writes it back.
func (s *FileStore) Append(ctx context.Context, id string, items []record.Value) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.read(id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return s.write(id, append(existing, items...))
}

func (s *FileStore) write(id string, items []record.Value) error {
	data, err := encodeItems(items)
	if err != nil {
		return fmt.Errorf("failed to encode dataset %s: %w", id, err)
	}
	return writeFileAtomic(s.datasetPath(id), data)
}

// Put writes a key-value entry as JSON.
func (s *FileStore) Put(ctx context.Context, key string, value any) error {
	if err := ValidateID(key); err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value for %s: %w", key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeFileAtomic(s.keyPath(key), data)
}

// Get reads a key-value entry.
func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ValidateID(key); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.keyPath(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFound("key", key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return data, nil
}

// List returns the ids of all dataset files.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(filepath.Join(s.dir, "datasets"))
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

// Delete removes the dataset file.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.datasetPath(id))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete dataset %s: %w", id, err)
	}
	return nil
}

// writeFileAtomic writes to a temp file in the target directory and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}
