package kv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
)

// FileStore keeps every key in one TOML document. Each Set rewrites the
// file through a temp file and rename. A Set holds the lock across its read
// and rewrite so concurrent writers to different keys do not drop each other.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a store backed by the TOML file at path. The file is
// created on first Set.
func NewFileStore(path string) (*FileStore, error) {
	resolved, err := expandPath(path)
	if err != nil {
		return nil, fmt.Errorf("resolve store path: %w", err)
	}
	return &FileStore{path: resolved}, nil
}

// Path returns the resolved file path.
func (s *FileStore) Path() string {
	return s.path
}

// Get returns the value for key. A missing file reads as empty.
func (s *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

// Set writes value under key, replacing any previous value.
func (s *FileStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.load()
	if err != nil {
		return err
	}
	values[key] = value

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	bytes, err := toml.Marshal(values)
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".store-*.toml")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(bytes); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}

// Close implements Store. FileStore holds no open handles.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) load() (map[string]string, error) {
	values := map[string]string{}
	bytes, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return values, nil
		}
		return nil, fmt.Errorf("read store: %w", err)
	}
	if err := toml.Unmarshal(bytes, &values); err != nil {
		return nil, fmt.Errorf("parse store: %w", err)
	}
	return values, nil
}
