package credstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/mhartig/shopfront/internal/metrics"
)

// FileStore persists credentials as a single JSON document on disk.
// Writes go through a temp file + rename so readers never observe a
// half-written document. File mode is 0600: the document holds tokens.
type FileStore struct {
	path string
	mu   sync.Mutex
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a file-backed store at path, creating parent
// directories as needed. The file itself is created lazily on first Set.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("credential file path must not be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create credential directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

// DefaultPath returns the conventional credential file location under the
// user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config directory: %w", err)
	}
	return filepath.Join(dir, "shopfront", "credentials.json"), nil
}

func (s *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		metrics.CredStoreOpsTotal.WithLabelValues("file", "get", "error").Inc()
		return "", false, err
	}

	v, ok := values[key]
	metrics.CredStoreOpsTotal.WithLabelValues("file", "get", "ok").Inc()
	return v, ok, nil
}

func (s *FileStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		metrics.CredStoreOpsTotal.WithLabelValues("file", "set", "error").Inc()
		return err
	}

	values[key] = value
	if err := s.save(values); err != nil {
		metrics.CredStoreOpsTotal.WithLabelValues("file", "set", "error").Inc()
		return err
	}

	metrics.CredStoreOpsTotal.WithLabelValues("file", "set", "ok").Inc()
	return nil
}

func (s *FileStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		metrics.CredStoreOpsTotal.WithLabelValues("file", "delete", "error").Inc()
		return err
	}

	changed := false
	for _, k := range keys {
		if _, ok := values[k]; ok {
			delete(values, k)
			changed = true
		}
	}

	if changed {
		if err := s.save(values); err != nil {
			metrics.CredStoreOpsTotal.WithLabelValues("file", "delete", "error").Inc()
			return err
		}
	}

	metrics.CredStoreOpsTotal.WithLabelValues("file", "delete", "ok").Inc()
	return nil
}

// load reads the document, treating a missing file as an empty store.
// A corrupt document is also treated as empty: the caller's next save
// replaces it, which matches the wipe-on-corruption session policy.
func (s *FileStore) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credential file: %w", err)
	}

	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return map[string]string{}, nil
	}
	return values, nil
}

func (s *FileStore) save(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credential file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".credentials-*")
	if err != nil {
		return fmt.Errorf("failed to create temp credential file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write temp credential file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to chmod temp credential file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp credential file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace credential file: %w", err)
	}
	return nil
}
