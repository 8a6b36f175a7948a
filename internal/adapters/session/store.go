package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mikey-austin/media_federation/pkg/mf"
)

// Store saves the last search under XDG_RUNTIME_DIR, so it lives for the
// login session only.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a session store.
func NewStore() (*Store, error) {
	path, err := sessionPath()
	if err != nil {
		return nil, err
	}
	return &Store{path: path}, nil
}

// NewStoreAt creates a store backed by path.
func NewStoreAt(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Load returns the last saved search if one exists.
func (s *Store) Load() (mf.SavedSearch, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return mf.SavedSearch{}, false, nil
		}
		return mf.SavedSearch{}, false, err
	}
	if len(file) == 0 {
		return mf.SavedSearch{}, false, nil
	}
	var saved mf.SavedSearch
	if err := json.Unmarshal(file, &saved); err != nil {
		return mf.SavedSearch{}, false, err
	}
	return saved, true, nil
}

// Save replaces the stored search.
func (s *Store) Save(search mf.SavedSearch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(search, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Clear forgets the stored search.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func sessionPath() (string, error) {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "mf", "last-search.json"), nil
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("mf-%d", os.Getuid()), "last-search.json"), nil
}
