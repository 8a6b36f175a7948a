package assets

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"

	"github.com/mikey-austin/media_federation/internal/ports"
)

// ErrReleased is returned when a handle is used after release.
var ErrReleased = errors.New("asset handle released")

// Handle is a locally resolvable reference to fetched asset bytes.
type Handle struct {
	ID   string
	Name string
	MIME string
	Size int64
}

// Store creates and releases asset handles.
type Store interface {
	Create(data []byte) (Handle, error)
	Open(h Handle) (io.ReadCloser, error)
	Release(h Handle) error
}

// FileStore keeps asset bytes as files on an afero filesystem.
type FileStore struct {
	fs   afero.Fs
	dir  string
	ids  ports.IDGen
	mu   sync.Mutex
	live map[string]Handle
}

// NewFileStore creates a store rooted at dir on fs.
func NewFileStore(fs afero.Fs, dir string, ids ports.IDGen) (*FileStore, error) {
	if fs == nil {
		return nil, errors.New("filesystem required")
	}
	if ids == nil {
		return nil, errors.New("id generator required")
	}
	if dir == "" {
		dir = "/assets"
	}
	if err := fs.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &FileStore{fs: fs, dir: dir, ids: ids, live: map[string]Handle{}}, nil
}

// NewMemStore creates a memory-backed store.
func NewMemStore(ids ports.IDGen) *FileStore {
	store, _ := NewFileStore(afero.NewMemMapFs(), "/assets", ids)
	return store
}

// Create writes data and returns a live handle.
func (s *FileStore) Create(data []byte) (Handle, error) {
	id := s.ids.NewID()
	if id == "" {
		return Handle{}, errors.New("empty handle id")
	}
	mtype := mimetype.Detect(data)
	h := Handle{
		ID:   id,
		Name: filepath.Join(s.dir, id+mtype.Extension()),
		MIME: mtype.String(),
		Size: int64(len(data)),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.live[id]; exists {
		return Handle{}, fmt.Errorf("duplicate handle id %s", id)
	}
	if err := afero.WriteFile(s.fs, h.Name, data, 0o600); err != nil {
		return Handle{}, err
	}
	s.live[id] = h
	return h, nil
}

// Open reads a live handle.
func (s *FileStore) Open(h Handle) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.live[h.ID]; !ok {
		return nil, ErrReleased
	}
	return s.fs.Open(h.Name)
}

// Release removes the handle's bytes. Releasing twice returns ErrReleased.
func (s *FileStore) Release(h Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.live[h.ID]
	if !ok {
		return ErrReleased
	}
	delete(s.live, h.ID)
	return s.fs.Remove(stored.Name)
}

// Live returns the number of unreleased handles.
func (s *FileStore) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

// Close releases every outstanding handle.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []error
	for id, h := range s.live {
		delete(s.live, id)
		if err := s.fs.Remove(h.Name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
