package storage

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// MemoryBlobStore keeps blobs in process memory.
type MemoryBlobStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

// NewMemoryBlobStore creates an empty MemoryBlobStore.
func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{
		blobs: make(map[string][]byte),
	}
}

// Load returns a copy of the blob stored under key, or nil if there is none.
func (s *MemoryBlobStore) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneBytes(s.blobs[key]), nil
}

// Put overwrites the blob under key.
func (s *MemoryBlobStore) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = cloneBytes(value)
	return nil
}

// Modify runs fn under the store lock and saves its result.
// fn receives nil when the key is missing.
func (s *MemoryBlobStore) Modify(_ context.Context, key string, fn func(current []byte) ([]byte, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(cloneBytes(s.blobs[key]))
	if err != nil {
		return err
	}
	s.blobs[key] = cloneBytes(next)

	return nil
}

// Delete removes the blob under key. A missing key is not an error.
func (s *MemoryBlobStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}

// FileBlobStore keeps one file per key in a directory.
// Writes go through a temp file and a rename so a crash never leaves a torn value.
type FileBlobStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileBlobStore creates the directory if needed.
func NewFileBlobStore(dir string) (*FileBlobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}
	return &FileBlobStore{dir: dir}, nil
}

// Load returns the blob stored under key, or nil if there is none.
func (s *FileBlobStore) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(key)
}

// Put overwrites the blob under key.
func (s *FileBlobStore) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(key, value)
}

// Modify reads, transforms and writes the blob under key while holding the store lock.
func (s *FileBlobStore) Modify(_ context.Context, key string, fn func(current []byte) ([]byte, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.read(key)
	if err != nil {
		return err
	}

	next, err := fn(current)
	if err != nil {
		return err
	}

	return s.write(key, next)
}

// Delete removes the blob under key. A missing key is not an error.
func (s *FileBlobStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

// maxEncodedKey keeps file names well below the usual 255-byte limit.
const maxEncodedKey = 200

// path maps key to a file name. Short keys stay reversible; longer keys are hashed.
// Base64 never emits '.', so the two forms cannot collide.
func (s *FileBlobStore) path(key string) string {
	name := base64.RawURLEncoding.EncodeToString([]byte(key))
	if len(name) > maxEncodedKey {
		sum := sha256.Sum256([]byte(key))
		name = hex.EncodeToString(sum[:]) + ".sha256"
	}
	return filepath.Join(s.dir, name+".json")
}

func (s *FileBlobStore) read(key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read blob: %w", err)
	}
	return data, nil
}

func (s *FileBlobStore) write(key string, value []byte) error {
	tmp, err := os.CreateTemp(s.dir, ".blob-*")
	if err != nil {
		return fmt.Errorf("create temp blob: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err = tmp.Write(value); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write blob: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync blob: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close blob: %w", err)
	}

	if err = os.Rename(tmp.Name(), s.path(key)); err != nil {
		return fmt.Errorf("rename blob: %w", err)
	}

	return nil
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}
