// Package file stores each blob as a JSON file in a data directory.
//
// Writes go to a uniquely named temporary file in the same directory, are
// fsynced and then renamed into place, so readers never observe a partial
// document. The version token of a blob is the BLAKE3 hash of its content;
// a save is accepted only when the file on disk still hashes to the token
// obtained at load time. The compare and the rename run under an exclusive
// flock on <key>.lock, which serializes writers across processes.
package file

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/zeebo/blake3"

	"bankai/backend/internal/store"
)

type Store struct {
	dir string
}

var _ store.BlobStore = (*Store)(nil)

func New(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("data directory required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, string, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", nil
		}
		return nil, "", err
	}
	return data, contentVersion(data), nil
}

func (s *Store) Put(_ context.Context, key string, data []byte, expected string) (string, error) {
	path, err := s.path(key)
	if err != nil {
		return "", err
	}

	unlock, err := s.lock(key)
	if err != nil {
		return "", err
	}
	defer unlock()

	current := ""
	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		current = contentVersion(existing)
	case !errors.Is(err, fs.ErrNotExist):
		return "", err
	}
	if current != expected {
		return "", &store.ConflictError{Key: key}
	}

	if err := writeAtomic(path, data); err != nil {
		return "", err
	}
	return contentVersion(data), nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	unlock, err := s.lock(key)
	if err != nil {
		return err
	}
	defer unlock()
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *Store) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("%w: invalid blob key %q", store.ErrInvalidInput, key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

// lock takes an exclusive advisory lock on the key's sidecar file and
// blocks until it is granted. The lock file is left in place for reuse.
func (s *Store) lock(key string) (func(), error) {
	lockFile, err := os.OpenFile(filepath.Join(s.dir, key+".lock"), os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening lock file: %w", err)
	}
	if err := syscall.Flock(int(lockFile.Fd()), syscall.LOCK_EX); err != nil {
		lockFile.Close()
		return nil, fmt.Errorf("acquiring lock: %w", err)
	}
	return func() {
		_ = syscall.Flock(int(lockFile.Fd()), syscall.LOCK_UN)
		lockFile.Close()
	}, nil
}

func writeAtomic(path string, data []byte) error {
	file, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	tmpPath := file.Name()
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temporary file: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("syncing temporary file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temporary file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming file into place: %w", err)
	}

	if dir, err := os.Open(filepath.Dir(path)); err == nil {
		dir.Sync()
		dir.Close()
	}
	return nil
}

func contentVersion(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
