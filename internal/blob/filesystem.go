package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"hub-go/internal/hub"
)

// FileSystemStore is a filesystem-based implementation of the BlobStore
// interface. Each key maps to a file under the root directory plus a
// sidecar revision file:
//
//	<root>/
//	  <key>          (document bytes)
//	  <key>.rev      (decimal revision number)
//
// Writes go through a temp file and atomic rename. A process-wide mutex
// keeps the document and its revision file consistent with each other;
// cross-process races remain possible and are only caught to the extent
// the revision check runs before the rename.
type FileSystemStore struct {
	root string
	mu   sync.Mutex
}

// NewFileSystemStore creates a filesystem blob store rooted at the given
// path, creating the directory if needed.
func NewFileSystemStore(root string) (*FileSystemStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory: %w", err)
	}
	return &FileSystemStore{root: root}, nil
}

// Get retrieves the document at key along with its current revision.
func (s *FileSystemStore) Get(_ context.Context, key string) ([]byte, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.keyPath(key)
	if err != nil {
		return nil, 0, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, hub.ErrNotFound
		}
		return nil, 0, fmt.Errorf("reading blob: %w", err)
	}

	revision, err := s.readRevision(path)
	if err != nil {
		return nil, 0, err
	}
	return data, revision, nil
}

// Put stores data at key when expectedRevision matches the stored revision.
func (s *FileSystemStore) Put(_ context.Context, key string, data []byte, expectedRevision int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.keyPath(key)
	if err != nil {
		return 0, err
	}

	current, err := s.readRevision(path)
	if err != nil {
		return 0, err
	}
	if current != expectedRevision {
		return 0, hub.ErrRevisionMismatch
	}

	if err := s.writeFile(path, bytes.NewReader(data)); err != nil {
		return 0, err
	}

	next := expectedRevision + 1
	revData := strconv.FormatInt(next, 10)
	if err := os.WriteFile(path+".rev", []byte(revData), 0644); err != nil {
		return 0, fmt.Errorf("writing revision file: %w", err)
	}
	return next, nil
}

// Ping verifies that the root directory is accessible.
func (s *FileSystemStore) Ping(context.Context) error {
	info, err := os.Stat(s.root)
	if err != nil {
		return fmt.Errorf("blob root not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("blob root is not a directory: %s", s.root)
	}
	return nil
}

// Close is a no-op for the filesystem store.
func (s *FileSystemStore) Close() error { return nil }

// keyPath maps a key to a path under root, refusing keys that would escape it.
func (s *FileSystemStore) keyPath(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") || filepath.IsAbs(key) {
		return "", fmt.Errorf("invalid blob key: %q", key)
	}
	return filepath.Join(s.root, filepath.FromSlash(key)), nil
}

// readRevision returns the revision recorded next to the document.
// A missing revision file means revision 0.
func (s *FileSystemStore) readRevision(path string) (int64, error) {
	data, err := os.ReadFile(path + ".rev")
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading revision file: %w", err)
	}

	revision, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing revision: %w", err)
	}
	return revision, nil
}

// writeFile writes data from r to the specified path using atomic write
// (temp file + rename).
func (s *FileSystemStore) writeFile(destPath string, r io.Reader) error {
	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create blob subdirectory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmpFile, r); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// Compile-time check that FileSystemStore implements hub.BlobStore
var _ hub.BlobStore = (*FileSystemStore)(nil)
