package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalBucket persists uploaded binaries on disk under a base directory,
// addressed by an opaque file id the way a managed bucket would be.
type LocalBucket struct {
	baseDir string
}

// NewLocalBucket ensures the base directory exists and returns a handle.
func NewLocalBucket(baseDir string) (*LocalBucket, error) {
	if baseDir == "" {
		baseDir = "./content"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create content directory: %w", err)
	}
	return &LocalBucket{baseDir: baseDir}, nil
}

// Save streams the reader into a new file and returns its generated id.
func (s *LocalBucket) Save(r io.Reader) (string, error) {
	fileID := uuid.NewString()
	file, err := os.Create(s.resolve(fileID))
	if err != nil {
		return "", fmt.Errorf("create content file: %w", err)
	}
	defer file.Close() //nolint:errcheck
	if _, err := io.Copy(file, r); err != nil {
		_ = os.Remove(s.resolve(fileID))
		return "", fmt.Errorf("write content file: %w", err)
	}
	return fileID, nil
}

// Open returns a read-only handle for the stored file.
func (s *LocalBucket) Open(fileID string) (*os.File, error) {
	file, err := os.Open(s.resolve(fileID))
	if err != nil {
		return nil, fmt.Errorf("open content file: %w", err)
	}
	return file, nil
}

// Delete removes a stored file. Missing files are reported so callers can
// log the cleanup failure; they are expected to treat it as non-fatal.
func (s *LocalBucket) Delete(fileID string) error {
	if err := os.Remove(s.resolve(fileID)); err != nil {
		return fmt.Errorf("delete content file: %w", err)
	}
	return nil
}

// Path exposes the underlying absolute path (useful for debugging).
func (s *LocalBucket) Path(fileID string) string {
	return s.resolve(fileID)
}

func (s *LocalBucket) resolve(fileID string) string {
	// File ids are generated UUIDs; Base guards against traversal anyway.
	return filepath.Join(s.baseDir, filepath.Base(fileID))
}
