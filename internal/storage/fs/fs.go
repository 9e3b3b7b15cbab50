// Package fs stores uploaded binary artifacts in a flat directory. Record ids
// and stored names share a namespace: an artifact is saved as <uuid><ext> and
// the owning record's id is the uuid.
package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

type Storage struct {
	rootPath string
}

// New ensures the uploads directory exists.
func New(rootPath string) (*Storage, error) {
	// filepath.Clean prevents path traversal like "uploads/../"
	p := filepath.Clean(rootPath)

	if err := os.MkdirAll(p, 0755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory %s: %w", p, err)
	}

	return &Storage{rootPath: p}, nil
}

// Root returns the uploads directory, for static file serving.
func (s *Storage) Root() string {
	return s.rootPath
}

// Save writes an artifact under storedName and returns the number of bytes
// written. storedName is reduced to its base name so callers cannot escape
// the uploads directory.
func (s *Storage) Save(data io.Reader, storedName string) (int64, error) {
	fullPath := filepath.Join(s.rootPath, filepath.Base(storedName))

	dst, err := os.Create(fullPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create artifact file: %w", err)
	}
	defer dst.Close()

	n, err := io.Copy(dst, data)
	if err != nil {
		os.Remove(fullPath) // best effort, don't leave a partial artifact
		return 0, fmt.Errorf("failed to write artifact data: %w", err)
	}

	return n, nil
}

// Open returns the stored artifact for reading.
func (s *Storage) Open(storedName string) (io.ReadCloser, error) {
	fullPath := filepath.Join(s.rootPath, filepath.Base(storedName))

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("artifact not found: %w", err)
		}
		return nil, fmt.Errorf("failed to open artifact: %w", err)
	}
	return file, nil
}

// Delete removes a stored artifact. A missing artifact is not an error:
// deletion is best-effort and may run against already-partial state.
func (s *Storage) Delete(storedName string) error {
	fullPath := filepath.Join(s.rootPath, filepath.Base(storedName))

	err := os.Remove(fullPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete artifact: %w", err)
	}
	return nil
}
