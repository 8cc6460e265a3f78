// Package storage implements file storage on the local filesystem.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/intersul/copimanager/internal/application/port"
)

// LocalStorage stores files under a base directory. Stored names are
// uuid-based so client-supplied filenames can never collide or escape
// the directory.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage creates the base directory if needed and returns a
// storage rooted there.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

// Save writes content under dir with a generated name, keeping only the
// original extension. It returns the relative path of the stored file.
func (s *LocalStorage) Save(dir, filename string, content io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	relPath := filepath.Join(dir, uuid.NewString()+ext)

	fullPath := filepath.Join(s.baseDir, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	out, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, content); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return relPath, nil
}

// Read returns the contents of a stored file
func (s *LocalStorage) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, path))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// Exists reports whether the stored file is present
func (s *LocalStorage) Exists(path string) bool {
	_, err := os.Stat(filepath.Join(s.baseDir, path))
	return err == nil
}

// Delete removes a stored file. Deleting a missing file is not an error.
func (s *LocalStorage) Delete(path string) error {
	err := os.Remove(filepath.Join(s.baseDir, path))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// FullPath resolves a stored relative path to its absolute location
func (s *LocalStorage) FullPath(path string) string {
	return filepath.Join(s.baseDir, path)
}

var _ port.FileStorage = (*LocalStorage)(nil)
