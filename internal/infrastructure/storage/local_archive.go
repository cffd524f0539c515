package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/gestionale/backend/internal/domain/shared"
)

// LocalArchiveStore keeps project files on the local filesystem, one
// directory per project id under the configured root.
type LocalArchiveStore struct {
	root string
}

// NewLocalArchiveStore creates the archive root if it does not exist
func NewLocalArchiveStore(root string) (*LocalArchiveStore, error) {
	if root == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Archive root cannot be empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &LocalArchiveStore{root: root}, nil
}

// Store writes a file into the project's archive directory
func (s *LocalArchiveStore) Store(projectID uuid.UUID, fileName string, r io.Reader) error {
	path, err := s.filePath(projectID, fileName)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

// Open opens an archived file for reading
func (s *LocalArchiveStore) Open(projectID uuid.UUID, fileName string) (io.ReadCloser, error) {
	path, err := s.filePath(projectID, fileName)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Remove deletes an archived file
func (s *LocalArchiveStore) Remove(projectID uuid.UUID, fileName string) error {
	path, err := s.filePath(projectID, fileName)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return shared.ErrNotFound
	}
	return err
}

// filePath validates the file name and resolves it under the project
// directory. Names with path separators or traversal segments are rejected
// before they touch the filesystem.
func (s *LocalArchiveStore) filePath(projectID uuid.UUID, fileName string) (string, error) {
	if fileName == "" || fileName != filepath.Base(fileName) ||
		strings.ContainsAny(fileName, `/\`) || fileName == "." || fileName == ".." {
		return "", shared.NewDomainError("INVALID_INPUT", "Invalid archive file name")
	}
	return filepath.Join(s.root, projectID.String(), fileName), nil
}
