package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/smarttask/smarttask/internal/core/domain"
)

// FileStorage keeps uploaded attachments in a single directory of an afero
// filesystem.
type FileStorage struct {
	fs  afero.Fs
	dir string
}

// NewFileStorage creates dir on fs if needed.
func NewFileStorage(fsys afero.Fs, dir string) (*FileStorage, error) {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &FileStorage{fs: fsys, dir: dir}, nil
}

// NewOSFileStorage stores files on the local disk under dir.
func NewOSFileStorage(dir string) (*FileStorage, error) {
	return NewFileStorage(afero.NewOsFs(), dir)
}

// Save writes r under a random hex name keeping the extension of originalName.
func (s *FileStorage) Save(_ context.Context, r io.Reader, originalName string) (string, error) {
	name := strings.ReplaceAll(uuid.NewString(), "-", "") + strings.ToLower(filepath.Ext(originalName))

	f, err := s.fs.OpenFile(s.path(name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", name, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = s.fs.Remove(s.path(name))
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		_ = s.fs.Remove(s.path(name))
		return "", fmt.Errorf("closing %s: %w", name, err)
	}
	return name, nil
}

func (s *FileStorage) Open(_ context.Context, name string) (io.ReadCloser, error) {
	p, err := s.resolve(name)
	if err != nil {
		return nil, err
	}
	f, err := s.fs.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrAttachmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	return f, nil
}

// Remove deletes name. A missing file is not an error.
func (s *FileStorage) Remove(_ context.Context, name string) error {
	p, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", name, err)
	}
	return nil
}

func (s *FileStorage) path(name string) string {
	return filepath.Join(s.dir, name)
}

// resolve rejects names that would escape the upload directory.
func (s *FileStorage) resolve(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", domain.ErrAttachmentNotFound
	}
	return s.path(name), nil
}
