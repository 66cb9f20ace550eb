// Package storage persists uploaded images on the local filesystem.  Each
// article may carry a cover image and each user a profile picture; the
// stored path is recorded on the owning record, and the file is removed
// when the record is deleted or the image replaced.
package storage

import (
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ImageStore writes uploads into a base directory created on demand.
type ImageStore struct {
	Dir string
}

func NewImageStore(dir string) *ImageStore { return &ImageStore{Dir: dir} }

// Save copies an uploaded file into the store under a random unique name,
// keeping the client's extension, and returns the stored path. The random
// name prevents collisions and stops clients from controlling filesystem
// paths.
func (s *ImageStore) Save(fh *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", err
	}
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := uuid.NewString() + filepath.Ext(fh.Filename)
	path := filepath.Join(s.Dir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}

// Remove deletes a stored image. A blank path or an already-missing file
// is not an error; the record is the source of truth and a stray unlink
// should never fail a delete cascade.
func (s *ImageStore) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
