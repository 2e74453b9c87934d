// Package uploads stores user-submitted blobs (avatars, message images) and
// hands back the public URL they are served under.
package uploads

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

const (
	SubdirAvatars       = "avatars"
	SubdirMessageImages = "message-images"
)

// Storage turns an uploaded file into a servable URL.
type Storage interface {
	Save(file *multipart.FileHeader, subdir string) (string, error)
}

// LocalStorage writes blobs under a base directory that the router serves
// statically at /uploads.
type LocalStorage struct {
	baseDir string
}

func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{baseDir: baseDir}
}

// Save copies the upload under a random filename and returns its URL path.
func (s *LocalStorage) Save(file *multipart.FileHeader, subdir string) (string, error) {
	dir := filepath.Join(s.baseDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := uuid.NewString() + filepath.Ext(file.Filename)

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return fmt.Sprintf("/uploads/%s/%s", subdir, name), nil
}
