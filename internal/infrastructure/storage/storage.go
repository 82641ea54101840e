package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrFileTooLarge    = errors.New("file exceeds the upload limit")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// PublicPrefix is the URL prefix uploaded files are served under
const PublicPrefix = "/uploads/"

var allowedTypes = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
	"image/gif",
	"application/pdf",
}

// StoredFile describes a saved upload
type StoredFile struct {
	Name     string
	URL      string
	MIMEType string
	Size     int64
}

// FileStorage keeps uploaded verification documents and images
type FileStorage struct {
	fs       afero.Fs
	maxBytes int64
}

// NewLocalStorage roots the storage at dir on the OS filesystem
func NewLocalStorage(dir string, maxBytes int64) (*FileStorage, error) {
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return NewFileStorage(afero.NewBasePathFs(osFs, dir), maxBytes), nil
}

func NewFileStorage(fs afero.Fs, maxBytes int64) *FileStorage {
	return &FileStorage{fs: fs, maxBytes: maxBytes}
}

// Save sniffs the content type and writes the file under a random name
func (s *FileStorage) Save(r io.Reader) (*StoredFile, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if int64(len(data)) > s.maxBytes {
		return nil, ErrFileTooLarge
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), allowedTypes...) {
		return nil, ErrUnsupportedType
	}

	name := uuid.New().String() + mtype.Extension()
	if err := afero.WriteReader(s.fs, "/"+name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("write upload: %w", err)
	}

	return &StoredFile{
		Name:     name,
		URL:      path.Join(PublicPrefix, name),
		MIMEType: mtype.String(),
		Size:     int64(len(data)),
	}, nil
}

// Handler serves stored files; mount it with http.StripPrefix(PublicPrefix, ...)
func (s *FileStorage) Handler() http.Handler {
	return http.FileServer(afero.NewHttpFs(s.fs).Dir("/"))
}
