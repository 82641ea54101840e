package usecase

import (
	"context"
	"errors"
	"io"

	"go-medical-marketplace/internal/delivery/dto"
	"go-medical-marketplace/internal/infrastructure/storage"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrNoFileUploaded      = errors.New("no file uploaded")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
)

// FileSaver persists an uploaded file and describes where it can be fetched
type FileSaver interface {
	Save(r io.Reader) (*storage.StoredFile, error)
}

type UploadUsecase interface {
	Upload(ctx context.Context, userID uuid.UUID, r io.Reader) (*dto.UploadResponse, error)
}

type uploadUsecase struct {
	log   *logrus.Logger
	files FileSaver
}

func NewUploadUsecase(log *logrus.Logger, files FileSaver) UploadUsecase {
	return &uploadUsecase{log: log, files: files}
}

func (u *uploadUsecase) Upload(ctx context.Context, userID uuid.UUID, r io.Reader) (*dto.UploadResponse, error) {
	stored, err := u.files.Save(r)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrEmptyFile):
			return nil, ErrNoFileUploaded
		case errors.Is(err, storage.ErrUnsupportedType):
			return nil, ErrUnsupportedFileType
		case errors.Is(err, storage.ErrFileTooLarge):
			return nil, ErrFileTooLarge
		}
		u.log.Warnf("Failed to store upload: %+v", err)
		return nil, err
	}

	u.log.WithFields(logrus.Fields{
		"user_id":   userID,
		"file":      stored.Name,
		"mime_type": stored.MIMEType,
		"size":      stored.Size,
	}).Info("File uploaded")

	return &dto.UploadResponse{
		URL:      stored.URL,
		MIMEType: stored.MIMEType,
		Size:     stored.Size,
	}, nil
}
