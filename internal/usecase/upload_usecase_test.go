package usecase

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go-medical-marketplace/internal/infrastructure/storage"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R'}

func TestUploadStoresSniffedFile(t *testing.T) {
	uc := NewUploadUsecase(newTestLogger(), storage.NewFileStorage(afero.NewMemMapFs(), 1<<20))

	resp, err := uc.Upload(context.Background(), uuid.New(), bytes.NewReader(pngHeader))

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.URL, storage.PublicPrefix))
	assert.True(t, strings.HasSuffix(resp.URL, ".png"))
	assert.Equal(t, "image/png", resp.MIMEType)
}

func TestUploadErrors(t *testing.T) {
	uc := NewUploadUsecase(newTestLogger(), storage.NewFileStorage(afero.NewMemMapFs(), 8))

	_, err := uc.Upload(context.Background(), uuid.New(), bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrNoFileUploaded)

	_, err = uc.Upload(context.Background(), uuid.New(), strings.NewReader("plain"))
	assert.ErrorIs(t, err, ErrUnsupportedFileType)

	_, err = uc.Upload(context.Background(), uuid.New(), bytes.NewReader(pngHeader))
	assert.ErrorIs(t, err, ErrFileTooLarge)
}
