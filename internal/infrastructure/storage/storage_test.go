package storage

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestSaveStoresPNGUnderRandomName(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewFileStorage(fs, 1024)

	file, err := store.Save(bytes.NewReader(pngHeader))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(file.URL, "/uploads/"))
	assert.True(t, strings.HasSuffix(file.Name, ".png"))
	assert.Equal(t, "image/png", file.MIMEType)

	exists, err := afero.Exists(fs, "/"+file.Name)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSaveAcceptsPDF(t *testing.T) {
	store := NewFileStorage(afero.NewMemMapFs(), 1024)

	file, err := store.Save(strings.NewReader("%PDF-1.7\n1 0 obj\n<<>>\nendobj\n"))
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.MIMEType)
	assert.True(t, strings.HasSuffix(file.Name, ".pdf"))
}

func TestSaveRejectsUnsupportedType(t *testing.T) {
	store := NewFileStorage(afero.NewMemMapFs(), 1024)

	_, err := store.Save(strings.NewReader("#!/bin/sh\necho hi\n"))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestSaveRejectsEmptyAndOversized(t *testing.T) {
	store := NewFileStorage(afero.NewMemMapFs(), 8)

	_, err := store.Save(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = store.Save(bytes.NewReader(pngHeader))
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestHandlerServesStoredFile(t *testing.T) {
	store := NewFileStorage(afero.NewMemMapFs(), 1024)
	file, err := store.Save(bytes.NewReader(pngHeader))
	require.NoError(t, err)

	srv := http.StripPrefix(PublicPrefix, store.Handler())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, file.URL, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pngHeader, rec.Body.Bytes())
}
