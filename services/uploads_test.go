package services

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/Kariqs/mebel-api/storage"
	"github.com/Kariqs/mebel-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadBase64(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewLocal(dir, "/uploads/images")
	require.NoError(t, err)
	uploads := NewUploadService(store)

	encoded := base64.StdEncoding.EncodeToString(pngBytes)
	files, err := uploads.UploadBase64(ctx, []string{
		"data:image/png;base64," + encoded,
		encoded,
		"not base64 at all!",
		base64.StdEncoding.EncodeToString([]byte("plain text")),
	})
	require.NoError(t, err)
	require.Len(t, files, 2)

	for _, f := range files {
		assert.Equal(t, "/uploads/images/"+f.Filename, f.URL)
		assert.FileExists(t, filepath.Join(dir, f.Filename))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestUploadBase64Failures(t *testing.T) {
	store, err := storage.NewLocal(t.TempDir(), "/uploads/images")
	require.NoError(t, err)
	uploads := NewUploadService(store)

	_, err = uploads.UploadBase64(ctx, nil)
	assert.Equal(t, 400, utils.HTTPStatus(err))

	_, err = uploads.UploadBase64(ctx, []string{"@@@"})
	assert.Equal(t, 500, utils.HTTPStatus(err))
}
