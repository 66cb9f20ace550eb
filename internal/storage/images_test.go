package storage

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uploadHeader builds a real multipart.FileHeader the way echo hands one
// to a handler.
func uploadHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	_, fh, err := req.FormFile("image")
	require.NoError(t, err)
	return fh
}

func TestImageStoreSave(t *testing.T) {
	dir := t.TempDir()
	store := NewImageStore(filepath.Join(dir, "uploads"))

	path, err := store.Save(uploadHeader(t, "cover.png", "png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".png"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	// Two saves of the same filename never collide.
	other, err := store.Save(uploadHeader(t, "cover.png", "other"))
	require.NoError(t, err)
	assert.NotEqual(t, path, other)
}

func TestImageStoreRemove(t *testing.T) {
	dir := t.TempDir()
	store := NewImageStore(dir)

	path, err := store.Save(uploadHeader(t, "pic.jpg", "x"))
	require.NoError(t, err)

	require.NoError(t, store.Remove(path))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Blank and already-missing paths are tolerated.
	assert.NoError(t, store.Remove(""))
	assert.NoError(t, store.Remove(path))
}
