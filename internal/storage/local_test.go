package storage

import (
	"bytes"
	"errors"
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

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

func fileHeader(t *testing.T, name string, data []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["image"][0]
}

func TestSaveImage(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	s, err := NewLocal(dir, 1024)
	require.NoError(t, err)

	url, err := s.SaveImage("logo", fileHeader(t, "a.bin", pngHeader))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/logo-"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	data, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(url, "/uploads/")))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)
}

func TestSaveImageRejects(t *testing.T) {
	t.Parallel()
	s, err := NewLocal(t.TempDir(), 64)
	require.NoError(t, err)

	_, err = s.SaveImage("product", fileHeader(t, "a.png", []byte("just some text")))
	assert.ErrorIs(t, err, ErrNotImage)

	big := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 100)...)
	_, err = s.SaveImage("product", fileHeader(t, "a.png", big))
	assert.ErrorIs(t, err, ErrTooLarge)
}

var errDisk = errors.New("read failed")

// failingReader serves the first ok bytes and then errors.
type failingReader struct {
	*bytes.Reader
	ok int64
}

func (r *failingReader) Read(p []byte) (int, error) {
	if r.Size()-int64(r.Len()) >= r.ok {
		return 0, errDisk
	}
	return r.Reader.Read(p)
}

func TestStoreRemovesPartialFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	s, err := NewLocal(dir, 4096)
	require.NoError(t, err)

	data := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 1000)...)
	src := &failingReader{Reader: bytes.NewReader(data), ok: 600}

	_, err = s.store("banner", src, int64(len(data)))
	require.ErrorIs(t, err, errDisk)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStoreRemovesOversizedFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	s, err := NewLocal(dir, 64)
	require.NoError(t, err)

	data := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 100)...)
	_, err = s.store("banner", bytes.NewReader(data), 10)
	require.ErrorIs(t, err, ErrTooLarge)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
