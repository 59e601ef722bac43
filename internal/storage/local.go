// Package storage keeps uploaded images on the local disk.
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

var (
	ErrTooLarge = errors.New("file too large")
	ErrNotImage = errors.New("only image files are allowed")
)

var imageExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Local writes files under Dir and serves them under URLPrefix.
type Local struct {
	Dir       string
	URLPrefix string
	MaxBytes  int64
}

func NewLocal(dir string, maxBytes int64) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create %s: %w", dir, err)
	}
	return &Local{Dir: dir, URLPrefix: "/uploads", MaxBytes: maxBytes}, nil
}

// SaveImage stores fh under a random name and returns its public URL.
// The content type is sniffed from the bytes, not taken from the client.
func (s *Local) SaveImage(kind string, fh *multipart.FileHeader) (string, error) {
	if s.MaxBytes > 0 && fh.Size > s.MaxBytes {
		return "", ErrTooLarge
	}
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	return s.store(kind, src, fh.Size)
}

func (s *Local) store(kind string, src io.ReadSeeker, size int64) (string, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	ext, ok := imageExt[http.DetectContentType(head[:n])]
	if !ok {
		return "", ErrNotImage
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	limit := s.MaxBytes
	if limit <= 0 {
		limit = size
	}
	name := fmt.Sprintf("%s-%s%s", kind, uuid.NewString(), ext)
	if err := s.write(filepath.Join(s.Dir, name), io.LimitReader(src, limit+1)); err != nil {
		return "", err
	}
	return s.URLPrefix + "/" + name, nil
}

// write copies src to path. Nothing is left at path when it fails.
func (s *Local) write(path string, src io.Reader) (err error) {
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := dst.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	written, err := io.Copy(dst, src)
	if err != nil {
		return err
	}
	if s.MaxBytes > 0 && written > s.MaxBytes {
		return ErrTooLarge
	}
	return nil
}
