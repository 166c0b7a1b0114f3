// Package storage persists uploaded product images and resolves them to
// public URLs.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const MaxImageSize = 5 << 20

var (
	ErrUnsupportedType = errors.New("only jpeg, png and gif images are allowed")
	ErrTooLarge        = errors.New("image exceeds the 5MB limit")
	ErrEmptyFile       = errors.New("image is empty")
)

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// Storage writes image bytes and returns a URL that clients can load.
type Storage interface {
	Save(ctx context.Context, name, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

// Image is a validated upload ready to be written to a Storage.
type Image struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// Name builds a collision-free object name that keeps the form field prefix.
func (img Image) Name() string {
	field := img.Field
	if field == "" {
		field = "image"
	}
	return fmt.Sprintf("%s-%s%s", field, uuid.NewString(), allowedTypes[img.ContentType])
}

// NewImage checks size and sniffs the content type from the bytes themselves.
func NewImage(field, filename string, data []byte) (Image, error) {
	if len(data) == 0 {
		return Image{}, ErrEmptyFile
	}
	if len(data) > MaxImageSize {
		return Image{}, ErrTooLarge
	}

	mtype := mimetype.Detect(data).String()
	if _, ok := allowedTypes[mtype]; !ok {
		return Image{}, ErrUnsupportedType
	}

	return Image{
		Field:       field,
		Filename:    filepath.Base(filename),
		ContentType: mtype,
		Data:        data,
	}, nil
}

// FromFileHeader reads and validates one multipart file.
func FromFileHeader(field string, fh *multipart.FileHeader) (Image, error) {
	if fh.Size > MaxImageSize {
		return Image{}, ErrTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return Image{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxImageSize+1))
	if err != nil {
		return Image{}, err
	}
	return NewImage(field, fh.Filename, data)
}

// SaveAll writes every image. When one write fails the ones already written
// are removed before the error is returned.
func SaveAll(ctx context.Context, s Storage, images []Image) ([]string, error) {
	urls := make([]string, 0, len(images))
	for _, img := range images {
		url, err := s.Save(ctx, img.Name(), img.ContentType, bytes.NewReader(img.Data))
		if err != nil {
			DeleteAll(ctx, s, urls)
			return nil, fmt.Errorf("failed to store %s: %w", img.Filename, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// DeleteAll removes stored files, logging failures instead of returning them.
func DeleteAll(ctx context.Context, s Storage, urls []string) {
	for _, url := range urls {
		if err := s.Delete(ctx, url); err != nil {
			log.Printf("Failed to delete stored file %s: %v", url, err)
		}
	}
}

func baseName(url string) string {
	if i := strings.LastIndex(url, "/"); i >= 0 {
		return url[i+1:]
	}
	return url
}
