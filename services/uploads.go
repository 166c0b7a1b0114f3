package services

import (
	"context"
	"encoding/base64"
	"log"
	"path"
	"strings"

	"github.com/Kariqs/mebel-api/storage"
	"github.com/Kariqs/mebel-api/utils"
)

type UploadedFile struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

type UploadService struct {
	store storage.Storage
}

func NewUploadService(store storage.Storage) *UploadService {
	return &UploadService{store: store}
}

// decodeBase64Image accepts a bare base64 string or a data URI.
func decodeBase64Image(raw string) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "data:") {
		if i := strings.Index(raw, ","); i >= 0 {
			raw = raw[i+1:]
		}
	}
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return base64.RawStdEncoding.DecodeString(strings.TrimRight(raw, "="))
	}
	return data, nil
}

// UploadBase64 stores every image that decodes and validates. Invalid items
// are logged and skipped; it fails only when nothing could be stored.
func (s *UploadService) UploadBase64(ctx context.Context, images []string) ([]UploadedFile, error) {
	if len(images) == 0 {
		return nil, utils.Validation("no images provided", utils.FieldError{Field: "images", Message: "must not be empty"})
	}

	files := make([]UploadedFile, 0, len(images))
	for i, raw := range images {
		data, err := decodeBase64Image(raw)
		if err != nil {
			log.Printf("Upload item %d: invalid base64: %v", i, err)
			continue
		}
		img, err := storage.NewImage("image", "", data)
		if err != nil {
			log.Printf("Upload item %d rejected: %v", i, err)
			continue
		}
		urls, err := storage.SaveAll(ctx, s.store, []storage.Image{img})
		if err != nil {
			log.Printf("Upload item %d could not be stored: %v", i, err)
			continue
		}
		files = append(files, UploadedFile{Filename: path.Base(urls[0]), URL: urls[0]})
	}

	if len(files) == 0 {
		return nil, utils.Internal("failed to save images", nil)
	}
	return files, nil
}
