package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path"
	"path/filepath"
)

// Local stores files in a directory served by the HTTP server under URLPrefix.
type Local struct {
	Dir       string
	URLPrefix string
}

func NewLocal(dir, urlPrefix string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Local{Dir: dir, URLPrefix: urlPrefix}, nil
}

func (l *Local) Save(_ context.Context, name, _ string, body io.Reader) (string, error) {
	out, err := os.Create(filepath.Join(l.Dir, filepath.Base(name)))
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, body); err != nil {
		return "", err
	}
	if err := out.Sync(); err != nil {
		return "", err
	}
	return path.Join(l.URLPrefix, filepath.Base(name)), nil
}

func (l *Local) Delete(_ context.Context, url string) error {
	name := baseName(url)
	if name == "" || name == "." || name == ".." {
		return nil
	}
	err := os.Remove(filepath.Join(l.Dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
