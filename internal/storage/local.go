package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStore writes artifacts below a directory served under URLPrefix.
type LocalStore struct {
	Dir       string
	URLPrefix string
}

func NewLocalStore(dir, urlPrefix string) *LocalStore {
	return &LocalStore{Dir: dir, URLPrefix: strings.TrimSuffix(urlPrefix, "/")}
}

func (s *LocalStore) Save(ctx context.Context, name, contentType string, r io.Reader, size int64) (string, error) {
	clean := path.Clean("/" + name)[1:]
	if clean == "" || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid artifact name %q", name)
	}

	dst := filepath.Join(s.Dir, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write %s: %w", dst, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	return s.URLPrefix + "/" + clean, nil
}

// Path returns the file backing an artifact name.
func (s *LocalStore) Path(name string) string {
	return filepath.Join(s.Dir, filepath.FromSlash(path.Clean("/" + name)[1:]))
}
