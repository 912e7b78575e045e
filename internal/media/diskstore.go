package media

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// DiskStore writes attachments to a local directory served under a public
// URL prefix.
type DiskStore struct {
	dir       string
	urlPrefix string
}

// NewDiskStore creates the upload directory if needed.
func NewDiskStore(dir, urlPrefix string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskStore{dir: dir, urlPrefix: strings.TrimSuffix(urlPrefix, "/")}, nil
}

// Dir returns the backing directory, used to mount static file serving.
func (s *DiskStore) Dir() string {
	return s.dir
}

func (s *DiskStore) Save(_ context.Context, key string, data []byte) error {
	return os.WriteFile(filepath.Join(s.dir, key), data, 0o644)
}

func (s *DiskStore) URL(key string) string {
	return s.urlPrefix + "/" + key
}
