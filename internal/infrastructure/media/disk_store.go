package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nearcart/nearcart-go/internal/infrastructure/observability/logging"
)

// DiskObjectStore persists attachment payloads on the local filesystem.
// Used when no S3 credentials are configured; the public URL is a
// server-relative media path.
type DiskObjectStore struct {
	basePath string
	logger   *logging.ChanneledLogger
}

func NewDiskObjectStore(basePath string, logger *logging.ChanneledLogger) *DiskObjectStore {
	return &DiskObjectStore{basePath: basePath, logger: logger}
}

// Put writes the payload under basePath/key and returns a /media URL.
func (s *DiskObjectStore) Put(_ context.Context, key string, payload []byte, contentType string) (string, error) {
	path := filepath.Join(s.basePath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}
	if err := os.WriteFile(path, payload, 0644); err != nil {
		return "", fmt.Errorf("failed to write media file: %w", err)
	}

	s.logger.Media().Debug("Stored object on disk", "key", key, "bytes", len(payload), "contentType", contentType)
	return "/media/" + key, nil
}
