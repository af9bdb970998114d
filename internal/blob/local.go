package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/clarkhq/clark/internal/config"
)

const localScheme = "file"

// LocalStore keeps objects on the filesystem under root/bucket/folder/name.
// It is the default backend for development and single-node deployments.
type LocalStore struct {
	root   string
	bucket string
	log    *zap.Logger
}

func NewLocalStore(cfg config.Config, log *zap.Logger) *LocalStore {
	return &LocalStore{
		root:   cfg.BlobRoot,
		bucket: cfg.BlobBucket,
		log:    log.Named("blob"),
	}
}

func (s *LocalStore) Put(ctx context.Context, folder, name string, content []byte, contentType string) (string, error) {
	objectPath := fmt.Sprintf("%s://%s/%s/%s", localScheme, s.bucket, folder, name)
	bucket, key, err := split(objectPath)
	if err != nil {
		return "", err
	}

	full := filepath.Join(s.root, bucket, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("blob: create folder: %w", err)
	}
	if err := os.WriteFile(full, content, 0o644); err != nil {
		return "", fmt.Errorf("blob: write object: %w", err)
	}

	s.log.Debug("object stored",
		zap.String("path", objectPath),
		zap.String("content_type", contentType),
		zap.Int("bytes", len(content)),
	)
	return objectPath, nil
}

func (s *LocalStore) Open(ctx context.Context, objectPath string) ([]byte, error) {
	bucket, key, err := split(objectPath)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(filepath.Join(s.root, bucket, filepath.FromSlash(key)))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("blob: read object: %w", err)
	}
	return content, nil
}

func (s *LocalStore) Delete(ctx context.Context, objectPath string) error {
	bucket, key, err := split(objectPath)
	if err != nil {
		return err
	}

	err = os.Remove(filepath.Join(s.root, bucket, filepath.FromSlash(key)))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	return err
}
