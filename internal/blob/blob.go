// Package blob stores uploaded documents and archived processor responses.
// Objects are addressed by opaque paths of the form scheme://bucket/folder/name
// so callers never depend on the backing store.
package blob

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/gosimple/slug"
	"github.com/oklog/ulid/v2"
)

// Folders within a bucket. Uploaded originals and archived processor
// responses live side by side under the same bucket.
const (
	FolderDocuments   = "documents"
	FolderAIResponses = "ai-responses"
)

var (
	ErrNotFound    = errors.New("blob: object not found")
	ErrInvalidPath = errors.New("blob: invalid object path")
)

// Store reads and writes immutable objects. Put returns the full object
// path; objects are never overwritten because names are unique per upload.
type Store interface {
	Put(ctx context.Context, folder, name string, content []byte, contentType string) (string, error)
	Open(ctx context.Context, objectPath string) ([]byte, error)
	Delete(ctx context.Context, objectPath string) error
}

// ObjectName builds a collision-free object name from an uploaded filename:
// a ULID prefix for uniqueness and ordering, then the slugified base name
// with its extension preserved.
func ObjectName(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	base := strings.TrimSuffix(path.Base(filename), path.Ext(filename))

	cleaned := slug.Make(base)
	if cleaned == "" {
		cleaned = "document"
	}
	return ulid.Make().String() + "-" + cleaned + ext
}

// Filename extracts the display filename from an object path, tolerating
// both bare names and full paths with or without the documents/ folder.
// A leading ULID prefix from ObjectName is stripped.
func Filename(objectPath string) string {
	name := objectPath
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if len(name) > ulid.EncodedSize && name[ulid.EncodedSize] == '-' {
		if _, err := ulid.ParseStrict(name[:ulid.EncodedSize]); err == nil {
			name = name[ulid.EncodedSize+1:]
		}
	}
	return name
}

// split parses scheme://bucket/folder/name into bucket and object key.
func split(objectPath string) (bucket, key string, err error) {
	_, rest, ok := strings.Cut(objectPath, "://")
	if !ok {
		return "", "", ErrInvalidPath
	}
	bucket, key, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", ErrInvalidPath
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return "", "", ErrInvalidPath
		}
	}
	return bucket, key, nil
}
