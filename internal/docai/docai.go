// Package docai calls the hosted document-AI processor that extracts
// structured entities from uploaded invoice files.
package docai

import (
	"context"
	"errors"

	"github.com/clarkhq/clark/internal/extraction"
)

// ErrNotConfigured is returned when no processor credentials are set.
var ErrNotConfigured = errors.New("docai: processor not configured")

// Processor extracts entities from a raw document. Implementations must be
// safe for concurrent use; batch processing calls Process sequentially but
// the single-upload endpoint may overlap with it.
type Processor interface {
	Process(ctx context.Context, content []byte, mimeType string) (*extraction.Document, error)
}
