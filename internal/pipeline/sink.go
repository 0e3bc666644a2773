package pipeline

import (
	"context"

	"github.com/joseph-ayodele/screenshot-vocab/internal/entity"
)

// Sink receives classified results after a run, e.g. Notion or the notes store.
type Sink interface {
	Name() string
	Publish(ctx context.Context, res Result) error
}

// ImageUploader publishes the source screenshot so sinks can link to it.
type ImageUploader interface {
	Upload(ctx context.Context, path string) (string, error)
}

// Judge compares two classified results.
type Judge interface {
	Compare(ctx context.Context, a, b *entity.ClassifiedResult, labelA, labelB string) (entity.ComparisonVerdict, error)
}
