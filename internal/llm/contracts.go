package llm

import (
	"context"

	"github.com/joseph-ayodele/screenshot-vocab/internal/entity"
)

// Backend is a language-model provider: given a prompt, produce raw text.
// Hosted and local implementations live in the subpackages.
type Backend interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// PromptFunc renders the extraction prompt for a source text.
type PromptFunc func(sourceText string) string

// PhraseExtracting is the interface the pipeline depends on.
type PhraseExtracting interface {
	Extract(ctx context.Context, req entity.ExtractionRequest) entity.ExtractionOutcome
	Backend() string
}

// BackendFunc adapts a plain function to Backend, handy in tests and tools.
type BackendFunc struct {
	ID string
	Fn func(ctx context.Context, prompt string) (string, error)
}

func (b BackendFunc) Name() string { return b.ID }

func (b BackendFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return b.Fn(ctx, prompt)
}
