package extract

import (
	"context"
	"time"
)

// TextExtractor is Stage 1: image -> text. It never fails; a broken or
// unreadable image yields an empty Text and a warning.
type TextExtractor interface {
	ExtractText(ctx context.Context, path string) TextExtractionResult
}

type TextExtractionResult struct {
	Text       string
	SourceType string // "IMAGE"
	Method     string // "image-ocr"
	Language   string
	Duration   time.Duration
	Warnings   []string
	Confidence float32
	Failed     bool // OCR errored and Text was replaced with ""
}
