package extract

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/screenshot-vocab/internal/ocr"
)

// ImageOCR is the subset of ocr.Extractor the adapter needs.
type ImageOCR interface {
	Extract(ctx context.Context, path string) (ocr.ExtractionResult, error)
}

type OCRAdapter struct {
	e      ImageOCR
	logger *slog.Logger
}

func NewOCRAdapter(e ImageOCR, logger *slog.Logger) *OCRAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &OCRAdapter{e: e, logger: logger}
}

// ExtractText converts every OCR failure, including panics inside the engine
// wrapper, into an empty result plus a logged warning.
func (a *OCRAdapter) ExtractText(ctx context.Context, path string) (out TextExtractionResult) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Warn("ocr.extract.failed", "path", path, "error", fmt.Sprint(r), "panic", true)
			out = TextExtractionResult{Failed: true, Warnings: []string{fmt.Sprintf("ocr panic: %v", r)}}
		}
	}()

	r, err := a.e.Extract(ctx, path)
	if err != nil {
		a.logger.Warn("ocr.extract.failed", "path", path, "error", err)
		return TextExtractionResult{
			SourceType: r.SourceType,
			Duration:   r.Duration,
			Warnings:   append(r.Warnings, err.Error()),
			Failed:     true,
		}
	}
	for _, w := range r.Warnings {
		a.logger.Warn("ocr.extract.warning", "path", path, "warning", w)
	}
	return TextExtractionResult{
		Text:       r.Text,
		SourceType: r.SourceType,
		Method:     r.Method,
		Language:   r.Language,
		Duration:   r.Duration,
		Warnings:   r.Warnings,
		Confidence: r.Confidence,
	}
}
