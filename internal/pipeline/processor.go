// Package pipeline wires OCR, phrase extraction, classification and sinks
// into single-backend and dual-backend runs.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/screenshot-vocab/internal/classify"
	"github.com/joseph-ayodele/screenshot-vocab/internal/common"
	"github.com/joseph-ayodele/screenshot-vocab/internal/entity"
	"github.com/joseph-ayodele/screenshot-vocab/internal/extract"
	"github.com/joseph-ayodele/screenshot-vocab/internal/llm"
)

// Processor coordinates OCR, then phrase extraction, then classification.
// Images and Sinks are optional.
type Processor struct {
	Text      extract.TextExtractor
	Extractor llm.PhraseExtracting
	Images    ImageUploader
	Sinks     []Sink
	Logger    *slog.Logger
}

func NewProcessor(text extract.TextExtractor, ex llm.PhraseExtracting, logger *slog.Logger, sinks ...Sink) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Text: text, Extractor: ex, Sinks: sinks, Logger: logger}
}

// runID reuses a run already set on ctx so a batch can share one id.
func runID(ctx context.Context) string {
	if id := common.RunIDFromContext(ctx); id != "" {
		return id
	}
	return uuid.New().String()
}

// ProcessImage runs the whole pipeline for one screenshot. An image that yields
// no text still goes through extraction with an empty text block.
func (p *Processor) ProcessImage(ctx context.Context, path string) Result {
	start := time.Now()
	res := Result{RunID: runID(ctx), SourcePath: path}
	ctx = common.WithRunID(ctx, res.RunID)

	text := p.ocr(ctx, &res)
	p.extract(ctx, &res, text)
	p.publish(ctx, &res)

	res.Duration = time.Since(start)
	return res
}

// ProcessText runs the pipeline from prompt building onward on raw text.
func (p *Processor) ProcessText(ctx context.Context, text string) Result {
	start := time.Now()
	res := Result{RunID: runID(ctx), Text: text}
	ctx = common.WithRunID(ctx, res.RunID)

	p.extract(ctx, &res, text)
	p.publish(ctx, &res)

	res.Duration = time.Since(start)
	return res
}

func (p *Processor) log() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}

func (p *Processor) ocr(ctx context.Context, res *Result) string {
	o := p.Text.ExtractText(ctx, res.SourcePath)
	res.OCR = o
	res.Text = o.Text
	if o.Text == "" {
		p.log().Info("processor.ocr.empty",
			"run_id", res.RunID, "path", res.SourcePath, "failed", o.Failed, "warnings", len(o.Warnings))
		return ""
	}
	p.log().Info("processor.ocr.ok",
		"run_id", res.RunID,
		"path", res.SourcePath,
		"method", o.Method,
		"chars", len(o.Text),
		"confidence", o.Confidence,
		"elapsed_ms", o.Duration.Milliseconds(),
	)
	return o.Text
}

// extract runs phrase extraction and classification on text already in hand.
func (p *Processor) extract(ctx context.Context, res *Result, text string) {
	out := p.Extractor.Extract(ctx, entity.ExtractionRequest{SourceText: text})
	res.Outcome = out

	switch {
	case out.Err != nil:
		p.log().Warn("processor.extract.failed", "run_id", res.RunID, "backend", out.Backend, "error", out.Err)
		return
	case !out.OK():
		p.log().Info("processor.extract.empty", "run_id", res.RunID, "backend", out.Backend)
		return
	}
	p.log().Info("processor.extract.ok", "run_id", res.RunID, "backend", out.Backend, "entries", len(out.Entries))

	res.Classified = classify.Classify(out.Entries)
	p.log().Info("processor.classify.ok",
		"run_id", res.RunID,
		"vocabulary", len(res.Classified.Vocabulary),
		"phrases", len(res.Classified.Phrases),
	)
}

// publish uploads the screenshot when an uploader is set and hands the result
// to each sink. A failing sink is logged and does not stop the others.
func (p *Processor) publish(ctx context.Context, res *Result) {
	if !res.HasEntries() || len(p.Sinks) == 0 {
		return
	}
	if p.Images != nil && res.SourcePath != "" {
		url, err := p.Images.Upload(ctx, res.SourcePath)
		if err != nil {
			p.log().Warn("processor.image.failed", "run_id", res.RunID, "path", res.SourcePath, "error", err)
		} else {
			res.ImageURL = url
		}
	}
	for _, s := range p.Sinks {
		if err := s.Publish(ctx, *res); err != nil {
			p.log().Error("processor.sink.failed", "run_id", res.RunID, "sink", s.Name(), "error", err)
			continue
		}
		p.log().Info("processor.sink.ok", "run_id", res.RunID, "sink", s.Name())
	}
}
