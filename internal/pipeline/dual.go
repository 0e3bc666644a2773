package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/screenshot-vocab/internal/common"
)

// Dual runs two backends over the same OCR text and asks a judge to compare.
// Only Primary's text extractor is used.
type Dual struct {
	Primary    *Processor
	Secondary  *Processor
	Comparator Judge
	Logger     *slog.Logger
}

// Run OCRs the image once, then extracts with Primary and then Secondary.
// Each side fully completes, sinks included, before the next begins.
// A comparator error is returned together with both results.
func (d *Dual) Run(ctx context.Context, path string) (DualResult, error) {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()
	base := Result{RunID: uuid.New().String(), SourcePath: path}
	text := d.Primary.ocr(common.WithRunID(ctx, base.RunID), &base)

	run := func(p *Processor) Result {
		r := base
		r.RunID = uuid.New().String()
		rctx := common.WithRunID(ctx, r.RunID)
		p.extract(rctx, &r, text)
		p.publish(rctx, &r)
		r.Duration = time.Since(start)
		return r
	}
	out := DualResult{Text: text}
	out.Primary = run(d.Primary)
	out.Secondary = run(d.Secondary)

	if !out.Primary.HasEntries() || !out.Secondary.HasEntries() {
		logger.Info("processor.compare.skipped",
			"path", path,
			"primary_entries", out.Primary.Classified.Len(),
			"secondary_entries", out.Secondary.Classified.Len(),
		)
		return out, nil
	}
	if d.Comparator == nil {
		logger.Info("processor.compare.skipped", "path", path, "reason", "no judge configured")
		return out, nil
	}

	v, err := d.Comparator.Compare(ctx, out.Primary.Classified, out.Secondary.Classified,
		out.Primary.Backend(), out.Secondary.Backend())
	if err != nil {
		logger.Error("processor.compare.failed", "path", path, "error", err)
		return out, err
	}
	out.Verdict = &v
	logger.Info("processor.compare.ok", "path", path, "judge", v.Model, "elapsed_ms", time.Since(start).Milliseconds())
	return out, nil
}
