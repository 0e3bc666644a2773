package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/screenshot-vocab/constants"
	"github.com/joseph-ayodele/screenshot-vocab/internal/common"
	"github.com/joseph-ayodele/screenshot-vocab/internal/entity"
)

// PhraseExtractor renders a prompt, calls one backend and normalizes the answer.
// It never returns a Go error: failures are reported in the outcome's Status.
type PhraseExtractor struct {
	backend Backend
	prompt  PromptFunc
	logger  *slog.Logger
}

func NewPhraseExtractor(b Backend, prompt PromptFunc, logger *slog.Logger) *PhraseExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	if prompt == nil {
		prompt = BuildExtractionPrompt
	}
	return &PhraseExtractor{backend: b, prompt: prompt, logger: logger}
}

func (p *PhraseExtractor) Backend() string { return p.backend.Name() }

func (p *PhraseExtractor) Extract(ctx context.Context, req entity.ExtractionRequest) entity.ExtractionOutcome {
	rid := uuid.New().String()
	ctx = common.WithRequestID(ctx, rid)
	start := time.Now()
	out := entity.ExtractionOutcome{Backend: p.backend.Name(), Entries: []entity.LearningEntry{}}

	prompt := req.PromptOverride
	if prompt == "" {
		prompt = p.prompt(req.SourceText)
	}
	p.logger.Info("llm.extract.start",
		"req_id", rid,
		"run_id", common.RunIDFromContext(ctx),
		"backend", out.Backend,
		"text_len", len(req.SourceText),
		"prompt_override", req.PromptOverride != "",
	)

	raw, err := p.backend.Generate(ctx, prompt)
	if err != nil {
		p.logger.Warn("llm.extract.backend_failed",
			"req_id", rid, "backend", out.Backend, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		out.Status = constants.StatusError
		out.Err = common.Mark(fmt.Errorf("%s: %w", out.Backend, err), common.ErrBackend)
		return out
	}
	out.Raw = raw

	entries, err := Normalize(raw, p.logger)
	if err != nil {
		p.logger.Warn("llm.extract.normalize_failed",
			"req_id", rid, "backend", out.Backend, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		out.Status = constants.StatusError
		out.Err = common.Mark(err, common.ErrMalformedOutput)
		return out
	}

	if len(entries) == 0 {
		p.logger.Info("llm.extract.empty", "req_id", rid, "backend", out.Backend, "elapsed_ms", time.Since(start).Milliseconds())
		out.Status = constants.StatusEmpty
		return out
	}

	out.Entries = entries
	out.Status = constants.StatusOK
	p.logger.Info("llm.extract.ok",
		"req_id", rid,
		"backend", out.Backend,
		"entries", len(entries),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out
}
