// Package compare asks a judge model which of two extraction results is better.
package compare

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/screenshot-vocab/internal/common"
	"github.com/joseph-ayodele/screenshot-vocab/internal/entity"
	"github.com/joseph-ayodele/screenshot-vocab/internal/llm"
)

type modelNamer interface {
	Model() string
}

type Comparator struct {
	judge  llm.Backend
	logger *slog.Logger
}

func NewComparator(judge llm.Backend, logger *slog.Logger) *Comparator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Comparator{judge: judge, logger: logger}
}

// Compare renders the comparison prompt and returns the judge's verdict.
// Judge failures and empty verdicts are returned wrapped in common.ErrComparison.
func (c *Comparator) Compare(ctx context.Context, a, b *entity.ClassifiedResult, labelA, labelB string) (entity.ComparisonVerdict, error) {
	verdict := entity.ComparisonVerdict{Model: c.judge.Name(), Backends: [2]string{labelA, labelB}}
	if m, ok := c.judge.(modelNamer); ok {
		verdict.Model = m.Model()
	}

	rid := uuid.New().String()
	ctx = common.WithRequestID(ctx, rid)
	start := time.Now()
	c.logger.Info("compare.start", "req_id", rid, "judge", c.judge.Name(), "a", labelA, "b", labelB,
		"a_entries", a.Len(), "b_entries", b.Len())

	text, err := c.judge.Generate(ctx, llm.BuildComparisonPrompt(a, b, labelA, labelB))
	if err != nil {
		c.logger.Error("compare.failed", "req_id", rid, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return verdict, fmt.Errorf("%w: %s: %w", common.ErrComparison, c.judge.Name(), err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		c.logger.Error("compare.failed", "req_id", rid, "error", "empty verdict")
		return verdict, fmt.Errorf("%w: %s returned an empty verdict", common.ErrComparison, c.judge.Name())
	}

	verdict.Text = text
	c.logger.Info("compare.ok", "req_id", rid, "verdict_len", len(text), "elapsed_ms", time.Since(start).Milliseconds())
	return verdict, nil
}
