package pipeline

import (
	"time"

	"github.com/joseph-ayodele/screenshot-vocab/internal/entity"
	"github.com/joseph-ayodele/screenshot-vocab/internal/extract"
)

// Result is everything one pipeline run produced for a single input.
type Result struct {
	RunID      string                       `json:"run_id" yaml:"run_id"`
	SourcePath string                       `json:"source_path,omitempty" yaml:"source_path,omitempty"`
	Text       string                       `json:"text" yaml:"text"`
	OCR        extract.TextExtractionResult `json:"-" yaml:"-"`
	Outcome    entity.ExtractionOutcome     `json:"-" yaml:"-"`
	Classified *entity.ClassifiedResult     `json:"classified" yaml:"classified"`
	ImageURL   string                       `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	Duration   time.Duration                `json:"duration" yaml:"duration"`
}

// Backend names the model backend that produced the result.
func (r Result) Backend() string { return r.Outcome.Backend }

// HasEntries reports whether classification produced anything.
func (r Result) HasEntries() bool { return r.Classified.Len() > 0 }

// DualResult holds both backend results for one image plus the judge's verdict.
// Verdict is nil when either side produced nothing.
type DualResult struct {
	Text      string                    `json:"text" yaml:"text"`
	Primary   Result                    `json:"primary" yaml:"primary"`
	Secondary Result                    `json:"secondary" yaml:"secondary"`
	Verdict   *entity.ComparisonVerdict `json:"verdict,omitempty" yaml:"verdict,omitempty"`
}
