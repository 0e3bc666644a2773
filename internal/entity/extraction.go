package entity

import "github.com/joseph-ayodele/screenshot-vocab/constants"

// ExtractionRequest is the input to one phrase extraction call.
// An empty PromptOverride means the backend's default template is used.
type ExtractionRequest struct {
	SourceText     string
	PromptOverride string
}

// ExtractionOutcome is the typed result of a phrase extraction call.
// Entries is always empty unless Status is StatusOK.
type ExtractionOutcome struct {
	Entries []LearningEntry
	Status  constants.ExtractionStatus
	Err     error
	Backend string
	Raw     string // raw model text, kept for debugging
}

// OK reports whether the call produced entries.
func (o ExtractionOutcome) OK() bool { return o.Status == constants.StatusOK }

// ComparisonVerdict is the judge model's free-text opinion on two result sets.
type ComparisonVerdict struct {
	Text     string    `json:"text" yaml:"text"`
	Model    string    `json:"model" yaml:"model"`
	Backends [2]string `json:"backends" yaml:"backends"`
}
