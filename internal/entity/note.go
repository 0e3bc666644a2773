package entity

import (
	"time"

	"github.com/google/uuid"
)

// Note is one learning entry as written to the notes store.
type Note struct {
	ID          uuid.UUID `json:"id"`
	RunID       uuid.UUID `json:"run_id"`
	Kind        string    `json:"kind"`
	Phrase      string    `json:"phrase"`
	Translation string    `json:"translation"`
	Explanation string    `json:"explanation"`
	Example     string    `json:"example"`
	ImageURL    string    `json:"image_url,omitempty"`
	SourcePath  string    `json:"source_path,omitempty"`
	Backend     string    `json:"backend,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Entry converts the note back to its learning entry.
func (n Note) Entry() LearningEntry {
	return LearningEntry{
		Phrase:      n.Phrase,
		Translation: n.Translation,
		Explanation: n.Explanation,
		Example:     n.Example,
	}
}
