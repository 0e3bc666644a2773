package entity

import (
	"strings"

	"github.com/joseph-ayodele/screenshot-vocab/constants"
)

// LearningEntry is a single extracted word or phrase with its study material.
type LearningEntry struct {
	Phrase      string `json:"phrase" yaml:"phrase"`
	Translation string `json:"translation" yaml:"translation"`
	Explanation string `json:"explanation" yaml:"explanation"`
	Example     string `json:"example" yaml:"example"`
}

// Kind reports the bucket the entry belongs to: vocabulary when the phrase
// holds no space character, phrase otherwise.
func (e LearningEntry) Kind() constants.EntryKind {
	if strings.Contains(e.Phrase, " ") {
		return constants.KindPhrase
	}
	return constants.KindVocabulary
}

// ClassifiedResult splits entries into single-token vocabulary and multi-token phrases.
type ClassifiedResult struct {
	Vocabulary []LearningEntry `json:"vocabulary" yaml:"vocabulary"`
	Phrases    []LearningEntry `json:"phrases" yaml:"phrases"`
}

// All returns vocabulary followed by phrases.
func (r *ClassifiedResult) All() []LearningEntry {
	if r == nil {
		return nil
	}
	out := make([]LearningEntry, 0, len(r.Vocabulary)+len(r.Phrases))
	out = append(out, r.Vocabulary...)
	return append(out, r.Phrases...)
}

func (r *ClassifiedResult) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Vocabulary) + len(r.Phrases)
}
