// Package classify splits extracted entries into vocabulary and phrases.
package classify

import (
	"github.com/joseph-ayodele/screenshot-vocab/constants"
	"github.com/joseph-ayodele/screenshot-vocab/internal/entity"
)

// Classify partitions entries by whether the phrase contains an ASCII space.
// Order is preserved inside each bucket. Empty input yields nil so callers can
// tell "nothing produced" apart from an empty result.
func Classify(entries []entity.LearningEntry) *entity.ClassifiedResult {
	if len(entries) == 0 {
		return nil
	}
	res := &entity.ClassifiedResult{
		Vocabulary: []entity.LearningEntry{},
		Phrases:    []entity.LearningEntry{},
	}
	for _, e := range entries {
		switch e.Kind() {
		case constants.KindVocabulary:
			res.Vocabulary = append(res.Vocabulary, e)
		default:
			res.Phrases = append(res.Phrases, e)
		}
	}
	return res
}
