package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/screenshot-vocab/internal/entity"
)

func entries(phrases ...string) []entity.LearningEntry {
	out := make([]entity.LearningEntry, 0, len(phrases))
	for _, p := range phrases {
		out = append(out, entity.LearningEntry{Phrase: p})
	}
	return out
}

func phrasesOf(es []entity.LearningEntry) []string {
	out := make([]string, 0, len(es))
	for _, e := range es {
		out = append(out, e.Phrase)
	}
	return out
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		in        []entity.LearningEntry
		wantVocab []string
		wantPhr   []string
	}{
		{
			name:      "mixed keeps order per bucket",
			in:        entries("sparse", "Old Chronos", "resist", "get upset"),
			wantVocab: []string{"sparse", "resist"},
			wantPhr:   []string{"Old Chronos", "get upset"},
		},
		{
			name:      "only vocabulary",
			in:        entries("sparse", "resist"),
			wantVocab: []string{"sparse", "resist"},
			wantPhr:   []string{},
		},
		{
			name:      "only phrases",
			in:        entries("Old Chronos", "take it easy"),
			wantVocab: []string{},
			wantPhr:   []string{"Old Chronos", "take it easy"},
		},
		{
			name:      "hyphens and tabs count as single tokens",
			in:        entries("well-known", "tab\tseparated"),
			wantVocab: []string{"well-known", "tab\tseparated"},
			wantPhr:   []string{},
		},
		{
			name:      "non-breaking space is not a space",
			in:        entries("a\u00a0b", "a b"),
			wantVocab: []string{"a\u00a0b"},
			wantPhr:   []string{"a b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.in)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantVocab, phrasesOf(got.Vocabulary))
			assert.Equal(t, tt.wantPhr, phrasesOf(got.Phrases))
			assert.Equal(t, len(tt.in), got.Len())
		})
	}
}

func TestClassify_EmptyIsNil(t *testing.T) {
	assert.Nil(t, Classify(nil))
	assert.Nil(t, Classify([]entity.LearningEntry{}))
}

func TestClassify_KeepsFields(t *testing.T) {
	in := []entity.LearningEntry{{
		Phrase:      "Old Chronos",
		Translation: "時間老人",
		Explanation: "A personification of time",
		Example:     "Old Chronos waits for no one.",
	}}
	got := Classify(in)
	require.NotNil(t, got)
	require.Len(t, got.Phrases, 1)
	assert.Equal(t, in[0], got.Phrases[0])
	assert.Empty(t, got.Vocabulary)
}
