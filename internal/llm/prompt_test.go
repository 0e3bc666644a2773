package llm

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/screenshot-vocab/internal/entity"
)

func TestBuildExtractionPrompt(t *testing.T) {
	src := "Old Chronos warrants every bit of justice..."
	p := BuildExtractionPrompt(src)

	assert.Contains(t, p, "exactly 3")
	assert.NotContains(t, p, "at most 3")
	assert.Contains(t, p, `"phrases"`)
	for _, f := range []string{`"phrase"`, `"translation"`, `"explanation"`, `"example"`} {
		assert.Contains(t, p, f)
	}
	assert.Contains(t, p, "no commentary")
	assert.True(t, strings.HasSuffix(p, "Text:\n"+src))
	assert.Equal(t, p, BuildExtractionPrompt(src), "deterministic")
}

func TestBuildLocalExtractionPrompt(t *testing.T) {
	p := BuildLocalExtractionPrompt("hello")
	assert.Contains(t, p, "at most 3")
	assert.NotContains(t, p, "exactly 3")
	assert.Contains(t, p, "intermediate to advanced learners")
	assert.True(t, strings.HasSuffix(p, "Text:\nhello"))
}

func TestBuildExtractionPrompt_EmptyText(t *testing.T) {
	p := BuildExtractionPrompt("")
	assert.True(t, strings.HasSuffix(p, "Text:\n"))
}

func TestBuildComparisonPrompt(t *testing.T) {
	a := &entity.ClassifiedResult{Vocabulary: []entity.LearningEntry{{Phrase: "warrants"}}}
	p := BuildComparisonPrompt(a, nil, "openai", "ollama")

	for _, c := range []string{"Relevance", "Accuracy", "Clarity", "Depth", "intermediate to advanced"} {
		assert.Contains(t, p, c)
	}
	assert.Contains(t, p, "Result from openai:")
	assert.Contains(t, p, "Result from ollama:")

	start := strings.Index(p, "Result from openai:\n") + len("Result from openai:\n")
	end := strings.Index(p, "\n\nResult from ollama:")
	var got entity.ClassifiedResult
	require.NoError(t, json.Unmarshal([]byte(p[start:end]), &got))
	assert.Equal(t, "warrants", got.Vocabulary[0].Phrase)
	assert.Contains(t, p, `"phrases": []`)
}
