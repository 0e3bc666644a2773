package llm

import (
	"encoding/json"
	"strings"

	"github.com/joseph-ayodele/screenshot-vocab/internal/entity"
)

// HostedSystemRole is the system message sent to chat-style hosted backends.
const HostedSystemRole = "You are a professional English-teaching assistant who is good at picking out the most useful learning material from a text."

const outputSchemaBlock = `{
  "phrases": [
    {
      "phrase": "the word or phrase",
      "translation": "Traditional Chinese translation",
      "explanation": "short English explanation",
      "example": "example sentence or usage context"
    }
  ]
}`

// BuildExtractionPrompt renders the primary template. It asks for exactly 3 entries.
func BuildExtractionPrompt(sourceText string) string {
	parts := []string{
		"Extract exactly 3 English words or phrases from the text below that are the most worth learning.",
		"For each one provide: the word or phrase itself, a Traditional Chinese translation, a short English explanation, and an example sentence or usage context.",
	}
	return renderPrompt(strings.Join(parts, "\n"), sourceText)
}

// BuildLocalExtractionPrompt renders the template used for local model servers.
// It asks for at most 3 entries.
func BuildLocalExtractionPrompt(sourceText string) string {
	parts := []string{
		"You are an expert English language instructor helping intermediate to advanced learners.",
		"",
		"Please extract at most 3 useful English words or phrases from the following text.",
		"For each word/phrase, provide the word/phrase itself, its Traditional Chinese translation, a short English explanation and one example sentence.",
	}
	return renderPrompt(strings.Join(parts, "\n"), sourceText)
}

func renderPrompt(instructions, sourceText string) string {
	var b strings.Builder
	b.WriteString(instructions)
	b.WriteString("\n\nReturn ONLY a JSON object in exactly this format, with no commentary, explanation or text outside the JSON:\n")
	b.WriteString(outputSchemaBlock)
	b.WriteString("\n\nText:\n")
	b.WriteString(sourceText)
	return b.String()
}

// BuildComparisonPrompt asks a judge model which of two result sets is better
// for intermediate to advanced learners. Both results are embedded as JSON.
func BuildComparisonPrompt(a, b *entity.ClassifiedResult, labelA, labelB string) string {
	var sb strings.Builder
	sb.WriteString("You are an expert English language instructor. Two systems extracted learning material for intermediate to advanced English learners from the same text.\n\n")
	sb.WriteString("Result from " + labelA + ":\n")
	sb.WriteString(resultJSON(a))
	sb.WriteString("\n\nResult from " + labelB + ":\n")
	sb.WriteString(resultJSON(b))
	sb.WriteString("\n\nCompare the two results on these criteria:\n")
	sb.WriteString("1. Relevance: are the chosen words and phrases worth learning for intermediate to advanced learners?\n")
	sb.WriteString("2. Accuracy: are the translations and explanations correct?\n")
	sb.WriteString("3. Clarity: are the explanations and examples easy to understand?\n")
	sb.WriteString("4. Depth: do the examples show real usage?\n\n")
	sb.WriteString("State which result is better overall and explain why.")
	return sb.String()
}

func resultJSON(r *entity.ClassifiedResult) string {
	if r == nil {
		r = &entity.ClassifiedResult{}
	}
	v := struct {
		Vocabulary []entity.LearningEntry `json:"vocabulary"`
		Phrases    []entity.LearningEntry `json:"phrases"`
	}{
		Vocabulary: nonNil(r.Vocabulary),
		Phrases:    nonNil(r.Phrases),
	}
	bs, _ := json.MarshalIndent(v, "", "  ")
	return string(bs)
}

func nonNil(es []entity.LearningEntry) []entity.LearningEntry {
	if es == nil {
		return []entity.LearningEntry{}
	}
	return es
}
