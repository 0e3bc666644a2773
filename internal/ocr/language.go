package ocr

import (
	"github.com/pemistahl/lingua-go"
)

const (
	englishConfidenceFloor = 0.5
	minLettersForDetection = 20
)

// LanguageDetector reports the most likely language of text and how confident
// it is that the text is English (0..1).
type LanguageDetector interface {
	Detect(text string) (language string, englishConfidence float64)
}

type linguaDetector struct {
	d lingua.LanguageDetector
}

// NewLinguaDetector builds a detector over the languages screenshots usually mix.
func NewLinguaDetector() LanguageDetector {
	d := lingua.NewLanguageDetectorBuilder().
		FromLanguages(lingua.English, lingua.Chinese, lingua.Japanese, lingua.Korean,
			lingua.Spanish, lingua.French, lingua.German).
		Build()
	return linguaDetector{d: d}
}

func (l linguaDetector) Detect(text string) (string, float64) {
	lang, ok := l.d.DetectLanguageOf(text)
	name := "unknown"
	if ok {
		name = lang.String()
	}
	return name, l.d.ComputeLanguageConfidence(text, lingua.English)
}
