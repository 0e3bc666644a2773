package ocr

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	reWordToken = regexp.MustCompile(`\S+`)
	reAlphaWord = regexp.MustCompile(`^[A-Za-z][A-Za-z'\-]*[A-Za-z]?[.,!?;:]?$`)
	reSentence  = regexp.MustCompile(`[A-Za-z][^.!?]*[.!?]`)
)

// naive heuristic confidence based on decoded text characteristics
func heuristicConfidence(txt string) float32 {
	tokens := reWordToken.FindAllString(txt, -1)
	if len(tokens) == 0 {
		return 0
	}
	var words int
	for _, t := range tokens {
		if reAlphaWord.MatchString(t) {
			words++
		}
	}
	score := float32(0.2) // base
	score += 0.5 * float32(words) / float32(len(tokens))
	if reSentence.MatchString(txt) {
		score += 0.1
	}
	if len(txt) > 120 {
		score += 0.1
	} // enough content
	if score > 1.0 {
		score = 1.0
	}
	return score
}

func letterCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}

// WordCount is a rough whitespace token count, logged by callers.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
