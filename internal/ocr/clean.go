package ocr

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// CleanStats summarizes what Clean removed.
type CleanStats struct {
	OriginalLines int
	KeptLines     int
	RemovedChars  int
}

var (
	reURL          = regexp.MustCompile(`https?://\S+`)
	rePath         = regexp.MustCompile(`(?:^|\s)(?:[A-Za-z]:)?[/\\][\w\-.]+(?:[/\\][\w\-.]*)+`)
	reVersion      = regexp.MustCompile(`\b[vV]?\d+\.\d+(?:\.\d+)*[A-Za-z]*\b`)
	reCoords       = regexp.MustCompile(`\(\s*\d{1,4}\s*,\s*\d{1,4}\s*\)|\b\d{1,4}x\d{1,4}\b`)
	reSymbolRun    = regexp.MustCompile(`[^\w\s]{3,}`)
	reLoneL        = regexp.MustCompile(`(^|\s)l(\s|$)`)
	reZeroInWord   = regexp.MustCompile(`([A-Za-z])0([A-Za-z])`)
	rePipeInWord   = regexp.MustCompile(`([A-Za-z])\|([A-Za-z])`)
	reSpaceCollaps = regexp.MustCompile(`[ \t]{2,}`)
)

// Clean strips screenshot UI noise from normalized OCR text: URLs, file paths,
// version strings, coordinates, symbol runs and lines with fewer than two letters.
// Lines broken mid-sentence are joined back when the next line starts lowercase.
func Clean(s string) (string, CleanStats) {
	var stats CleanStats
	if strings.TrimSpace(s) == "" {
		return "", stats
	}
	before := utf8.RuneCountInString(s)

	lines := strings.Split(s, "\n")
	stats.OriginalLines = len(lines)

	kept := make([]string, 0, len(lines))
	for _, ln := range lines {
		ln = reURL.ReplaceAllString(ln, " ")
		ln = rePath.ReplaceAllString(ln, " ")
		ln = reVersion.ReplaceAllString(ln, " ")
		ln = reCoords.ReplaceAllString(ln, " ")
		ln = reSymbolRun.ReplaceAllString(ln, " ")
		ln = fixOCRConfusions(ln)
		ln = strings.TrimSpace(reSpaceCollaps.ReplaceAllString(ln, " "))
		if letterCount(ln) < 2 {
			continue
		}
		kept = append(kept, ln)
	}

	joined := make([]string, 0, len(kept))
	for _, ln := range kept {
		if n := len(joined); n > 0 && continuesSentence(joined[n-1], ln) {
			joined[n-1] += " " + ln
			continue
		}
		joined = append(joined, ln)
	}

	out := strings.Join(joined, "\n")
	stats.KeptLines = len(joined)
	stats.RemovedChars = before - utf8.RuneCountInString(out)
	return out, stats
}

func fixOCRConfusions(s string) string {
	s = reLoneL.ReplaceAllString(s, "${1}I${2}")
	s = reZeroInWord.ReplaceAllString(s, "${1}o${2}")
	s = rePipeInWord.ReplaceAllString(s, "${1}l${2}")
	return s
}

func continuesSentence(prev, next string) bool {
	last, _ := utf8.DecodeLastRuneInString(prev)
	if strings.ContainsRune(".!?:", last) {
		return false
	}
	first, _ := utf8.DecodeRuneInString(next)
	return unicode.IsLower(first)
}
