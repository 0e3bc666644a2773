package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/screenshot-vocab/internal/common"
	"github.com/joseph-ayodele/screenshot-vocab/internal/entity"
)

var optionalFields = []string{"translation", "explanation", "example"}

// Normalize turns raw model text into learning entries.
//
// Known envelopes are unwrapped and the body is parsed as JSON; a body that is
// not a JSON object is ErrMalformedOutput. Only the top-level "phrases" array
// is read and a missing key yields no entries. Individual entries that fail the
// entry schema (no usable phrase, non-object) are dropped with a warning.
func Normalize(raw string, logger *slog.Logger) ([]entity.LearningEntry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	body, applied := Unwrap(raw)
	if len(applied) > 0 {
		logger.Debug("llm.normalize.unwrapped", "envelopes", applied)
	}

	var doc any
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrMalformedOutput, err)
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top-level value is %T, want object", common.ErrMalformedOutput, doc)
	}

	docS, entryS, err := compiledSchemas()
	if err != nil {
		return nil, fmt.Errorf("phrases schema: %w", err)
	}
	if err := docS.Validate(obj); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrMalformedOutput, err)
	}

	items, _ := obj["phrases"].([]any)
	entries := make([]entity.LearningEntry, 0, len(items))
	for i, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			logger.Warn("llm.normalize.entry_dropped", "index", i, "reason", fmt.Sprintf("entry is %T", it))
			continue
		}
		changed := sanitizeEntry(m)
		if len(changed) > 0 {
			logger.Debug("llm.normalize.entry_sanitized", "index", i, "changed", changed)
		}
		if err := entryS.Validate(m); err != nil {
			logger.Warn("llm.normalize.entry_dropped", "index", i, "reason", firstLine(err))
			continue
		}
		entries = append(entries, entity.LearningEntry{
			Phrase:      m["phrase"].(string),
			Translation: stringField(m, "translation"),
			Explanation: stringField(m, "explanation"),
			Example:     stringField(m, "example"),
		})
	}
	return entries, nil
}

// sanitizeEntry trims the phrase, drops null optionals and coerces numbers and
// booleans in the optional fields to strings. A phrase that is not a string is
// left for the entry schema to reject. Unknown keys are left alone.
func sanitizeEntry(m map[string]any) []string {
	var changed []string
	if p, ok := m["phrase"].(string); ok {
		if s := strings.TrimSpace(p); s != p {
			m["phrase"] = s
			changed = append(changed, "phrase(trimmed)")
		}
	}
	for _, k := range optionalFields {
		v, ok := m[k]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case nil:
			delete(m, k)
			changed = append(changed, k+"(null)")
		case float64:
			m[k] = strconv.FormatFloat(t, 'f', -1, 64)
			changed = append(changed, k+"(number)")
		case bool:
			m[k] = strconv.FormatBool(t)
			changed = append(changed, k+"(bool)")
		}
	}
	return changed
}

func stringField(m map[string]any, k string) string {
	s, _ := m[k].(string)
	return s
}

func firstLine(err error) string {
	msg := err.Error()
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		return msg[:i]
	}
	return msg
}
