package llm

import "strings"

// envelope is one known way a model wraps its JSON answer.
type envelope struct {
	name  string
	strip func(s string) (string, bool)
}

// knownEnvelopes is the complete list of wrappers removed before parsing,
// applied in order. Anything else is left for the JSON parser to reject.
var knownEnvelopes = []envelope{
	{name: "json_fence_open", strip: trimPrefixFold("```json")},
	{name: "bare_fence_open", strip: trimPrefixFold("```")},
	{name: "fence_close", strip: trimSuffix("```")},
}

// Unwrap trims s and removes known envelopes until none matches, so nested
// fences come off too and a second call is a no-op. It returns the body and
// the names of the envelopes that were removed.
func Unwrap(s string) (string, []string) {
	s = strings.TrimSpace(s)
	var applied []string
	for {
		changed := false
		for _, env := range knownEnvelopes {
			if out, ok := env.strip(s); ok {
				s = strings.TrimSpace(out)
				applied = append(applied, env.name)
				changed = true
			}
		}
		if !changed {
			return s, applied
		}
	}
}

// UnwrapEnvelope is Unwrap without the bookkeeping.
func UnwrapEnvelope(s string) string {
	body, _ := Unwrap(s)
	return body
}

func trimPrefixFold(prefix string) func(string) (string, bool) {
	return func(s string) (string, bool) {
		if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
			return s[len(prefix):], true
		}
		return s, false
	}
}

func trimSuffix(suffix string) func(string) (string, bool) {
	return func(s string) (string, bool) {
		if out, ok := strings.CutSuffix(strings.TrimRight(s, " \t\r\n"), suffix); ok {
			return out, true
		}
		return s, false
	}
}
