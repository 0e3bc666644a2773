package constants

import "strings"

// Backend names accepted in config and on the command line.
const (
	BackendOpenAI    = "openai"
	BackendOllama    = "ollama"
	BackendAnthropic = "anthropic"
)

var allBackends = []string{BackendOpenAI, BackendOllama, BackendAnthropic}

// Backends returns the known backend names.
func Backends() []string {
	out := make([]string, len(allBackends))
	copy(out, allBackends)
	return out
}

// CanonicalBackend maps user input (and a few aliases) to a backend name.
func CanonicalBackend(input string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	synonyms := map[string]string{
		"gpt":      BackendOpenAI,
		"hosted":   BackendOpenAI,
		"local":    BackendOllama,
		"claude":   BackendAnthropic,
		"deepseek": BackendOllama,
		"phi3":     BackendOllama,
	}
	if b, ok := synonyms[normalized]; ok {
		return b, true
	}
	for _, b := range allBackends {
		if normalized == b {
			return b, true
		}
	}
	return "", false
}
