package llm

import "strings"

// DefaultOllamaHost is used when OLLAMA_HOST is unset.
const DefaultOllamaHost = "http://localhost:11434"

// NewOllamaProvider creates a provider that talks to Ollama's
// OpenAI-compatible /v1 endpoint on host.
func NewOllamaProvider(host, model string) *OpenAIProvider {
	if host == "" {
		host = DefaultOllamaHost
	}
	base := strings.TrimRight(host, "/")
	if !strings.HasSuffix(base, "/v1") {
		base += "/v1"
	}
	// Ollama ignores the key but the client requires one to be set.
	return newCompatibleProvider("ollama", "ollama", model, base)
}
