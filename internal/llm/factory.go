package llm

import (
	"errors"
	"fmt"
	"os"
)

// ErrNoProvider is returned for the "none" provider, which disables
// generation.
var ErrNoProvider = errors.New("llm provider disabled")

// NewProvider creates a new LLM provider based on the given provider type and model.
// Supported provider types: "openai", "openrouter", "ollama", "none".
// baseURL overrides the endpoint for openai and ollama.
func NewProvider(providerType, model, baseURL string) (Provider, error) {
	switch providerType {
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
		return NewOpenAIProvider(apiKey, model, baseURL), nil

	case "openrouter":
		apiKey := os.Getenv("OPENROUTER_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENROUTER_API_KEY environment variable is not set")
		}
		return NewOpenRouterProvider(apiKey, model), nil

	case "ollama":
		host := baseURL
		if host == "" {
			host = os.Getenv("OLLAMA_HOST")
		}
		return NewOllamaProvider(host, model), nil

	case "none":
		return nil, ErrNoProvider

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}
