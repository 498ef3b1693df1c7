package llm

// OpenRouterBaseURL is the OpenAI-compatible OpenRouter endpoint.
const OpenRouterBaseURL = "https://openrouter.ai/api/v1"

// NewOpenRouterProvider creates a provider backed by OpenRouter.
func NewOpenRouterProvider(apiKey, model string) *OpenAIProvider {
	return newCompatibleProvider("openrouter", apiKey, model, OpenRouterBaseURL)
}
