package config

// DefaultPath is where the config file is looked up.
const DefaultPath = ".repodocs.yml"

// defaultModels is the model suggested for each provider.
var defaultModels = map[ProviderType]string{
	ProviderOpenAI:     "gpt-4o-mini",
	ProviderOpenRouter: "openai/gpt-4o-mini",
	ProviderOllama:     "llama3",
}

// defaultEmbeddingModels is the embedding model suggested for each provider.
var defaultEmbeddingModels = map[ProviderType]string{
	ProviderOpenAI: "text-embedding-3-small",
	ProviderOllama: "nomic-embed-text",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:          ProviderOpenAI,
		Model:             defaultModels[ProviderOpenAI],
		Temperature:       0.3,
		MaxTokens:         4096,
		RequestsPerMinute: 30,
		LogLevel:          "info",
		LogFormat:         "text",
		Analysis: AnalysisConfig{
			CloneTimeoutSeconds: 60,
			MaxDepth:            6,
			Workers:             4,
		},
		Server: ServerConfig{
			Port:    8080,
			DataDir: ".repodocs",
		},
		Search: SearchConfig{
			EmbeddingProvider: ProviderOpenAI,
			EmbeddingModel:    defaultEmbeddingModels[ProviderOpenAI],
		},
	}
}

// DefaultModel returns the suggested chat model for a provider.
func DefaultModel(p ProviderType) string {
	return defaultModels[p]
}

// DefaultEmbeddingModel returns the suggested embedding model for a provider.
func DefaultEmbeddingModel(p ProviderType) string {
	return defaultEmbeddingModels[p]
}
