package config

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderOpenAI     ProviderType = "openai"
	ProviderOpenRouter ProviderType = "openrouter"
	ProviderOllama     ProviderType = "ollama"
	// ProviderNone disables generation; documents use the fallback template.
	ProviderNone ProviderType = "none"
)

// Config is the top-level repodocs configuration, corresponding to .repodocs.yml.
type Config struct {
	Provider    ProviderType   `yaml:"provider" koanf:"provider"`
	Model       string         `yaml:"model" koanf:"model"`
	BaseURL     string         `yaml:"base_url,omitempty" koanf:"base_url"`
	Temperature float64        `yaml:"temperature" koanf:"temperature"`
	MaxTokens   int            `yaml:"max_tokens" koanf:"max_tokens"`
	LogLevel    string         `yaml:"log_level" koanf:"log_level"`
	LogFormat   string         `yaml:"log_format" koanf:"log_format"`
	Analysis    AnalysisConfig `yaml:"analysis" koanf:"analysis"`
	Server      ServerConfig   `yaml:"server" koanf:"server"`
	Search      SearchConfig   `yaml:"search" koanf:"search"`

	// RequestsPerMinute caps LLM calls; zero disables the limiter.
	RequestsPerMinute int `yaml:"requests_per_minute" koanf:"requests_per_minute"`
}

// AnalysisConfig controls cloning and the file walk.
type AnalysisConfig struct {
	ScratchDir          string   `yaml:"scratch_dir,omitempty" koanf:"scratch_dir"`
	CloneTimeoutSeconds int      `yaml:"clone_timeout_seconds" koanf:"clone_timeout_seconds"`
	MaxDepth            int      `yaml:"max_depth" koanf:"max_depth"`
	Workers             int      `yaml:"workers" koanf:"workers"`
	Exclude             []string `yaml:"exclude,omitempty" koanf:"exclude"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int    `yaml:"port" koanf:"port"`
	DataDir         string `yaml:"data_dir" koanf:"data_dir"`
	AllowAllOrigins bool   `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// SearchConfig controls semantic search over generated documentation.
type SearchConfig struct {
	Enabled           bool         `yaml:"enabled" koanf:"enabled"`
	EmbeddingProvider ProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string       `yaml:"embedding_model" koanf:"embedding_model"`
}
