package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/ziadkadry99/repodocs/internal/analysis"
	"github.com/ziadkadry99/repodocs/internal/config"
	"github.com/ziadkadry99/repodocs/internal/docgen"
	"github.com/ziadkadry99/repodocs/internal/embeddings"
	"github.com/ziadkadry99/repodocs/internal/fetcher"
	"github.com/ziadkadry99/repodocs/internal/llm"
	"github.com/ziadkadry99/repodocs/internal/search"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `repodocs init` to create a config file", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger builds the process logger and installs it as the slog default.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	logger := config.NewLogger(cfg, w)
	slog.SetDefault(logger)
	return logger
}

// newFetcher creates the scratch-directory fetcher. The scratch root
// defaults to a directory under the data dir.
func newFetcher(cfg *config.Config, logger *slog.Logger) *fetcher.Fetcher {
	root := cfg.Analysis.ScratchDir
	if root == "" {
		root = filepath.Join(cfg.Server.DataDir, "scratch")
	}
	return fetcher.New(root, cfg.CloneTimeout(), fetcher.WithLogger(logger))
}

// newAnalyzer creates the orchestrator over the given fetcher.
func newAnalyzer(cfg *config.Config, f analysis.Fetcher, logger *slog.Logger) *analysis.Analyzer {
	opts := []analysis.Option{
		analysis.WithWorkers(cfg.Analysis.Workers),
		analysis.WithExclude(cfg.Analysis.Exclude),
		analysis.WithLogger(logger),
	}
	if cfg.Analysis.MaxDepth > 0 {
		opts = append(opts, analysis.WithMaxDepth(cfg.Analysis.MaxDepth))
	}
	return analysis.New(f, opts...)
}

// newProvider creates the rate-limited LLM provider. It returns nil, without
// error, for the "none" provider so the generator uses its fallback template.
func newProvider(cfg *config.Config) (llm.Provider, error) {
	p, err := llm.NewProvider(string(cfg.Provider), cfg.Model, cfg.BaseURL)
	if errors.Is(err, llm.ErrNoProvider) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("creating LLM provider: %w", err)
	}
	return llm.NewRateLimitedProvider(p, cfg.RequestsPerMinute), nil
}

// newGenerator creates the documentation generator from config.
func newGenerator(cfg *config.Config, logger *slog.Logger) (*docgen.Generator, error) {
	provider, err := newProvider(cfg)
	if err != nil {
		return nil, err
	}
	return docgen.New(provider,
		docgen.WithModel(cfg.Model),
		docgen.WithMaxTokens(cfg.MaxTokens),
		docgen.WithTemperature(cfg.Temperature),
		docgen.WithLogger(logger),
	), nil
}

// newSearchIndex creates the documentation index and loads any persisted
// state from dir. It returns nil when search is disabled.
func newSearchIndex(cfg *config.Config, dir string) (*search.Index, error) {
	if !cfg.Search.Enabled {
		return nil, nil
	}
	embedder, err := embeddings.New(string(cfg.Search.EmbeddingProvider), cfg.Search.EmbeddingModel, "")
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}
	idx, err := search.New(embedder)
	if err != nil {
		return nil, fmt.Errorf("creating search index: %w", err)
	}
	if err := idx.Load(dir); err != nil {
		return nil, fmt.Errorf("loading search index from %s: %w", dir, err)
	}
	return idx, nil
}
