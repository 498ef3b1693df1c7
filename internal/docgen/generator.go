// Package docgen turns an AnalysisResult into markdown documentation, using
// an LLM when one is configured and a deterministic template otherwise.
package docgen

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/ziadkadry99/repodocs/internal/analysis"
	"github.com/ziadkadry99/repodocs/internal/llm"
)

// Document sources.
const (
	SourceLLM      = "llm"
	SourceFallback = "fallback"
)

// Document is generated documentation for one repository.
type Document struct {
	Markdown     string    `json:"markdown"`
	Source       string    `json:"source"`
	Model        string    `json:"model,omitempty"`
	InputTokens  int       `json:"inputTokens"`
	OutputTokens int       `json:"outputTokens"`
	GeneratedAt  time.Time `json:"generatedAt"`
}

// ErrNoAnalysis is returned when Generate is called without a result.
var ErrNoAnalysis = errors.New("docgen: no analysis result")

// Generator produces documentation from analysis results.
type Generator struct {
	provider    llm.Provider
	model       string
	maxTokens   int
	temperature float64
	logger      *slog.Logger
	now         func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithModel sets the completion model.
func WithModel(m string) Option { return func(g *Generator) { g.model = m } }

// WithMaxTokens caps the completion length.
func WithMaxTokens(n int) Option { return func(g *Generator) { g.maxTokens = n } }

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option { return func(g *Generator) { g.temperature = t } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(g *Generator) { g.logger = l } }

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option { return func(g *Generator) { g.now = now } }

// New creates a Generator. A nil provider always produces fallback documents.
func New(provider llm.Provider, opts ...Option) *Generator {
	g := &Generator{
		provider:    provider,
		maxTokens:   llm.DefaultMaxTokens,
		temperature: 0.3,
		logger:      slog.Default(),
		now:         time.Now,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Generate renders documentation for result. LLM failures and empty
// completions fall back to the template; only a template failure is an
// error.
func (g *Generator) Generate(ctx context.Context, result *analysis.AnalysisResult) (*Document, error) {
	if result == nil {
		return nil, ErrNoAnalysis
	}

	if g.provider != nil {
		doc, err := g.complete(ctx, result)
		if err == nil {
			return doc, nil
		}
		g.logger.Warn("llm generation failed, using fallback",
			"repo", result.Repository.Name,
			"provider", g.provider.Name(),
			"error", err,
		)
	}

	md, err := RenderFallback(result)
	if err != nil {
		return nil, err
	}
	return &Document{
		Markdown:    md,
		Source:      SourceFallback,
		GeneratedAt: g.now().UTC(),
	}, nil
}

var errEmptyCompletion = errors.New("empty completion")

func (g *Generator) complete(ctx context.Context, result *analysis.AnalysisResult) (*Document, error) {
	resp, err := g.provider.Complete(ctx, llm.CompletionRequest{
		Model: g.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemPrompt},
			{Role: llm.RoleUser, Content: BuildPrompt(result)},
		},
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
	})
	if err != nil {
		return nil, err
	}

	md := stripFence(resp.Content)
	if md == "" {
		return nil, errEmptyCompletion
	}

	model := resp.Model
	if model == "" {
		model = g.model
	}
	return &Document{
		Markdown:     md,
		Source:       SourceLLM,
		Model:        model,
		InputTokens:  resp.InputTokens,
		OutputTokens: resp.OutputTokens,
		GeneratedAt:  g.now().UTC(),
	}, nil
}

// stripFence removes a code fence wrapping the whole response.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	nl := strings.IndexByte(s, '\n')
	if nl < 0 {
		return ""
	}
	body := s[nl+1:]
	if end := strings.LastIndex(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}
