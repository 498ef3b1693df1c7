package llm

import "context"

// Provider is a chat-completion backend for the documentation generator.
// Implementations must be safe for concurrent use; the server may generate
// documents for several repositories at once.
type Provider interface {
	// Complete runs one chat turn. A nil error means resp.Content holds
	// the model's answer, which may still be empty.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name identifies the backend in logs and in generated document metadata.
	Name() string
}
