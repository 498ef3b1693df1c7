// Package embeddings turns documentation sections into vectors for the
// semantic search index.
package embeddings

import "context"

// Embedder maps texts to vectors of a fixed dimension.
type Embedder interface {
	// Embed returns exactly one vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Name is the model identifier recorded with the index.
	Name() string
}
