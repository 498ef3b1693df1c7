package embeddings

import (
	"context"
	"errors"
	"fmt"

	chromem "github.com/philippgille/chromem-go"
)

var errNoEmbedding = errors.New("embedder returned no vector")

// ToChromemFunc exposes e as the per-document function chromem calls while
// indexing and querying. Failures carry the embedder name so a misconfigured
// model shows up in the search error.
func ToChromemFunc(e Embedder) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		vecs, err := e.Embed(ctx, []string{text})
		if err != nil {
			return nil, fmt.Errorf("embedding with %s: %w", e.Name(), err)
		}
		if len(vecs) == 0 || len(vecs[0]) == 0 {
			return nil, fmt.Errorf("embedding with %s: %w", e.Name(), errNoEmbedding)
		}
		return vecs[0], nil
	}
}
