package embeddings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func embeddingServer(t *testing.T, path string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != path {
			http.NotFound(w, r)
			return
		}
		var req struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		data := make([]map[string]any, len(req.Input))
		for i, in := range req.Input {
			data[i] = map[string]any{
				"object":    "embedding",
				"index":     i,
				"embedding": []float32{float32(len(in)), 1},
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"model":  req.Model,
			"data":   data,
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIEmbedder(t *testing.T) {
	srv := embeddingServer(t, "/v1/embeddings")
	e := NewOpenAIEmbedder("key", "", srv.URL+"/v1")
	if e.Name() != DefaultOpenAIModel {
		t.Errorf("Name() = %q", e.Name())
	}

	vecs, err := e.Embed(context.Background(), []string{"a", "abc"})
	if err != nil {
		t.Fatalf("Embed() error: %v", err)
	}
	if len(vecs) != 2 || vecs[0][0] != 1 || vecs[1][0] != 3 {
		t.Errorf("unexpected vectors: %v", vecs)
	}
}

func TestOllamaEmbedderUsesV1(t *testing.T) {
	srv := embeddingServer(t, "/v1/embeddings")
	e := NewOllamaEmbedder(srv.URL+"/", "")
	if e.Name() != "ollama/"+DefaultOllamaModel {
		t.Errorf("Name() = %q", e.Name())
	}
	if _, err := e.Embed(context.Background(), []string{"x"}); err != nil {
		t.Fatalf("Embed() error: %v", err)
	}
}

func TestEmbedEmpty(t *testing.T) {
	vecs, err := NewOpenAIEmbedder("key", "", "http://127.0.0.1:0").Embed(context.Background(), nil)
	if err != nil || vecs != nil {
		t.Errorf("Embed(nil) = %v, %v", vecs, err)
	}
}

func TestNewRequiresKeyForOpenAI(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := New("openai", "", ""); err == nil {
		t.Fatal("expected error without OPENAI_API_KEY")
	}
	t.Setenv("OPENAI_API_KEY", "sk-test")
	if _, err := New("openai", "", ""); err != nil {
		t.Fatalf("New() error: %v", err)
	}
}

func TestNewOllamaAndUnknown(t *testing.T) {
	if _, err := New("ollama", "", ""); err != nil {
		t.Fatalf("New(ollama) error: %v", err)
	}
	if _, err := New("google", "", ""); err == nil {
		t.Fatal("expected error for unsupported provider")
	}
}

type staticEmbedder [][]float32

func (s staticEmbedder) Embed(context.Context, []string) ([][]float32, error) { return s, nil }
func (s staticEmbedder) Name() string                                         { return "static" }

func TestToChromemFunc(t *testing.T) {
	f := ToChromemFunc(staticEmbedder{{0.5, 0.5}})
	v, err := f(context.Background(), "x")
	if err != nil || len(v) != 2 {
		t.Fatalf("embedding func = %v, %v", v, err)
	}

	_, err = ToChromemFunc(staticEmbedder{})(context.Background(), "x")
	if !errors.Is(err, errNoEmbedding) || !strings.Contains(err.Error(), "static") {
		t.Fatalf("empty result error = %v", err)
	}
}
