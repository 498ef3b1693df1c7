// Package search indexes generated documentation for semantic lookup.
package search

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"github.com/ziadkadry99/repodocs/internal/embeddings"
)

const (
	collectionName = "documentation"
	// FileName is the persisted index inside the data directory.
	FileName     = "search.gob.gz"
	defaultLimit = 10
	snippetRunes = 300
)

// Result is one matching documentation section.
type Result struct {
	RepoID     string  `json:"repoId"`
	RepoName   string  `json:"repoName"`
	Heading    string  `json:"heading"`
	Snippet    string  `json:"snippet"`
	Similarity float32 `json:"similarity"`
}

// Index is a chromem-backed store of documentation sections.
type Index struct {
	mu         sync.Mutex
	db         *chromem.DB
	collection *chromem.Collection
	embedFunc  chromem.EmbeddingFunc
}

// New creates an empty in-memory index using e for embeddings.
func New(e embeddings.Embedder) (*Index, error) {
	return newIndex(embeddings.ToChromemFunc(e))
}

func newIndex(ef chromem.EmbeddingFunc) (*Index, error) {
	db := chromem.NewDB()
	col, err := db.GetOrCreateCollection(collectionName, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return &Index{db: db, collection: col, embedFunc: ef}, nil
}

// IndexDocument replaces the indexed sections of repoID with those of markdown.
func (x *Index) IndexDocument(ctx context.Context, repoID, repoName, markdown string) (int, error) {
	sections := SplitSections(markdown, repoName)

	x.mu.Lock()
	defer x.mu.Unlock()

	if err := x.collection.Delete(ctx, map[string]string{"repo_id": repoID}, nil); err != nil {
		return 0, fmt.Errorf("delete previous sections: %w", err)
	}
	if len(sections) == 0 {
		return 0, nil
	}

	docs := make([]chromem.Document, len(sections))
	for i, s := range sections {
		docs[i] = chromem.Document{
			ID:      repoID + "#" + strconv.Itoa(i),
			Content: s.Heading + "\n\n" + s.Content,
			Metadata: map[string]string{
				"repo_id":   repoID,
				"repo_name": repoName,
				"heading":   s.Heading,
				"level":     strconv.Itoa(s.Level),
			},
		}
	}
	if err := x.collection.AddDocuments(ctx, docs, 1); err != nil {
		return 0, fmt.Errorf("add sections: %w", err)
	}
	return len(docs), nil
}

// Search returns up to limit sections most similar to query.
func (x *Index) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	x.mu.Lock()
	col := x.collection
	x.mu.Unlock()

	// chromem requires nResults <= collection size.
	count := col.Count()
	if count == 0 {
		return []Result{}, nil
	}
	limit = min(limit, count)

	found, err := col.Query(ctx, query, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	results := make([]Result, len(found))
	for i, r := range found {
		results[i] = Result{
			RepoID:     r.Metadata["repo_id"],
			RepoName:   r.Metadata["repo_name"],
			Heading:    r.Metadata["heading"],
			Snippet:    snippet(r.Content),
			Similarity: r.Similarity,
		}
	}
	return results, nil
}

// DeleteRepo removes every section of repoID.
func (x *Index) DeleteRepo(ctx context.Context, repoID string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.collection.Delete(ctx, map[string]string{"repo_id": repoID}, nil)
}

// Count returns the number of indexed sections.
func (x *Index) Count() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.collection.Count()
}

// Persist writes the index as a gzip-compressed gob to dir/FileName.
func (x *Index) Persist(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.db.ExportToFile(filepath.Join(dir, FileName), true, "")
}

// Load restores a previously persisted index. A missing file leaves the
// index empty.
func (x *Index) Load(dir string) error {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	if err := x.db.ImportFromFile(path, ""); err != nil {
		return fmt.Errorf("import from file: %w", err)
	}
	// Re-acquire collection reference after import.
	col := x.db.GetCollection(collectionName, x.embedFunc)
	if col == nil {
		return fmt.Errorf("collection %q not found after import", collectionName)
	}
	x.collection = col
	return nil
}

func snippet(content string) string {
	r := []rune(content)
	if len(r) <= snippetRunes {
		return content
	}
	return string(r[:snippetRunes]) + "..."
}
