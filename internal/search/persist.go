package search

import (
	"context"
	"log/slog"
)

// Persisted wraps an Index and writes it to dir after every mutation, so a
// restarted server sees the same documents.
type Persisted struct {
	*Index
	dir    string
	logger *slog.Logger
}

// PersistTo returns a view of x that persists to dir on every write.
func (x *Index) PersistTo(dir string, logger *slog.Logger) *Persisted {
	if logger == nil {
		logger = slog.Default()
	}
	return &Persisted{Index: x, dir: dir, logger: logger}
}

// IndexDocument indexes markdown and persists the index. A failed write is
// logged; the in-memory index stays authoritative.
func (p *Persisted) IndexDocument(ctx context.Context, repoID, repoName, markdown string) (int, error) {
	n, err := p.Index.IndexDocument(ctx, repoID, repoName, markdown)
	if err != nil {
		return n, err
	}
	p.persist()
	return n, nil
}

// DeleteRepo removes repoID and persists the index.
func (p *Persisted) DeleteRepo(ctx context.Context, repoID string) error {
	if err := p.Index.DeleteRepo(ctx, repoID); err != nil {
		return err
	}
	p.persist()
	return nil
}

func (p *Persisted) persist() {
	if err := p.Persist(p.dir); err != nil {
		p.logger.Warn("persisting search index", "dir", p.dir, "error", err)
	}
}
