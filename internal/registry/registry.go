// Package registry stores analyzed repositories, their latest analysis and
// their generated documents, and exposes them over HTTP.
package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/repodocs/internal/analysis"
	"github.com/ziadkadry99/repodocs/internal/db"
	"github.com/ziadkadry99/repodocs/internal/docgen"
)

// Status is the lifecycle state of a registered repository.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAnalyzing Status = "analyzing"
	StatusReady     Status = "ready"
	StatusError     Status = "error"
)

var (
	// ErrDuplicate is returned when url and branch are already registered.
	ErrDuplicate = errors.New("repository already registered")
	// ErrNotFound is returned by mutations on an unknown repository id.
	ErrNotFound = errors.New("repository not found")
)

// Repository is a registered repository.
type Repository struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	URL        string     `json:"url"`
	Branch     string     `json:"branch"`
	Status     Status     `json:"status"`
	LastError  string     `json:"lastError,omitempty"`
	ErrorKind  string     `json:"errorKind,omitempty"`
	FileCount  int        `json:"fileCount"`
	AnalyzedAt *time.Time `json:"analyzedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// StoredDocument is a generated document with its storage id.
type StoredDocument struct {
	ID     string `json:"id"`
	RepoID string `json:"repoId"`
	docgen.Document
}

// Store provides CRUD operations for the repository registry.
type Store struct {
	db  *db.DB
	now func() time.Time
}

// NewStore creates a new registry store.
func NewStore(d *db.DB) *Store {
	return &Store{db: d, now: time.Now}
}

const repoColumns = `id, name, url, branch, status, last_error, error_kind, file_count, analyzed_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRepo(row rowScanner) (*Repository, error) {
	var r Repository
	var analyzedAt sql.NullTime
	if err := row.Scan(&r.ID, &r.Name, &r.URL, &r.Branch, &r.Status, &r.LastError,
		&r.ErrorKind, &r.FileCount, &analyzedAt, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	if analyzedAt.Valid {
		t := analyzedAt.Time
		r.AnalyzedAt = &t
	}
	return &r, nil
}

// Create inserts a new repository. ID, status and timestamps are filled in.
func (s *Store) Create(ctx context.Context, repo *Repository) error {
	if repo.ID == "" {
		repo.ID = uuid.NewString()
	}
	if repo.Status == "" {
		repo.Status = StatusPending
	}
	now := s.now().UTC()
	repo.CreatedAt, repo.UpdatedAt = now, now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO repositories (id, name, url, branch, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		repo.ID, repo.Name, repo.URL, repo.Branch, repo.Status, now, now,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%s@%s: %w", repo.URL, repo.Branch, ErrDuplicate)
		}
		return fmt.Errorf("adding repository: %w", err)
	}
	return nil
}

// Get retrieves a repository by ID. It returns nil, nil when none exists.
func (s *Store) Get(ctx context.Context, id string) (*Repository, error) {
	r, err := scanRepo(s.db.QueryRowContext(ctx,
		`SELECT `+repoColumns+` FROM repositories WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting repository: %w", err)
	}
	return r, nil
}

// FindByURL retrieves a repository by url and branch, or nil, nil.
func (s *Store) FindByURL(ctx context.Context, url, branch string) (*Repository, error) {
	r, err := scanRepo(s.db.QueryRowContext(ctx,
		`SELECT `+repoColumns+` FROM repositories WHERE url = ? AND branch = ?`, url, branch))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding repository: %w", err)
	}
	return r, nil
}

// List returns all registered repositories ordered by name.
func (s *Store) List(ctx context.Context) ([]Repository, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+repoColumns+` FROM repositories ORDER BY name, branch`)
	if err != nil {
		return nil, fmt.Errorf("listing repositories: %w", err)
	}
	defer rows.Close()

	repos := []Repository{}
	for rows.Next() {
		r, err := scanRepo(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning repository: %w", err)
		}
		repos = append(repos, *r)
	}
	return repos, rows.Err()
}

// Delete removes a repository with its analysis and documents.
func (s *Store) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE repo_id = ?`, id); err != nil {
		return fmt.Errorf("removing documents: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM analyses WHERE repo_id = ?`, id); err != nil {
		return fmt.Errorf("removing analysis: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM repositories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("removing repository: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// MarkAnalyzing records that an analysis of id has started.
func (s *Store) MarkAnalyzing(ctx context.Context, id string) error {
	return s.update(ctx, id,
		`UPDATE repositories SET status = ?, updated_at = ? WHERE id = ?`,
		StatusAnalyzing, s.now().UTC(), id)
}

// MarkFailed records a failed analysis with its error kind and message.
func (s *Store) MarkFailed(ctx context.Context, id, kind, message string) error {
	return s.update(ctx, id,
		`UPDATE repositories SET status = ?, error_kind = ?, last_error = ?, updated_at = ? WHERE id = ?`,
		StatusError, kind, message, s.now().UTC(), id)
}

// SaveAnalysis stores result as the latest analysis of id and marks the
// repository ready.
func (s *Store) SaveAnalysis(ctx context.Context, id string, result *analysis.AnalysisResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling analysis: %w", err)
	}
	now := s.now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE repositories SET status = ?, error_kind = '', last_error = '', file_count = ?, analyzed_at = ?, updated_at = ?
		 WHERE id = ?`,
		StatusReady, result.Repository.TotalFiles, now, now, id)
	if err != nil {
		return fmt.Errorf("updating repository: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO analyses (repo_id, result, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(repo_id) DO UPDATE SET result = excluded.result, created_at = excluded.created_at`,
		id, string(data), now)
	if err != nil {
		return fmt.Errorf("saving analysis: %w", err)
	}
	return tx.Commit()
}

// LatestAnalysis returns the stored analysis of id, or nil, nil.
func (s *Store) LatestAnalysis(ctx context.Context, id string) (*analysis.AnalysisResult, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT result FROM analyses WHERE repo_id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting analysis: %w", err)
	}
	var result analysis.AnalysisResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, fmt.Errorf("decoding analysis: %w", err)
	}
	return &result, nil
}

// SaveDocument appends doc to the document history of repoID.
func (s *Store) SaveDocument(ctx context.Context, repoID string, doc *docgen.Document) (*StoredDocument, error) {
	stored := &StoredDocument{ID: uuid.NewString(), RepoID: repoID, Document: *doc}
	if stored.GeneratedAt.IsZero() {
		stored.GeneratedAt = s.now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, repo_id, markdown, source, model, input_tokens, output_tokens, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		stored.ID, repoID, doc.Markdown, doc.Source, doc.Model, doc.InputTokens, doc.OutputTokens, stored.GeneratedAt)
	if err != nil {
		return nil, fmt.Errorf("saving document: %w", err)
	}
	return stored, nil
}

// LatestDocument returns the most recent document of repoID, or nil, nil.
func (s *Store) LatestDocument(ctx context.Context, repoID string) (*StoredDocument, error) {
	docs, err := s.documents(ctx, repoID, 1)
	if err != nil || len(docs) == 0 {
		return nil, err
	}
	return &docs[0], nil
}

// Documents returns the document history of repoID, newest first.
func (s *Store) Documents(ctx context.Context, repoID string) ([]StoredDocument, error) {
	return s.documents(ctx, repoID, -1)
}

func (s *Store) documents(ctx context.Context, repoID string, limit int) ([]StoredDocument, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, repo_id, markdown, source, model, input_tokens, output_tokens, created_at
		 FROM documents WHERE repo_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`, repoID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	docs := []StoredDocument{}
	for rows.Next() {
		var d StoredDocument
		if err := rows.Scan(&d.ID, &d.RepoID, &d.Markdown, &d.Source, &d.Model,
			&d.InputTokens, &d.OutputTokens, &d.GeneratedAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (s *Store) update(ctx context.Context, id, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating repository: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
