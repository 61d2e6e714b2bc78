package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/seoscope/pkg/seoscope/internalerr"
	"github.com/cognicore/seoscope/pkg/seoscope/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled and creates the
// schema if needed.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS analyses (
	id TEXT PRIMARY KEY,
	target_keyword TEXT NOT NULL,
	created_at TEXT NOT NULL,
	pages_total INTEGER NOT NULL DEFAULT 0,
	pages_analyzed INTEGER NOT NULL DEFAULT 0,
	languages TEXT,
	result TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analyses_keyword ON analyses(target_keyword, id);

CREATE TABLE IF NOT EXISTS articles (
	id TEXT PRIMARY KEY,
	analysis_id TEXT,
	keyword TEXT NOT NULL,
	prompt TEXT,
	content TEXT,
	status TEXT NOT NULL,
	created_at TEXT NOT NULL
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveAnalysis inserts or replaces an analysis run
func (s *sqliteStore) SaveAnalysis(ctx context.Context, a store.Analysis) error {
	if a.ID == "" {
		return fmt.Errorf("%w: analysis id is required", internalerr.ErrInvalidInput)
	}

	var langs []byte
	if len(a.Languages) > 0 {
		var err error
		if langs, err = json.Marshal(a.Languages); err != nil {
			return err
		}
	}
	result := a.Result
	if len(result) == 0 {
		result = json.RawMessage("{}")
	}

	const stmt = `
INSERT INTO analyses (id, target_keyword, created_at, pages_total, pages_analyzed, languages, result)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	target_keyword=excluded.target_keyword,
	created_at=excluded.created_at,
	pages_total=excluded.pages_total,
	pages_analyzed=excluded.pages_analyzed,
	languages=excluded.languages,
	result=excluded.result;
`
	_, err := s.db.ExecContext(ctx, stmt,
		a.ID,
		a.TargetKeyword,
		a.CreatedAt.UTC().Format(time.RFC3339Nano),
		a.PagesTotal,
		a.PagesAnalyzed,
		string(langs),
		string(result),
	)
	return err
}

const analysisColumns = `id, target_keyword, created_at, pages_total, pages_analyzed, languages, result`

// GetAnalysis retrieves an analysis run by ID
func (s *sqliteStore) GetAnalysis(ctx context.Context, id string) (store.Analysis, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+analysisColumns+` FROM analyses WHERE id = ?`, id)
	a, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Analysis{}, fmt.Errorf("analysis %s: %w", id, internalerr.ErrNotFound)
	}
	return a, err
}

// ListAnalyses returns the newest runs first, optionally filtered by keyword
func (s *sqliteStore) ListAnalyses(ctx context.Context, keyword string, limit int) ([]store.Analysis, error) {
	if limit <= 0 {
		limit = store.DefaultListLimit
	}

	var (
		rows *sql.Rows
		err  error
	)
	if keyword == "" {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+analysisColumns+` FROM analyses ORDER BY id DESC LIMIT ?`, limit)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+analysisColumns+` FROM analyses WHERE target_keyword = ? ORDER BY id DESC LIMIT ?`,
			keyword, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []store.Analysis{}
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(sc scanner) (store.Analysis, error) {
	var (
		a        store.Analysis
		created  string
		langs    sql.NullString
		resultJS string
	)
	if err := sc.Scan(&a.ID, &a.TargetKeyword, &created, &a.PagesTotal, &a.PagesAnalyzed, &langs, &resultJS); err != nil {
		return store.Analysis{}, err
	}

	ts, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return store.Analysis{}, fmt.Errorf("analysis %s: created_at: %w", a.ID, err)
	}
	a.CreatedAt = ts

	if langs.Valid && langs.String != "" {
		if err := json.Unmarshal([]byte(langs.String), &a.Languages); err != nil {
			return store.Analysis{}, fmt.Errorf("analysis %s: languages: %w", a.ID, err)
		}
	}
	a.Result = json.RawMessage(resultJS)
	return a, nil
}

// SaveArticle inserts or replaces an article
func (s *sqliteStore) SaveArticle(ctx context.Context, a store.Article) error {
	if a.ID == "" {
		return fmt.Errorf("%w: article id is required", internalerr.ErrInvalidInput)
	}
	if a.Status == "" {
		a.Status = store.StatusDraft
	}

	const stmt = `
INSERT INTO articles (id, analysis_id, keyword, prompt, content, status, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	analysis_id=excluded.analysis_id,
	keyword=excluded.keyword,
	prompt=excluded.prompt,
	content=excluded.content,
	status=excluded.status;
`
	_, err := s.db.ExecContext(ctx, stmt,
		a.ID,
		a.AnalysisID,
		a.Keyword,
		a.Prompt,
		a.Content,
		a.Status,
		a.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// GetArticle retrieves an article by ID
func (s *sqliteStore) GetArticle(ctx context.Context, id string) (store.Article, error) {
	var (
		a       store.Article
		created string
	)
	err := s.db.QueryRowContext(ctx, `
SELECT id, analysis_id, keyword, prompt, content, status, created_at
FROM articles WHERE id = ?`, id).Scan(
		&a.ID, &a.AnalysisID, &a.Keyword, &a.Prompt, &a.Content, &a.Status, &created,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Article{}, fmt.Errorf("article %s: %w", id, internalerr.ErrNotFound)
	}
	if err != nil {
		return store.Article{}, err
	}

	ts, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return store.Article{}, fmt.Errorf("article %s: created_at: %w", id, err)
	}
	a.CreatedAt = ts
	return a, nil
}
