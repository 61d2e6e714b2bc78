package store

import (
	"context"
	"encoding/json"
	"time"
)

// Store persists analysis runs and generated articles.
type Store interface {
	Close() error

	// Analyses
	SaveAnalysis(ctx context.Context, a Analysis) error
	GetAnalysis(ctx context.Context, id string) (Analysis, error)
	ListAnalyses(ctx context.Context, keyword string, limit int) ([]Analysis, error)

	// Articles
	SaveArticle(ctx context.Context, a Article) error
	GetArticle(ctx context.Context, id string) (Article, error)
}

// DefaultListLimit applies when ListAnalyses is called with limit <= 0.
const DefaultListLimit = 20

// Analysis is one stored analysis run. Result holds the encoded result
// record exactly as it was returned to the caller.
type Analysis struct {
	ID            string          `json:"id"`
	TargetKeyword string          `json:"targetKeyword"`
	CreatedAt     time.Time       `json:"createdAt"`
	PagesTotal    int             `json:"pagesTotal"`
	PagesAnalyzed int             `json:"pagesAnalyzed"`
	Languages     map[string]int  `json:"languages,omitempty"` // detected language -> page count
	Result        json.RawMessage `json:"result"`
}

// Article status values.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Article is a generated article and the prompt that produced it.
type Article struct {
	ID         string    `json:"id"`
	AnalysisID string    `json:"analysisId,omitempty"`
	Keyword    string    `json:"keyword"`
	Prompt     string    `json:"prompt"`
	Content    string    `json:"content"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}
