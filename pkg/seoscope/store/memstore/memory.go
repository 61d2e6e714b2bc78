package memstore

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"sort"
	"sync"

	"github.com/cognicore/seoscope/pkg/seoscope/internalerr"
	"github.com/cognicore/seoscope/pkg/seoscope/store"
)

// Store is an in-memory implementation of store.Store for tests and
// one-shot CLI runs.
type Store struct {
	mu       sync.RWMutex
	analyses map[string]store.Analysis
	articles map[string]store.Article
}

var _ store.Store = (*Store)(nil)

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		analyses: make(map[string]store.Analysis),
		articles: make(map[string]store.Article),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveAnalysis stores a copy of a, replacing any run with the same ID.
func (s *Store) SaveAnalysis(ctx context.Context, a store.Analysis) error {
	if a.ID == "" {
		return fmt.Errorf("%w: analysis id is required", internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyses[a.ID] = copyAnalysis(a)
	return nil
}

// GetAnalysis returns a run by ID.
func (s *Store) GetAnalysis(ctx context.Context, id string) (store.Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.analyses[id]
	if !ok {
		return store.Analysis{}, fmt.Errorf("analysis %s: %w", id, internalerr.ErrNotFound)
	}
	return copyAnalysis(a), nil
}

// ListAnalyses returns runs newest first. IDs are ULIDs, so ID order is
// creation order.
func (s *Store) ListAnalyses(ctx context.Context, keyword string, limit int) ([]store.Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = store.DefaultListLimit
	}

	out := []store.Analysis{}
	for _, a := range s.analyses {
		if keyword != "" && a.TargetKeyword != keyword {
			continue
		}
		out = append(out, copyAnalysis(a))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID > out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// SaveArticle stores a copy of a.
func (s *Store) SaveArticle(ctx context.Context, a store.Article) error {
	if a.ID == "" {
		return fmt.Errorf("%w: article id is required", internalerr.ErrInvalidInput)
	}
	if a.Status == "" {
		a.Status = store.StatusDraft
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles[a.ID] = a
	return nil
}

// GetArticle returns an article by ID.
func (s *Store) GetArticle(ctx context.Context, id string) (store.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.articles[id]
	if !ok {
		return store.Article{}, fmt.Errorf("article %s: %w", id, internalerr.ErrNotFound)
	}
	return a, nil
}

func copyAnalysis(a store.Analysis) store.Analysis {
	out := a
	if a.Languages != nil {
		out.Languages = maps.Clone(a.Languages)
	}
	if a.Result != nil {
		out.Result = append(json.RawMessage(nil), a.Result...)
	}
	return out
}
