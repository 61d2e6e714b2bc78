// Package storetest holds behaviour checks shared by every store.Store
// implementation.
package storetest

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/seoscope/pkg/seoscope/internalerr"
	"github.com/cognicore/seoscope/pkg/seoscope/store"
)

// Run exercises st. The store must be empty.
func Run(t *testing.T, st store.Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("AnalysisRoundTrip", func(t *testing.T) {
		a := store.Analysis{
			ID:            "01HZX0000000000000000000A1",
			TargetKeyword: "SEO対策",
			CreatedAt:     base,
			PagesTotal:    3,
			PagesAnalyzed: 2,
			Languages:     map[string]int{"ja": 2},
			Result:        json.RawMessage(`{"targetKeyword":"SEO対策","top30Words":["検索"]}`),
		}
		require.NoError(t, st.SaveAnalysis(ctx, a))

		got, err := st.GetAnalysis(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, a.TargetKeyword, got.TargetKeyword)
		assert.True(t, a.CreatedAt.Equal(got.CreatedAt))
		assert.Equal(t, 3, got.PagesTotal)
		assert.Equal(t, 2, got.PagesAnalyzed)
		assert.Equal(t, map[string]int{"ja": 2}, got.Languages)
		assert.JSONEq(t, string(a.Result), string(got.Result))
	})

	t.Run("AnalysisNotFound", func(t *testing.T) {
		_, err := st.GetAnalysis(ctx, "missing")
		assert.True(t, errors.Is(err, internalerr.ErrNotFound))
	})

	t.Run("AnalysisRequiresID", func(t *testing.T) {
		err := st.SaveAnalysis(ctx, store.Analysis{TargetKeyword: "x"})
		assert.True(t, errors.Is(err, internalerr.ErrInvalidInput))
	})

	t.Run("ListNewestFirst", func(t *testing.T) {
		ids := []string{
			"01HZX0000000000000000000B1",
			"01HZX0000000000000000000B2",
			"01HZX0000000000000000000B3",
		}
		for i, id := range ids {
			require.NoError(t, st.SaveAnalysis(ctx, store.Analysis{
				ID:            id,
				TargetKeyword: "ブログ",
				CreatedAt:     base.Add(time.Duration(i) * time.Minute),
				Result:        json.RawMessage(`{}`),
			}))
		}

		got, err := st.ListAnalyses(ctx, "ブログ", 2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, ids[2], got[0].ID)
		assert.Equal(t, ids[1], got[1].ID)

		all, err := st.ListAnalyses(ctx, "", 0)
		require.NoError(t, err)
		assert.Len(t, all, 4)

		none, err := st.ListAnalyses(ctx, "unknown", 10)
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})

	t.Run("ArticleRoundTrip", func(t *testing.T) {
		a := store.Article{
			ID:         "01HZX0000000000000000000C1",
			AnalysisID: "01HZX0000000000000000000A1",
			Keyword:    "SEO対策",
			Prompt:     "記事を書いてください",
			Content:    "本文",
			CreatedAt:  base,
		}
		require.NoError(t, st.SaveArticle(ctx, a))

		got, err := st.GetArticle(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, store.StatusDraft, got.Status)
		assert.Equal(t, a.Content, got.Content)
		assert.Equal(t, a.AnalysisID, got.AnalysisID)
		assert.True(t, a.CreatedAt.Equal(got.CreatedAt))

		a.Status = store.StatusPublished
		require.NoError(t, st.SaveArticle(ctx, a))
		got, err = st.GetArticle(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, store.StatusPublished, got.Status)

		_, err = st.GetArticle(ctx, "missing")
		assert.True(t, errors.Is(err, internalerr.ErrNotFound))
	})
}
