package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/seoscope/pkg/seoscope"
	"github.com/cognicore/seoscope/pkg/seoscope/embed"
	"github.com/cognicore/seoscope/pkg/seoscope/ingest"
	"github.com/cognicore/seoscope/pkg/seoscope/store/memstore"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st := memstore.New()
	cfg := embed.DefaultConfig()
	cfg.Seed = 9
	engine, err := seoscope.New(seoscope.Options{
		Tokenizer: ingest.NewTokenizer(ingest.UnicodeSegmenter{}, nil),
		Embedding: cfg,
		Store:     st,
	})
	require.NoError(t, err)
	return New(Config{}, NewHandler(engine, st, nil), nil)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

const analysisBody = `{
  "targetKeyword": "SEO対策",
  "pages": [
    {"url": "https://a.example", "bodyText": "SEO対策の基本 <strong> 検索 検索 順位", "headings": ["SEO対策とは"]},
    {"url": "https://b.example", "bodyText": "", "headings": []}
  ]
}`

func TestCreateAndFetchAnalysis(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/analyses", analysisBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "SEO対策")
	assert.NotContains(t, rec.Body.String(), `\u`)

	var created AnalysisResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "SEO対策", created.Result.TargetKeyword)
	assert.NotNil(t, created.Result.Top30Words)

	rec = do(t, s, http.MethodGet, "/api/v1/analyses/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stored struct {
		ID            string          `json:"id"`
		PagesTotal    int             `json:"pagesTotal"`
		PagesAnalyzed int             `json:"pagesAnalyzed"`
		Result        seoscope.Result `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stored))
	assert.Equal(t, created.ID, stored.ID)
	assert.Equal(t, 2, stored.PagesTotal)
	assert.Equal(t, 1, stored.PagesAnalyzed)
	assert.Equal(t, created.Result, stored.Result)

	rec = do(t, s, http.MethodGet, "/api/v1/analyses?keyword="+"SEO%E5%AF%BE%E7%AD%96"+"&limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)
}

func TestCreateAnalysisValidation(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/analyses", `{"pages":[{"url":"https://a.example","bodyText":"text"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")

	rec = do(t, s, http.MethodPost, "/api/v1/analyses", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_REQUEST")
}

func TestCreateAnalysisEmptyPages(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/analyses", `{"targetKeyword":"","pages":[]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created AnalysisResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Zero(t, created.Result.AverageWordCount)
	assert.Empty(t, created.Result.BodySuggestions)
	assert.NotContains(t, rec.Body.String(), "null")
}

func TestGetAnalysisNotFound(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/v1/analyses/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListAnalysesBadLimit(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/v1/analyses?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	do(t, s, http.MethodPost, "/api/v1/analyses", analysisBody)
	rec = do(t, s, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.Contains(rec.Body.Bytes(), []byte("seoscope_analyses_total")))
}

func TestNoStore(t *testing.T) {
	engine, err := seoscope.New(seoscope.Options{Tokenizer: ingest.NewTokenizer(ingest.UnicodeSegmenter{}, nil)})
	require.NoError(t, err)
	s := New(Config{}, NewHandler(engine, nil, nil), nil)

	rec := do(t, s, http.MethodGet, "/api/v1/analyses", "")
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}
