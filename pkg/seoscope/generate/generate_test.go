package generate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/seoscope/pkg/seoscope/internalerr"
)

func chatServer(t *testing.T, handler func(w http.ResponseWriter, body map[string]any)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		handler(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGenerateLocal(t *testing.T) {
	srv := chatServer(t, func(w http.ResponseWriter, body map[string]any) {
		assert.Equal(t, "llama", body["model"])
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"# タイトル\n本文"}}]}`))
	})

	g, err := New(Config{Backend: "local", BaseURL: srv.URL, Model: "llama"})
	require.NoError(t, err)
	assert.Equal(t, BackendLocal, g.Backend())

	out, err := g.Generate(context.Background(), "記事を書いてください")
	require.NoError(t, err)
	assert.Equal(t, "# タイトル\n本文", out)
}

func TestGenerateAPIError(t *testing.T) {
	srv := chatServer(t, func(w http.ResponseWriter, _ map[string]any) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	})

	g, err := New(Config{Backend: "openai", BaseURL: srv.URL, APIKey: "sk"})
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGeneration))
	assert.Contains(t, err.Error(), "rate limited")
}

func TestGenerateEmptyPrompt(t *testing.T) {
	g, err := New(Config{Backend: "local", BaseURL: "http://127.0.0.1:1", Model: "m"})
	require.NoError(t, err)
	_, err = g.Generate(context.Background(), "  ")
	assert.True(t, errors.Is(err, ErrGeneration))
}

func TestConfigDefaults(t *testing.T) {
	cfg, err := Config{Backend: "Gemini", APIKey: "k"}.withDefaults()
	require.NoError(t, err)
	assert.Equal(t, BackendGemini, cfg.Backend)
	assert.Contains(t, cfg.BaseURL, "generativelanguage.googleapis.com")
	assert.NotEmpty(t, cfg.Model)

	cfg, err = Config{APIKey: "k"}.withDefaults()
	require.NoError(t, err)
	assert.Equal(t, BackendOpenAI, cfg.Backend)
}

func TestConfigInvalid(t *testing.T) {
	for name, cfg := range map[string]Config{
		"unknown backend": {Backend: "gpt2"},
		"openai no key":   {Backend: "openai"},
		"local no url":    {Backend: "local", Model: "m"},
	} {
		t.Run(name, func(t *testing.T) {
			assert.True(t, errors.Is(cfg.Validate(), internalerr.ErrInvalidConfig))
		})
	}
}

func TestFuncAdapter(t *testing.T) {
	var g Generator = Func(func(_ context.Context, p string) (string, error) { return "echo:" + p, nil })
	out, err := g.Generate(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "echo:x", out)
}
