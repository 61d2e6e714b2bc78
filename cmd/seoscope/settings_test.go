package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/seoscope/internal/fetch"
	"github.com/cognicore/seoscope/pkg/seoscope/embed"
	"github.com/cognicore/seoscope/pkg/seoscope/internalerr"
)

func TestLoadSettingsDefaults(t *testing.T) {
	s, err := loadSettings(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "kagome", s.Segmenter)
	assert.Equal(t, "ja", s.Language)
	assert.Equal(t, embed.DefaultConfig(), s.Embedding)
	assert.Equal(t, fetch.DefaultTimeout, s.Fetch.Timeout)
	assert.Equal(t, fetch.DefaultUserAgent, s.Fetch.UserAgent)
	assert.False(t, s.Fetch.RespectRobots)
	assert.Equal(t, "openai", s.Generator.Backend)
	assert.Equal(t, 2*time.Minute, s.Generator.Timeout)
	assert.Equal(t, ":8080", s.Server.Addr)
	assert.Equal(t, "info", s.Log.Level)
}

func TestLoadSettingsFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seoscope.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
segmenter: unicode
db: /tmp/seoscope.db
embedding:
  workers: 2
  seed: 7
fetch:
  timeout: 5s
  respect_robots: true
generator:
  backend: gemini
  timeout: 30s
`), 0o644))

	t.Setenv("SEOSCOPE_FETCH_CONCURRENCY", "8")
	t.Setenv("SEOSCOPE_GENERATOR_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "g-key")

	s, err := loadSettings(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "unicode", s.Segmenter)
	assert.Equal(t, "/tmp/seoscope.db", s.DB)
	assert.Equal(t, 2, s.Embedding.Workers)
	assert.Equal(t, uint64(7), s.Embedding.Seed)
	assert.Equal(t, embed.DefaultDim, s.Embedding.Dim)
	assert.Equal(t, 5*time.Second, s.Fetch.Timeout)
	assert.True(t, s.Fetch.RespectRobots)
	assert.Equal(t, 8, s.Fetch.Concurrency)
	assert.Equal(t, "gemini", s.Generator.Backend)
	assert.Equal(t, "g-key", s.Generator.APIKey)
	assert.Equal(t, 30*time.Second, s.Generator.Timeout)
}

func TestLoadSettingsWorkersPerCPU(t *testing.T) {
	t.Setenv("SEOSCOPE_EMBEDDING_WORKERS", "0")

	s, err := loadSettings(viper.New(), "")
	require.NoError(t, err)
	assert.Zero(t, s.Embedding.Workers)
}

func TestLoadSettingsMissingFile(t *testing.T) {
	_, err := loadSettings(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, internalerr.ErrInvalidConfig))
}

func TestSettingsValidate(t *testing.T) {
	valid := func() Settings {
		return Settings{Segmenter: "kagome", Embedding: embed.DefaultConfig()}
	}

	tests := []struct {
		name   string
		mutate func(*Settings)
		ok     bool
	}{
		{"defaults", func(*Settings) {}, true},
		{"unicode segmenter", func(s *Settings) { s.Segmenter = "unicode" }, true},
		{"local backend", func(s *Settings) { s.Generator.Backend = "local" }, true},
		{"unknown segmenter", func(s *Settings) { s.Segmenter = "mecab" }, false},
		{"workers per cpu", func(s *Settings) { s.Embedding.Workers = 0 }, true},
		{"negative workers", func(s *Settings) { s.Embedding.Workers = -1 }, false},
		{"bad embedding", func(s *Settings) { s.Embedding.Dim = 0 }, false},
		{"unknown backend", func(s *Settings) { s.Generator.Backend = "claude" }, false},
		{"negative rate", func(s *Settings) { s.Fetch.RatePerHost = -1 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(&s)
			err := s.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, internalerr.ErrInvalidConfig))
		})
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 2, exitCode(internalerr.ErrInvalidInput))
	assert.Equal(t, 2, exitCode(internalerr.ErrInvalidConfig))
	assert.Equal(t, 1, exitCode(errors.New("boom")))
}
