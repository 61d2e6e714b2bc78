package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadStoplist(t *testing.T) {
	path := writeFile(t, "stoplist.yaml", `terms:
  - これ
  - それ
  - the
`)

	sl, err := LoadStoplist(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"これ", "それ", "the"}, sl.Terms)
}

func TestLoadStoplistMissing(t *testing.T) {
	_, err := LoadStoplist("/nonexistent/stoplist.yaml")
	assert.Error(t, err)
}

func TestLoadStoplistMalformed(t *testing.T) {
	path := writeFile(t, "stoplist.yaml", "terms: [unterminated\n")
	_, err := LoadStoplist(path)
	assert.Error(t, err)
}

func TestLoadLexicon(t *testing.T) {
	path := writeFile(t, "lexicon.yaml", `polarity:
  良い: 0.8
  悪い: -0.7
`)

	lex, err := LoadLexicon(path)
	require.NoError(t, err)
	assert.Equal(t, 0.8, lex["良い"])
	assert.Equal(t, -0.7, lex["悪い"])
}

func TestLoadLexiconRejectsOutOfRange(t *testing.T) {
	path := writeFile(t, "lexicon.yaml", "polarity:\n  最高: 3\n")
	_, err := LoadLexicon(path)
	assert.Error(t, err)
}
