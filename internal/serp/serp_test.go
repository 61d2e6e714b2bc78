package serp

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResultsArray(t *testing.T) {
	in := `SEO対策
[{"Keyword":"SEO対策","Rank":1,"Title":"A","URL":"https://a.example"},
 {"Keyword":"SEO対策","Rank":2,"Title":"B","URL":"https://b.example"}]`

	results, err := ParseResults(strings.NewReader(in), nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "SEO対策", Keyword(results))
	assert.Equal(t, 2, results[1].Rank)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, URLs(results))
}

func TestParseResultsJSONL(t *testing.T) {
	in := `{"Keyword":"転職","Rank":1,"Title":"A","URL":"https://a.example"}
{broken
{"Keyword":"転職","Rank":2,"Title":"B","URL":""}
`
	results, err := ParseResults(strings.NewReader(in), nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, []string{"https://a.example"}, URLs(results))
}

func TestKeywordDefault(t *testing.T) {
	results, err := ParseResults(strings.NewReader("[]"), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, DefaultKeyword, Keyword(results))
	assert.Equal(t, DefaultKeyword, Keyword(nil))
}

func TestParseResultsBadArray(t *testing.T) {
	_, err := ParseResults(strings.NewReader(`[{"Rank":"one"}]`), nil)
	assert.Error(t, err)
}

func TestLoadPages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.jsonl")
	content := `{"url":"https://a.example","text":"本文","headings":["見出し"]}

{"url":"https://b.example","text":""}
not json
{"url":"https://c.example","bodyText":"別の本文","headings":[]}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	pages, err := LoadPages(path, nil)
	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Equal(t, "本文", pages[0].BodyText)
	assert.Equal(t, []string{"見出し"}, pages[0].Headings)
	assert.True(t, pages[1].Empty())
	assert.NotNil(t, pages[1].Headings)
	assert.Equal(t, "別の本文", pages[2].BodyText)
}

func TestLoadPagesErrors(t *testing.T) {
	_, err := LoadPages("/nonexistent/pages.jsonl", nil)
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{bad\n{worse\n"), 0o644))
	_, err = LoadPages(path, nil)
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.jsonl")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	pages, err := LoadPages(empty, nil)
	require.NoError(t, err)
	assert.Empty(t, pages)
}

func TestLoadResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"Keyword":"k","Rank":1,"Title":"t","URL":"https://x.example"}]`), 0o644))

	results, err := LoadResults(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "k", Keyword(results))
}
