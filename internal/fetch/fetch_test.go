package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
)

const articleHTML = `<html><head><title>t</title></head><body>
<h2>まとめ前</h2>
<h1>SEO対策とは</h1>
<p>検索順位を上げる方法</p>
<h3>基本</h3>
<div><p>キーワードを<b>選ぶ</b></p></div>
<h4>ignored</h4>
</body></html>`

func TestExtract(t *testing.T) {
	body, headings, err := Extract(strings.NewReader(articleHTML))
	require.NoError(t, err)
	assert.Equal(t, "検索順位を上げる方法 キーワードを選ぶ", body)
	assert.Equal(t, []string{"まとめ前", "SEO対策とは", "基本"}, headings)
}

func TestExtractNoParagraphs(t *testing.T) {
	body, headings, err := Extract(strings.NewReader(`<html><body><div>only div</div></body></html>`))
	require.NoError(t, err)
	assert.Empty(t, body)
	assert.NotNil(t, headings)
	assert.Empty(t, headings)
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	sjis, err := japanese.ShiftJIS.NewEncoder().String(`<html><body><h1>見出し</h1><p>日本語の本文</p></body></html>`)
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, articleHTML)
	})
	mux.HandleFunc("/sjis", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=Shift_JIS")
		fmt.Fprint(w, sjis)
	})
	mux.HandleFunc("/forbidden", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no", http.StatusForbidden)
	})
	mux.HandleFunc("/private/page", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<p>secret</p>`)
	})
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "User-agent: *\nDisallow: /private\n")
	})
	for i := 0; i < 10; i++ {
		mux.HandleFunc(fmt.Sprintf("/n/%d", i), func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, `<p>page %d</p>`, i)
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch(t *testing.T) {
	srv := newServer(t)
	f := New(Config{}, srv.Client(), nil)

	page, err := f.Fetch(context.Background(), srv.URL+"/ok")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/ok", page.URL)
	assert.Equal(t, "検索順位を上げる方法 キーワードを選ぶ", page.BodyText)
	assert.Len(t, page.Headings, 3)
}

func TestFetchDecodesCharset(t *testing.T) {
	srv := newServer(t)
	f := New(Config{}, srv.Client(), nil)

	page, err := f.Fetch(context.Background(), srv.URL+"/sjis")
	require.NoError(t, err)
	assert.Equal(t, "日本語の本文", page.BodyText)
	assert.Equal(t, []string{"見出し"}, page.Headings)
}

func TestFetchStatusError(t *testing.T) {
	srv := newServer(t)
	f := New(Config{}, srv.Client(), nil)

	page, err := f.Fetch(context.Background(), srv.URL+"/forbidden")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStatus))
	assert.Contains(t, err.Error(), "403")
	assert.True(t, page.Empty())
}

func TestFetchInvalidURL(t *testing.T) {
	f := New(Config{}, nil, nil)
	for _, u := range []string{"", "not a url", "ftp://example.com/x"} {
		_, err := f.Fetch(context.Background(), u)
		assert.Error(t, err, u)
	}
}

func TestFetchRespectsRobots(t *testing.T) {
	srv := newServer(t)

	polite := New(Config{RespectRobots: true}, srv.Client(), nil)
	_, err := polite.Fetch(context.Background(), srv.URL+"/private/page")
	assert.True(t, errors.Is(err, ErrDisallowed))

	page, err := polite.Fetch(context.Background(), srv.URL+"/ok")
	require.NoError(t, err)
	assert.False(t, page.Empty())

	plain := New(Config{}, srv.Client(), nil)
	page, err = plain.Fetch(context.Background(), srv.URL+"/private/page")
	require.NoError(t, err)
	assert.Equal(t, "secret", page.BodyText)
}

func TestFetchAllKeepsOrderAndDegrades(t *testing.T) {
	srv := newServer(t)
	f := New(Config{Concurrency: 3, RatePerHost: 1000}, srv.Client(), nil)

	urls := []string{srv.URL + "/forbidden", srv.URL + "/ok", "::bad::"}
	for i := 0; i < 10; i++ {
		urls = append(urls, fmt.Sprintf("%s/n/%d", srv.URL, i))
	}

	pages, err := f.FetchAll(context.Background(), urls)
	require.NoError(t, err)
	require.Len(t, pages, len(urls))

	assert.True(t, pages[0].Empty())
	assert.NotNil(t, pages[0].Headings)
	assert.Empty(t, pages[0].Headings)
	assert.False(t, pages[1].Empty())
	assert.True(t, pages[2].Empty())
	for i := 0; i < 10; i++ {
		assert.Equal(t, urls[i+3], pages[i+3].URL)
		assert.Equal(t, fmt.Sprintf("page %d", i), pages[i+3].BodyText)
	}
}

func TestFetchAllCanceled(t *testing.T) {
	srv := newServer(t)
	f := New(Config{}, srv.Client(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pages, err := f.FetchAll(ctx, []string{srv.URL + "/ok"})
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, pages, 1)
	assert.True(t, pages[0].Empty())
}
