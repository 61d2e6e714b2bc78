package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTrip func(*http.Request) *http.Response

func (rt roundTrip) RoundTrip(req *http.Request) (*http.Response, error) {
	return rt(req), nil
}

func respond(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func TestChatSuccess(t *testing.T) {
	var sent chatRequest
	client := &Client{
		BaseURL:     "https://api.test/v1/chat/completions",
		APIKey:      "sk-test",
		Model:       "gpt-test",
		Temperature: 0.7,
		HTTPClient: &http.Client{
			Transport: roundTrip(func(req *http.Request) *http.Response {
				assert.Equal(t, "Bearer sk-test", req.Header.Get("Authorization"))
				body, _ := io.ReadAll(req.Body)
				_ = json.Unmarshal(body, &sent)
				return respond(200, `{"choices":[{"message":{"role":"assistant","content":"  記事本文\n"}}]}`)
			}),
		},
	}

	out, err := client.Chat(context.Background(), "", "記事を書いて")
	require.NoError(t, err)
	assert.Equal(t, "記事本文", out)

	require.Len(t, sent.Messages, 1)
	assert.Equal(t, "user", sent.Messages[0].Role)
	assert.Equal(t, "gpt-test", sent.Model)
	assert.Equal(t, 0.7, sent.Temperature)
}

func TestChatWithSystem(t *testing.T) {
	client := &Client{
		BaseURL: "https://api.test/v1/chat/completions",
		Model:   "gpt-test",
		HTTPClient: &http.Client{
			Transport: roundTrip(func(req *http.Request) *http.Response {
				body, _ := io.ReadAll(req.Body)
				var r chatRequest
				_ = json.Unmarshal(body, &r)
				if len(r.Messages) != 2 || r.Messages[0].Role != "system" {
					return respond(400, `{"error":{"message":"want system message"}}`)
				}
				return respond(200, `{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`)
			}),
		},
	}
	out, err := client.Chat(context.Background(), "You write articles.", "hello")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
}

func TestChatErrors(t *testing.T) {
	cases := map[string]*http.Response{
		"api error":   respond(200, `{"error":{"message":"bad"}}`),
		"no choices":  respond(200, `{"choices":[]}`),
		"http status": respond(502, `<html>bad gateway</html>`),
		"bad json":    respond(200, `not json`),
	}
	for name, resp := range cases {
		t.Run(name, func(t *testing.T) {
			client := &Client{
				BaseURL: "https://api.test/v1/chat/completions",
				Model:   "gpt-test",
				HTTPClient: &http.Client{
					Transport: roundTrip(func(*http.Request) *http.Response { return resp }),
				},
			}
			_, err := client.Chat(context.Background(), "", "q")
			assert.Error(t, err)
		})
	}
}

func TestChatRequiresConfig(t *testing.T) {
	_, err := (&Client{}).Chat(context.Background(), "", "q")
	assert.Error(t, err)
}
