package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shenxiangzhuang/aic/internal/pkg/config"
	apperrors "github.com/shenxiangzhuang/aic/internal/pkg/errors"
)

const singleLineDiff = "diff --git a/notes.txt b/notes.txt\n@@ -0,0 +1 @@\n+hello world\n"

type recordedRequest struct {
	path   string
	auth   string
	ctype  string
	body   openai.ChatCompletionRequest
	called int
}

// newTestServer serves every request with status and body and records the last one.
func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *recordedRequest) {
	t.Helper()
	rec := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.called++
		rec.path = r.URL.Path
		rec.auth = r.Header.Get("Authorization")
		rec.ctype = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&rec.body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(Settings{
		APIToken:     "sk-test-token",
		BaseURL:      baseURL,
		Model:        "gpt-4-turbo",
		SystemPrompt: "system rules",
		UserPrompt:   "Write a message:\n{}",
		Timeout:      5 * time.Second,
	})
	require.NoError(t, err)
	return c
}

func TestGenerate_ExtractsFirstChoice(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusOK, `{"choices":[{"message":{"content":"feat: add line"}}]}`)
	client := newTestClient(t, srv.URL)

	msg, err := client.Generate(context.Background(), singleLineDiff)
	require.NoError(t, err)
	assert.Equal(t, "feat: add line", msg)

	assert.Equal(t, "/v1/chat/completions", rec.path)
	assert.Equal(t, "Bearer sk-test-token", rec.auth)
	assert.Equal(t, "application/json", rec.ctype)
	assert.Equal(t, "gpt-4-turbo", rec.body.Model)
	require.Len(t, rec.body.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, rec.body.Messages[0].Role)
	assert.Equal(t, "system rules", rec.body.Messages[0].Content)
	assert.Equal(t, openai.ChatMessageRoleUser, rec.body.Messages[1].Role)
	assert.Equal(t, "Write a message:\n"+singleLineDiff, rec.body.Messages[1].Content)
}

func TestGenerate_TrimsOnlyEdges(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK,
		`{"choices":[{"message":{"content":"\n  fix(ui): align  header\n\n1. keep inner  spacing\n "}},{"message":{"content":"ignored"}}]}`)

	msg, err := newTestClient(t, srv.URL).Generate(context.Background(), singleLineDiff)
	require.NoError(t, err)
	assert.Equal(t, "fix(ui): align  header\n\n1. keep inner  spacing", msg)
}

func TestGenerate_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		code   apperrors.ErrorCode
	}{
		{"unauthorized json", http.StatusUnauthorized, `{"error":{"message":"Incorrect API key","type":"invalid_request_error"}}`, apperrors.ErrAPIUnauthorized},
		{"unauthorized plain", http.StatusUnauthorized, `Unauthorized`, apperrors.ErrAPIUnauthorized},
		{"server error", http.StatusInternalServerError, `{"error":{"message":"boom"}}`, apperrors.ErrAPIBadResponse},
		{"empty choices", http.StatusOK, `{"choices":[]}`, apperrors.ErrAPIBadResponse},
		{"no choices field", http.StatusOK, `{}`, apperrors.ErrAPIBadResponse},
		{"not json", http.StatusOK, `<html>gateway</html>`, apperrors.ErrAPIBadResponse},
		{"blank content", http.StatusOK, `{"choices":[{"message":{"content":"   "}}]}`, apperrors.ErrAPIBadResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, tt.status, tt.body)
			_, err := newTestClient(t, srv.URL).Generate(context.Background(), singleLineDiff)
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestGenerate_StatusMessageIncluded(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusTooManyRequests, `{"error":{"message":"Rate limit reached"}}`)
	_, err := newTestClient(t, srv.URL).Generate(context.Background(), singleLineDiff)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API request failed (429)")
	assert.Contains(t, err.Error(), "Rate limit reached")
}

func TestGenerate_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestClient(t, url).Generate(context.Background(), singleLineDiff)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrAPINetwork), "got %v", err)
}

// doerFunc adapts a function to openai.HTTPDoer.
type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(r *http.Request) (*http.Response, error) { return f(r) }

func TestGenerate_CustomHTTPDoer(t *testing.T) {
	var gotURL string
	doer := doerFunc(func(r *http.Request) (*http.Response, error) {
		gotURL = r.URL.String()
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(strings.NewReader(`{"choices":[{"message":{"content":"docs: update readme"}}]}`)),
			Request:    r,
		}, nil
	})

	client, err := NewClient(Settings{APIToken: "sk-x", BaseURL: "https://api.deepseek.com/", HTTPClient: doer})
	require.NoError(t, err)

	msg, err := client.Generate(context.Background(), singleLineDiff)
	require.NoError(t, err)
	assert.Equal(t, "docs: update readme", msg)
	assert.Equal(t, "https://api.deepseek.com/v1/chat/completions", gotURL)
	assert.Equal(t, config.DefaultModel, client.Model())
}

func TestPing(t *testing.T) {
	srv, rec := newTestServer(t, http.StatusOK, `{"choices":[{"message":{"content":"pong"}}]}`)
	require.NoError(t, newTestClient(t, srv.URL).Ping(context.Background()))
	assert.Equal(t, 1, rec.called)
	require.Len(t, rec.body.Messages, 1)
	assert.Equal(t, "ping", rec.body.Messages[0].Content)

	srv, _ = newTestServer(t, http.StatusUnauthorized, `{"error":{"message":"bad key"}}`)
	err := newTestClient(t, srv.URL).Ping(context.Background())
	assert.True(t, apperrors.HasCode(err, apperrors.ErrAPIUnauthorized))
}

func TestPing_EmptyChoices(t *testing.T) {
	for _, body := range []string{`{"choices":[]}`, `{}`} {
		srv, _ := newTestServer(t, http.StatusOK, body)
		err := newTestClient(t, srv.URL).Ping(context.Background())
		require.Error(t, err, body)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrAPIBadResponse), "got %v", err)
	}
}

func TestNewClient_RequiresToken(t *testing.T) {
	_, err := NewClient(Settings{BaseURL: "https://api.openai.com"})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrMissingAPIToken))
}

func TestEndpointURL(t *testing.T) {
	tests := map[string]string{
		"":                                       "https://api.openai.com/v1",
		"https://api.openai.com":                 "https://api.openai.com/v1",
		"https://api.openai.com/":                "https://api.openai.com/v1",
		"https://api.openai.com/v1":              "https://api.openai.com/v1",
		"https://api.openai.com/v1/":             "https://api.openai.com/v1",
		"https://open.bigmodel.cn/api/paas/v4":   "https://open.bigmodel.cn/api/paas/v4",
		"http://localhost:11434":                 "http://localhost:11434/v1",
		"https://gateway.example/openai/vintage": "https://gateway.example/openai/vintage/v1",
	}
	for in, want := range tests {
		assert.Equal(t, want, EndpointURL(in), "EndpointURL(%q)", in)
	}
}

func TestSettingsFromConfig(t *testing.T) {
	cfg := &config.Config{APIToken: "t", APIBaseURL: "b", Model: "m", SystemPrompt: "s", UserPrompt: "u"}
	assert.Equal(t, Settings{APIToken: "t", BaseURL: "b", Model: "m", SystemPrompt: "s", UserPrompt: "u"}, SettingsFromConfig(cfg))
}
