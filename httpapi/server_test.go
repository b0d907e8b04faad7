package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/topicscan/analyze"
	"github.com/poiesic/topicscan/matcher"
	"github.com/poiesic/topicscan/similarity"
	"github.com/poiesic/topicscan/tokenize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// analyzerFunc adapts a function to Analyzer.
type analyzerFunc func(ctx context.Context, text string, topics []string) ([]string, error)

func (f analyzerFunc) Analyze(ctx context.Context, text string, topics []string) ([]string, error) {
	return f(ctx, text, topics)
}

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	m, err := matcher.New(tokenize.NewSplitter(), similarity.Exact(), 0.7)
	require.NoError(t, err)
	a, err := analyze.NewAnalyzer(m, analyze.WithPoolSize(2))
	require.NoError(t, err)
	t.Cleanup(a.Release)
	return NewServer(a, opts...)
}

func post(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeTopics(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	var resp analyzeResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Topics
}

func TestServer_Analyze(t *testing.T) {
	s := newTestServer(t)

	t.Run("returns surviving topics in order", func(t *testing.T) {
		rec := post(t, s, `{"text":"The quick brown fox jumps","topics":["fox","cat","quick brown","brown quick"]}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Equal(t, []string{"fox", "quick brown"}, decodeTopics(t, rec))
	})

	t.Run("cyrillic text", func(t *testing.T) {
		rec := post(t, s, `{"text":"Кошка, сидит на окне!","topics":["кошка сидит","собака"]}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"кошка сидит"}, decodeTopics(t, rec))
	})

	t.Run("no matches encodes empty list", func(t *testing.T) {
		rec := post(t, s, `{"text":"hello","topics":["world"]}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"topics":[]}`, rec.Body.String())
	})

	t.Run("missing topics", func(t *testing.T) {
		rec := post(t, s, `{"text":"hello"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"topics":[]}`, rec.Body.String())
	})
}

func TestServer_AnalyzeErrors(t *testing.T) {
	t.Run("malformed json", func(t *testing.T) {
		rec := post(t, newTestServer(t), `{"text":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid request body")
	})

	t.Run("wrong field type", func(t *testing.T) {
		rec := post(t, newTestServer(t), `{"text":"a","topics":"a"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("wrong method", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newTestServer(t).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analyze", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
	})

	t.Run("body too large", func(t *testing.T) {
		s := newTestServer(t, WithMaxBodyBytes(16))
		rec := post(t, s, fmt.Sprintf(`{"text":%q,"topics":[]}`, strings.Repeat("a", 64)))
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("invalid text", func(t *testing.T) {
		s := NewServer(analyzerFunc(func(context.Context, string, []string) ([]string, error) {
			return nil, fmt.Errorf("tokenize text: %w", tokenize.ErrInvalidText)
		}))
		rec := post(t, s, `{"text":"x","topics":["x"]}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var body map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Contains(t, body["error"], "invalid")
	})

	t.Run("deadline exceeded", func(t *testing.T) {
		s := NewServer(analyzerFunc(func(ctx context.Context, _ string, _ []string) ([]string, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}), WithRequestTimeout(10*time.Millisecond))
		rec := post(t, s, `{"text":"x","topics":["x"]}`)
		assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	})

	t.Run("internal error", func(t *testing.T) {
		s := NewServer(analyzerFunc(func(context.Context, string, []string) ([]string, error) {
			return nil, errors.New("storage offline")
		}))
		rec := post(t, s, `{"text":"x","topics":["x"]}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/healthz", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServer_ServeAndShutdown(t *testing.T) {
	s := newTestServer(t)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- s.Serve(l) }()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	url := "http://" + l.Addr().String() + "/analyze"
	resp, err := client.Post(url, "application/json", bytes.NewBufferString(`{"text":"a b","topics":["b"]}`))
	require.NoError(t, err)
	var body analyzeResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	resp.Body.Close()
	assert.Equal(t, []string{"b"}, body.Topics)
	client.CloseIdleConnections()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))
	assert.NoError(t, <-done)
}

func TestServer_ShutdownBeforeServe(t *testing.T) {
	assert.NoError(t, newTestServer(t).Shutdown(context.Background()))
}
