// Package integration exercises the HTTP API end to end against a fake
// OpenAI-compatible upstream, so no real API calls are made.
package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/socialchef/chefgpt/internal/api"
	"github.com/socialchef/chefgpt/internal/ratelimit"
	"github.com/socialchef/chefgpt/internal/services/openai"
	"github.com/socialchef/chefgpt/internal/services/recipe"
)

// ============================================================================
// Fake Upstream
// ============================================================================

type upstreamRequest struct {
	Path           string
	Model          string
	Messages       []openai.Message
	ResponseFormat map[string]string
	Prompt         string
	Size           string
	N              int
}

// fakeUpstream records every request and answers with canned bodies.
type fakeUpstream struct {
	mu       sync.Mutex
	requests []upstreamRequest

	chatContent string
	chatStatus  int
	imageURL    string
	imageStatus int
}

func (f *fakeUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Model          string            `json:"model"`
		Messages       []openai.Message  `json:"messages"`
		ResponseFormat map[string]string `json:"response_format"`
		Prompt         string            `json:"prompt"`
		Size           string            `json:"size"`
		N              int               `json:"n"`
	}
	json.NewDecoder(r.Body).Decode(&body)

	f.mu.Lock()
	f.requests = append(f.requests, upstreamRequest{
		Path:           r.URL.Path,
		Model:          body.Model,
		Messages:       body.Messages,
		ResponseFormat: body.ResponseFormat,
		Prompt:         body.Prompt,
		Size:           body.Size,
		N:              body.N,
	})
	f.mu.Unlock()

	switch {
	case strings.HasSuffix(r.URL.Path, "/chat/completions"):
		if f.chatStatus != 0 {
			w.WriteHeader(f.chatStatus)
			w.Write([]byte(`{"error":{"message":"upstream unavailable"}}`))
			return
		}
		resp := map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"content": f.chatContent}}},
		}
		json.NewEncoder(w).Encode(resp)
	case strings.HasSuffix(r.URL.Path, "/images/generations"):
		if f.imageStatus != 0 {
			w.WriteHeader(f.imageStatus)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"data": []map[string]string{{"url": f.imageURL}}})
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeUpstream) calls() []upstreamRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]upstreamRequest(nil), f.requests...)
}

// ============================================================================
// Test App
// ============================================================================

type testApp struct {
	router   http.Handler
	upstream *fakeUpstream
}

func newTestApp(t *testing.T, upstream *fakeUpstream, limits ratelimit.Config) *testApp {
	t.Helper()

	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	client := openai.NewClient(openai.Options{
		APIKey:     "sk-test",
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
	})
	svc := recipe.NewService(ratelimit.NewMemoryLimiter(limits), client, client)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	api.NewServer(svc).Routes(r)

	return &testApp{router: r, upstream: upstream}
}

func (a *testApp) post(path, body, clientIP string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if clientIP != "" {
		req.Header.Set("X-Forwarded-For", clientIP)
	}
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}
