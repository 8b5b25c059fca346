package correct

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestGemini(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	g := NewGeminiClient("test-key", "gemini-2.5-flash", 5*time.Second)
	g.baseURL = srv.URL + "/"
	return g
}

func TestGeminiClient_Generate(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		if r.URL.Path != "/gemini-2.5-flash:generateContent" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"corrected "},{"text":"output"}]}}]}`))
	})

	out, err := g.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "corrected output" {
		t.Errorf("output = %q, want parts concatenated", out)
	}
}

func TestGeminiClient_EmptyCandidates(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	})

	out, err := g.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("empty candidates must not be an error: %v", err)
	}
	if out != "" {
		t.Errorf("output = %q, want empty string", out)
	}
}

func TestGeminiClient_APIErrorClassifiable(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT"}}`))
	})

	_, err := g.Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error")
	}
	if Classify(err) != KindCredential {
		t.Errorf("Classify(%v) = %v, want KindCredential", err, Classify(err))
	}
}

func TestGeminiClient_MissingKey(t *testing.T) {
	g := NewGeminiClient("", "gemini-2.5-flash", time.Second)
	_, err := g.Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error for unset API key")
	}
	if Classify(err) != KindCredential {
		t.Errorf("Classify(%v) = %v, want KindCredential", err, Classify(err))
	}
}
