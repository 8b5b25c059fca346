package correct

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestOpenAI(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOpenAIClient("test-key", "gpt-4o-mini", srv.URL+"/v1", 5*time.Second)
}

func TestOpenAIClient_Generate(t *testing.T) {
	o := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"corrected output"}}]}`))
	})

	out, err := o.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "corrected output" {
		t.Errorf("output = %q, want corrected output", out)
	}
}

func TestOpenAIClient_NoChoices(t *testing.T) {
	o := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[]}`))
	})

	out, err := o.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("no choices must not be an error: %v", err)
	}
	if out != "" {
		t.Errorf("output = %q, want empty string", out)
	}
}

func TestOpenAIClient_TimeoutEnforced(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	t.Cleanup(srv.Close)

	o := NewOpenAIClient("test-key", "gpt-4o-mini", srv.URL+"/v1", 50*time.Millisecond)
	start := time.Now()
	_, err := o.Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("timeout not enforced, call took %v", elapsed)
	}
}
