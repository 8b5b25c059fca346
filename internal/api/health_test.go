package api

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHealth(t *testing.T) {
	store := newTestStore(t)
	oracle := &stubOracle{}
	h := NewHealthHandler(store, nil, oracle, true, false, "test", time.Now())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/health", nil)
	h.ServeHTTP(rec, req)

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Version != "test" {
		t.Errorf("expected version test, got %q", resp.Version)
	}
	if resp.Checks["upload_dir"] != "ok" {
		t.Errorf("expected upload_dir ok, got %q", resp.Checks["upload_dir"])
	}
	if resp.Checks["correction"] != "ok" {
		t.Errorf("expected correction ok, got %q", resp.Checks["correction"])
	}
	if resp.Oracle["provider"] != "stub" || resp.Oracle["model"] != "stub-model" {
		t.Errorf("unexpected oracle info: %v", resp.Oracle)
	}
	if resp.DropWatcher != nil {
		t.Error("expected no drop_watcher section without a watcher")
	}
	// Preprocessing disabled, sox must not be checked.
	if _, ok := resp.Checks["sox"]; ok {
		t.Error("sox check present with preprocessing disabled")
	}
}

func TestHealth_OracleNotConfigured(t *testing.T) {
	store := newTestStore(t)
	h := NewHealthHandler(store, nil, &stubOracle{}, false, false, "test", time.Now())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/health", nil)
	h.ServeHTTP(rec, req)

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Checks["correction"] != "not_configured" {
		t.Errorf("expected correction not_configured, got %q", resp.Checks["correction"])
	}
	if resp.Status == "healthy" {
		t.Errorf("expected degraded status, got %q", resp.Status)
	}
}
