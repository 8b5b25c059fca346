package api

import (
	"net/http"
	"os"
	"time"

	"github.com/snarg/scribe-engine/internal/correct"
	"github.com/snarg/scribe-engine/internal/media"
	"github.com/snarg/scribe-engine/internal/storage"
	"github.com/snarg/scribe-engine/internal/transcribe"
)

type HealthResponse struct {
	Status        string                 `json:"status"`
	Version       string                 `json:"version"`
	UptimeSeconds int64                  `json:"uptime_seconds"`
	Checks        map[string]string      `json:"checks"`
	Oracle        map[string]string      `json:"oracle,omitempty"`
	DropWatcher   *storage.WatcherStatus `json:"drop_watcher,omitempty"`
}

type HealthHandler struct {
	store       *storage.UploadStore
	watcher     *storage.DropWatcher
	oracle      correct.Oracle
	oracleReady bool
	preprocess  bool
	version     string
	startTime   time.Time
}

func NewHealthHandler(store *storage.UploadStore, watcher *storage.DropWatcher, oracle correct.Oracle, oracleReady bool, preprocess bool, version string, startTime time.Time) *HealthHandler {
	return &HealthHandler{
		store:       store,
		watcher:     watcher,
		oracle:      oracle,
		oracleReady: oracleReady,
		preprocess:  preprocess,
		version:     version,
		startTime:   startTime,
	}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)
	status := "healthy"
	httpStatus := http.StatusOK

	// Upload directory check
	if info, err := os.Stat(h.store.Dir()); err != nil || !info.IsDir() {
		checks["upload_dir"] = "error"
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["upload_dir"] = "ok"
	}

	// Correction oracle check
	if h.oracleReady {
		checks["correction"] = "ok"
	} else {
		checks["correction"] = "not_configured"
		if status == "healthy" {
			status = "degraded"
		}
	}

	// yt-dlp availability check
	if media.CheckYtdlp() {
		checks["ytdlp"] = "ok"
	} else {
		checks["ytdlp"] = "not_installed"
		if status == "healthy" {
			status = "degraded"
		}
	}

	// sox availability check, only relevant when preprocessing is enabled
	if h.preprocess {
		if transcribe.CheckSox() {
			checks["sox"] = "ok"
		} else {
			checks["sox"] = "not_installed"
			if status == "healthy" {
				status = "degraded"
			}
		}
	}

	resp := HealthResponse{
		Status:        status,
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Checks:        checks,
	}

	if h.oracle != nil {
		resp.Oracle = map[string]string{
			"provider": h.oracle.Name(),
			"model":    h.oracle.Model(),
		}
	}

	if h.watcher != nil {
		resp.DropWatcher = h.watcher.Status()
	}

	WriteJSON(w, httpStatus, resp)
}
