package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/snarg/scribe-engine/internal/correct"
	"github.com/snarg/scribe-engine/internal/metrics"
	"github.com/snarg/scribe-engine/internal/storage"
)

// maxUploadBytes is the upload size limit; larger files are rejected.
const maxUploadBytes = 512 << 20

// FilesHandler accepts audio uploads and retires stored files.
type FilesHandler struct {
	store    *storage.UploadStore
	maxBytes int64
	log      zerolog.Logger
}

// NewFilesHandler creates the upload/cleanup handler.
func NewFilesHandler(store *storage.UploadStore, log zerolog.Logger) *FilesHandler {
	return &FilesHandler{
		store:    store,
		maxBytes: maxUploadBytes,
		log:      log.With().Str("handler", "files").Logger(),
	}
}

// Routes registers the upload and cleanup endpoints.
func (h *FilesHandler) Routes(r chi.Router) {
	r.Post("/upload", h.Upload)
	r.Delete("/cleanup/{id}", h.Cleanup)
}

// Upload handles POST /api/upload.
// Multipart fields: file (required), keywords (optional, comma-separated).
func (h *FilesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		WriteErrorDetail(w, http.StatusBadRequest, "invalid multipart form", err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !storage.ValidExt(ext) {
		WriteError(w, http.StatusBadRequest,
			"unsupported audio format, supported: "+strings.Join(storage.Extensions(), ", "))
		return
	}

	// Stream to the store with one byte of headroom so an over-limit upload
	// is detected instead of stored truncated.
	id, path, size, err := h.store.SaveFrom(io.LimitReader(file, h.maxBytes+1), ext)
	if err != nil {
		h.log.Error().Err(err).Str("filename", header.Filename).Msg("upload save failed")
		WriteErrorDetail(w, http.StatusInternalServerError, "failed to store file", err.Error())
		return
	}
	if size > h.maxBytes {
		h.store.Remove(id)
		WriteError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("file too large, limit is %d MB", h.maxBytes>>20))
		return
	}

	keywords := correct.ParseKeywords(r.FormValue("keywords"))

	metrics.UploadsTotal.Inc()
	h.log.Info().
		Str("file_id", id).
		Str("filename", header.Filename).
		Int64("bytes", size).
		Strs("keywords", keywords).
		Msg("file uploaded")

	WriteJSON(w, http.StatusOK, map[string]any{
		"status":            "success",
		"message":           "file uploaded",
		"file_id":           id,
		"file_path":         path,
		"keywords":          keywords,
		"original_filename": header.Filename,
	})
}

// Cleanup handles DELETE /api/cleanup/{id}.
func (h *FilesHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.Remove(id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "file not found")
			return
		}
		WriteErrorDetail(w, http.StatusInternalServerError, "failed to remove file", err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "file removed",
	})
}
