package api

import (
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/snarg/scribe-engine/internal/metrics"
	"github.com/snarg/scribe-engine/internal/storage"
	"github.com/snarg/scribe-engine/internal/transcribe"
)

// TranscribeHandler runs stored audio files through a speech model.
type TranscribeHandler struct {
	models      *transcribe.Cache
	store       *storage.UploadStore
	language    string
	defaultSize string
	preprocess  bool
	log         zerolog.Logger
}

// NewTranscribeHandler creates the transcription handler.
func NewTranscribeHandler(models *transcribe.Cache, store *storage.UploadStore, language, defaultSize string, preprocess bool, log zerolog.Logger) *TranscribeHandler {
	return &TranscribeHandler{
		models:      models,
		store:       store,
		language:    language,
		defaultSize: defaultSize,
		preprocess:  preprocess,
		log:         log.With().Str("handler", "transcribe").Logger(),
	}
}

// Routes registers the transcription endpoint.
func (h *TranscribeHandler) Routes(r chi.Router) {
	r.Post("/transcribe", h.Transcribe)
}

// Transcribe handles POST /api/transcribe.
// Form fields: file_id (required), model_size (optional, defaults from config).
func (h *TranscribeHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	fileID := r.FormValue("file_id")
	if fileID == "" {
		WriteError(w, http.StatusBadRequest, "file_id is required")
		return
	}

	size := r.FormValue("model_size")
	if size == "" {
		size = h.defaultSize
	}
	if !h.models.ValidSize(size) {
		WriteError(w, http.StatusBadRequest,
			"invalid model size, available: "+strings.Join(h.models.Sizes(), ", "))
		return
	}

	audioPath := h.store.Resolve(fileID)
	if audioPath == "" {
		WriteError(w, http.StatusNotFound, "file not found")
		return
	}

	provider, err := h.models.Get(size)
	if err != nil {
		if errors.Is(err, transcribe.ErrUnknownModelSize) {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		WriteErrorDetail(w, http.StatusInternalServerError, "failed to load transcription model", err.Error())
		return
	}

	h.log.Info().
		Str("file_id", fileID).
		Str("model_size", size).
		Msg("transcription started")
	start := time.Now()

	transcribePath := audioPath
	if h.preprocess {
		processed, cleanup, err := transcribe.Preprocess(r.Context(), audioPath)
		if err != nil {
			h.log.Warn().Err(err).Msg("preprocessing failed, using original audio")
		} else {
			transcribePath = processed
			defer cleanup()
		}
	}

	resp, err := provider.Transcribe(r.Context(), transcribePath, transcribe.TranscribeOpts{
		Language: h.language,
	})
	if err != nil {
		h.log.Error().Err(err).Str("file_id", fileID).Msg("transcription failed")
		WriteErrorDetail(w, http.StatusBadGateway, "transcription failed", err.Error())
		return
	}

	metrics.TranscriptionsTotal.WithLabelValues(size).Inc()
	h.log.Info().
		Str("file_id", fileID).
		Int("chars", utf8.RuneCountInString(resp.Text)).
		Dur("elapsed", time.Since(start)).
		Msg("transcription complete")

	WriteJSON(w, http.StatusOK, map[string]any{
		"status":   "success",
		"raw_text": resp.Text,
		"language": resp.Language,
		"duration": resp.Duration,
	})
}
