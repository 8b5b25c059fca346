package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/snarg/scribe-engine/internal/correct"
	"github.com/snarg/scribe-engine/internal/media"
	"github.com/snarg/scribe-engine/internal/metrics"
	"github.com/snarg/scribe-engine/internal/storage"
)

// YouTubeHandler fetches the audio track of a YouTube video into the store.
type YouTubeHandler struct {
	fetcher media.Fetcher
	store   *storage.UploadStore
	log     zerolog.Logger
}

// NewYouTubeHandler creates the YouTube fetch handler.
func NewYouTubeHandler(fetcher media.Fetcher, store *storage.UploadStore, log zerolog.Logger) *YouTubeHandler {
	return &YouTubeHandler{
		fetcher: fetcher,
		store:   store,
		log:     log.With().Str("handler", "youtube").Logger(),
	}
}

// Routes registers the YouTube fetch endpoint.
func (h *YouTubeHandler) Routes(r chi.Router) {
	r.Post("/youtube", h.Fetch)
}

// Fetch handles POST /api/youtube.
// Form fields: url (required), keywords (optional, comma-separated).
func (h *YouTubeHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	url := r.FormValue("url")
	if url == "" {
		WriteError(w, http.StatusBadRequest, "url is required")
		return
	}
	keywords := correct.ParseKeywords(r.FormValue("keywords"))

	h.log.Info().Str("url", url).Msg("youtube fetch requested")
	metrics.YouTubeFetchesTotal.Inc()

	id, outPath := h.store.Reserve(".mp3")
	title, err := h.fetcher.FetchAudio(r.Context(), url, outPath)
	if err != nil {
		h.log.Error().Err(err).Str("url", url).Msg("youtube fetch failed")
		WriteErrorDetail(w, http.StatusBadGateway, "failed to download audio from YouTube", err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"status":            "success",
		"message":           "audio downloaded from YouTube: " + title,
		"file_id":           id,
		"file_path":         outPath,
		"keywords":          keywords,
		"original_filename": title + ".mp3",
		"video_title":       title,
	})
}
