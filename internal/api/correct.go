package api

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/snarg/scribe-engine/internal/correct"
)

// CorrectHandler runs raw transcripts through the correction pipeline.
type CorrectHandler struct {
	pipeline *correct.Pipeline
	log      zerolog.Logger
}

// NewCorrectHandler creates the correction handler.
func NewCorrectHandler(pipeline *correct.Pipeline, log zerolog.Logger) *CorrectHandler {
	return &CorrectHandler{
		pipeline: pipeline,
		log:      log.With().Str("handler", "correct").Logger(),
	}
}

// Routes registers the correction endpoint.
func (h *CorrectHandler) Routes(r chi.Router) {
	r.Post("/correct", h.Correct)
}

// Correct handles POST /api/correct.
// Form fields: raw_text (required), keywords (optional, comma-separated).
func (h *CorrectHandler) Correct(w http.ResponseWriter, r *http.Request) {
	rawText := r.FormValue("raw_text")
	if strings.TrimSpace(rawText) == "" {
		WriteError(w, http.StatusBadRequest, "raw_text is required")
		return
	}
	keywords := correct.ParseKeywords(r.FormValue("keywords"))

	h.log.Info().
		Int("chars", utf8.RuneCountInString(rawText)).
		Int("keywords", len(keywords)).
		Msg("correction requested")

	corrected, err := h.pipeline.Run(r.Context(), rawText, keywords)
	if err != nil {
		h.writeOracleError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"status":         "success",
		"corrected_text": corrected,
	})
}

// writeOracleError maps each failure cause to a distinct message instead of
// one generic 500.
func (h *CorrectHandler) writeOracleError(w http.ResponseWriter, err error) {
	h.log.Error().Err(err).Msg("correction failed")

	if oe, ok := correct.AsOracleError(err); ok {
		switch oe.Kind {
		case correct.KindCredential:
			WriteErrorDetail(w, http.StatusInternalServerError,
				"correction API key is invalid or not configured", oe.Error())
			return
		case correct.KindQuota:
			WriteErrorDetail(w, http.StatusInternalServerError,
				"correction API quota exhausted, retry later", oe.Error())
			return
		case correct.KindTimeout:
			WriteErrorDetail(w, http.StatusInternalServerError,
				"correction timed out, the text may be too long", oe.Error())
			return
		}
	}
	WriteErrorDetail(w, http.StatusInternalServerError, "correction failed", err.Error())
}
