package correct

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// chunkSeparator joins per-chunk results into the final transcript.
const chunkSeparator = "\n\n"

// Pipeline orchestrates whole-transcript correction. Long transcripts are
// split into bounded chunks, each chunk is corrected in input order, and the
// results are reassembled. Short transcripts go to the oracle in one call.
type Pipeline struct {
	corrector    *Corrector
	maxChunkSize int
	log          zerolog.Logger
}

// NewPipeline creates a pipeline over the given corrector.
func NewPipeline(corrector *Corrector, maxChunkSize int, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		corrector:    corrector,
		maxChunkSize: maxChunkSize,
		log:          log.With().Str("component", "pipeline").Logger(),
	}
}

// MaxChunkSize returns the configured chunk size in runes.
func (p *Pipeline) MaxChunkSize() int { return p.maxChunkSize }

// Run corrects rawText and returns the cleaned transcript. Output order
// matches input order, and chunks the oracle could not correct keep their
// original text, so the result is never empty for non-empty input. Only
// non-retryable oracle errors are returned.
func (p *Pipeline) Run(ctx context.Context, rawText string, keywords []string) (string, error) {
	chars := utf8.RuneCountInString(rawText)
	if chars <= p.maxChunkSize {
		p.log.Info().Int("chars", chars).Msg("correcting transcript in a single call")
		return p.corrector.CorrectFull(ctx, rawText, keywords)
	}

	chunks := Split(rawText, p.maxChunkSize)
	p.log.Info().
		Int("chars", chars).
		Int("chunks", len(chunks)).
		Msg("correcting long transcript in chunks")

	results := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		p.log.Debug().
			Int("chunk", i+1).
			Int("chunks", len(chunks)).
			Int("chars", utf8.RuneCountInString(chunk)).
			Msg("correcting chunk")

		out, err := p.corrector.CorrectChunk(ctx, chunk, keywords)
		if err != nil {
			return "", err
		}
		results = append(results, out)
	}

	corrected := strings.Join(results, chunkSeparator)
	p.log.Info().
		Int("chunks", len(chunks)).
		Int("chars_out", utf8.RuneCountInString(corrected)).
		Msg("correction complete")
	return corrected, nil
}
