package correct

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/snarg/scribe-engine/internal/metrics"
)

// Corrector obtains a disfluency-free rewrite of one piece of text from the
// oracle. Transient failures are retried with a fixed delay and then degrade
// to the original text, so every input yields exactly one result. Only
// non-retryable failures (bad credential, exhausted quota) surface as errors.
type Corrector struct {
	oracle     Oracle
	maxRetries int
	retryDelay time.Duration
	sleep      func(ctx context.Context, d time.Duration)
	log        zerolog.Logger
}

// NewCorrector creates a corrector with the given retry policy.
func NewCorrector(oracle Oracle, maxRetries int, retryDelay time.Duration, log zerolog.Logger) *Corrector {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Corrector{
		oracle:     oracle,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		sleep:      sleepCtx,
		log:        log.With().Str("component", "corrector").Logger(),
	}
}

// CorrectChunk corrects one chunk of a long transcript using the compact
// chunk prompt.
func (c *Corrector) CorrectChunk(ctx context.Context, chunk string, keywords []string) (string, error) {
	return c.correct(ctx, chunk, ChunkPrompt(chunk, keywords))
}

// CorrectFull corrects a whole short transcript using the richer editor
// prompt. Same retry and fallback contract as CorrectChunk.
func (c *Corrector) CorrectFull(ctx context.Context, text string, keywords []string) (string, error) {
	return c.correct(ctx, text, FullPrompt(text, keywords))
}

func (c *Corrector) correct(ctx context.Context, original, prompt string) (string, error) {
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		out, err := c.oracle.Generate(ctx, prompt)
		if err == nil {
			if strings.TrimSpace(out) == "" {
				// An empty oracle response counts as success-with-fallback,
				// not as an error to retry.
				c.log.Warn().
					Int("chars", utf8.RuneCountInString(original)).
					Msg("oracle returned empty text, keeping original")
				metrics.ChunkFallbacksTotal.Inc()
				return original, nil
			}
			metrics.ChunksCorrectedTotal.Inc()
			return out, nil
		}

		if kind := Classify(err); Fatal(kind) {
			return "", &OracleError{Kind: kind, Err: err}
		}

		// The request deadline fired or the caller went away. Retrying
		// cannot finish in time, and the fallback text would be discarded
		// with the connection, so surface the timeout.
		if ctx.Err() != nil {
			return "", &OracleError{Kind: KindTimeout, Err: err}
		}

		metrics.OracleRetriesTotal.Inc()
		c.log.Error().Err(err).
			Int("attempt", attempt).
			Int("max_attempts", c.maxRetries).
			Msg("oracle call failed")
		if attempt < c.maxRetries {
			c.sleep(ctx, c.retryDelay)
		}
	}

	c.log.Warn().
		Int("chars", utf8.RuneCountInString(original)).
		Msg("retry limit reached, keeping original text")
	metrics.ChunkFallbacksTotal.Inc()
	return original, nil
}

// sleepCtx waits for d or until ctx is cancelled, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
