package transcribe

import "context"

// Provider is the interface for speech-to-text backends.
type Provider interface {
	Transcribe(ctx context.Context, audioPath string, opts TranscribeOpts) (*Response, error)
	Name() string  // "whisper"
	Model() string // model size for logs
}

// TranscribeOpts are per-request options for a transcription call.
// Zero-value fields are omitted from the request.
type TranscribeOpts struct {
	Temperature float64
	Language    string // ISO 639-1 code, e.g. "ja"
	Prompt      string // initial prompt / domain vocabulary
}

// Response is the common transcription result from any provider.
type Response struct {
	Text     string
	Language string
	Duration float64 // audio duration in seconds
}
