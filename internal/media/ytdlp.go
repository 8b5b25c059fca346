package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
)

// Fetcher downloads the audio track of a video URL into a local file.
type Fetcher interface {
	// FetchAudio writes an MP3 to outPath and returns the video title.
	FetchAudio(ctx context.Context, url, outPath string) (string, error)
}

// YtdlpFetcher extracts audio from YouTube URLs using the yt-dlp CLI.
type YtdlpFetcher struct {
	binary string
	log    zerolog.Logger
}

// NewYtdlpFetcher creates a fetcher shelling out to yt-dlp.
func NewYtdlpFetcher(log zerolog.Logger) *YtdlpFetcher {
	return &YtdlpFetcher{
		binary: "yt-dlp",
		log:    log.With().Str("component", "ytdlp").Logger(),
	}
}

// CheckYtdlp checks if yt-dlp is available in PATH. Call once at startup.
func CheckYtdlp() bool {
	_, err := exec.LookPath("yt-dlp")
	return err == nil
}

// FetchAudio downloads the best audio stream and extracts it to MP3 at 192K.
// outPath must end in ".mp3"; yt-dlp appends the extension itself, so the
// output template strips it.
func (f *YtdlpFetcher) FetchAudio(ctx context.Context, url, outPath string) (string, error) {
	template := strings.TrimSuffix(outPath, ".mp3")

	cmd := exec.CommandContext(ctx, f.binary,
		"--no-playlist",
		"--no-warnings",
		"--quiet",
		"-f", "bestaudio/best",
		"-x",
		"--audio-format", "mp3",
		"--audio-quality", "192K",
		"-o", template+".%(ext)s",
		"--print", "after_move:title",
		"--no-simulate",
		url,
	)

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("yt-dlp: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("yt-dlp: %w", err)
	}

	title := strings.TrimSpace(string(out))
	if title == "" {
		title = "Unknown"
	}

	if _, err := os.Stat(outPath); err != nil {
		return "", fmt.Errorf("yt-dlp produced no audio file at %s", outPath)
	}

	f.log.Info().Str("title", title).Str("path", outPath).Msg("youtube audio downloaded")
	return title, nil
}
