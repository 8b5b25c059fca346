package main

import (
	"context"
	"flag"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	scribeengine "github.com/snarg/scribe-engine"
	"github.com/snarg/scribe-engine/internal/api"
	"github.com/snarg/scribe-engine/internal/config"
	"github.com/snarg/scribe-engine/internal/correct"
	"github.com/snarg/scribe-engine/internal/media"
	"github.com/snarg/scribe-engine/internal/storage"
	"github.com/snarg/scribe-engine/internal/transcribe"
)

var version = "dev"

func main() {
	startTime := time.Now()

	var overrides config.Overrides
	flag.StringVar(&overrides.EnvFile, "env-file", "", "path to .env file (default .env)")
	flag.StringVar(&overrides.HTTPAddr, "addr", "", "http listen address (overrides HTTP_ADDR)")
	flag.StringVar(&overrides.LogLevel, "log-level", "", "log level (overrides LOG_LEVEL)")
	flag.StringVar(&overrides.UploadDir, "upload-dir", "", "upload directory (overrides UPLOAD_DIR)")
	flag.Parse()

	// Config
	cfg, err := config.Load(overrides)
	if err != nil {
		early := zerolog.New(os.Stderr).With().Timestamp().Logger()
		early.Fatal().Err(err).Msg("failed to load config")
	}

	// Logger
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stdout).With().Timestamp().Logger().Level(level)
	log.Info().Str("version", version).Msg("scribe-engine starting")

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Upload store
	storeLog := log.With().Str("component", "storage").Logger()
	store, err := storage.NewUploadStore(cfg.UploadDir, storeLog)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.UploadDir).Msg("failed to open upload store")
	}

	pruner := storage.NewUploadPruner(store, cfg.UploadRetention, storeLog)
	pruner.Start()
	defer pruner.Stop()

	// Optional drop directory watcher
	var watcher *storage.DropWatcher
	if cfg.WatchDir != "" {
		watcher = storage.NewDropWatcher(store, cfg.WatchDir, log)
		if err := watcher.Start(); err != nil {
			log.Fatal().Err(err).Str("dir", cfg.WatchDir).Msg("failed to start drop watcher")
		}
		defer watcher.Stop()
	}

	// Correction oracle
	correctLog := log.With().Str("component", "correct").Logger()
	var oracle correct.Oracle
	switch cfg.CorrectionProvider {
	case "gemini":
		oracle = correct.NewGeminiClient(cfg.GeminiAPIKey, cfg.CorrectionModel, cfg.CorrectionTimeout)
	case "openai":
		oracle = correct.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.CorrectionModel, cfg.OpenAIBaseURL, cfg.CorrectionTimeout)
	default:
		log.Fatal().Str("provider", cfg.CorrectionProvider).Msg("unknown correction provider")
	}
	if !cfg.OracleConfigured() {
		log.Warn().Str("provider", cfg.CorrectionProvider).Msg("no API key set, correction requests will fail")
	}

	corrector := correct.NewCorrector(oracle, cfg.MaxRetries, cfg.RetryDelay, correctLog)
	pipeline := correct.NewPipeline(corrector, cfg.MaxChunkSize, correctLog)

	// Transcription model cache
	trLog := log.With().Str("component", "transcribe").Logger()
	var loader transcribe.Loader
	switch cfg.TranscribeProvider {
	case "whisper":
		loader = func(size string) (transcribe.Provider, error) {
			return transcribe.NewWhisperClient(cfg.WhisperURL, size, cfg.WhisperTimeout), nil
		}
	case "deepinfra":
		if cfg.DeepInfraAPIKey == "" {
			log.Fatal().Msg("TRANSCRIBE_PROVIDER=deepinfra requires DEEPINFRA_API_KEY")
		}
		// Hosted model, the local size names all map to the same client.
		di := transcribe.NewDeepInfraClient(cfg.DeepInfraAPIKey, cfg.DeepInfraModel, cfg.WhisperTimeout)
		loader = func(size string) (transcribe.Provider, error) {
			return di, nil
		}
	default:
		log.Fatal().Str("provider", cfg.TranscribeProvider).Msg("unknown transcription provider")
	}
	models := transcribe.NewCache(cfg.ModelSizes, loader, trLog)

	if cfg.PreprocessAudio && !transcribe.CheckSox() {
		log.Warn().Msg("PREPROCESS_AUDIO is set but sox is not installed, preprocessing will fail")
	}

	// YouTube fetcher
	fetcher := media.NewYtdlpFetcher(log.With().Str("component", "media").Logger())
	if !media.CheckYtdlp() {
		log.Warn().Msg("yt-dlp not found in PATH, YouTube downloads will fail")
	}

	// Embedded web UI
	webFS, err := fs.Sub(scribeengine.WebFiles, "web")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open embedded web files")
	}

	// HTTP server
	httpLog := log.With().Str("component", "http").Logger()
	srv := api.NewServer(api.ServerOptions{
		Config:    cfg,
		Store:     store,
		Watcher:   watcher,
		Models:    models,
		Pipeline:  pipeline,
		Oracle:    oracle,
		Fetcher:   fetcher,
		WebFS:     webFS,
		Version:   version,
		StartTime: startTime,
		Log:       httpLog,
	})

	// Start HTTP server in background
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	// Wait for shutdown signal or server error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("http server error")
		}
	}

	// Graceful shutdown with 10s timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown error")
	}

	log.Info().Msg("scribe-engine stopped")
}
