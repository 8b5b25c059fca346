package api

import (
	"context"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/snarg/scribe-engine/internal/config"
	"github.com/snarg/scribe-engine/internal/correct"
	"github.com/snarg/scribe-engine/internal/media"
	"github.com/snarg/scribe-engine/internal/metrics"
	"github.com/snarg/scribe-engine/internal/storage"
	"github.com/snarg/scribe-engine/internal/transcribe"
)

// ServerOptions carries the collaborators the HTTP surface is built from.
type ServerOptions struct {
	Config    *config.Config
	Store     *storage.UploadStore
	Watcher   *storage.DropWatcher
	Models    *transcribe.Cache
	Pipeline  *correct.Pipeline
	Oracle    correct.Oracle
	Fetcher   media.Fetcher
	WebFS     fs.FS
	Version   string
	StartTime time.Time
	Log       zerolog.Logger
}

type Server struct {
	http *http.Server
	log  zerolog.Logger
}

func NewServer(opts ServerOptions) *Server {
	cfg := opts.Config
	r := chi.NewRouter()

	// Global middleware
	r.Use(RequestID)
	r.Use(Recoverer)
	r.Use(Logger(opts.Log))
	r.Use(CORS)
	r.Use(metrics.InstrumentHandler)

	// Prometheus metrics, no auth
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	oracleReady := opts.Oracle != nil && cfg.OracleConfigured()

	r.Route("/api", func(r chi.Router) {
		// Health endpoint, no auth
		health := NewHealthHandler(opts.Store, opts.Watcher, opts.Oracle, oracleReady, cfg.PreprocessAudio, opts.Version, opts.StartTime)
		r.Get("/health", health.ServeHTTP)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(BearerAuth(cfg.AuthToken))

			files := NewFilesHandler(opts.Store, opts.Log)
			files.Routes(r)

			youtube := NewYouTubeHandler(opts.Fetcher, opts.Store, opts.Log)
			youtube.Routes(r)

			tr := NewTranscribeHandler(opts.Models, opts.Store, cfg.Language, cfg.DefaultModelSize, cfg.PreprocessAudio, opts.Log)
			tr.Routes(r)

			corr := NewCorrectHandler(opts.Pipeline, opts.Log)
			corr.Routes(r)
		})
	})

	// Static web UI
	if opts.WebFS != nil {
		r.Handle("/*", http.FileServer(http.FS(opts.WebFS)))
	}

	return &Server{
		http: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      r,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		log: opts.Log,
	}
}

func (s *Server) Start() error {
	s.log.Info().Str("addr", s.http.Addr).Msg("http server starting")
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("http server shutting down")
	return s.http.Shutdown(ctx)
}
