package storage

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// UploadPruner evicts stored uploads older than the retention window.
// Clients are expected to call the cleanup endpoint when done, but abandoned
// files would otherwise accumulate forever.
type UploadPruner struct {
	store     *UploadStore
	retention time.Duration
	interval  time.Duration
	log       zerolog.Logger
	stop      chan struct{}
	stopOnce  sync.Once
}

// NewUploadPruner creates a pruner over the store. A zero retention disables
// pruning.
func NewUploadPruner(store *UploadStore, retention time.Duration, log zerolog.Logger) *UploadPruner {
	return &UploadPruner{
		store:     store,
		retention: retention,
		interval:  1 * time.Hour,
		log:       log.With().Str("component", "upload-pruner").Logger(),
		stop:      make(chan struct{}),
	}
}

func (p *UploadPruner) Start() {
	go p.loop()
}

func (p *UploadPruner) Stop() {
	p.stopOnce.Do(func() { close(p.stop) })
}

func (p *UploadPruner) loop() {
	// Run once on startup to clear any backlog from downtime.
	p.prune()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.prune()
		case <-p.stop:
			return
		}
	}
}

func (p *UploadPruner) prune() {
	if p.retention == 0 {
		return
	}

	cutoff := time.Now().Add(-p.retention)
	var prunedCount int
	var prunedBytes int64

	filepath.WalkDir(p.store.Dir(), func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		// Leave in-flight temp files to their writers.
		if strings.HasPrefix(filepath.Base(path), ".") {
			return nil
		}
		if !ValidExt(filepath.Ext(path)) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.ModTime().After(cutoff) {
			return nil
		}
		if rmErr := os.Remove(path); rmErr != nil {
			p.log.Warn().Err(rmErr).Str("path", path).Msg("failed to prune upload")
			return nil
		}
		prunedCount++
		prunedBytes += info.Size()
		return nil
	})

	if prunedCount > 0 {
		p.log.Info().
			Int("files", prunedCount).
			Int64("bytes", prunedBytes).
			Dur("retention", p.retention).
			Msg("pruned expired uploads")
	}
}
