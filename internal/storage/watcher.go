package storage

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/snarg/scribe-engine/internal/metrics"
)

// DropWatcher monitors a drop directory for new audio files and registers
// them in the upload store under fresh ids. This provides an alternative to
// the HTTP upload endpoint for batch jobs that write files straight to disk.
type DropWatcher struct {
	store    *UploadStore
	watchDir string
	log      zerolog.Logger

	watcher *fsnotify.Watcher
	done    chan struct{}

	// Debounce: coalesce rapid Create+Write events on the same file.
	debounceMu     sync.Mutex
	debounceTimers map[string]*time.Timer

	filesAdopted atomic.Int64
	filesSkipped atomic.Int64
	status       atomic.Value // string: "starting", "watching", "stopped"
}

// WatcherStatus reports the watcher's state for the health endpoint.
type WatcherStatus struct {
	Status       string `json:"status"`
	WatchDir     string `json:"watch_dir"`
	FilesAdopted int64  `json:"files_adopted"`
	FilesSkipped int64  `json:"files_skipped"`
}

// NewDropWatcher creates a watcher over watchDir feeding the store.
func NewDropWatcher(store *UploadStore, watchDir string, log zerolog.Logger) *DropWatcher {
	dw := &DropWatcher{
		store:          store,
		watchDir:       watchDir,
		log:            log.With().Str("component", "drop-watcher").Logger(),
		done:           make(chan struct{}),
		debounceTimers: make(map[string]*time.Timer),
	}
	dw.status.Store("starting")
	return dw
}

// Start initializes the fsnotify watcher and begins watching. Audio files
// already present in the directory are adopted immediately.
func (dw *DropWatcher) Start() error {
	if err := os.MkdirAll(dw.watchDir, 0o755); err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(dw.watchDir); err != nil {
		w.Close()
		return err
	}
	dw.watcher = w

	dw.log.Info().Str("watch_dir", dw.watchDir).Msg("drop watcher initialized")

	go dw.watchLoop()

	// Pick up files dropped while the service was down.
	entries, err := os.ReadDir(dw.watchDir)
	if err == nil {
		for _, e := range entries {
			if !e.IsDir() {
				dw.scheduleAdopt(filepath.Join(dw.watchDir, e.Name()))
			}
		}
	}

	dw.status.Store("watching")
	return nil
}

// Stop closes the fsnotify watcher.
func (dw *DropWatcher) Stop() {
	dw.status.Store("stopped")
	close(dw.done)
	if dw.watcher != nil {
		dw.watcher.Close()
	}
	dw.log.Info().
		Int64("files_adopted", dw.filesAdopted.Load()).
		Int64("files_skipped", dw.filesSkipped.Load()).
		Msg("drop watcher stopped")
}

// Status returns the current watcher status for the health endpoint.
func (dw *DropWatcher) Status() *WatcherStatus {
	s, _ := dw.status.Load().(string)
	return &WatcherStatus{
		Status:       s,
		WatchDir:     dw.watchDir,
		FilesAdopted: dw.filesAdopted.Load(),
		FilesSkipped: dw.filesSkipped.Load(),
	}
}

func (dw *DropWatcher) watchLoop() {
	for {
		select {
		case <-dw.done:
			return

		case event, ok := <-dw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if info, err := os.Stat(event.Name); err != nil || info.IsDir() {
				continue
			}
			dw.scheduleAdopt(event.Name)

		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return
			}
			dw.log.Error().Err(err).Msg("fsnotify error")
		}
	}
}

// scheduleAdopt debounces adoption by 500ms. This coalesces rapid
// Create+Write events and ensures the file is fully written before moving.
func (dw *DropWatcher) scheduleAdopt(path string) {
	dw.debounceMu.Lock()
	defer dw.debounceMu.Unlock()

	if t, ok := dw.debounceTimers[path]; ok {
		t.Reset(500 * time.Millisecond)
		return
	}

	dw.debounceTimers[path] = time.AfterFunc(500*time.Millisecond, func() {
		dw.debounceMu.Lock()
		delete(dw.debounceTimers, path)
		dw.debounceMu.Unlock()

		dw.adopt(path)
	})
}

func (dw *DropWatcher) adopt(path string) {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return
	}
	if !ValidExt(filepath.Ext(path)) {
		dw.filesSkipped.Add(1)
		dw.log.Debug().Str("path", path).Msg("skipping non-audio file")
		return
	}

	id, stored, err := dw.store.Adopt(path)
	if err != nil {
		dw.filesSkipped.Add(1)
		dw.log.Warn().Err(err).Str("path", path).Msg("failed to adopt dropped file")
		return
	}

	dw.filesAdopted.Add(1)
	metrics.UploadsTotal.Inc()
	dw.log.Info().
		Str("file_id", id).
		Str("path", stored).
		Str("dropped_as", filepath.Base(path)).
		Msg("adopted dropped audio file")
}
