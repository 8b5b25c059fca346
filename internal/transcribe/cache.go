package transcribe

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// ErrUnknownModelSize is returned for model sizes outside the configured set.
var ErrUnknownModelSize = errors.New("unknown model size")

// Loader builds a Provider for one model size. First use of a size may be
// slow (server-side model download), so loads happen lazily.
type Loader func(size string) (Provider, error)

// Cache holds one Provider per Whisper model size for the life of the
// process. Providers are built lazily on first use and never evicted.
// Concurrent requests for the same size share a single load via singleflight.
type Cache struct {
	sizes  []string
	loader Loader
	log    zerolog.Logger

	group     singleflight.Group
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewCache creates a model cache restricted to the given sizes.
func NewCache(sizes []string, loader Loader, log zerolog.Logger) *Cache {
	return &Cache{
		sizes:     sizes,
		loader:    loader,
		log:       log.With().Str("component", "model-cache").Logger(),
		providers: make(map[string]Provider),
	}
}

// Sizes returns the configured model sizes in order.
func (c *Cache) Sizes() []string { return c.sizes }

// ValidSize reports whether size is in the configured set.
func (c *Cache) ValidSize(size string) bool {
	for _, s := range c.sizes {
		if s == size {
			return true
		}
	}
	return false
}

// Get returns the Provider for a model size, loading it on first use.
func (c *Cache) Get(size string) (Provider, error) {
	if !c.ValidSize(size) {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownModelSize, size, strings.Join(c.sizes, ", "))
	}

	c.mu.RLock()
	p, ok := c.providers[size]
	c.mu.RUnlock()
	if ok {
		return p, nil
	}

	v, err, _ := c.group.Do(size, func() (any, error) {
		// Re-check under the flight: another caller may have finished the
		// load between our read-lock release and Do.
		c.mu.RLock()
		p, ok := c.providers[size]
		c.mu.RUnlock()
		if ok {
			return p, nil
		}

		start := time.Now()
		c.log.Info().Str("model_size", size).Msg("loading transcription model")
		p, err := c.loader(size)
		if err != nil {
			return nil, err
		}
		c.log.Info().
			Str("model_size", size).
			Dur("elapsed", time.Since(start)).
			Msg("transcription model ready")

		c.mu.Lock()
		c.providers[size] = p
		c.mu.Unlock()
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Provider), nil
}
