// Package loader coalesces concurrent CSS generation requests. For a given
// cache key at most one generation runs at a time; every concurrent caller
// for that key observes the same outcome. Generation itself runs inside a
// small fixed pool of slots.
package loader

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/stylecast/stylecast/internal/config"
	"github.com/stylecast/stylecast/internal/cssgen"
	"github.com/stylecast/stylecast/internal/logger"
	"github.com/stylecast/stylecast/internal/ports"
	"github.com/stylecast/stylecast/internal/stylecache"
	"github.com/stylecast/stylecast/internal/theme"
)

const (
	defaultMaxConcurrent = 3
	defaultMaxEntries    = 50
	defaultMaxIdle       = time.Hour
	defaultSweepInterval = 10 * time.Minute
)

// Generator produces the CSS document for a theme.
type Generator interface {
	GenerateThemeCSS(t *theme.Theme, cfg *config.Config, opts cssgen.Options) (string, error)
}

// Cache is the persistent tier behind the loader's in-process entries.
type Cache interface {
	Get(key string) (string, bool)
	Set(key, content string)
	Invalidate(key string)
}

// Options bounds the loader. Zero values fall back to defaults.
type Options struct {
	MaxConcurrent int
	MaxEntries    int
	MaxIdle       time.Duration
	SweepInterval time.Duration
}

// entry is a successfully loaded document. Failures are never stored.
type entry struct {
	cacheKey string
	themeID  string
	content  string
	loadedAt time.Time
	lastUsed atomic.Int64 // unix nanos
}

// Loader wires the generation engine, the style cache, and the collaborator
// interfaces together behind a request-coalescing front.
type Loader struct {
	themes    ports.ThemeManager
	configs   ports.ConfigurationManager
	generator Generator
	cache     Cache
	log       *logger.Logger

	group singleflight.Group
	slots *semaphore.Weighted

	mu      sync.RWMutex
	entries map[string]*entry

	maxEntries int
	maxIdle    time.Duration
	now        func() time.Time

	sweepStop chan struct{}
	sweepDone chan struct{}
}

// New builds a Loader and starts its background sweep.
func New(themes ports.ThemeManager, configs ports.ConfigurationManager, generator Generator, cache Cache, opts Options, log *logger.Logger) *Loader {
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = defaultMaxConcurrent
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = defaultMaxEntries
	}
	if opts.MaxIdle <= 0 {
		opts.MaxIdle = defaultMaxIdle
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = defaultSweepInterval
	}

	l := &Loader{
		themes:     themes,
		configs:    configs,
		generator:  generator,
		cache:      cache,
		log:        log.WithComponent("loader"),
		slots:      semaphore.NewWeighted(int64(opts.MaxConcurrent)),
		entries:    make(map[string]*entry),
		maxEntries: opts.MaxEntries,
		maxIdle:    opts.MaxIdle,
		now:        time.Now,
		sweepStop:  make(chan struct{}),
		sweepDone:  make(chan struct{}),
	}
	go l.sweepLoop(opts.SweepInterval)
	return l
}

// Close stops the background sweep.
func (l *Loader) Close() {
	close(l.sweepStop)
	<-l.sweepDone
}

// Load returns the CSS for themeID under opts, generating it at most once
// per cache key no matter how many callers arrive concurrently.
func (l *Loader) Load(ctx context.Context, themeID string, opts cssgen.Options) (string, error) {
	th, err := l.themes.GetThemeByID(themeID)
	if err != nil {
		return "", err
	}
	cfg, err := l.configs.LoadConfiguration()
	if err != nil {
		return "", err
	}

	key := stylecache.GenerateCacheKey(th, cfg, opts.Hash())

	if content, ok := l.lookup(key); ok {
		return content, nil
	}

	if opts.UseCache {
		if content, ok := l.cache.Get(key); ok {
			l.store(key, themeID, content)
			return content, nil
		}
	}

	// Generation is shared: a caller's own cancellation must not abort the
	// in-flight work other callers are waiting on, so the slot is acquired
	// against the background context.
	v, err, shared := l.group.Do(key, func() (any, error) {
		if acquireErr := l.slots.Acquire(context.Background(), 1); acquireErr != nil {
			return nil, acquireErr
		}
		defer l.slots.Release(1)

		css, genErr := l.generator.GenerateThemeCSS(th, cfg, opts)
		if genErr != nil {
			// Failures are never cached.
			l.cache.Invalidate(key)
			return nil, genErr
		}

		if opts.UseCache {
			l.cache.Set(key, css)
		}
		l.store(key, themeID, css)
		return css, nil
	})
	if err != nil {
		l.log.WithFields(map[string]any{"theme_id": themeID, "cache_key": key}).Error(err, "load failed")
		return "", err
	}
	if shared {
		l.log.WithFields(map[string]any{"cache_key": key}).Debug("load coalesced with in-flight generation")
	}

	// The ctx is only honored at the request boundary; shared work finishes
	// regardless.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	return v.(string), nil
}

// Preload loads several themes in parallel. Failures are collected per
// theme; one theme's failure never aborts the others.
func (l *Loader) Preload(ctx context.Context, themeIDs []string, opts cssgen.Options) map[string]error {
	var (
		mu       sync.Mutex
		failures map[string]error
	)

	var g errgroup.Group
	for _, id := range themeIDs {
		id := id
		g.Go(func() error {
			if _, err := l.Load(ctx, id, opts); err != nil {
				mu.Lock()
				if failures == nil {
					failures = make(map[string]error)
				}
				failures[id] = err
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return failures
}

// InvalidateTheme drops every loaded entry for themeID and invalidates the
// corresponding cache keys.
func (l *Loader) InvalidateTheme(themeID string) {
	l.mu.Lock()
	var keys []string
	for key, e := range l.entries {
		if e.themeID == themeID {
			keys = append(keys, key)
			delete(l.entries, key)
		}
	}
	l.mu.Unlock()

	for _, key := range keys {
		l.cache.Invalidate(key)
	}
}

// Len reports the number of loaded entries.
func (l *Loader) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

func (l *Loader) lookup(key string) (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	e, ok := l.entries[key]
	if !ok {
		return "", false
	}
	e.lastUsed.Store(l.now().UnixNano())
	return e.content, true
}

func (l *Loader) store(key, themeID, content string) {
	e := &entry{
		cacheKey: key,
		themeID:  themeID,
		content:  content,
		loadedAt: l.now(),
	}
	e.lastUsed.Store(l.now().UnixNano())

	l.mu.Lock()
	l.entries[key] = e
	l.mu.Unlock()
}

// Sweep evicts entries idle beyond the max-idle window and trims the oldest
// entries beyond the entry cap. The background loop calls this on its
// interval; tests call it directly.
func (l *Loader) Sweep() {
	now := l.now()
	cutoff := now.Add(-l.maxIdle).UnixNano()

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, e := range l.entries {
		if e.lastUsed.Load() < cutoff {
			delete(l.entries, key)
		}
	}

	if overflow := len(l.entries) - l.maxEntries; overflow > 0 {
		type aged struct {
			key  string
			used int64
		}
		all := make([]aged, 0, len(l.entries))
		for key, e := range l.entries {
			all = append(all, aged{key: key, used: e.lastUsed.Load()})
		}
		sort.Slice(all, func(i, j int) bool { return all[i].used < all[j].used })
		for i := 0; i < overflow; i++ {
			delete(l.entries, all[i].key)
		}
	}
}

func (l *Loader) sweepLoop(interval time.Duration) {
	defer close(l.sweepDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.Sweep()
		case <-l.sweepStop:
			return
		}
	}
}
