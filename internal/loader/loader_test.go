package loader

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylecast/stylecast/internal/config"
	"github.com/stylecast/stylecast/internal/cssgen"
	"github.com/stylecast/stylecast/internal/stylecache"
	"github.com/stylecast/stylecast/internal/theme"
)

type fakeThemes struct {
	themes map[string]*theme.Theme
}

func newFakeThemes(ids ...string) *fakeThemes {
	f := &fakeThemes{themes: make(map[string]*theme.Theme)}
	for _, id := range ids {
		t := theme.Default()
		t.ID = id
		f.themes[id] = t
	}
	return f
}

func (f *fakeThemes) GetThemeByID(id string) (*theme.Theme, error) {
	t, ok := f.themes[id]
	if !ok {
		return nil, errors.New("theme not found: " + id)
	}
	return t, nil
}

func (f *fakeThemes) GetActiveTheme() *theme.Theme { return theme.Default() }

func (f *fakeThemes) GetAvailableThemes() []*theme.Theme {
	out := make([]*theme.Theme, 0, len(f.themes))
	for _, t := range f.themes {
		out = append(out, t)
	}
	return out
}

type fakeConfigs struct{}

func (fakeConfigs) LoadConfiguration() (*config.Config, error) {
	return config.DefaultConfig(), nil
}

type fakeGenerator struct {
	calls   atomic.Int64
	err     error
	started chan struct{} // closed on first call
	release chan struct{} // blocks calls until closed
	once    sync.Once
}

func (g *fakeGenerator) GenerateThemeCSS(t *theme.Theme, cfg *config.Config, opts cssgen.Options) (string, error) {
	g.calls.Add(1)
	if g.started != nil {
		g.once.Do(func() { close(g.started) })
	}
	if g.release != nil {
		<-g.release
	}
	if g.err != nil {
		return "", g.err
	}
	return "body{/* " + t.ID + " */}", nil
}

type fakeCache struct {
	mu          sync.Mutex
	data        map[string]string
	sets        int
	invalidates int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (c *fakeCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok
}

func (c *fakeCache) Set(key, content string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = content
	c.sets++
}

func (c *fakeCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	c.invalidates++
}

func newTestLoader(t *testing.T, themes *fakeThemes, gen *fakeGenerator, cache *fakeCache, opts Options) *Loader {
	t.Helper()
	if opts.SweepInterval == 0 {
		opts.SweepInterval = time.Hour
	}
	l := New(themes, fakeConfigs{}, gen, cache, opts, nil)
	t.Cleanup(l.Close)
	return l
}

func TestLoadGeneratesOnceThenServesLoadedEntry(t *testing.T) {
	gen := &fakeGenerator{}
	cache := newFakeCache()
	l := newTestLoader(t, newFakeThemes("dark"), gen, cache, Options{})

	opts := cssgen.DefaultOptions()
	first, err := l.Load(context.Background(), "dark", opts)
	require.NoError(t, err)
	assert.Contains(t, first, "dark")

	second, err := l.Load(context.Background(), "dark", opts)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), gen.calls.Load())
	assert.Equal(t, 1, l.Len())
}

func TestLoadCoalescesConcurrentCallers(t *testing.T) {
	gen := &fakeGenerator{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	cache := newFakeCache()
	l := newTestLoader(t, newFakeThemes("dark"), gen, cache, Options{})

	const callers = 16
	results := make([]string, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = l.Load(context.Background(), "dark", cssgen.DefaultOptions())
		}(i)
	}

	<-gen.started
	// Give the remaining callers time to join the in-flight call.
	time.Sleep(200 * time.Millisecond)
	close(gen.release)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0], results[i])
	}
	assert.Equal(t, int64(1), gen.calls.Load(), "concurrent callers must share one generation")
}

func TestLoadServesFromCacheWithoutGenerating(t *testing.T) {
	gen := &fakeGenerator{}
	cache := newFakeCache()
	themes := newFakeThemes("dark")
	l := newTestLoader(t, themes, gen, cache, Options{})

	th, err := themes.GetThemeByID("dark")
	require.NoError(t, err)
	cfg, err := fakeConfigs{}.LoadConfiguration()
	require.NoError(t, err)

	opts := cssgen.DefaultOptions()
	key := stylecache.GenerateCacheKey(th, cfg, opts.Hash())
	cache.Set(key, "cached-css")

	content, err := l.Load(context.Background(), "dark", opts)
	require.NoError(t, err)
	assert.Equal(t, "cached-css", content)
	assert.Equal(t, int64(0), gen.calls.Load())
}

func TestLoadFailureIsNotCachedAndRetries(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("generation broke")}
	cache := newFakeCache()
	l := newTestLoader(t, newFakeThemes("dark"), gen, cache, Options{})

	_, err := l.Load(context.Background(), "dark", cssgen.DefaultOptions())
	require.Error(t, err)
	assert.Equal(t, 0, l.Len(), "failed loads must not be retained")
	assert.Empty(t, cache.data)

	gen.err = nil
	content, err := l.Load(context.Background(), "dark", cssgen.DefaultOptions())
	require.NoError(t, err)
	assert.NotEmpty(t, content)
	assert.Equal(t, int64(2), gen.calls.Load())
}

func TestLoadUnknownTheme(t *testing.T) {
	gen := &fakeGenerator{}
	l := newTestLoader(t, newFakeThemes("dark"), gen, newFakeCache(), Options{})

	_, err := l.Load(context.Background(), "missing", cssgen.DefaultOptions())
	require.Error(t, err)
	assert.Equal(t, int64(0), gen.calls.Load())
}

func TestPreloadIsolatesFailures(t *testing.T) {
	gen := &fakeGenerator{}
	l := newTestLoader(t, newFakeThemes("dark", "light"), gen, newFakeCache(), Options{})

	failures := l.Preload(context.Background(), []string{"dark", "missing", "light"}, cssgen.DefaultOptions())

	require.Len(t, failures, 1)
	assert.Error(t, failures["missing"])
	assert.Equal(t, 2, l.Len(), "healthy themes load despite the failure")
}

func TestSweepEvictsIdleEntries(t *testing.T) {
	gen := &fakeGenerator{}
	l := newTestLoader(t, newFakeThemes("dark", "light"), gen, newFakeCache(), Options{MaxIdle: time.Hour})

	base := time.Now()
	l.now = func() time.Time { return base }
	_, err := l.Load(context.Background(), "dark", cssgen.DefaultOptions())
	require.NoError(t, err)

	l.now = func() time.Time { return base.Add(30 * time.Minute) }
	_, err = l.Load(context.Background(), "light", cssgen.DefaultOptions())
	require.NoError(t, err)

	l.now = func() time.Time { return base.Add(90 * time.Minute) }
	l.Sweep()

	assert.Equal(t, 1, l.Len(), "only the idle entry is evicted")
}

func TestSweepTrimsOldestBeyondEntryCap(t *testing.T) {
	gen := &fakeGenerator{}
	l := newTestLoader(t, newFakeThemes("a", "b", "c", "d"), gen, newFakeCache(), Options{MaxEntries: 2, MaxIdle: 24 * time.Hour})

	base := time.Now()
	for i, id := range []string{"a", "b", "c", "d"} {
		tick := base.Add(time.Duration(i) * time.Minute)
		l.now = func() time.Time { return tick }
		_, err := l.Load(context.Background(), id, cssgen.DefaultOptions())
		require.NoError(t, err)
	}

	l.Sweep()
	assert.Equal(t, 2, l.Len())

	// The two most recently used entries survive without regeneration.
	before := gen.calls.Load()
	_, err := l.Load(context.Background(), "c", cssgen.DefaultOptions())
	require.NoError(t, err)
	_, err = l.Load(context.Background(), "d", cssgen.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, before, gen.calls.Load())
}

func TestInvalidateTheme(t *testing.T) {
	gen := &fakeGenerator{}
	cache := newFakeCache()
	l := newTestLoader(t, newFakeThemes("dark", "light"), gen, cache, Options{})

	_, err := l.Load(context.Background(), "dark", cssgen.DefaultOptions())
	require.NoError(t, err)
	_, err = l.Load(context.Background(), "light", cssgen.DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, 2, l.Len())

	l.InvalidateTheme("dark")

	assert.Equal(t, 1, l.Len())
	assert.Equal(t, 1, cache.invalidates)

	// A fresh load regenerates.
	_, err = l.Load(context.Background(), "dark", cssgen.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, int64(3), gen.calls.Load())
}
