package stylecache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylecast/stylecast/internal/config"
	"github.com/stylecast/stylecast/internal/theme"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestService(t *testing.T, opts ServiceOptions) (*Service, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Now()}
	if opts.Directory == "" {
		opts.Directory = t.TempDir()
	}
	if opts.SweepInterval == 0 {
		opts.SweepInterval = time.Hour
	}
	opts.now = clock.now

	svc, err := NewService(opts, nil)
	require.NoError(t, err)
	t.Cleanup(svc.Close)
	return svc, clock
}

func TestSetThenGet(t *testing.T) {
	svc, _ := newTestService(t, ServiceOptions{})

	svc.Set("key1", "body{color:#111}")
	content, ok := svc.Get("key1")
	require.True(t, ok)
	assert.Equal(t, "body{color:#111}", content)

	_, ok = svc.Get("absent")
	assert.False(t, ok)
}

func TestGetNeverReturnsExpiredEntries(t *testing.T) {
	dir := t.TempDir()
	svc, clock := newTestService(t, ServiceOptions{Directory: dir, TTL: time.Minute})

	svc.Set("key1", "css")

	// Age the file on disk to match the fake clock.
	past := clock.t.Add(-2 * time.Minute)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "key1"+cacheFileExt), past, past))
	clock.advance(2 * time.Minute)

	_, ok := svc.Get("key1")
	assert.False(t, ok)

	// The expired file was deleted on sight.
	_, err := os.Stat(filepath.Join(dir, "key1"+cacheFileExt))
	assert.True(t, os.IsNotExist(err))
}

func TestFileHitPromotesToMemory(t *testing.T) {
	dir := t.TempDir()
	svc, _ := newTestService(t, ServiceOptions{Directory: dir, TTL: time.Hour})

	// Seed the file tier only.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "key1"+cacheFileExt), []byte("from-disk"), 0644))
	assert.Equal(t, 0, svc.memory.len())

	content, ok := svc.Get("key1")
	require.True(t, ok)
	assert.Equal(t, "from-disk", content)

	// Promoted: now served from memory.
	fromMemory, ok := svc.memory.get("key1")
	require.True(t, ok)
	assert.Equal(t, "from-disk", fromMemory)
}

func TestMemoryEvictionBound(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	tier, err := newMemoryTier(3, clock.now)
	require.NoError(t, err)

	tier.set("a", "A", time.Hour)
	tier.set("b", "B", time.Hour)
	tier.set("c", "C", time.Hour)

	// Touch "a" so "b" becomes least recently used.
	_, ok := tier.get("a")
	require.True(t, ok)

	tier.set("d", "D", time.Hour)
	tier.set("e", "E", time.Hour)

	assert.Equal(t, 3, tier.len())
	_, ok = tier.get("b")
	assert.False(t, ok, "least-recently-used entry should be evicted")
	_, ok = tier.get("c")
	assert.False(t, ok, "second least-recently-used entry should be evicted")
	for _, key := range []string{"a", "d", "e"} {
		_, ok = tier.get(key)
		assert.True(t, ok, key)
	}
}

func TestMemorySweepRemovesExpired(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	tier, err := newMemoryTier(10, clock.now)
	require.NoError(t, err)

	tier.set("short", "A", time.Minute)
	tier.set("long", "B", time.Hour)
	clock.advance(5 * time.Minute)

	assert.Equal(t, 1, tier.sweepExpired())
	assert.Equal(t, 1, tier.len())
	_, ok := tier.get("long")
	assert.True(t, ok)
}

func TestFileCapacityEvictsOldest(t *testing.T) {
	dir := t.TempDir()
	clock := &fakeClock{t: time.Now()}
	tier, err := newFileTier(dir, 100, clock.now)
	require.NoError(t, err)

	payload := strings.Repeat("x", 30)
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 4; i++ {
		key := fmt.Sprintf("key%d", i)
		require.NoError(t, tier.set(key, payload))
		// Stamp ages so key0 is oldest.
		mtime := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(tier.path(key), mtime, mtime))
	}

	// 120 bytes > 100: adding one more triggers eviction down to 80 bytes.
	require.NoError(t, tier.enforceCapacity())

	_, _, ok, err := tier.get("key0", 24*time.Hour)
	require.NoError(t, err)
	assert.False(t, ok, "oldest file should be evicted first")

	remaining := tier.count()
	assert.LessOrEqual(t, remaining, 2)
}

func TestWriteThrough(t *testing.T) {
	dir := t.TempDir()
	svc, _ := newTestService(t, ServiceOptions{Directory: dir})

	svc.Set("key1", "content")

	data, err := os.ReadFile(filepath.Join(dir, "key1"+cacheFileExt))
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
	assert.Equal(t, 1, svc.memory.len())
}

func TestInvalidateRemovesBothTiers(t *testing.T) {
	dir := t.TempDir()
	svc, _ := newTestService(t, ServiceOptions{Directory: dir})

	svc.Set("key1", "content")
	svc.Invalidate("key1")

	_, ok := svc.Get("key1")
	assert.False(t, ok)
	_, err := os.Stat(filepath.Join(dir, "key1"+cacheFileExt))
	assert.True(t, os.IsNotExist(err))
}

func TestInvalidateWinsOverInFlightPromotion(t *testing.T) {
	dir := t.TempDir()
	svc, _ := newTestService(t, ServiceOptions{Directory: dir, TTL: time.Hour})

	// Seed the file tier only, so Get has to go through promotion.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "key1"+cacheFileExt), []byte("stale"), 0644))

	// Hold the write lock so the in-flight Get parks before its file read,
	// then invalidate while it waits. The Get must observe the removal.
	svc.writeMu.Lock()
	got := make(chan bool, 1)
	go func() {
		_, ok := svc.Get("key1")
		got <- ok
	}()
	time.Sleep(50 * time.Millisecond)
	svc.memory.remove("key1")
	svc.file.remove("key1")
	svc.writeMu.Unlock()

	assert.False(t, <-got, "invalidated content must not be served")
	assert.Equal(t, 0, svc.memory.len(), "invalidated content must not be re-promoted")
}

func TestStatsCountsHitsAndMisses(t *testing.T) {
	svc, _ := newTestService(t, ServiceOptions{})

	svc.Set("key1", "content")
	svc.Get("key1")
	svc.Get("key1")
	svc.Get("absent")

	stats := svc.Stats()
	assert.Equal(t, uint64(2), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, 1, stats.MemoryEntries)
	assert.Equal(t, 1, stats.FileEntries)
}

func themeForKey(id, version string) *theme.Theme {
	t := theme.Default()
	t.ID = id
	t.Version = version
	return t
}

func TestGenerateCacheKeyDiscriminates(t *testing.T) {
	cfg := config.DefaultConfig()

	base := GenerateCacheKey(themeForKey("a", "1.0.0"), cfg)
	assert.Equal(t, base, GenerateCacheKey(themeForKey("a", "1.0.0"), cfg))
	assert.Len(t, base, 64)

	assert.NotEqual(t, base, GenerateCacheKey(themeForKey("b", "1.0.0"), cfg))
	assert.NotEqual(t, base, GenerateCacheKey(themeForKey("a", "1.0.1"), cfg))

	changed := config.DefaultConfig()
	changed.Animation.Enabled = false
	assert.NotEqual(t, base, GenerateCacheKey(themeForKey("a", "1.0.0"), changed))

	changed = config.DefaultConfig()
	changed.Animation.Duration = "1s"
	assert.NotEqual(t, base, GenerateCacheKey(themeForKey("a", "1.0.0"), changed))

	changed = config.DefaultConfig()
	changed.Responsive.Breakpoints["mobile"] = 599
	assert.NotEqual(t, base, GenerateCacheKey(themeForKey("a", "1.0.0"), changed))

	assert.NotEqual(t, base, GenerateCacheKey(themeForKey("a", "1.0.0"), cfg, "opts1"))
	assert.Equal(t,
		GenerateCacheKey(themeForKey("a", "1.0.0"), cfg, "opts1"),
		GenerateCacheKey(themeForKey("a", "1.0.0"), cfg, "opts1"))
}

func TestSweepPurgesBothTiers(t *testing.T) {
	dir := t.TempDir()
	svc, clock := newTestService(t, ServiceOptions{Directory: dir, TTL: time.Minute})

	svc.Set("key1", "content")
	past := clock.t.Add(-2 * time.Minute)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "key1"+cacheFileExt), past, past))
	clock.advance(2 * time.Minute)

	svc.Sweep()

	assert.Equal(t, 0, svc.memory.len())
	assert.Equal(t, 0, svc.file.count())
}
