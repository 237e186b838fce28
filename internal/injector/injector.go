// Package injector keeps the registry of style fragments that should be live
// on the client. Fragments are sanitized on the way in, carry an integer
// priority band, and are exposed as an ordered snapshot. The package never
// touches a document; the client runtime does the actual DOM work.
package injector

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/stylecast/stylecast/internal/cssgen"
	"github.com/stylecast/stylecast/internal/logger"
	"github.com/stylecast/stylecast/internal/ports"
	stylecasterrors "github.com/stylecast/stylecast/pkg/errors"
)

// Priority bands. A higher number is applied with greater precedence.
const (
	PrioritySystem   = 1000
	PriorityTheme    = 800
	PriorityUser     = 600
	PriorityCustom   = 400
	PriorityOverride = 200
)

// Fixed ids owned by UpdateGlobalStyles. Re-applying global styles always
// overwrites these entries instead of accumulating new ones.
const (
	GlobalThemeID     = "global_theme"
	SystemStylesID    = "system_styles"
	AnimationStylesID = "animation_styles"
)

const (
	defaultMaxAge        = 24 * time.Hour
	defaultSweepInterval = time.Hour
)

// systemStylesheet is the fixed baseline applied under SystemStylesID.
const systemStylesheet = `.sr-only{position:absolute;width:1px;height:1px;padding:0;margin:-1px;overflow:hidden;clip:rect(0,0,0,0);border:0}
.visually-hidden{visibility:hidden}
[hidden]{display:none !important}`

// fallbackStylesheet keeps the page readable when global style recomputation
// fails. Deliberately tiny and dependency-free.
const fallbackStylesheet = `body{font-family:sans-serif;color:#212529;background-color:#ffffff;line-height:1.5;margin:0}
a{color:#0d6efd}`

// StyleEntry is the exported view of a registry entry.
type StyleEntry struct {
	ID        string
	Content   string
	Priority  int
	CreatedAt time.Time
}

// styleEntry is immutable once published to a snapshot; lastUsed is the only
// field written afterwards and is atomic.
type styleEntry struct {
	id        string
	content   string
	priority  int
	createdAt time.Time
	lastUsed  atomic.Int64 // unix nanos
}

// StyleSource produces theme CSS. The loader satisfies this.
type StyleSource interface {
	Load(ctx context.Context, themeID string, opts cssgen.Options) (string, error)
}

// Options bounds the injector's sweep. Zero values fall back to defaults.
type Options struct {
	MaxAge        time.Duration
	SweepInterval time.Duration
}

// Injector is the style registry. Mutations are serialized through a single
// writer lock; reads go through an immutable snapshot and never block.
type Injector struct {
	themes  ports.ThemeManager
	configs ports.ConfigurationManager
	source  StyleSource
	log     *logger.Logger

	mu       sync.Mutex
	registry map[string]*styleEntry
	snapshot atomic.Value // map[string]*styleEntry

	maxAge time.Duration
	now    func() time.Time

	sweepStop chan struct{}
	sweepDone chan struct{}
}

// New builds an Injector and starts its background sweep.
func New(themes ports.ThemeManager, configs ports.ConfigurationManager, source StyleSource, opts Options, log *logger.Logger) *Injector {
	if opts.MaxAge <= 0 {
		opts.MaxAge = defaultMaxAge
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = defaultSweepInterval
	}

	i := &Injector{
		themes:    themes,
		configs:   configs,
		source:    source,
		log:       log.WithComponent("injector"),
		registry:  make(map[string]*styleEntry),
		maxAge:    opts.MaxAge,
		now:       time.Now,
		sweepStop: make(chan struct{}),
		sweepDone: make(chan struct{}),
	}
	i.snapshot.Store(map[string]*styleEntry{})
	go i.sweepLoop(opts.SweepInterval)
	return i
}

// Close stops the background sweep.
func (i *Injector) Close() {
	close(i.sweepStop)
	<-i.sweepDone
}

// Inject sanitizes css and registers it under id. An empty id gets a
// generated one; an existing id is overwritten, keeping its creation time.
// The applied id is returned.
func (i *Injector) Inject(css, id string, priority int) (string, error) {
	if isBlank(css) {
		return "", stylecasterrors.NewValidationError("css", "style content is empty", nil)
	}

	sanitized := Sanitize(css)
	if isBlank(sanitized) {
		return "", stylecasterrors.NewInjectionError(id, "style content is empty after sanitization", nil)
	}
	if sanitized != css {
		i.log.WithFields(map[string]any{"style_id": id}).Warn("unsafe fragments removed from injected style")
	}

	if priority <= 0 {
		priority = PriorityCustom
	}
	if id == "" {
		id = uuid.NewString()
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	// Entries are shared with published snapshots, so an overwrite never
	// mutates the existing entry. A fresh one keeps the original creation
	// time and replaces it in the next snapshot.
	now := i.now()
	e := &styleEntry{id: id, content: sanitized, priority: priority, createdAt: now}
	if prev, ok := i.registry[id]; ok {
		e.createdAt = prev.createdAt
	}
	e.lastUsed.Store(now.UnixNano())
	i.registry[id] = e

	i.publishLocked()
	return id, nil
}

// Remove deletes the entry for id, reporting whether it existed.
func (i *Injector) Remove(id string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	if _, ok := i.registry[id]; !ok {
		return false
	}
	delete(i.registry, id)
	i.publishLocked()
	return true
}

// Get returns the entry for id from the current snapshot.
func (i *Injector) Get(id string) (StyleEntry, bool) {
	snap := i.snapshot.Load().(map[string]*styleEntry)
	e, ok := snap[id]
	if !ok {
		return StyleEntry{}, false
	}
	e.lastUsed.Store(i.now().UnixNano())
	return e.view(), true
}

// ActiveStyles returns every registered entry ordered by descending priority,
// then ascending creation time. The read is lock-free over the snapshot.
func (i *Injector) ActiveStyles() []StyleEntry {
	snap := i.snapshot.Load().(map[string]*styleEntry)
	now := i.now().UnixNano()

	out := make([]StyleEntry, 0, len(snap))
	for _, e := range snap {
		e.lastUsed.Store(now)
		out = append(out, e.view())
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Priority != out[b].Priority {
			return out[a].Priority > out[b].Priority
		}
		if !out[a].CreatedAt.Equal(out[b].CreatedAt) {
			return out[a].CreatedAt.Before(out[b].CreatedAt)
		}
		return out[a].ID < out[b].ID
	})
	return out
}

// Len reports the number of registered entries.
func (i *Injector) Len() int {
	snap := i.snapshot.Load().(map[string]*styleEntry)
	return len(snap)
}

// UpdateGlobalStyles recomputes the active theme's CSS, the fixed system
// stylesheet, and (when animations are enabled) the animation CSS, applying
// them under fixed ids. Repeated calls overwrite rather than accumulate. On
// failure a minimal fallback stylesheet is applied so the end state is never
// unstyled, and the original failure is still returned.
func (i *Injector) UpdateGlobalStyles(ctx context.Context) error {
	cfg, err := i.configs.LoadConfiguration()
	if err != nil {
		return i.applyFallback(err)
	}

	active := i.themes.GetActiveTheme()
	if active == nil {
		return i.applyFallback(stylecasterrors.NewValidationError("theme", "no active theme", nil))
	}

	themeOpts := cssgen.DefaultOptions()
	themeOpts.Optimize = true
	themeOpts.IncludeAnimations = false
	themeCSS, err := i.source.Load(ctx, active.ID, themeOpts)
	if err != nil {
		return i.applyFallback(err)
	}

	if _, err := i.Inject(themeCSS, GlobalThemeID, PriorityTheme); err != nil {
		return i.applyFallback(err)
	}
	if _, err := i.Inject(systemStylesheet, SystemStylesID, PrioritySystem); err != nil {
		return i.applyFallback(err)
	}

	if !cfg.Animation.Enabled {
		i.Remove(AnimationStylesID)
		return nil
	}

	animOpts := cssgen.Options{
		Optimize:          true,
		IncludeAnimations: true,
		UseCache:          true,
	}
	animCSS, err := i.source.Load(ctx, active.ID, animOpts)
	if err != nil {
		return i.applyFallback(err)
	}
	if _, err := i.Inject(animCSS, AnimationStylesID, PriorityTheme); err != nil {
		return i.applyFallback(err)
	}

	i.log.WithFields(map[string]any{"theme_id": active.ID}).Debug("global styles updated")
	return nil
}

// applyFallback installs the static fallback under the global theme id and
// wraps the cause. The fallback itself is best-effort.
func (i *Injector) applyFallback(cause error) error {
	i.log.Error(cause, "global style update failed, applying fallback stylesheet")
	if _, err := i.Inject(fallbackStylesheet, GlobalThemeID, PriorityTheme); err != nil {
		i.log.Error(err, "fallback stylesheet injection failed")
	}
	return stylecasterrors.NewInjectionError(GlobalThemeID, "global style update failed", cause)
}

// Sweep removes entries unused beyond the max-age window. The background
// loop calls this on its interval; tests call it directly.
func (i *Injector) Sweep() int {
	cutoff := i.now().Add(-i.maxAge).UnixNano()

	i.mu.Lock()
	defer i.mu.Unlock()

	removed := 0
	for id, e := range i.registry {
		if e.lastUsed.Load() < cutoff {
			delete(i.registry, id)
			removed++
		}
	}
	if removed > 0 {
		i.publishLocked()
		i.log.WithFields(map[string]any{"removed": removed}).Debug("style sweep removed idle entries")
	}
	return removed
}

// publishLocked replaces the read snapshot. Callers hold i.mu.
func (i *Injector) publishLocked() {
	snap := make(map[string]*styleEntry, len(i.registry))
	for id, e := range i.registry {
		snap[id] = e
	}
	i.snapshot.Store(snap)
}

func (e *styleEntry) view() StyleEntry {
	return StyleEntry{
		ID:        e.id,
		Content:   e.content,
		Priority:  e.priority,
		CreatedAt: e.createdAt,
	}
}

func (i *Injector) sweepLoop(interval time.Duration) {
	defer close(i.sweepDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			i.Sweep()
		case <-i.sweepStop:
			return
		}
	}
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}
