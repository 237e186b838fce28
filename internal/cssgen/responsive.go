package cssgen

import (
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/stylecast/stylecast/internal/theme"
	stylecasterrors "github.com/stylecast/stylecast/pkg/errors"
)

// Breakpoint is a named viewport range. MaxWidth of zero means the range is
// unbounded above and the generated media query uses min-width instead.
type Breakpoint struct {
	Name     string
	MinWidth int
	MaxWidth int
}

// Setting carries the per-breakpoint overrides a caller wants applied. A nil
// Setting for a breakpoint means no block is emitted for it.
type Setting struct {
	MaxWidth    int
	GridColumns int
	GridGap     string
	FontScale   float64
}

// Settings maps breakpoint names to their overrides.
type Settings map[string]*Setting

// ValidationResult collects structured findings instead of failing on the
// first problem.
type ValidationResult struct {
	Errors   []string
	Warnings []string
}

// Valid reports whether no errors were recorded. Warnings do not invalidate.
func (r ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// ResponsiveManager holds named breakpoint definitions and generates
// breakpoint-scoped @media blocks.
type ResponsiveManager struct {
	mu          sync.RWMutex
	breakpoints map[string]Breakpoint
	order       []string
}

// NewResponsiveManager returns a manager with the standard mobile, tablet,
// and desktop breakpoints.
func NewResponsiveManager() *ResponsiveManager {
	m := &ResponsiveManager{breakpoints: make(map[string]Breakpoint)}
	m.mustAdd(Breakpoint{Name: "mobile", MinWidth: 0, MaxWidth: 767})
	m.mustAdd(Breakpoint{Name: "tablet", MinWidth: 768, MaxWidth: 1199})
	m.mustAdd(Breakpoint{Name: "desktop", MinWidth: 1200, MaxWidth: 0})
	return m
}

func (m *ResponsiveManager) mustAdd(bp Breakpoint) {
	if err := m.AddBreakpoint(bp); err != nil {
		panic(err)
	}
}

// AddBreakpoint registers an additional breakpoint. Redefining an existing
// name replaces its range but keeps its position in the emission order.
func (m *ResponsiveManager) AddBreakpoint(bp Breakpoint) error {
	if bp.Name == "" {
		return stylecasterrors.NewValidationError("name", "breakpoint name is empty", nil)
	}
	if bp.MinWidth < 0 || (bp.MaxWidth != 0 && bp.MaxWidth < bp.MinWidth) {
		message := fmt.Sprintf("breakpoint %q has an invalid range [%d, %d]", bp.Name, bp.MinWidth, bp.MaxWidth)
		return stylecasterrors.NewValidationError("range", message, nil)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.breakpoints[bp.Name]; !exists {
		m.order = append(m.order, bp.Name)
	}
	m.breakpoints[bp.Name] = bp
	return nil
}

// Breakpoint returns the definition registered under name.
func (m *ResponsiveManager) Breakpoint(name string) (Breakpoint, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	bp, ok := m.breakpoints[name]
	return bp, ok
}

// Breakpoints returns all definitions in registration order.
func (m *ResponsiveManager) Breakpoints() []Breakpoint {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Breakpoint, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.breakpoints[name])
	}
	return out
}

// ValidateSettings checks breakpoint settings and reports every problem
// found. Unknown breakpoint names are warnings: their blocks are still
// emitted using the setting's own width.
func (m *ResponsiveManager) ValidateSettings(settings Settings) ValidationResult {
	var result ValidationResult

	for _, name := range sortedSettingNames(settings) {
		s := settings[name]
		if s == nil {
			continue
		}
		if s.GridColumns <= 0 {
			result.Errors = append(result.Errors,
				fmt.Sprintf("%s: grid columns must be positive, got %d", name, s.GridColumns))
		}
		if s.FontScale <= 0 {
			result.Errors = append(result.Errors,
				fmt.Sprintf("%s: font scale must be positive, got %g", name, s.FontScale))
		}
		if s.GridGap == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: grid gap is empty", name))
		}
		if _, known := m.Breakpoint(name); !known {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s: no breakpoint definition, using setting width", name))
		}
	}

	return result
}

func sortedSettingNames(settings Settings) []string {
	names := make([]string, 0, len(settings))
	for name := range settings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GenerateResponsiveCSS emits one @media block per non-nil setting. The
// optional theme contributes nothing today beyond future-proofing the
// signature; overrides come entirely from the settings.
func (m *ResponsiveManager) GenerateResponsiveCSS(settings Settings, t *theme.Theme) (string, error) {
	if result := m.ValidateSettings(settings); !result.Valid() {
		return "", stylecasterrors.NewValidationError("settings", result.Errors[0], nil)
	}

	b := NewBuilder()
	for _, name := range m.emissionOrder(settings) {
		s := settings[name]
		if s == nil {
			continue
		}
		m.writeBreakpointBlock(b, name, s)
	}
	return b.String(), nil
}

// emissionOrder lists setting names with registered breakpoints first, in
// registration order, then unknown names sorted for determinism.
func (m *ResponsiveManager) emissionOrder(settings Settings) []string {
	m.mu.RLock()
	known := make([]string, 0, len(m.order))
	for _, name := range m.order {
		if _, ok := settings[name]; ok {
			known = append(known, name)
		}
	}
	m.mu.RUnlock()

	seen := make(map[string]struct{}, len(known))
	for _, name := range known {
		seen[name] = struct{}{}
	}
	var unknown []string
	for name := range settings {
		if _, ok := seen[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	return append(known, unknown...)
}

func (m *ResponsiveManager) writeBreakpointBlock(b *Builder, name string, s *Setting) {
	condition := mediaCondition(s.MaxWidth, func() int {
		if bp, ok := m.Breakpoint(name); ok {
			return bp.MinWidth
		}
		return 0
	})

	b.Media(condition, func(mb *Builder) {
		mb.Rule(":root", func(rb *Builder) {
			rb.CustomProp("responsive-columns", strconv.Itoa(s.GridColumns))
			rb.CustomProp("responsive-gap", s.GridGap)
			rb.CustomProp("responsive-font-scale", formatFloat(s.FontScale))
		})
		mb.Rule(".grid", func(rb *Builder) {
			rb.Decl("grid-template-columns", "repeat(var(--responsive-columns), 1fr)")
			rb.Decl("gap", "var(--responsive-gap)")
		})
		mb.Rule("body", func(rb *Builder) {
			rb.Decl("font-size", "calc(var(--base-font-size) * var(--responsive-font-scale))")
		})
		mb.Rule(fmt.Sprintf(".hidden-%s", name), func(rb *Builder) {
			rb.Decl("display", "none")
		})
	})
}

// mediaCondition prefers a max-width bound; an unbounded setting falls back
// to the breakpoint's min-width.
func mediaCondition(maxWidth int, minWidth func() int) string {
	if maxWidth > 0 {
		return fmt.Sprintf("(max-width: %dpx)", maxWidth)
	}
	return fmt.Sprintf("(min-width: %dpx)", minWidth())
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
