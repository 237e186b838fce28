package cssgen

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/stylecast/stylecast/internal/config"
	"github.com/stylecast/stylecast/internal/logger"
	"github.com/stylecast/stylecast/internal/theme"
	stylecasterrors "github.com/stylecast/stylecast/pkg/errors"
)

// Optimizer post-processes generated CSS. The minify flag requests compact
// output in addition to the optimizer's canonicalization passes.
type Optimizer interface {
	Optimize(css string, minify bool) (string, error)
}

// Engine builds complete CSS documents from themes. Output is deterministic:
// identical (theme id, theme version, options, config) inputs produce
// byte-identical CSS, which downstream caching relies on.
type Engine struct {
	responsive *ResponsiveManager
	optimizer  Optimizer
	log        *logger.Logger
}

// NewEngine wires an Engine. The optimizer may be nil, in which case the
// optimize/minify options are ignored.
func NewEngine(responsive *ResponsiveManager, opt Optimizer, log *logger.Logger) *Engine {
	if responsive == nil {
		responsive = NewResponsiveManager()
	}
	return &Engine{responsive: responsive, optimizer: opt, log: log.WithComponent("cssgen")}
}

// Responsive exposes the breakpoint manager so callers can register
// additional breakpoints before generating.
func (e *Engine) Responsive() *ResponsiveManager {
	return e.responsive
}

// GenerateThemeCSS renders the document for a theme. A nil theme is a caller
// contract violation; any internal failure is wrapped with the theme id and
// returned, never silently swallowed.
func (e *Engine) GenerateThemeCSS(t *theme.Theme, cfg *config.Config, opts Options) (string, error) {
	if t == nil {
		return "", stylecasterrors.NewValidationError("theme", "theme is nil", nil)
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	b := NewBuilder()
	b.Comment(fmt.Sprintf("theme %s", t.Fingerprint()))

	if opts.IncludeVariables {
		e.writeVariables(b, t)
	}
	if opts.IncludeBase {
		b.BlankLine()
		e.writeBase(b)
	}
	if opts.IncludeComponents {
		b.BlankLine()
		e.writeComponents(b)
	}
	if opts.IncludeResponsive {
		responsiveCSS, err := e.responsive.GenerateResponsiveCSS(e.responsiveSettings(t, cfg), t)
		if err != nil {
			return "", stylecasterrors.NewGenerationError(t.ID, err)
		}
		b.BlankLine()
		b.Raw(responsiveCSS)
	}
	if opts.IncludeAnimations && cfg.Animation.Enabled {
		b.BlankLine()
		e.writeAnimations(b, cfg.Animation.Duration)
	}

	css := b.String()

	if (opts.Optimize || opts.Minify) && e.optimizer != nil {
		optimized, err := e.optimizer.Optimize(css, opts.Minify)
		if err != nil {
			return "", stylecasterrors.NewGenerationError(t.ID, err)
		}
		css = optimized
	}

	e.log.WithFields(map[string]any{"theme_id": t.ID, "bytes": len(css)}).Debug("generated theme css")
	return css, nil
}

type namedColor struct {
	name  string
	value string
}

// themeColors lists the palette in a fixed emission order.
func themeColors(c theme.Colors) []namedColor {
	return []namedColor{
		{"primary-color", c.Primary},
		{"secondary-color", c.Secondary},
		{"accent-color", c.Accent},
		{"background-color", c.Background},
		{"surface-color", c.Surface},
		{"text-color", c.Text},
		{"text-muted-color", c.TextMuted},
		{"border-color", c.Border},
		{"success-color", c.Success},
		{"warning-color", c.Warning},
		{"error-color", c.Error},
	}
}

func (e *Engine) writeVariables(b *Builder, t *theme.Theme) {
	b.Rule(":root", func(r *Builder) {
		colors := themeColors(t.Colors)
		for _, c := range colors {
			if c.value != "" {
				r.CustomProp(c.name, c.value)
			}
		}
		// RGB channel decompositions allow rgba(var(--primary-color-rgb), 0.5).
		for _, c := range colors {
			if red, green, blue, ok := parseHexColor(c.value); ok {
				r.CustomProp(c.name+"-rgb", rgbChannels(red, green, blue))
			}
		}

		r.CustomProp("font-family", t.Typography.FontFamily)
		if t.Typography.HeadingFontFamily != "" {
			r.CustomProp("heading-font-family", t.Typography.HeadingFontFamily)
		}
		if t.Typography.MonospaceFont != "" {
			r.CustomProp("monospace-font", t.Typography.MonospaceFont)
		}
		r.CustomProp("base-font-size", t.Typography.BaseFontSize)
		r.CustomProp("line-height", formatFloat(t.Typography.LineHeight))
		if t.Typography.HeadingWeight > 0 {
			r.CustomProp("heading-weight", strconv.Itoa(t.Typography.HeadingWeight))
		}
		if t.Typography.BodyWeight > 0 {
			r.CustomProp("body-weight", strconv.Itoa(t.Typography.BodyWeight))
		}

		if t.Layout.MaxWidth != "" {
			r.CustomProp("max-width", t.Layout.MaxWidth)
		}
		r.CustomProp("spacing", t.Layout.Spacing)
		if t.Layout.BorderRadius != "" {
			r.CustomProp("border-radius", t.Layout.BorderRadius)
		}
		if t.Layout.GridGap != "" {
			r.CustomProp("grid-gap", t.Layout.GridGap)
		}
		if t.Layout.GridColumns > 0 {
			r.CustomProp("grid-columns", strconv.Itoa(t.Layout.GridColumns))
		}
		if t.Layout.Shadow != "" {
			r.CustomProp("shadow", t.Layout.Shadow)
		}

		// Caller-supplied custom properties, sorted for determinism.
		names := make([]string, 0, len(t.CustomProperties))
		for name := range t.CustomProperties {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			r.CustomProp(name, t.CustomProperties[name])
		}
	})
}

func (e *Engine) writeBase(b *Builder) {
	b.Rule("*, *::before, *::after", func(r *Builder) {
		r.Decl("box-sizing", "border-box")
	})
	b.Rule("body", func(r *Builder) {
		r.Decl("margin", "0")
		r.Decl("background-color", "var(--background-color)")
		r.Decl("color", "var(--text-color)")
		r.Decl("font-family", "var(--font-family)")
		r.Decl("font-size", "var(--base-font-size)")
		r.Decl("font-weight", "var(--body-weight, 400)")
		r.Decl("line-height", "var(--line-height)")
	})
	b.Rule("h1, h2, h3, h4, h5, h6", func(r *Builder) {
		r.Decl("font-family", "var(--heading-font-family, var(--font-family))")
		r.Decl("font-weight", "var(--heading-weight, 700)")
		r.Decl("margin", "0 0 var(--spacing)")
	})
	b.Rule("p", func(r *Builder) {
		r.Decl("margin", "0 0 var(--spacing)")
	})
	b.Rule("a", func(r *Builder) {
		r.Decl("color", "var(--primary-color)")
		r.Decl("text-decoration", "none")
	})
	b.Rule("a:hover", func(r *Builder) {
		r.Decl("color", "var(--secondary-color, var(--primary-color))")
		r.Decl("text-decoration", "underline")
	})
	b.Rule("code, pre", func(r *Builder) {
		r.Decl("font-family", "var(--monospace-font, monospace)")
		r.Decl("background-color", "var(--surface-color, transparent)")
	})
}

func (e *Engine) writeComponents(b *Builder) {
	b.Rule(".container", func(r *Builder) {
		r.Decl("max-width", "var(--max-width, 1200px)")
		r.Decl("margin", "0 auto")
		r.Decl("padding", "0 var(--spacing)")
	})
	b.Rule(".card", func(r *Builder) {
		r.Decl("background-color", "var(--surface-color, var(--background-color))")
		r.Decl("border", "1px solid var(--border-color, transparent)")
		r.Decl("border-radius", "var(--border-radius, 0)")
		r.Decl("box-shadow", "var(--shadow, none)")
		r.Decl("padding", "var(--spacing)")
	})
	b.Rule(".btn", func(r *Builder) {
		r.Decl("display", "inline-block")
		r.Decl("border", "none")
		r.Decl("border-radius", "var(--border-radius, 0)")
		r.Decl("padding", "calc(var(--spacing) / 2) var(--spacing)")
		r.Decl("font-family", "var(--font-family)")
		r.Decl("cursor", "pointer")
	})
	b.Rule(".btn-primary", func(r *Builder) {
		r.Decl("background-color", "var(--primary-color)")
		r.Decl("color", "var(--background-color)")
	})
	b.Rule(".btn-secondary", func(r *Builder) {
		r.Decl("background-color", "var(--secondary-color, var(--primary-color))")
		r.Decl("color", "var(--background-color)")
	})
	b.Rule(".btn-accent", func(r *Builder) {
		r.Decl("background-color", "var(--accent-color, var(--primary-color))")
		r.Decl("color", "var(--background-color)")
	})
}

func (e *Engine) writeAnimations(b *Builder, duration string) {
	if duration == "" {
		duration = "0.3s"
	}
	b.Rule(":root", func(r *Builder) {
		r.CustomProp("animation-duration", duration)
	})
	b.Keyframes("fade-in", func(k *Builder) {
		k.Rule("from", func(f *Builder) { f.Decl("opacity", "0") })
		k.Rule("to", func(f *Builder) { f.Decl("opacity", "1") })
	})
	b.Keyframes("slide-up", func(k *Builder) {
		k.Rule("from", func(f *Builder) {
			f.Decl("opacity", "0")
			f.Decl("transform", "translateY(8px)")
		})
		k.Rule("to", func(f *Builder) {
			f.Decl("opacity", "1")
			f.Decl("transform", "translateY(0)")
		})
	})
	b.Rule(".animate-fade-in", func(r *Builder) {
		r.Decl("animation", "fade-in var(--animation-duration) ease-in")
	})
	b.Rule(".animate-slide-up", func(r *Builder) {
		r.Decl("animation", "slide-up var(--animation-duration) ease-out")
	})
}

// responsiveSettings derives per-breakpoint overrides from the configured
// breakpoint widths and the theme's grid layout.
func (e *Engine) responsiveSettings(t *theme.Theme, cfg *config.Config) Settings {
	columns := t.Layout.GridColumns
	if columns <= 0 {
		columns = 12
	}
	gap := t.Layout.GridGap
	if gap == "" {
		gap = t.Layout.Spacing
	}

	settings := make(Settings, len(cfg.Responsive.Breakpoints))
	for name, width := range cfg.Responsive.Breakpoints {
		settings[name] = &Setting{
			MaxWidth:    width,
			GridColumns: columnsForBreakpoint(name, columns),
			GridGap:     gap,
			FontScale:   fontScaleForBreakpoint(name),
		}
	}
	return settings
}

func columnsForBreakpoint(name string, full int) int {
	switch name {
	case "mobile":
		return maxInt(1, full/6)
	case "tablet":
		return maxInt(1, full/2)
	default:
		return full
	}
}

func fontScaleForBreakpoint(name string) float64 {
	switch name {
	case "mobile":
		return 0.9
	case "tablet":
		return 0.95
	default:
		return 1
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
