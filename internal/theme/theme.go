// Package theme defines the declarative theme model consumed by the CSS
// generation pipeline, along with validation and an in-memory theme registry.
package theme

import (
	"fmt"
)

// Theme is a named, versioned bundle of color/typography/layout parameters.
// Themes are immutable once validated; downstream caching identifies a theme
// by (ID, Version).
type Theme struct {
	ID         string     `yaml:"id" validate:"required,theme_id"`
	Name       string     `yaml:"name" validate:"required"`
	Version    string     `yaml:"version" validate:"required,semver"`
	Colors     Colors     `yaml:"colors"`
	Typography Typography `yaml:"typography"`
	Layout     Layout     `yaml:"layout"`

	// CustomProperties are emitted verbatim as additional CSS custom
	// properties on :root. Keys are written without the leading "--".
	CustomProperties map[string]string `yaml:"custom_properties,omitempty"`
}

// Colors holds the theme color palette. All values are CSS color literals.
type Colors struct {
	Primary    string `yaml:"primary" validate:"required,css_color"`
	Secondary  string `yaml:"secondary" validate:"omitempty,css_color"`
	Accent     string `yaml:"accent" validate:"omitempty,css_color"`
	Background string `yaml:"background" validate:"required,css_color"`
	Surface    string `yaml:"surface" validate:"omitempty,css_color"`
	Text       string `yaml:"text" validate:"required,css_color"`
	TextMuted  string `yaml:"text_muted" validate:"omitempty,css_color"`
	Border     string `yaml:"border" validate:"omitempty,css_color"`
	Success    string `yaml:"success" validate:"omitempty,css_color"`
	Warning    string `yaml:"warning" validate:"omitempty,css_color"`
	Error      string `yaml:"error" validate:"omitempty,css_color"`
}

// Typography holds font settings.
type Typography struct {
	FontFamily        string  `yaml:"font_family" validate:"required"`
	HeadingFontFamily string  `yaml:"heading_font_family"`
	MonospaceFont     string  `yaml:"monospace_font"`
	BaseFontSize      string  `yaml:"base_font_size" validate:"required,css_length"`
	LineHeight        float64 `yaml:"line_height" validate:"gt=0"`
	HeadingWeight     int     `yaml:"heading_weight" validate:"omitempty,min=100,max=900"`
	BodyWeight        int     `yaml:"body_weight" validate:"omitempty,min=100,max=900"`
}

// Layout holds spacing and sizing tokens.
type Layout struct {
	MaxWidth     string `yaml:"max_width" validate:"omitempty,css_length"`
	Spacing      string `yaml:"spacing" validate:"required,css_length"`
	BorderRadius string `yaml:"border_radius" validate:"omitempty,css_length"`
	GridGap      string `yaml:"grid_gap" validate:"omitempty,css_length"`
	GridColumns  int    `yaml:"grid_columns" validate:"omitempty,min=1"`
	Shadow       string `yaml:"shadow"`
}

// Fingerprint returns the cache identity of the theme.
func (t *Theme) Fingerprint() string {
	return fmt.Sprintf("%s@%s", t.ID, t.Version)
}

// Default returns the built-in theme used when no theme has been registered.
func Default() *Theme {
	return &Theme{
		ID:      "default",
		Name:    "Default",
		Version: "1.0.0",
		Colors: Colors{
			Primary:    "#3366cc",
			Secondary:  "#5588dd",
			Accent:     "#ff6633",
			Background: "#ffffff",
			Surface:    "#f5f6f8",
			Text:       "#1a1a2e",
			TextMuted:  "#6c7280",
			Border:     "#d9dce1",
			Success:    "#2e8540",
			Warning:    "#e6a700",
			Error:      "#cc3333",
		},
		Typography: Typography{
			FontFamily:        `system-ui, -apple-system, "Segoe UI", sans-serif`,
			HeadingFontFamily: `system-ui, -apple-system, "Segoe UI", sans-serif`,
			MonospaceFont:     `"SF Mono", Consolas, monospace`,
			BaseFontSize:      "16px",
			LineHeight:        1.6,
			HeadingWeight:     700,
			BodyWeight:        400,
		},
		Layout: Layout{
			MaxWidth:     "1200px",
			Spacing:      "1rem",
			BorderRadius: "6px",
			GridGap:      "1rem",
			GridColumns:  12,
			Shadow:       "0 1px 3px rgba(0, 0, 0, 0.12)",
		},
	}
}
