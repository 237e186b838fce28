// Package ports declares the collaborator interfaces the styling pipeline
// consumes. Implementations live elsewhere (or outside this module entirely);
// the pipeline only depends on these contracts.
package ports

import (
	"github.com/stylecast/stylecast/internal/config"
	"github.com/stylecast/stylecast/internal/theme"
)

// ThemeManager supplies already-validated themes.
type ThemeManager interface {
	// GetThemeByID returns the theme registered under id, or an error when
	// no such theme exists.
	GetThemeByID(id string) (*theme.Theme, error)

	// GetActiveTheme returns the currently active theme. It never returns nil.
	GetActiveTheme() *theme.Theme

	// GetAvailableThemes lists every registered theme.
	GetAvailableThemes() []*theme.Theme
}

// ConfigurationManager supplies the runtime configuration. The result feeds
// both section selection during generation and the cache-key fingerprint.
type ConfigurationManager interface {
	LoadConfiguration() (*config.Config, error)
}
