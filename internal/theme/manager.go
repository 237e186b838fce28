package theme

import (
	"fmt"
	"sort"
	"sync"

	stylecasterrors "github.com/stylecast/stylecast/pkg/errors"
)

// Manager is an in-memory theme registry. It always holds at least the
// built-in default theme, so GetActiveTheme never returns nil.
type Manager struct {
	mu     sync.RWMutex
	themes map[string]*Theme
	active string
}

// NewManager creates a Manager seeded with the built-in default theme.
func NewManager() *Manager {
	def := Default()
	return &Manager{
		themes: map[string]*Theme{def.ID: def},
		active: def.ID,
	}
}

// Register validates and adds a theme. Re-registering an existing id
// replaces the stored theme.
func (m *Manager) Register(t *Theme) error {
	if err := Validate(t); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.themes[t.ID] = t
	return nil
}

// SetActiveTheme switches the active theme to the given id.
func (m *Manager) SetActiveTheme(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.themes[id]; !ok {
		return stylecasterrors.NewValidationError("id", fmt.Sprintf("unknown theme %q", id), nil)
	}
	m.active = id
	return nil
}

// GetThemeByID returns the theme registered under id, or an error when no
// such theme exists.
func (m *Manager) GetThemeByID(id string) (*Theme, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.themes[id]
	if !ok {
		return nil, stylecasterrors.NewValidationError("id", fmt.Sprintf("unknown theme %q", id), nil)
	}
	return t, nil
}

// GetActiveTheme returns the currently active theme.
func (m *Manager) GetActiveTheme() *Theme {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.themes[m.active]
}

// GetAvailableThemes returns all registered themes sorted by id.
func (m *Manager) GetAvailableThemes() []*Theme {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Theme, 0, len(m.themes))
	for _, t := range m.themes {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
