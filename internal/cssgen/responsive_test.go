package cssgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponsiveManagerDefaults(t *testing.T) {
	m := NewResponsiveManager()
	bps := m.Breakpoints()
	require.Len(t, bps, 3)

	assert.Equal(t, Breakpoint{Name: "mobile", MinWidth: 0, MaxWidth: 767}, bps[0])
	assert.Equal(t, Breakpoint{Name: "tablet", MinWidth: 768, MaxWidth: 1199}, bps[1])
	assert.Equal(t, Breakpoint{Name: "desktop", MinWidth: 1200, MaxWidth: 0}, bps[2])
}

func TestAddBreakpoint(t *testing.T) {
	m := NewResponsiveManager()
	require.NoError(t, m.AddBreakpoint(Breakpoint{Name: "wide", MinWidth: 1600, MaxWidth: 0}))

	bp, ok := m.Breakpoint("wide")
	require.True(t, ok)
	assert.Equal(t, 1600, bp.MinWidth)

	// Redefining keeps the position, replaces the range.
	require.NoError(t, m.AddBreakpoint(Breakpoint{Name: "wide", MinWidth: 1920, MaxWidth: 0}))
	bps := m.Breakpoints()
	assert.Equal(t, "wide", bps[3].Name)
	assert.Equal(t, 1920, bps[3].MinWidth)

	assert.Error(t, m.AddBreakpoint(Breakpoint{Name: "", MinWidth: 0, MaxWidth: 100}))
	assert.Error(t, m.AddBreakpoint(Breakpoint{Name: "bad", MinWidth: 500, MaxWidth: 100}))
}

func TestValidateSettings(t *testing.T) {
	m := NewResponsiveManager()

	result := m.ValidateSettings(Settings{
		"mobile": {MaxWidth: 767, GridColumns: 0, GridGap: "", FontScale: -1},
	})
	assert.False(t, result.Valid())
	require.Len(t, result.Errors, 3)

	result = m.ValidateSettings(Settings{
		"watch": {MaxWidth: 320, GridColumns: 1, GridGap: "0.25rem", FontScale: 0.8},
	})
	assert.True(t, result.Valid())
	assert.Len(t, result.Warnings, 1)
}

func TestGenerateResponsiveCSSScenario(t *testing.T) {
	m := NewResponsiveManager()
	css, err := m.GenerateResponsiveCSS(Settings{
		"mobile": {MaxWidth: 767, GridColumns: 2, GridGap: "0.5rem", FontScale: 0.9},
	}, nil)
	require.NoError(t, err)

	assert.Contains(t, css, "@media (max-width: 767px) {")
	assert.Contains(t, css, "--responsive-columns: 2;")
	assert.Contains(t, css, "--responsive-gap: 0.5rem;")
	assert.Contains(t, css, "--responsive-font-scale: 0.9;")
	assert.Contains(t, css, ".hidden-mobile {")
}

func TestGenerateResponsiveCSSUnboundedUsesMinWidth(t *testing.T) {
	m := NewResponsiveManager()
	css, err := m.GenerateResponsiveCSS(Settings{
		"desktop": {MaxWidth: 0, GridColumns: 12, GridGap: "1rem", FontScale: 1},
	}, nil)
	require.NoError(t, err)

	assert.Contains(t, css, "@media (min-width: 1200px) {")
}

func TestGenerateResponsiveCSSSkipsNilSettings(t *testing.T) {
	m := NewResponsiveManager()
	css, err := m.GenerateResponsiveCSS(Settings{
		"mobile": nil,
		"tablet": {MaxWidth: 1199, GridColumns: 6, GridGap: "1rem", FontScale: 0.95},
	}, nil)
	require.NoError(t, err)

	assert.NotContains(t, css, "max-width: 767px")
	assert.Equal(t, 1, strings.Count(css, "@media "))
}

func TestGenerateResponsiveCSSRejectsInvalid(t *testing.T) {
	m := NewResponsiveManager()
	_, err := m.GenerateResponsiveCSS(Settings{
		"mobile": {MaxWidth: 767, GridColumns: -2, GridGap: "1rem", FontScale: 1},
	}, nil)
	assert.Error(t, err)
}

func TestGenerateResponsiveCSSOrderIsStable(t *testing.T) {
	m := NewResponsiveManager()
	settings := Settings{
		"desktop":  {MaxWidth: 0, GridColumns: 12, GridGap: "1rem", FontScale: 1},
		"mobile":   {MaxWidth: 767, GridColumns: 2, GridGap: "1rem", FontScale: 0.9},
		"zz-kiosk": {MaxWidth: 3840, GridColumns: 16, GridGap: "2rem", FontScale: 1.2},
	}

	first, err := m.GenerateResponsiveCSS(settings, nil)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := m.GenerateResponsiveCSS(settings, nil)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	// Registered breakpoints come first in registration order.
	mobileIdx := strings.Index(first, "max-width: 767px")
	desktopIdx := strings.Index(first, "min-width: 1200px")
	kioskIdx := strings.Index(first, "max-width: 3840px")
	assert.Less(t, mobileIdx, desktopIdx)
	assert.Less(t, desktopIdx, kioskIdx)
}
