package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationErrorFormatting(t *testing.T) {
	err := NewValidationError("colors.primary", "must be a hex color", nil)
	assert.Equal(t, "validation error: colors.primary: must be a hex color", err.Error())

	err = NewValidationError("", "theme is nil", nil)
	assert.Equal(t, "validation error: theme is nil", err.Error())
}

func TestGenerationErrorWrapsCause(t *testing.T) {
	cause := fmt.Errorf("builder overflow")
	err := NewGenerationError("dark-theme", cause)

	assert.Contains(t, err.Error(), "dark-theme")
	assert.True(t, errors.Is(err, cause))

	var genErr *GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, "dark-theme", genErr.ThemeID)
}

func TestCacheErrorCarriesKey(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := NewCacheError("abc123", cause)

	assert.Contains(t, err.Error(), "abc123")
	assert.True(t, errors.Is(err, cause))
}

func TestInjectionErrorFormatting(t *testing.T) {
	err := NewInjectionError("global_theme", "", fmt.Errorf("empty content"))
	assert.Contains(t, err.Error(), "global_theme")
	assert.Contains(t, err.Error(), "empty content")
}

func TestParseErrorWithLine(t *testing.T) {
	err := NewParseError("theme.yaml", 12, fmt.Errorf("bad indent"))
	assert.Equal(t, "parse error: theme.yaml:12: bad indent", err.Error())

	err = NewParseError("theme.yaml", 0, fmt.Errorf("bad indent"))
	assert.Equal(t, "parse error: theme.yaml: bad indent", err.Error())
}
