package errors

import (
	"fmt"
)

// ValidationError captures theme or settings validation issues.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// GenerationError represents a failure while building CSS for a theme.
type GenerationError struct {
	ThemeID string
	Err     error
}

// NewGenerationError constructs a GenerationError carrying the theme id.
func NewGenerationError(themeID string, err error) error {
	return &GenerationError{ThemeID: themeID, Err: err}
}

func (e *GenerationError) Error() string {
	if e == nil {
		return ""
	}
	if e.ThemeID != "" {
		return fmt.Sprintf("generation error for theme %s: %v", e.ThemeID, e.Err)
	}
	return fmt.Sprintf("generation error: %v", e.Err)
}

// Unwrap exposes the root error.
func (e *GenerationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// CacheError indicates a cache tier failure. Callers treat it as a miss;
// it never blocks generation.
type CacheError struct {
	Key string
	Err error
}

// NewCacheError constructs a CacheError for the given cache key.
func NewCacheError(key string, err error) error {
	return &CacheError{Key: key, Err: err}
}

func (e *CacheError) Error() string {
	if e == nil {
		return ""
	}
	if e.Key != "" {
		return fmt.Sprintf("cache error for key %s: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("cache error: %v", e.Err)
}

// Unwrap exposes the underlying error.
func (e *CacheError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// InjectionError indicates a failure while registering or sanitizing a
// style fragment.
type InjectionError struct {
	StyleID string
	Message string
	Err     error
}

// NewInjectionError constructs an InjectionError for the given style id.
func NewInjectionError(styleID, message string, err error) error {
	if message == "" && err != nil {
		message = err.Error()
	}
	return &InjectionError{StyleID: styleID, Message: message, Err: err}
}

func (e *InjectionError) Error() string {
	if e == nil {
		return ""
	}
	if e.StyleID != "" {
		return fmt.Sprintf("injection error for style %s: %s", e.StyleID, e.Message)
	}
	return fmt.Sprintf("injection error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *InjectionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ParseError represents a YAML parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
