package theme

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	stylecasterrors "github.com/stylecast/stylecast/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	semverPattern    = regexp.MustCompile(`^\d+\.\d+\.\d+(?:-[0-9A-Za-z-.]+)?(?:\+[0-9A-Za-z-.]+)?$`)
	themeIDPattern   = regexp.MustCompile(`^[a-z0-9_-]+$`)
	hexColorPattern  = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	funcColorPattern = regexp.MustCompile(`^(?:rgb|rgba|hsl|hsla)\([^)]*\)$`)
	namedColor       = regexp.MustCompile(`^[a-zA-Z]+$`)
	cssLengthPattern = regexp.MustCompile(`^-?(?:\d+|\d*\.\d+)(?:px|em|rem|%|vh|vw|vmin|vmax|pt|ch|ex)$|^0$`)
)

// validatorInstance configures and returns the shared validator used across
// the theme package.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("semver", func(fl validator.FieldLevel) bool {
			return semverPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("theme_id", func(fl validator.FieldLevel) bool {
			return themeIDPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("css_color", func(fl validator.FieldLevel) bool {
			value := strings.TrimSpace(fl.Field().String())
			if value == "" {
				return false
			}
			return hexColorPattern.MatchString(value) ||
				funcColorPattern.MatchString(value) ||
				namedColor.MatchString(value)
		})

		_ = v.RegisterValidation("css_length", func(fl validator.FieldLevel) bool {
			return cssLengthPattern.MatchString(strings.TrimSpace(fl.Field().String()))
		})

		validateInst = v
	})
	return validateInst
}

// Validate checks a theme against the model's structural rules. It returns a
// ValidationError naming the first offending field.
func Validate(t *Theme) error {
	if t == nil {
		return stylecasterrors.NewValidationError("theme", "theme is nil", nil)
	}

	if err := validatorInstance().Struct(t); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			first := verrs[0]
			field := strings.TrimPrefix(first.Namespace(), "Theme.")
			message := fmt.Sprintf("failed %q constraint", first.Tag())
			return stylecasterrors.NewValidationError(field, message, err)
		}
		return stylecasterrors.NewValidationError("theme", err.Error(), err)
	}

	return nil
}
