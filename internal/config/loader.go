package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	stylecasterrors "github.com/stylecast/stylecast/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	cssDurationPattern = regexp.MustCompile(`^(?:\d+|\d*\.\d+)(?:s|ms)$`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("css_duration", func(fl validator.FieldLevel) bool {
			return cssDurationPattern.MatchString(strings.TrimSpace(fl.Field().String()))
		})
		validateInst = v
	})
	return validateInst
}

// FileLoader loads configuration from a YAML file. A missing file yields the
// defaults, so deployments without a config file still work.
type FileLoader struct {
	Path string
}

// LoadConfiguration reads, defaults, and validates the configuration.
func (l *FileLoader) LoadConfiguration() (*Config, error) {
	cfg := DefaultConfig()

	if l == nil || l.Path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(l.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, stylecasterrors.NewParseError(l.Path, 0, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, stylecasterrors.NewParseError(l.Path, 0, err)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ValidateConfig checks configuration bounds and formats.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return stylecasterrors.NewValidationError("config", "config is nil", nil)
	}

	if err := validatorInstance().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			first := verrs[0]
			field := strings.TrimPrefix(first.Namespace(), "Config.")
			message := fmt.Sprintf("failed %q constraint", first.Tag())
			return stylecasterrors.NewValidationError(field, message, err)
		}
		return stylecasterrors.NewValidationError("config", err.Error(), err)
	}

	for name, width := range cfg.Responsive.Breakpoints {
		if width < 0 {
			message := fmt.Sprintf("breakpoint %q has negative max width", name)
			return stylecasterrors.NewValidationError("responsive.breakpoints", message, nil)
		}
	}

	return nil
}
