// Package config defines the runtime configuration consumed by the CSS
// pipeline: which sections to emit, breakpoint widths, and the resource
// bounds of the cache, loader, and injector.
package config

import (
	"time"
)

// Config is the root configuration document.
type Config struct {
	Animation  AnimationConfig  `yaml:"animation"`
	Responsive ResponsiveConfig `yaml:"responsive"`
	Cache      CacheConfig      `yaml:"cache"`
	Loader     LoaderConfig     `yaml:"loader"`
	Injector   InjectorConfig   `yaml:"injector"`
}

// AnimationConfig controls the optional animation/keyframes block.
type AnimationConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Duration string `yaml:"duration" validate:"omitempty,css_duration"`
}

// ResponsiveConfig maps breakpoint names to their max width in pixels.
// A width of zero means the breakpoint is unbounded above (min-width only).
type ResponsiveConfig struct {
	Breakpoints map[string]int `yaml:"breakpoints"`
}

// CacheConfig bounds the two cache tiers.
type CacheConfig struct {
	Directory            string `yaml:"directory"`
	TTLSeconds           int    `yaml:"ttl_seconds" validate:"min=0"`
	MemoryCapacity       int    `yaml:"memory_capacity" validate:"min=0"`
	FileCapacityBytes    int64  `yaml:"file_capacity_bytes" validate:"min=0"`
	SweepIntervalSeconds int    `yaml:"sweep_interval_seconds" validate:"min=0"`
}

// LoaderConfig bounds concurrent generation and the loaded-entry cache.
type LoaderConfig struct {
	MaxConcurrent  int `yaml:"max_concurrent" validate:"min=0"`
	MaxEntries     int `yaml:"max_entries" validate:"min=0"`
	MaxIdleSeconds int `yaml:"max_idle_seconds" validate:"min=0"`
}

// InjectorConfig controls the style registry sweep and the client script.
type InjectorConfig struct {
	MaxAgeSeconds        int `yaml:"max_age_seconds" validate:"min=0"`
	SweepIntervalSeconds int `yaml:"sweep_interval_seconds" validate:"min=0"`
	ClientRefreshSeconds int `yaml:"client_refresh_seconds" validate:"min=0"`
}

// DefaultConfig returns the documented defaults: 1h cache TTL, 100 memory
// entries, 50MB file tier, 30min cache sweeps, 3 generation slots, 50 loader
// entries with a 60min idle window, and a 24h injector age limit.
func DefaultConfig() *Config {
	return &Config{
		Animation: AnimationConfig{
			Enabled:  true,
			Duration: "0.3s",
		},
		Responsive: ResponsiveConfig{
			Breakpoints: map[string]int{
				"mobile":  767,
				"tablet":  1199,
				"desktop": 0,
			},
		},
		Cache: CacheConfig{
			Directory:            "",
			TTLSeconds:           3600,
			MemoryCapacity:       100,
			FileCapacityBytes:    50 * 1024 * 1024,
			SweepIntervalSeconds: 1800,
		},
		Loader: LoaderConfig{
			MaxConcurrent:  3,
			MaxEntries:     50,
			MaxIdleSeconds: 3600,
		},
		Injector: InjectorConfig{
			MaxAgeSeconds:        86400,
			SweepIntervalSeconds: 3600,
			ClientRefreshSeconds: 30,
		},
	}
}

// TTL returns the cache TTL as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// SweepInterval returns the cache sweep interval as a duration.
func (c CacheConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSeconds) * time.Second
}

// MaxIdle returns the loader idle window as a duration.
func (c LoaderConfig) MaxIdle() time.Duration {
	return time.Duration(c.MaxIdleSeconds) * time.Second
}

// MaxAge returns the injector entry age limit as a duration.
func (c InjectorConfig) MaxAge() time.Duration {
	return time.Duration(c.MaxAgeSeconds) * time.Second
}

// SweepInterval returns the injector sweep interval as a duration.
func (c InjectorConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSeconds) * time.Second
}

// ClientRefresh returns the client refresh period as a duration.
func (c InjectorConfig) ClientRefresh() time.Duration {
	return time.Duration(c.ClientRefreshSeconds) * time.Second
}
