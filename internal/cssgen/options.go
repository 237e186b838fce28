package cssgen

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Options selects which sections of the document are emitted and how the
// result is post-processed. Two Options values with identical flags always
// hash identically; the hash participates in cache keys.
type Options struct {
	Minify            bool
	Optimize          bool
	IncludeVariables  bool
	IncludeBase       bool
	IncludeComponents bool
	IncludeResponsive bool
	IncludeAnimations bool
	UseCache          bool
}

// DefaultOptions enables every section and caching, without minification.
func DefaultOptions() Options {
	return Options{
		IncludeVariables:  true,
		IncludeBase:       true,
		IncludeComponents: true,
		IncludeResponsive: true,
		IncludeAnimations: true,
		UseCache:          true,
	}
}

// Hash returns a deterministic fingerprint of the option flags. The flag
// order is fixed; adding a flag changes every hash, which is intended.
func (o Options) Hash() string {
	canonical := fmt.Sprintf(
		"minify=%t;optimize=%t;variables=%t;base=%t;components=%t;responsive=%t;animations=%t;cache=%t",
		o.Minify, o.Optimize, o.IncludeVariables, o.IncludeBase,
		o.IncludeComponents, o.IncludeResponsive, o.IncludeAnimations, o.UseCache,
	)
	return fmt.Sprintf("%016x", xxhash.Sum64String(canonical))
}
