package stylecache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/stylecast/stylecast/internal/config"
	"github.com/stylecast/stylecast/internal/theme"
)

// GenerateCacheKey builds the hex SHA-256 fingerprint for a theme under a
// given configuration. The canonical string covers exactly the inputs that
// affect generated output: theme identity, the animation settings, every
// breakpoint's max width (sorted by name), and any extra discriminators the
// caller appends (typically the generation-options hash).
func GenerateCacheKey(t *theme.Theme, cfg *config.Config, extra ...string) string {
	var sb strings.Builder

	if t != nil {
		fmt.Fprintf(&sb, "theme=%s;", t.Fingerprint())
	}

	if cfg != nil {
		fmt.Fprintf(&sb, "animation=%t:%s;", cfg.Animation.Enabled, cfg.Animation.Duration)

		names := make([]string, 0, len(cfg.Responsive.Breakpoints))
		for name := range cfg.Responsive.Breakpoints {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&sb, "bp:%s=%d;", name, cfg.Responsive.Breakpoints[name])
		}
	}

	for _, e := range extra {
		fmt.Fprintf(&sb, "extra=%s;", e)
	}

	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}
