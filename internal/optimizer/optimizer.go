// Package optimizer applies text-level canonicalization and minification
// passes to generated CSS. Declarations are processed as text, not as a full
// CSS object model, but string and url() tokens are masked through a real
// lexer first so literal content can never be corrupted by the passes.
package optimizer

import (
	"strings"

	"github.com/tdewolff/minify/v2"
	mincss "github.com/tdewolff/minify/v2/css"

	"github.com/stylecast/stylecast/internal/logger"
)

// CSSOptimizer runs the pass pipeline. The zero value is usable; New sets
// the comment policy explicitly.
type CSSOptimizer struct {
	// KeepImportantComments preserves /*! ... */ comments (license banners)
	// when stripping the rest.
	KeepImportantComments bool

	minifier *minify.M
	log      *logger.Logger
}

// New returns a configured optimizer.
func New(keepImportantComments bool, log *logger.Logger) *CSSOptimizer {
	m := minify.New()
	m.AddFunc("text/css", mincss.Minify)
	return &CSSOptimizer{
		KeepImportantComments: keepImportantComments,
		minifier:              m,
		log:                   log.WithComponent("optimizer"),
	}
}

// Optimize canonicalizes css and, when minify is set, compacts it. Passes
// run in a fixed order: comment stripping, color canonicalization, numeric
// trimming, same-selector merging, empty-rule removal, shorthand collapsing,
// and finally whitespace compaction.
func (o *CSSOptimizer) Optimize(css string, minifyOutput bool) (string, error) {
	masked, table := maskLiterals(css, o.KeepImportantComments)

	blocks, err := parseBlocks(masked)
	if err != nil {
		return "", err
	}

	optimizeTree(blocks)

	var rendered string
	if minifyOutput {
		rendered = renderCompact(blocks)
	} else {
		rendered = renderPretty(blocks)
	}

	out := table.restore(rendered)

	if minifyOutput && o.minifier != nil {
		compacted, err := o.minifier.String("text/css", out)
		if err != nil {
			// The hand-rendered compact form is already valid output.
			o.log.Warn("css minifier failed, using fallback output")
			return out, nil
		}
		out = compacted
	}

	return out, nil
}

// optimizeTree applies the declaration passes to every block body, merges
// sibling rules with identical selectors, and prunes empty rules.
func optimizeTree(blocks *blockList) {
	for _, b := range blocks.items {
		if b.body != "" {
			decls := parseDeclarations(b.body)
			decls = canonicalizeDeclarations(decls)
			decls = collapseBoxShorthand(decls, "margin")
			decls = collapseBoxShorthand(decls, "padding")
			decls = collapseBorderShorthand(decls)
			b.decls = decls
		}
		if b.children != nil {
			optimizeTree(b.children)
		}
	}

	blocks.mergeIdenticalSelectors()
	blocks.dropEmpty()
}

// declaration is a single "property: value" pair. Unparseable fragments are
// carried through verbatim in raw.
type declaration struct {
	property string
	value    string
	raw      string
}

func parseDeclarations(body string) []declaration {
	parts := strings.Split(body, ";")
	decls := make([]declaration, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		idx := strings.Index(part, ":")
		if idx <= 0 {
			decls = append(decls, declaration{raw: part})
			continue
		}
		decls = append(decls, declaration{
			property: strings.TrimSpace(part[:idx]),
			value:    strings.Join(strings.Fields(part[idx+1:]), " "),
		})
	}
	return decls
}

func (d declaration) String() string {
	if d.raw != "" {
		return d.raw
	}
	return d.property + ": " + d.value
}

func canonicalizeDeclarations(decls []declaration) []declaration {
	for i := range decls {
		if decls[i].raw != "" {
			continue
		}
		v := decls[i].value
		v = canonicalizeColors(v)
		v = trimNumbers(v)
		decls[i].value = v
	}
	return decls
}
