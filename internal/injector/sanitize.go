package injector

import (
	"regexp"
	"strings"
)

// The sanitizer strips the injection vectors that matter for CSS delivered to
// a browser: script-capable markup, legacy expression() evaluation,
// javascript: URIs, and external resource pulls. Inline data: URIs stay.
var (
	markupTagPattern  = regexp.MustCompile(`(?is)<\s*(script|iframe|object|embed)\b[^>]*>(?:.*?<\s*/\s*(?:script|iframe|object|embed)\s*>)?`)
	markupEndPattern  = regexp.MustCompile(`(?i)<\s*/\s*(script|iframe|object|embed)\s*>`)
	expressionPattern = regexp.MustCompile(`(?i)expression\s*\([^)]*\)`)
	javascriptPattern = regexp.MustCompile(`(?i)javascript\s*:[^;"')\s]*`)
	urlPattern        = regexp.MustCompile(`(?i)url\(\s*(?:'([^']*)'|"([^"]*)"|([^'")]*))\s*\)`)
	importPattern     = regexp.MustCompile(`(?i)@import\b[^;]*;?`)
)

// Sanitize removes unsafe fragments from a CSS string. The result may be
// shorter but is never reordered; safe declarations pass through unchanged.
func Sanitize(css string) string {
	out := markupTagPattern.ReplaceAllString(css, "")
	out = markupEndPattern.ReplaceAllString(out, "")
	out = expressionPattern.ReplaceAllString(out, "")

	out = importPattern.ReplaceAllStringFunc(out, func(match string) string {
		if importTargetIsData(match) {
			return match
		}
		return ""
	})

	out = urlPattern.ReplaceAllStringFunc(out, func(match string) string {
		target := urlTarget(match)
		if strings.HasPrefix(strings.ToLower(target), "data:") {
			return match
		}
		return ""
	})

	out = javascriptPattern.ReplaceAllString(out, "")
	return out
}

// urlTarget extracts the reference inside a url(...) token, unquoted and
// trimmed.
func urlTarget(match string) string {
	groups := urlPattern.FindStringSubmatch(match)
	if groups == nil {
		return ""
	}
	for _, g := range groups[1:] {
		if g != "" {
			return strings.TrimSpace(g)
		}
	}
	return ""
}

func importTargetIsData(stmt string) bool {
	rest := strings.TrimSpace(stmt[len("@import"):])
	rest = strings.TrimPrefix(rest, "url(")
	rest = strings.TrimLeft(rest, ` '"`)
	return strings.HasPrefix(strings.ToLower(rest), "data:")
}
