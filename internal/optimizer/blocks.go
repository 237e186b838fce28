package optimizer

import (
	"fmt"
	"regexp"
	"strings"
)

// block is one node of the lexed document: a rule with a flat body, an
// at-rule with nested children, or a verbatim fragment (kept comments and
// statement at-rules such as @import).
type block struct {
	selector string
	body     string
	decls    []declaration
	children *blockList
	raw      string
}

type blockList struct {
	items []*block
}

var commentPlaceholder = regexp.MustCompile("\x00C[0-9]+\x00")

// parseBlocks splits masked CSS into a block tree by brace counting. String
// and url() literals were masked beforehand, so every brace seen here is
// structural.
func parseBlocks(css string) (*blockList, error) {
	list := &blockList{}
	rest := css

	for {
		rest = strings.TrimSpace(rest)
		if rest == "" {
			return list, nil
		}

		// Kept comments stand alone between rules.
		if loc := commentPlaceholder.FindStringIndex(rest); loc != nil && loc[0] == 0 {
			list.items = append(list.items, &block{raw: rest[:loc[1]]})
			rest = rest[loc[1]:]
			continue
		}

		open := strings.Index(rest, "{")
		semi := strings.Index(rest, ";")

		// Statement at-rule (@import, @charset) without a block.
		if semi >= 0 && (open < 0 || semi < open) && strings.HasPrefix(rest, "@") {
			list.items = append(list.items, &block{raw: strings.TrimSpace(rest[:semi+1])})
			rest = rest[semi+1:]
			continue
		}

		if open < 0 {
			return nil, fmt.Errorf("stray content outside rule: %q", truncate(rest, 40))
		}

		selector := strings.Join(strings.Fields(rest[:open]), " ")
		if selector == "" {
			return nil, fmt.Errorf("rule with empty selector")
		}

		closeIdx, err := matchBrace(rest, open)
		if err != nil {
			return nil, err
		}
		inner := rest[open+1 : closeIdx]
		rest = rest[closeIdx+1:]

		b := &block{selector: selector}
		if strings.Contains(inner, "{") {
			children, err := parseBlocks(inner)
			if err != nil {
				return nil, err
			}
			b.children = children
		} else {
			b.body = inner
		}
		list.items = append(list.items, b)
	}
}

// matchBrace returns the index of the brace closing the one at open.
func matchBrace(s string, open int) (int, error) {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("unbalanced braces near %q", truncate(s[open:], 40))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// mergeIdenticalSelectors concatenates the declarations of sibling rules
// that share an exact selector, keeping the first rule's position.
func (l *blockList) mergeIdenticalSelectors() {
	first := make(map[string]*block)
	kept := l.items[:0]

	for _, b := range l.items {
		if b.raw != "" || b.children != nil || strings.HasPrefix(b.selector, "@") {
			kept = append(kept, b)
			continue
		}
		if existing, ok := first[b.selector]; ok {
			existing.decls = append(existing.decls, b.decls...)
			continue
		}
		first[b.selector] = b
		kept = append(kept, b)
	}
	l.items = kept
}

// dropEmpty removes rules with no declarations and at-rules whose children
// all got removed.
func (l *blockList) dropEmpty() {
	kept := l.items[:0]
	for _, b := range l.items {
		if b.children != nil {
			b.children.dropEmpty()
			if len(b.children.items) == 0 {
				continue
			}
		} else if b.raw == "" && len(b.decls) == 0 {
			continue
		}
		kept = append(kept, b)
	}
	l.items = kept
}

func renderPretty(blocks *blockList) string {
	var sb strings.Builder
	writePretty(&sb, blocks, 0)
	return sb.String()
}

func writePretty(sb *strings.Builder, blocks *blockList, depth int) {
	indent := strings.Repeat("  ", depth)
	for i, b := range blocks.items {
		if i > 0 {
			sb.WriteString("\n")
		}
		if b.raw != "" {
			sb.WriteString(indent)
			sb.WriteString(b.raw)
			sb.WriteString("\n")
			continue
		}
		sb.WriteString(indent)
		sb.WriteString(b.selector)
		sb.WriteString(" {\n")
		if b.children != nil {
			writePretty(sb, b.children, depth+1)
		} else {
			for _, d := range b.decls {
				sb.WriteString(indent)
				sb.WriteString("  ")
				sb.WriteString(d.String())
				sb.WriteString(";\n")
			}
		}
		sb.WriteString(indent)
		sb.WriteString("}\n")
	}
}

var selectorJoins = regexp.MustCompile(`\s*([,>+~])\s*`)

// renderCompact emits minified text: no indentation, no space around
// structural characters, and no semicolon before a closing brace.
func renderCompact(blocks *blockList) string {
	var sb strings.Builder
	writeCompact(&sb, blocks)
	return sb.String()
}

func writeCompact(sb *strings.Builder, blocks *blockList) {
	for _, b := range blocks.items {
		if b.raw != "" {
			sb.WriteString(b.raw)
			continue
		}
		sb.WriteString(selectorJoins.ReplaceAllString(b.selector, "$1"))
		sb.WriteString("{")
		if b.children != nil {
			writeCompact(sb, b.children)
		} else {
			for i, d := range b.decls {
				if i > 0 {
					sb.WriteString(";")
				}
				if d.raw != "" {
					sb.WriteString(d.raw)
				} else {
					sb.WriteString(d.property)
					sb.WriteString(":")
					sb.WriteString(d.value)
				}
			}
		}
		sb.WriteString("}")
	}
}
