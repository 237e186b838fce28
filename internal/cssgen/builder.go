// Package cssgen turns a validated theme and a set of generation options
// into a CSS document. The Builder emits structured text, the responsive
// Manager scopes rules to breakpoints, and the Engine orchestrates both.
package cssgen

import (
	"fmt"
	"strings"
)

const indentUnit = "  "

// Builder is an incremental, indentation-aware CSS text builder. It keeps no
// selector state beyond the current nesting depth, so the caller decides the
// document structure.
type Builder struct {
	sb    strings.Builder
	depth int
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) writeIndent() {
	for i := 0; i < b.depth; i++ {
		b.sb.WriteString(indentUnit)
	}
}

// Rule opens a block for selector, runs body to fill its declarations, and
// closes the block.
func (b *Builder) Rule(selector string, body func(*Builder)) *Builder {
	b.writeIndent()
	b.sb.WriteString(selector)
	b.sb.WriteString(" {\n")
	b.depth++
	if body != nil {
		body(b)
	}
	b.depth--
	b.writeIndent()
	b.sb.WriteString("}\n")
	return b
}

// Media opens an @media block for the given condition.
func (b *Builder) Media(condition string, body func(*Builder)) *Builder {
	return b.Rule("@media "+condition, body)
}

// Keyframes opens an @keyframes block for the given animation name.
func (b *Builder) Keyframes(name string, body func(*Builder)) *Builder {
	return b.Rule("@keyframes "+name, body)
}

// Decl writes a single "property: value;" declaration at the current depth.
func (b *Builder) Decl(property, value string) *Builder {
	b.writeIndent()
	b.sb.WriteString(property)
	b.sb.WriteString(": ")
	b.sb.WriteString(value)
	b.sb.WriteString(";\n")
	return b
}

// CustomProp writes a custom-property declaration. The leading "--" is added
// here so callers work with bare names.
func (b *Builder) CustomProp(name, value string) *Builder {
	return b.Decl("--"+name, value)
}

// Comment writes a block comment on its own line.
func (b *Builder) Comment(text string) *Builder {
	b.writeIndent()
	fmt.Fprintf(&b.sb, "/* %s */\n", text)
	return b
}

// BlankLine separates sections.
func (b *Builder) BlankLine() *Builder {
	b.sb.WriteString("\n")
	return b
}

// Raw appends pre-formatted CSS verbatim.
func (b *Builder) Raw(css string) *Builder {
	b.sb.WriteString(css)
	return b
}

// Len reports the number of bytes accumulated so far.
func (b *Builder) Len() int {
	return b.sb.Len()
}

// String returns the accumulated CSS.
func (b *Builder) String() string {
	return b.sb.String()
}
