package optimizer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// maskTable records literals removed from the text before the passes run,
// so pattern substitution can never touch string or url() content.
type maskTable struct {
	values []string
}

var placeholderPattern = regexp.MustCompile("\x00[SC]([0-9]+)\x00")

// maskLiterals lexes the input and replaces string/url tokens with opaque
// placeholders. Comments are stripped here as well; /*! ... */ comments are
// kept (as placeholders) when keepImportant is set.
func maskLiterals(input string, keepImportant bool) (string, *maskTable) {
	table := &maskTable{}
	var sb strings.Builder

	lexer := css.NewLexer(parse.NewInputString(input))
	for {
		tt, data := lexer.Next()
		if tt == css.ErrorToken {
			break
		}
		switch tt {
		case css.StringToken, css.URLToken, css.BadStringToken, css.BadURLToken:
			sb.WriteString(table.add(string(data), 'S'))
		case css.CommentToken:
			text := string(data)
			if keepImportant && strings.HasPrefix(text, "/*!") {
				sb.WriteString(table.add(text, 'C'))
			} else {
				// A comment still separates tokens.
				sb.WriteString(" ")
			}
		default:
			sb.Write(data)
		}
	}

	return sb.String(), table
}

func (t *maskTable) add(value string, kind byte) string {
	t.values = append(t.values, value)
	return fmt.Sprintf("\x00%c%d\x00", kind, len(t.values)-1)
}

// restore substitutes the original literals back into the rendered output.
func (t *maskTable) restore(s string) string {
	if len(t.values) == 0 {
		return s
	}
	return placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
		idx, err := strconv.Atoi(match[2 : len(match)-1])
		if err != nil || idx >= len(t.values) {
			return match
		}
		return t.values[idx]
	})
}
