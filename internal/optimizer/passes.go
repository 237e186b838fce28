package optimizer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// namedColorHex maps CSS color keywords to hex forms that are strictly
// shorter than the keyword.
var namedColorHex = map[string]string{
	"white":   "#fff",
	"black":   "#000",
	"yellow":  "#ff0",
	"magenta": "#f0f",
	"fuchsia": "#f0f",
}

var (
	namedColorPattern = regexp.MustCompile(`(?i)\b(white|black|yellow|magenta|fuchsia)\b`)
	rgbPattern        = regexp.MustCompile(`rgb\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*\)`)
	hexSixPattern     = regexp.MustCompile(`#([0-9a-fA-F]{6})\b`)

	leadingZeroPattern  = regexp.MustCompile(`(^|[\s:,(])0+(\.\d)`)
	trailingZeroPattern = regexp.MustCompile(`(\d*\.\d*?)0+([a-z%]*)\b`)
	dotBeforeUnit       = regexp.MustCompile(`(\d)\.([a-z%])`)
	dotAtEnd            = regexp.MustCompile(`(\d)\.($|[\s;,)])`)
	zeroUnitPattern     = regexp.MustCompile(`(^|[\s:,(])0(px|em|rem|pt|ch|ex|vh|vw|vmin|vmax)\b`)
)

// canonicalizeColors shortens color notations: keywords with shorter hex
// forms, rgb() triples, and 6-digit hex with repeating channel pairs.
func canonicalizeColors(value string) string {
	value = namedColorPattern.ReplaceAllStringFunc(value, func(name string) string {
		if hex, ok := namedColorHex[strings.ToLower(name)]; ok {
			return hex
		}
		return name
	})

	value = rgbPattern.ReplaceAllStringFunc(value, func(call string) string {
		parts := rgbPattern.FindStringSubmatch(call)
		r, errR := strconv.Atoi(parts[1])
		g, errG := strconv.Atoi(parts[2])
		b, errB := strconv.Atoi(parts[3])
		if errR != nil || errG != nil || errB != nil || r > 255 || g > 255 || b > 255 {
			return call
		}
		return fmt.Sprintf("#%02x%02x%02x", r, g, b)
	})

	value = hexSixPattern.ReplaceAllStringFunc(value, func(hex string) string {
		h := strings.ToLower(hex[1:])
		if h[0] == h[1] && h[2] == h[3] && h[4] == h[5] {
			return "#" + string(h[0]) + string(h[2]) + string(h[4])
		}
		return "#" + h
	})

	return value
}

// trimNumbers removes redundant zeros: leading zeros before a decimal point,
// trailing zeros after one, and units on zero values.
func trimNumbers(value string) string {
	value = trailingZeroPattern.ReplaceAllString(value, "$1$2")
	// "1.em" and "1." leftovers from trailing-zero trimming.
	value = dotBeforeUnit.ReplaceAllString(value, "$1$2")
	value = dotAtEnd.ReplaceAllString(value, "$1$2")
	value = leadingZeroPattern.ReplaceAllString(value, "$1$2")
	value = zeroUnitPattern.ReplaceAllString(value, "${1}0")
	return value
}

var boxSides = [4]string{"top", "right", "bottom", "left"}

// collapseBoxShorthand folds property-top/right/bottom/left longhands into
// the shortest equivalent shorthand when all four are present.
func collapseBoxShorthand(decls []declaration, property string) []declaration {
	values := map[string]string{}
	for _, d := range decls {
		for _, side := range boxSides {
			if d.property == property+"-"+side {
				values[side] = d.value
			}
		}
	}
	if len(values) != 4 {
		return decls
	}

	shorthand := boxShorthandValue(values["top"], values["right"], values["bottom"], values["left"])

	kept := decls[:0]
	inserted := false
	for _, d := range decls {
		if strings.HasPrefix(d.property, property+"-") && isBoxSide(strings.TrimPrefix(d.property, property+"-")) {
			if !inserted {
				kept = append(kept, declaration{property: property, value: shorthand})
				inserted = true
			}
			continue
		}
		kept = append(kept, d)
	}
	return kept
}

func isBoxSide(s string) bool {
	for _, side := range boxSides {
		if s == side {
			return true
		}
	}
	return false
}

// boxShorthandValue picks the 1/2/3/4-value form by pairwise symmetry.
func boxShorthandValue(top, right, bottom, left string) string {
	switch {
	case top == right && right == bottom && bottom == left:
		return top
	case top == bottom && right == left:
		return top + " " + right
	case right == left:
		return top + " " + right + " " + bottom
	default:
		return top + " " + right + " " + bottom + " " + left
	}
}

// collapseBorderShorthand folds border-width/style/color triples into a
// single border declaration.
func collapseBorderShorthand(decls []declaration) []declaration {
	var width, style, color string
	for _, d := range decls {
		switch d.property {
		case "border-width":
			width = d.value
		case "border-style":
			style = d.value
		case "border-color":
			color = d.value
		}
	}
	if width == "" || style == "" || color == "" {
		return decls
	}

	kept := decls[:0]
	inserted := false
	for _, d := range decls {
		switch d.property {
		case "border-width", "border-style", "border-color":
			if !inserted {
				kept = append(kept, declaration{property: "border", value: width + " " + style + " " + color})
				inserted = true
			}
		default:
			kept = append(kept, d)
		}
	}
	return kept
}
