package cssgen

import (
	"fmt"
	"strconv"
	"strings"
)

// parseHexColor decodes #rgb and #rrggbb forms into channel values.
// Other color syntaxes (rgb(), named colors) are not decomposable here.
func parseHexColor(value string) (r, g, b int, ok bool) {
	v := strings.TrimSpace(value)
	if !strings.HasPrefix(v, "#") {
		return 0, 0, 0, false
	}
	v = v[1:]

	switch len(v) {
	case 3:
		expanded := make([]byte, 6)
		for i := 0; i < 3; i++ {
			expanded[i*2] = v[i]
			expanded[i*2+1] = v[i]
		}
		v = string(expanded)
	case 6:
	default:
		return 0, 0, 0, false
	}

	channels := [3]int{}
	for i := 0; i < 3; i++ {
		n, err := strconv.ParseUint(v[i*2:i*2+2], 16, 8)
		if err != nil {
			return 0, 0, 0, false
		}
		channels[i] = int(n)
	}
	return channels[0], channels[1], channels[2], true
}

// rgbChannels renders the "r, g, b" form used by --*-rgb custom properties,
// which lets stylesheets build rgba() colors from theme values.
func rgbChannels(r, g, b int) string {
	return fmt.Sprintf("%d, %d, %d", r, g, b)
}
