package bubbletea

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// SanitizeLine makes server-supplied text safe to draw on one terminal
// line. ANSI escape sequences are stripped, runs of whitespace including
// newlines collapse to a single space, and other control characters are
// dropped.
func SanitizeLine(s string) string {
	s = ansi.Strip(s)
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			space = b.Len() > 0
		case r <= 0x1F || r == 0x7F:
		default:
			if space {
				b.WriteByte(' ')
				space = false
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}
