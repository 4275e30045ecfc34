// Package goldmark renders generated unit content to ANSI-styled terminal
// text, using goldmark for parsing and lipgloss for styling.
//
// Unit descriptions are short prose written by the generator, so only
// the markdown that shows up there is styled: paragraphs, headings,
// lists, emphasis, code spans and links. Anything else renders as its
// plain text.
package goldmark

import (
	"fmt"
	"strings"

	"github.com/samarthsinh2660/fluentify"
)

// Render parses markdown source and returns styled terminal output
// word-wrapped to width.
func Render(source string, width int, theme fluentify.Theme) string {
	if strings.TrimSpace(source) == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	return newRenderer(theme, width).render([]byte(source))
}

// RenderUnit renders a generated unit: its number and title as a heading,
// the description, and the lesson titles as a numbered list.
func RenderUnit(number int, u fluentify.Unit, width int, theme fluentify.Theme) string {
	var b strings.Builder
	title := u.Title
	if title == "" {
		title = "Untitled unit"
	}
	fmt.Fprintf(&b, "## Unit %d: %s\n\n", number, escape(title))
	if u.Description != "" {
		b.WriteString(u.Description)
		b.WriteString("\n\n")
	}
	for i, l := range u.Lessons {
		fmt.Fprintf(&b, "%d. %s", i+1, escape(l.Title))
		if l.Description != "" {
			b.WriteString(": " + l.Description)
		}
		b.WriteString("\n")
	}
	return Render(b.String(), width, theme)
}

var escaper = strings.NewReplacer(`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "#", `\#`)

// escape keeps server-supplied titles literal.
func escape(s string) string {
	return escaper.Replace(s)
}
