package goldmark

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samarthsinh2660/fluentify"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

type renderer struct {
	width  int
	src    []byte
	out    strings.Builder
	bold   lipgloss.Style
	italic lipgloss.Style
	code   lipgloss.Style
	head   lipgloss.Style
	muted  lipgloss.Style
	link   lipgloss.Style
}

func newRenderer(theme fluentify.Theme, width int) *renderer {
	return &renderer{
		width:  width,
		bold:   lipgloss.NewStyle().Bold(true),
		italic: lipgloss.NewStyle().Italic(true),
		code:   lipgloss.NewStyle().Foreground(ansiColor(theme.Generating)),
		head:   lipgloss.NewStyle().Foreground(ansiColor(theme.Accent)).Bold(true),
		muted:  lipgloss.NewStyle().Foreground(ansiColor(theme.Muted)).Faint(true),
		link:   lipgloss.NewStyle().Underline(true),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}

func (r *renderer) render(source []byte) string {
	r.src = source
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		r.block(n, "")
		if n.NextSibling() != nil {
			r.out.WriteString("\n")
		}
	}
	return strings.TrimRight(r.out.String(), "\n")
}

// block writes one block node. Every line after the first is prefixed
// with indent.
func (r *renderer) block(n ast.Node, indent string) {
	switch n := n.(type) {
	case *ast.Heading:
		r.wrap(r.head.Render(r.inline(n)), indent, indent)
	case *ast.Paragraph, *ast.TextBlock:
		r.wrap(r.inline(n), indent, indent)
	case *ast.List:
		num := n.Start
		for item := n.FirstChild(); item != nil; item = item.NextSibling() {
			marker := "• "
			if n.IsOrdered() {
				marker = strconv.Itoa(num) + ". "
				num++
			}
			r.listItem(item, indent, marker)
		}
	case *ast.ThematicBreak:
		r.out.WriteString(indent + r.muted.Render(strings.Repeat("─", min(r.width, 40))) + "\n")
	default:
		// Code blocks, quotes and HTML keep their text only.
		if n.Lines().Len() > 0 {
			for i := 0; i < n.Lines().Len(); i++ {
				seg := n.Lines().At(i)
				r.out.WriteString(indent + strings.TrimRight(string(seg.Value(r.src)), "\n") + "\n")
			}
			return
		}
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			r.block(c, indent)
		}
	}
}

func (r *renderer) listItem(item ast.Node, indent, marker string) {
	cont := indent + strings.Repeat(" ", lipgloss.Width(marker))
	first := true
	for c := item.FirstChild(); c != nil; c = c.NextSibling() {
		switch c.(type) {
		case *ast.Paragraph, *ast.TextBlock:
			if first {
				r.wrap(r.inline(c), indent+r.muted.Render(marker), cont)
			} else {
				r.wrap(r.inline(c), cont, cont)
			}
		default:
			if first {
				r.out.WriteString(indent + r.muted.Render(marker) + "\n")
			}
			r.block(c, cont)
		}
		first = false
	}
}

// wrap word-wraps s to the remaining width and writes it with the given
// first-line and continuation prefixes.
func (r *renderer) wrap(s, first, cont string) {
	w := max(r.width-lipgloss.Width(cont), 10)
	lines := strings.Split(lipgloss.NewStyle().Width(w).Render(s), "\n")
	for i, line := range lines {
		prefix := cont
		if i == 0 {
			prefix = first
		}
		r.out.WriteString(prefix + strings.TrimRight(line, " ") + "\n")
	}
}

func (r *renderer) inline(n ast.Node) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		r.inlineNode(c, &b)
	}
	return b.String()
}

func (r *renderer) inlineNode(n ast.Node, b *strings.Builder) {
	switch n := n.(type) {
	case *ast.Text:
		b.Write(util.UnescapePunctuations(n.Segment.Value(r.src)))
		if n.SoftLineBreak() {
			b.WriteByte(' ')
		}
		if n.HardLineBreak() {
			b.WriteByte('\n')
		}
	case *ast.String:
		b.Write(n.Value)
	case *ast.Emphasis:
		if n.Level == 1 {
			b.WriteString(r.italic.Render(r.inline(n)))
		} else {
			b.WriteString(r.bold.Render(r.inline(n)))
		}
	case *ast.CodeSpan:
		b.WriteString(r.code.Render(r.inline(n)))
	case *ast.Link:
		b.WriteString(r.link.Render(r.inline(n)))
		b.WriteString(" " + r.muted.Render("("+string(n.Destination)+")"))
	case *ast.AutoLink:
		b.WriteString(r.link.Render(string(n.URL(r.src))))
	default:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			r.inlineNode(c, b)
		}
	}
}
