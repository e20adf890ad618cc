package markup

import (
	"strconv"
	"strings"
)

// RenderMarkdown renders a tree produced by ParseHTML as Markdown.
// Link and image targets are resolved against base.
func RenderMarkdown(doc *Node, base Base) string {
	r := &mdRenderer{base: base}
	return strings.TrimSpace(compressBlankLines(r.children(doc)))
}

type mdRenderer struct {
	base   Base
	inItem int // depth of enclosing list items
}

// children renders the children of n in order. Whitespace directly after
// a line break is swallowed; a following break still emits its newline.
func (r *mdRenderer) children(n *Node) string {
	var b strings.Builder
	afterBreak := false
	for _, c := range n.Children {
		s := r.node(c)
		if afterBreak && c.Kind != KindBreak {
			s = strings.TrimLeft(s, " \t\n")
		}
		b.WriteString(s)
		afterBreak = c.Kind == KindBreak || (afterBreak && s == "")
	}
	return b.String()
}

func (r *mdRenderer) node(n *Node) string {
	switch n.Kind {
	case KindText:
		return n.Literal
	case KindBreak:
		return "\n"
	case KindStrong:
		return wrapInline(r.children(n), "**")
	case KindEmphasis:
		return wrapInline(r.children(n), "*")
	case KindCode:
		if n.Literal == "" {
			return ""
		}
		return "`" + n.Literal + "`"
	case KindCodeBlock:
		return "\n\n```" + n.Info + "\n" + trimNewlines(n.Literal) + "\n```\n\n"
	case KindHeading:
		return r.heading(n)
	case KindParagraph:
		inner := strings.TrimSpace(r.children(n))
		if inner == "" {
			return ""
		}
		return "\n\n" + inner + "\n\n"
	case KindList:
		return r.list(n)
	case KindImage:
		return r.image(n)
	case KindLink:
		return r.link(n)
	default:
		return r.children(n)
	}
}

func (r *mdRenderer) heading(n *Node) string {
	inner := strings.TrimSpace(r.children(n))
	if inner == "" {
		return ""
	}
	return "\n\n" + strings.Repeat("#", n.Level) + " " + inner + "\n\n"
}

// list renders one "- " or "N. " line per non-empty item. Numbering starts
// at 1 for every list and skips empty items. A list inside a list item
// degrades to its items' plain text.
func (r *mdRenderer) list(n *Node) string {
	var items []string
	for _, c := range n.Children {
		if c.Kind != KindListItem {
			continue
		}
		r.inItem++
		text := strings.TrimSpace(r.children(c))
		r.inItem--
		if text != "" {
			items = append(items, text)
		}
	}
	if len(items) == 0 {
		return ""
	}
	if r.inItem > 0 {
		return " " + strings.Join(items, " ") + " "
	}

	var b strings.Builder
	b.WriteString("\n\n")
	for i, item := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		if n.Ordered {
			b.WriteString(strconv.Itoa(i + 1))
			b.WriteString(". ")
		} else {
			b.WriteString("- ")
		}
		b.WriteString(item)
	}
	b.WriteString("\n\n")
	return b.String()
}

func (r *mdRenderer) image(n *Node) string {
	src := strings.TrimSpace(n.Dest)
	if src == "" {
		return ""
	}
	return "![" + n.Alt + "](" + Absolutize(src, r.base) + ")"
}

func (r *mdRenderer) link(n *Node) string {
	inner := r.children(n)
	href := strings.TrimSpace(n.Dest)
	if href == "" {
		return inner
	}
	return "[" + strings.TrimSpace(inner) + "](" + Absolutize(href, r.base) + ")"
}

// wrapInline surrounds non-blank inline content with marker.
func wrapInline(inner, marker string) string {
	if strings.TrimSpace(inner) == "" {
		return inner
	}
	return marker + inner + marker
}
