package markup

import (
	"strconv"
	"strings"
)

// linkAttrs are added to every rendered link so previews open externally
// without leaking the referrer.
const linkAttrs = ` target="_blank" rel="noreferrer"`

// unsafeSchemes are link and image targets that are rendered as plain text.
var unsafeSchemes = []string{"javascript:", "vbscript:", "data:text/html"}

// RenderHTML renders a tree produced by ParseMarkdown as an HTML fragment,
// one block per line. All text is escaped.
func RenderHTML(doc *Node) string {
	blocks := make([]string, 0, len(doc.Children))
	for _, c := range doc.Children {
		if s := renderBlock(c); s != "" {
			blocks = append(blocks, s)
		}
	}
	return strings.Join(blocks, "\n")
}

func renderBlock(n *Node) string {
	switch n.Kind {
	case KindHeading:
		tag := "h" + strconv.Itoa(n.Level)
		return "<" + tag + ">" + renderInline(n.Children) + "</" + tag + ">"
	case KindCodeBlock:
		open := "<pre><code>"
		if n.Info != "" {
			open = `<pre><code class="language-` + escapeAttr(n.Info) + `">`
		}
		return open + EscapeText(n.Literal) + "</code></pre>"
	case KindList:
		tag := "ul"
		if n.Ordered {
			tag = "ol"
		}
		var b strings.Builder
		b.WriteString("<" + tag + ">")
		for _, item := range n.Children {
			b.WriteString("<li>" + renderInline(item.Children) + "</li>")
		}
		b.WriteString("</" + tag + ">")
		return b.String()
	case KindParagraph:
		return "<p>" + renderInline(n.Children) + "</p>"
	default:
		return renderInline([]*Node{n})
	}
}

func renderInline(nodes []*Node) string {
	var b strings.Builder
	for _, n := range nodes {
		switch n.Kind {
		case KindText:
			b.WriteString(EscapeText(n.Literal))
		case KindCode:
			b.WriteString("<code>" + EscapeText(n.Literal) + "</code>")
		case KindStrong:
			b.WriteString("<strong>" + renderInline(n.Children) + "</strong>")
		case KindEmphasis:
			b.WriteString("<em>" + renderInline(n.Children) + "</em>")
		case KindBreak:
			b.WriteString("<br>")
		case KindLink:
			inner := renderInline(n.Children)
			if !isSafeTarget(n.Dest) {
				b.WriteString(inner)
				continue
			}
			b.WriteString(`<a href="` + escapeAttr(n.Dest) + `"` + linkAttrs + ">" + inner + "</a>")
		case KindImage:
			if !isSafeTarget(n.Dest) {
				b.WriteString(EscapeText(n.Alt))
				continue
			}
			b.WriteString(`<img src="` + escapeAttr(n.Dest) + `" alt="` + escapeAttr(n.Alt) + `">`)
		default:
			b.WriteString(renderInline(n.Children))
		}
	}
	return b.String()
}

func isSafeTarget(dest string) bool {
	lower := strings.ToLower(strings.TrimSpace(dest))
	for _, scheme := range unsafeSchemes {
		if strings.HasPrefix(lower, scheme) {
			return false
		}
	}
	return true
}
