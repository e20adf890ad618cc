package markup

import (
	"strings"

	"golang.org/x/net/html"
)

// elementKinds maps the HTML elements with a Markdown equivalent to node kinds.
// Everything else becomes KindGeneric.
var elementKinds = map[string]Kind{
	"b":      KindStrong,
	"strong": KindStrong,
	"i":      KindEmphasis,
	"em":     KindEmphasis,
	"code":   KindCode,
	"p":      KindParagraph,
	"br":     KindBreak,
	"ul":     KindList,
	"ol":     KindList,
	"li":     KindListItem,
	"a":      KindLink,
	"img":    KindImage,
	"h1":     KindHeading,
	"h2":     KindHeading,
	"h3":     KindHeading,
	"h4":     KindHeading,
	"h5":     KindHeading,
	"h6":     KindHeading,
}

// voidElements have no content and are never pushed on the open stack.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// ParseHTML tokenizes src and builds a node tree.
//
// Parsing never fails: stray end tags are ignored, unclosed elements are
// closed at end of input, comments and doctypes are dropped. Text is
// decoded with DecodeEntities exactly once.
func ParseHTML(src string) *Node {
	doc := &Node{Kind: KindDocument}
	if src == "" {
		return doc
	}

	z := html.NewTokenizer(strings.NewReader(normalizeLineEndings(src)))
	stack := []*Node{doc}

	for {
		tt := z.Next()
		top := stack[len(stack)-1]

		switch tt {
		case html.ErrorToken:
			// io.EOF or a tokenizer error: keep whatever was parsed.
			for i := len(stack) - 1; i > 0; i-- {
				finishElement(stack[i])
			}
			return doc

		case html.TextToken:
			top.Append(textNode(DecodeEntities(string(z.Raw()))))

		case html.StartTagToken, html.SelfClosingTagToken:
			n := newElement(z)
			stack = closeImplied(stack, n.Tag)
			top = stack[len(stack)-1]
			top.Append(n)
			if tt == html.StartTagToken && !voidElements[n.Tag] {
				stack = append(stack, n)
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			stack = closeElement(stack, string(name))
		}
	}
}

// newElement builds a node from the current start tag token.
func newElement(z *html.Tokenizer) *Node {
	name, hasAttr := z.TagName()
	tag := string(name)

	attrs := make(map[string]string)
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		attrs[string(key)] = string(val)
	}

	kind, ok := elementKinds[tag]
	if !ok {
		kind = KindGeneric
	}
	n := &Node{Kind: kind, Tag: tag}

	switch kind {
	case KindHeading:
		n.Level = int(tag[1] - '0')
	case KindList:
		n.Ordered = tag == "ol"
	case KindLink:
		n.Dest = attrs["href"]
	case KindImage:
		n.Dest = attrs["src"]
		n.Alt = attrs["alt"]
	case KindCode:
		n.Info = languageFromClass(attrs["class"])
	}
	return n
}

// closeElement pops the stack down to the innermost open element named tag.
// End tags with no matching open element are ignored.
func closeElement(stack []*Node, tag string) []*Node {
	for i := len(stack) - 1; i > 0; i-- {
		if stack[i].Tag == tag {
			return closeFrom(stack, i)
		}
	}
	return stack
}

// closeImplied handles end tags that HTML allows to be omitted:
// a new <li> ends the open item of the same list, a new <p> ends an
// open paragraph.
func closeImplied(stack []*Node, tag string) []*Node {
	switch tag {
	case "li":
		for i := len(stack) - 1; i > 0; i-- {
			switch stack[i].Tag {
			case "li":
				return closeFrom(stack, i)
			case "ul", "ol":
				return stack
			}
		}
	case "p":
		if i := len(stack) - 1; stack[i].Tag == "p" {
			return closeFrom(stack, i)
		}
	}
	return stack
}

// closeFrom finishes stack[i:] innermost first and pops them.
func closeFrom(stack []*Node, i int) []*Node {
	for j := len(stack) - 1; j >= i; j-- {
		finishElement(stack[j])
	}
	return stack[:i]
}

// finishElement collapses elements whose content is literal text.
func finishElement(n *Node) {
	switch {
	case n.Kind == KindCode:
		n.Literal = codeText(n)
		n.Children = nil
	case n.Tag == "pre":
		if code := soleCodeChild(n); code != nil {
			n.Kind = KindCodeBlock
			n.Literal = code.Literal
			n.Info = code.Info
			n.Children = nil
		}
	}
}

// codeText flattens the content of a <code> element. Bold and italic
// keep their markers, line breaks become newlines and other tags
// contribute their text only.
func codeText(n *Node) string {
	var b strings.Builder
	for _, c := range n.Children {
		switch c.Kind {
		case KindText:
			b.WriteString(c.Literal)
		case KindBreak:
			b.WriteByte('\n')
		case KindStrong:
			b.WriteString("**" + codeText(c) + "**")
		case KindEmphasis:
			b.WriteString("*" + codeText(c) + "*")
		case KindCode:
			b.WriteString(c.Literal)
		default:
			b.WriteString(codeText(c))
		}
	}
	return b.String()
}

// soleCodeChild returns the only <code> child of a <pre>, ignoring
// whitespace-only text around it.
func soleCodeChild(pre *Node) *Node {
	var code *Node
	for _, c := range pre.Children {
		switch {
		case c.Kind == KindText && strings.TrimSpace(c.Literal) == "":
			continue
		case c.Kind == KindCode && code == nil:
			code = c
		default:
			return nil
		}
	}
	return code
}

// languageFromClass extracts "go" from class="language-go" or "lang-go".
func languageFromClass(class string) string {
	for _, f := range strings.Fields(class) {
		for _, prefix := range []string{"language-", "lang-"} {
			if lang, ok := strings.CutPrefix(f, prefix); ok && lang != "" {
				return lang
			}
		}
	}
	return ""
}
