package preview

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-draftweaver/internal/markup"
)

// AbsolutizeLinks resolves relative img[src] and a[href] values in an HTML
// fragment against baseURL. Anchors, references with a scheme and values
// of other elements are left alone. An empty or relative baseURL returns
// the fragment unchanged.
func AbsolutizeLinks(fragment, baseURL string) (string, error) {
	base := markup.ParseBase(baseURL)
	if base.IsZero() || fragment == "" {
		return fragment, nil
	}

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	for _, n := range nodes {
		rewriteNode(n, base)
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func rewriteNode(n *html.Node, base markup.Base) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Img:
			rewriteAttr(n, "src", base)
		case atom.A:
			rewriteAttr(n, "href", base)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteNode(c, base)
	}
}

func rewriteAttr(n *html.Node, key string, base markup.Base) {
	for i, attr := range n.Attr {
		if attr.Key != key || !isRelativeRef(attr.Val) {
			continue
		}
		n.Attr[i].Val = markup.Absolutize(attr.Val, base)
	}
}

// isRelativeRef reports whether ref needs a base to be usable.
func isRelativeRef(ref string) bool {
	ref = strings.TrimSpace(ref)
	return ref != "" && !strings.HasPrefix(ref, "#") && !markup.HasScheme(ref)
}
