package markup

import "strings"

// Kind identifies the type of a Node.
type Kind int

// Node kinds shared by both parsers and both renderers.
const (
	KindDocument Kind = iota
	KindText
	KindParagraph
	KindHeading
	KindStrong
	KindEmphasis
	KindCode
	KindCodeBlock
	KindBreak
	KindList
	KindListItem
	KindLink
	KindImage
	KindGeneric // unrecognized element, rendered as its children
)

var kindNames = [...]string{
	KindDocument:  "Document",
	KindText:      "Text",
	KindParagraph: "Paragraph",
	KindHeading:   "Heading",
	KindStrong:    "Strong",
	KindEmphasis:  "Emphasis",
	KindCode:      "Code",
	KindCodeBlock: "CodeBlock",
	KindBreak:     "Break",
	KindList:      "List",
	KindListItem:  "ListItem",
	KindLink:      "Link",
	KindImage:     "Image",
	KindGeneric:   "Generic",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}
	return kindNames[k]
}

// Node is one element of the intermediate document tree.
type Node struct {
	Kind     Kind
	Tag      string // source element name, HTML side only
	Literal  string // Text, Code, CodeBlock content
	Level    int    // Heading level 1-6
	Ordered  bool   // List
	Dest     string // Link href, Image src
	Alt      string // Image alt text
	Info     string // CodeBlock language
	Children []*Node
}

// Append adds child to n and returns child.
func (n *Node) Append(child *Node) *Node {
	n.Children = append(n.Children, child)
	return child
}

// TextContent returns the concatenated literal text of n and its descendants.
func (n *Node) TextContent() string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case KindText, KindCode, KindCodeBlock:
		return n.Literal
	case KindBreak:
		return "\n"
	}
	return childText(n)
}

func childText(n *Node) string {
	var b strings.Builder
	for _, c := range n.Children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

func textNode(s string) *Node {
	return &Node{Kind: KindText, Literal: s}
}
