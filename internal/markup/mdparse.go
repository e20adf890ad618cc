package markup

import (
	"regexp"
	"strings"
)

// Block-level line patterns.
var (
	headingLine = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	bulletLine  = regexp.MustCompile(`^-\s+(.+)$`)
	orderedLine = regexp.MustCompile(`^\d+\.\s+(.+)$`)
)

const fence = "```"

// ParseMarkdown scans src into a node tree.
//
// Block constructs are recognized line by line, in precedence order:
// fenced code, headings, "- " lists, "N. " lists. Every other non-blank
// line becomes its own paragraph. Lines consumed by a block construct are
// never revisited.
func ParseMarkdown(src string) *Node {
	doc := &Node{Kind: KindDocument}
	if src == "" {
		return doc
	}

	lines := strings.Split(normalizeLineEndings(src), "\n")
	for i := 0; i < len(lines); {
		line := lines[i]

		if block, next, ok := parseFence(lines, i); ok {
			doc.Append(block)
			i = next
			continue
		}

		if m := headingLine.FindStringSubmatch(line); m != nil && strings.TrimSpace(m[2]) != "" {
			h := &Node{Kind: KindHeading, Level: len(m[1])}
			h.Children = ParseInline(strings.TrimSpace(m[2]))
			doc.Append(h)
			i++
			continue
		}

		if list, next := parseList(lines, i, bulletLine, false); next > i {
			if list != nil {
				doc.Append(list)
			}
			i = next
			continue
		}

		if list, next := parseList(lines, i, orderedLine, true); next > i {
			if list != nil {
				doc.Append(list)
			}
			i = next
			continue
		}

		if text := strings.TrimSpace(line); text != "" {
			p := &Node{Kind: KindParagraph}
			p.Children = ParseInline(text)
			doc.Append(p)
		}
		i++
	}
	return doc
}

// parseFence recognizes a fenced code block starting at lines[start].
// An opening fence without a closing one is not a code block.
func parseFence(lines []string, start int) (*Node, int, bool) {
	open := strings.TrimSpace(lines[start])
	rest, ok := strings.CutPrefix(open, fence)
	if !ok {
		return nil, start, false
	}

	// Single-line form: ```code```
	if inner, _, closed := strings.Cut(rest, fence); closed {
		return &Node{Kind: KindCodeBlock, Literal: strings.TrimSpace(inner)}, start + 1, true
	}

	for end := start + 1; end < len(lines); end++ {
		if !strings.HasPrefix(strings.TrimSpace(lines[end]), fence) {
			continue
		}
		body := strings.Join(lines[start+1:end], "\n")
		return &Node{
			Kind:    KindCodeBlock,
			Info:    strings.TrimSpace(rest),
			Literal: trimNewlines(body),
		}, end + 1, true
	}
	return nil, start, false
}

// parseList collects the contiguous lines matching pattern starting at
// lines[start]. It returns the index of the first line after the block;
// the list is nil when every item was blank.
func parseList(lines []string, start int, pattern *regexp.Regexp, ordered bool) (*Node, int) {
	list := &Node{Kind: KindList, Ordered: ordered}
	i := start
	for ; i < len(lines); i++ {
		m := pattern.FindStringSubmatch(lines[i])
		if m == nil {
			break
		}
		text := strings.TrimSpace(m[1])
		if text == "" {
			continue
		}
		item := &Node{Kind: KindListItem}
		item.Children = ParseInline(text)
		list.Append(item)
	}
	if len(list.Children) == 0 {
		return nil, i
	}
	return list, i
}

// ParseInline scans a single line of inline Markdown: code spans, bold,
// italics, links and images. Code spans are matched first so their content
// is never interpreted; bold is tried before italics so a "**" pair is never
// split into two single markers.
func ParseInline(s string) []*Node {
	var (
		nodes []*Node
		text  strings.Builder
	)
	flush := func() {
		if text.Len() > 0 {
			nodes = append(nodes, textNode(text.String()))
			text.Reset()
		}
	}

	for i := 0; i < len(s); {
		if n, next, ok := matchInline(s, i); ok {
			flush()
			nodes = append(nodes, n)
			i = next
			continue
		}
		text.WriteByte(s[i])
		i++
	}
	flush()
	return nodes
}

// matchInline tries every inline construct at s[i].
func matchInline(s string, i int) (*Node, int, bool) {
	switch s[i] {
	case '`':
		if inner, end, ok := delimited(s, i+1, "`", "`"); ok {
			return &Node{Kind: KindCode, Literal: inner}, end, true
		}
	case '*':
		if strings.HasPrefix(s[i:], "**") {
			if inner, end, ok := delimited(s, i+2, "**", "*"); ok {
				return &Node{Kind: KindStrong, Children: ParseInline(inner)}, end, true
			}
			return nil, i, false
		}
		if inner, end, ok := delimited(s, i+1, "*", "*"); ok {
			return &Node{Kind: KindEmphasis, Children: ParseInline(inner)}, end, true
		}
	case '!':
		if strings.HasPrefix(s[i:], "![") {
			if label, dest, end, ok := linkParts(s, i+1); ok {
				return &Node{Kind: KindImage, Alt: label, Dest: dest}, end, true
			}
		}
	case '[':
		if label, dest, end, ok := linkParts(s, i); ok {
			return &Node{Kind: KindLink, Dest: dest, Children: ParseInline(label)}, end, true
		}
	}
	return nil, i, false
}

// delimited finds closer after s[start:]. The content must be non-empty
// and must not contain any byte of forbidden.
func delimited(s string, start int, closer, forbidden string) (string, int, bool) {
	if start >= len(s) {
		return "", start, false
	}
	k := strings.Index(s[start:], closer)
	if k <= 0 {
		return "", start, false
	}
	inner := s[start : start+k]
	if strings.ContainsAny(inner, forbidden) {
		return "", start, false
	}
	return inner, start + k + len(closer), true
}

// linkParts parses "[label](dest)" with s[i] == '['.
func linkParts(s string, i int) (label, dest string, end int, ok bool) {
	closeLabel := strings.IndexByte(s[i+1:], ']')
	if closeLabel <= 0 {
		return "", "", i, false
	}
	label = s[i+1 : i+1+closeLabel]
	j := i + 1 + closeLabel + 1
	if j >= len(s) || s[j] != '(' {
		return "", "", i, false
	}
	closeDest := strings.IndexByte(s[j+1:], ')')
	if closeDest <= 0 {
		return "", "", i, false
	}
	dest = strings.TrimSpace(s[j+1 : j+1+closeDest])
	if dest == "" {
		return "", "", i, false
	}
	return label, dest, j + 1 + closeDest + 1, true
}
