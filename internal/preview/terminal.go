package preview

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/term"

	draftweaver "github.com/alnah/go-draftweaver"
)

// DefaultTerminalWidth is used when the output is not a terminal.
const DefaultTerminalWidth = 80

// minContentWidth keeps wrapping sane inside deeply nested blocks.
const minContentWidth = 20

const wrapBreakpoints = " ,.;-+|"

// Theme holds the colors of the terminal preview.
type Theme struct {
	Heading lipgloss.Color
	Text    lipgloss.Color
	Faint   lipgloss.Color
	Accent  lipgloss.Color
	Border  lipgloss.Color
}

// DefaultTheme works on dark and light backgrounds.
var DefaultTheme = Theme{
	Heading: lipgloss.Color("39"),
	Text:    lipgloss.Color("252"),
	Faint:   lipgloss.Color("244"),
	Accent:  lipgloss.Color("170"),
	Border:  lipgloss.Color("240"),
}

// TerminalRenderer renders Markdown as styled terminal text.
type TerminalRenderer struct {
	md      goldmark.Markdown
	lip     *lipgloss.Renderer
	profile termenv.Profile
	theme   Theme
	width   int
}

// TerminalOption configures a TerminalRenderer.
type TerminalOption func(*TerminalRenderer)

// WithWidth sets the wrap width.
func WithWidth(width int) TerminalOption {
	return func(r *TerminalRenderer) {
		if width > 0 {
			r.width = width
		}
	}
}

// WithProfile forces a color profile. termenv.Ascii disables styling.
func WithProfile(p termenv.Profile) TerminalOption {
	return func(r *TerminalRenderer) {
		r.profile = p
	}
}

// WithTheme sets the colors.
func WithTheme(t Theme) TerminalOption {
	return func(r *TerminalRenderer) {
		r.theme = t
	}
}

// NewTerminalRenderer creates a renderer writing styles for w. Without
// WithProfile the color profile is detected from w.
func NewTerminalRenderer(w io.Writer, opts ...TerminalOption) *TerminalRenderer {
	r := &TerminalRenderer{
		md:      goldmark.New(goldmark.WithExtensions(extension.GFM)),
		profile: termenv.NewOutput(w).EnvColorProfile(),
		theme:   DefaultTheme,
		width:   DefaultTerminalWidth,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.lip = lipgloss.NewRenderer(w, termenv.WithProfile(r.profile))
	r.lip.SetColorProfile(r.profile)
	return r
}

// TerminalWidth returns the width of the terminal behind f, or
// DefaultTerminalWidth when f is not a terminal.
func TerminalWidth(f *os.File) int {
	width, _, err := term.GetSize(int(f.Fd())) // #nosec G115 -- fd fits in int
	if err != nil || width <= 0 {
		return DefaultTerminalWidth
	}
	return width
}

// RenderDocument renders the draft header followed by its body.
func (r *TerminalRenderer) RenderDocument(doc draftweaver.Document) string {
	var b strings.Builder

	title := doc.Title
	if strings.TrimSpace(title) == "" {
		title = "Untitled"
	}
	b.WriteString(ansi.Wrap(r.style().Bold(true).Foreground(r.theme.Heading).Render(title), r.width, wrapBreakpoints))
	b.WriteString("\n")

	faint := r.style().Foreground(r.theme.Faint)
	if doc.Summary != "" {
		b.WriteString(ansi.Wrap(faint.Italic(true).Render(doc.Summary), r.width, wrapBreakpoints))
		b.WriteString("\n")
	}

	meta := []string{"d: " + doc.ResolveIdentifier()}
	if doc.CanonicalURL != "" {
		meta = append(meta, "r: "+doc.CanonicalURL)
	}
	b.WriteString(faint.Render(strings.Join(meta, "  ")))
	b.WriteString("\n")

	if len(doc.Labels) > 0 {
		labels := make([]string, 0, len(doc.Labels))
		for _, l := range doc.Labels {
			labels = append(labels, "#"+strings.ToLower(strings.TrimSpace(l)))
		}
		b.WriteString(r.style().Foreground(r.theme.Accent).Render(strings.Join(labels, " ")))
		b.WriteString("\n")
	}

	b.WriteString(r.style().Foreground(r.theme.Border).Render(strings.Repeat("─", r.width)))
	b.WriteString("\n\n")

	b.WriteString(r.Render(doc.Body))
	return b.String()
}

// Render renders Markdown. Soft line breaks become spaces so paragraphs
// reflow to the renderer width.
func (r *TerminalRenderer) Render(markdown string) string {
	if markdown == "" {
		return ""
	}
	source := []byte(NormalizeMarkdown(markdown))
	doc := r.md.Parser().Parse(text.NewReader(source))

	w := &termWalker{r: r, source: source}
	_ = ast.Walk(doc, w.walk)
	return strings.TrimRight(w.out.String(), "\n")
}

func (r *TerminalRenderer) style() lipgloss.Style {
	return r.lip.NewStyle()
}

// termWalker accumulates inline content per block and wraps it when the
// block closes.
type termWalker struct {
	r      *TerminalRenderer
	source []byte

	out      strings.Builder
	inline   strings.Builder
	newlines int // trailing newlines in out

	prefix      string
	prefixWidth int
	prefixes    []prefixLevel
	bullet      string

	bold, italic, strike int

	lists []listState
}

type prefixLevel struct {
	size  int // bytes, including escape sequences
	width int // visible cells
}

type listState struct {
	ordered bool
	next    int
	tight   bool
}

func (w *termWalker) width() int {
	return max(w.r.width-w.prefixWidth, minContentWidth)
}

func (w *termWalker) push(p string, width int) {
	w.prefix += p
	w.prefixWidth += width
	w.prefixes = append(w.prefixes, prefixLevel{size: len(p), width: width})
}

func (w *termWalker) pop() {
	if len(w.prefixes) == 0 {
		return
	}
	top := w.prefixes[len(w.prefixes)-1]
	w.prefixes = w.prefixes[:len(w.prefixes)-1]
	w.prefix = w.prefix[:len(w.prefix)-top.size]
	w.prefixWidth -= top.width
}

func (w *termWalker) tight() bool {
	return len(w.lists) > 0 && w.lists[len(w.lists)-1].tight
}

func (w *termWalker) write(s string) {
	if s == "" {
		return
	}
	w.out.WriteString(s)
	trimmed := strings.TrimRight(s, "\n")
	if trimmed == "" {
		w.newlines += len(s)
	} else {
		w.newlines = len(s) - len(trimmed)
	}
}

func (w *termWalker) newline() {
	if w.newlines < 1 {
		w.write("\n")
	}
}

func (w *termWalker) blankLine() {
	if w.out.Len() == 0 {
		return
	}
	for w.newlines < 2 {
		w.write("\n")
	}
}

// linePrefix returns the pending bullet once, then the block prefix.
func (w *termWalker) linePrefix() string {
	if w.bullet != "" {
		b := w.bullet
		w.bullet = ""
		return b
	}
	return w.prefix
}

func (w *termWalker) indent(content string) string {
	lines := strings.Split(content, "\n")
	for i := range lines {
		if i == 0 {
			lines[i] = w.linePrefix() + lines[i]
		} else {
			lines[i] = w.prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

func (w *termWalker) flushBlock(style *lipgloss.Style) {
	content := w.inline.String()
	w.inline.Reset()
	if content == "" {
		return
	}
	if style != nil {
		content = style.Render(ansi.Strip(content))
	}
	w.write(w.indent(ansi.Wrap(content, w.width(), wrapBreakpoints)))
	w.newline()
}

func (w *termWalker) styled(s string) string {
	st := w.r.style().Foreground(w.r.theme.Text)
	if w.bold > 0 {
		st = st.Bold(true)
	}
	if w.italic > 0 {
		st = st.Italic(true)
	}
	if w.strike > 0 {
		st = st.Strikethrough(true)
	}
	return st.Render(s)
}

func (w *termWalker) faint(s string) string {
	return w.r.style().Foreground(w.r.theme.Faint).Render(s)
}

func (w *termWalker) lines(n ast.Node) string {
	var b strings.Builder
	segs := n.Lines()
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		b.Write(seg.Value(w.source))
	}
	return b.String()
}

// inlineOf renders the children of n without touching the current block.
func (w *termWalker) inlineOf(n ast.Node) string {
	saved := w.inline.String()
	w.inline.Reset()
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		_ = ast.Walk(c, w.walk)
	}
	got := w.inline.String()
	w.inline.Reset()
	w.inline.WriteString(saved)
	return got
}

func (w *termWalker) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch n.Kind() {
	case ast.KindParagraph, ast.KindTextBlock:
		if entering {
			w.inline.Reset()
			return ast.WalkContinue, nil
		}
		w.flushBlock(nil)
		if !w.tight() {
			w.blankLine()
		}

	case ast.KindHeading:
		if entering {
			w.inline.Reset()
			return ast.WalkContinue, nil
		}
		h := n.(*ast.Heading)
		st := w.r.style().Bold(true).Foreground(w.r.theme.Text)
		if h.Level <= 2 {
			st = st.Foreground(w.r.theme.Heading)
		}
		w.blankLine()
		w.flushBlock(&st)
		w.blankLine()

	case ast.KindFencedCodeBlock, ast.KindCodeBlock:
		if !entering {
			return ast.WalkContinue, nil
		}
		var lang string
		if fenced, ok := n.(*ast.FencedCodeBlock); ok {
			lang = string(fenced.Language(w.source))
		}
		w.blankLine()
		for _, line := range w.highlight(strings.TrimRight(w.lines(n), "\n"), lang) {
			w.write(w.linePrefix() + line)
			w.newline()
		}
		w.blankLine()
		return ast.WalkSkipChildren, nil

	case ast.KindBlockquote:
		if entering {
			w.push(w.r.style().Foreground(w.r.theme.Border).Render("│ "), 2)
		} else {
			w.pop()
			w.blankLine()
		}

	case ast.KindList:
		if entering {
			l := n.(*ast.List)
			w.lists = append(w.lists, listState{ordered: l.IsOrdered(), next: l.Start, tight: l.IsTight})
		} else {
			w.lists = w.lists[:len(w.lists)-1]
			if !w.tight() {
				w.blankLine()
			}
		}

	case ast.KindListItem:
		if len(w.lists) == 0 {
			return ast.WalkContinue, nil
		}
		top := &w.lists[len(w.lists)-1]
		if entering {
			marker := "- "
			if top.ordered {
				marker = fmt.Sprintf("%d. ", top.next)
				top.next++
			}
			w.bullet = w.prefix + marker
			w.push(strings.Repeat(" ", len(marker)), len(marker))
		} else {
			w.pop()
			w.newline()
		}

	case ast.KindThematicBreak:
		if entering {
			w.blankLine()
			w.write(w.indent(w.r.style().Foreground(w.r.theme.Border).Render(strings.Repeat("─", w.width()))))
			w.newline()
			w.blankLine()
		}

	case ast.KindHTMLBlock:
		if entering {
			if s := strings.TrimSpace(stripTags(w.lines(n))); s != "" {
				w.write(w.indent(w.faint(s)))
				w.newline()
				w.blankLine()
			}
			return ast.WalkSkipChildren, nil
		}

	case ast.KindText:
		if entering {
			t := n.(*ast.Text)
			w.inline.WriteString(w.styled(string(t.Segment.Value(w.source))))
			switch {
			case t.HardLineBreak():
				w.inline.WriteString("\n")
			case t.SoftLineBreak():
				w.inline.WriteString(" ")
			}
		}

	case ast.KindString:
		if entering {
			w.inline.WriteString(w.styled(string(n.(*ast.String).Value)))
		}

	case ast.KindEmphasis:
		counter := &w.italic
		if n.(*ast.Emphasis).Level >= 2 {
			counter = &w.bold
		}
		if entering {
			*counter++
		} else {
			*counter--
		}

	case extast.KindStrikethrough:
		if entering {
			w.strike++
		} else {
			w.strike--
		}

	case ast.KindCodeSpan:
		if entering {
			var code strings.Builder
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				switch v := c.(type) {
				case *ast.Text:
					code.Write(v.Segment.Value(w.source))
				case *ast.String:
					code.Write(v.Value)
				}
			}
			w.inline.WriteString(w.r.style().Foreground(w.r.theme.Accent).Render(code.String()))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindLink:
		if entering {
			link := n.(*ast.Link)
			w.inline.WriteString(w.r.style().Underline(true).Render(ansi.Strip(w.inlineOf(n))))
			if dest := string(link.Destination); dest != "" {
				w.inline.WriteString(" " + w.faint("("+dest+")"))
			}
			return ast.WalkSkipChildren, nil
		}

	case ast.KindAutoLink:
		if entering {
			w.inline.WriteString(w.faint(string(n.(*ast.AutoLink).URL(w.source))))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindImage:
		if entering {
			img := n.(*ast.Image)
			w.inline.WriteString(w.faint("[image: " + ansi.Strip(w.inlineOf(n)) + "]"))
			if dest := string(img.Destination); dest != "" {
				w.inline.WriteString(" " + w.faint("("+dest+")"))
			}
			return ast.WalkSkipChildren, nil
		}

	case ast.KindRawHTML:
		if entering {
			raw := n.(*ast.RawHTML)
			var b strings.Builder
			for i := 0; i < raw.Segments.Len(); i++ {
				seg := raw.Segments.At(i)
				b.Write(seg.Value(w.source))
			}
			if s := stripTags(b.String()); s != "" {
				w.inline.WriteString(w.faint(s))
			}
		}

	case extast.KindTaskCheckBox:
		if entering {
			if n.(*extast.TaskCheckBox).IsChecked {
				w.inline.WriteString(w.r.style().Foreground(w.r.theme.Accent).Render("[x]") + " ")
			} else {
				w.inline.WriteString(w.styled("[ ] "))
			}
		}

	case extast.KindTable:
		if entering {
			w.renderTable(n)
			return ast.WalkSkipChildren, nil
		}
	}

	return ast.WalkContinue, nil
}

// highlight returns the code lines, colored by chroma when the language
// is known. Lines are styled one at a time so lipgloss does not pad them
// to a common width.
func (w *termWalker) highlight(code, lang string) []string {
	if lang != "" && w.r.profile != termenv.Ascii {
		var b strings.Builder
		if err := quick.Highlight(&b, code, lang, "terminal256", "monokai"); err == nil {
			return strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
		}
	}
	lines := strings.Split(code, "\n")
	for i, line := range lines {
		lines[i] = w.faint(line)
	}
	return lines
}

// renderTable lays cells out in padded columns, truncating cells that do
// not fit the width.
func (w *termWalker) renderTable(n ast.Node) {
	var rows [][]string
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, w.inlineOf(cell))
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return
	}

	const sep = "  "
	cols := len(rows[0])
	widths := make([]int, cols)
	for _, row := range rows {
		for i := 0; i < cols && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	total := len(sep) * (cols - 1)
	for _, cw := range widths {
		total += cw
	}
	if avail := w.width(); total > avail {
		usable := max(avail-len(sep)*(cols-1), cols*3)
		for i := range widths {
			widths[i] = max(widths[i]*usable/total, 3)
		}
	}

	format := func(row []string) string {
		parts := make([]string, cols)
		for i := range cols {
			var cell string
			if i < len(row) {
				cell = ansi.Truncate(row[i], widths[i], "…")
			}
			parts[i] = cell + strings.Repeat(" ", max(widths[i]-lipgloss.Width(cell), 0))
		}
		return strings.TrimRight(strings.Join(parts, sep), " ")
	}

	w.blankLine()
	for i, row := range rows {
		line := format(row)
		if i == 0 {
			line = w.r.style().Bold(true).Render(ansi.Strip(line))
		}
		w.write(w.linePrefix() + line)
		w.newline()
		if i == 0 {
			rule := make([]string, cols)
			for j, cw := range widths {
				rule[j] = strings.Repeat("─", cw)
			}
			w.write(w.prefix + w.r.style().Foreground(w.r.theme.Border).Render(strings.Join(rule, sep)))
			w.newline()
		}
	}
	w.blankLine()
}

// stripTags drops everything between < and >.
func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}
