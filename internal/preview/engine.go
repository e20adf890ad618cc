package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/alnah/go-draftweaver/internal/markup"
)

// Sentinel errors for HTML rendering.
var (
	ErrHTMLConversion = errors.New("HTML conversion failed")
	ErrUnknownEngine  = errors.New("unknown preview engine")
)

// Engine names accepted by NewEngine.
const (
	EngineBuiltin  = "builtin"
	EngineGoldmark = "goldmark"
)

// Engine converts Markdown to an HTML fragment.
type Engine interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// NewEngine returns the engine registered under name. An empty name
// selects the builtin engine.
func NewEngine(name string) (Engine, error) {
	switch name {
	case "", EngineBuiltin:
		return BuiltinEngine{}, nil
	case EngineGoldmark:
		return NewGoldmarkEngine(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, name)
	}
}

// BuiltinEngine renders with the same light-to-rich converter used for
// in-app previews, so the output matches what readers of the plain
// converter see.
type BuiltinEngine struct{}

// ToHTML converts content with the builtin converter.
func (BuiltinEngine) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return markup.MarkdownToHTML(NormalizeMarkdown(content)), nil
}

// GoldmarkEngine renders CommonMark with GFM extensions and highlighted
// code blocks.
type GoldmarkEngine struct {
	md goldmark.Markdown
}

// NewGoldmarkEngine creates a GoldmarkEngine. Code is highlighted with
// inline styles so pages need no external stylesheet.
func NewGoldmarkEngine() *GoldmarkEngine {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(false),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)
	return &GoldmarkEngine{md: md}
}

// ToHTML converts content to an HTML fragment. Raw HTML in the source is
// omitted. Goldmark has no context support, so conversion runs in a
// goroutine and the call returns early on cancellation.
func (e *GoldmarkEngine) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := e.md.Convert([]byte(NormalizeMarkdown(content)), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}
