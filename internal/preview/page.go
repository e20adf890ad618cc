package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	draftweaver "github.com/alnah/go-draftweaver"
	"github.com/alnah/go-draftweaver/internal/assets"
)

// ErrPageRender indicates the page template failed to execute.
var ErrPageRender = errors.New("preview page rendering failed")

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
{{- if .Summary}}
<meta name="description" content="{{.Summary}}">
{{- end}}
{{- if .CanonicalURL}}
<link rel="canonical" href="{{.CanonicalURL}}">
{{- end}}
{{- if .Image}}
<meta property="og:image" content="{{.Image}}">
{{- end}}
<style>{{.CSS}}</style>
</head>
<body>
<article>
<header>
<h1>{{.Title}}</h1>
{{- if .Summary}}
<p class="dw-summary">{{.Summary}}</p>
{{- end}}
{{- if .Image}}
<img src="{{.Image}}" alt="">
{{- end}}
{{- if .Labels}}
<p class="dw-labels">{{range .Labels}}<span>#{{.}}</span>{{end}}</p>
{{- end}}
<p class="dw-meta">d: {{.Identifier}}</p>
</header>
{{.Body}}
</article>
</body>
</html>
`

type pageData struct {
	Title        string
	Summary      string
	Image        string
	CanonicalURL string
	Identifier   string
	Labels       []string
	CSS          template.CSS
	Body         template.HTML
}

// PageRenderer turns documents into standalone HTML pages.
type PageRenderer struct {
	engine Engine
	tmpl   *template.Template
	css    string
}

// PageOption configures a PageRenderer.
type PageOption func(*PageRenderer)

// WithCSS replaces the default stylesheet.
func WithCSS(css string) PageOption {
	return func(r *PageRenderer) {
		r.css = css
	}
}

// NewPageRenderer creates a PageRenderer backed by engine. A nil engine
// selects the builtin engine.
func NewPageRenderer(engine Engine, opts ...PageOption) *PageRenderer {
	if engine == nil {
		engine = BuiltinEngine{}
	}
	r := &PageRenderer{
		engine: engine,
		tmpl:   template.Must(template.New("page").Parse(pageTemplate)),
	}
	// Built-in styles are embedded, so the default always loads.
	r.css, _ = assets.LoadStyle(assets.DefaultStyleName)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render builds the page for doc. The body is converted by the engine
// and its relative links are resolved against the canonical URL.
func (r *PageRenderer) Render(ctx context.Context, doc draftweaver.Document) (string, error) {
	fragment, err := r.engine.ToHTML(ctx, doc.Body)
	if err != nil {
		return "", err
	}

	fragment, err = AbsolutizeLinks(fragment, doc.CanonicalURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPageRender, err)
	}

	title := doc.Title
	if strings.TrimSpace(title) == "" {
		title = "Untitled"
	}

	data := pageData{
		Title:        title,
		Summary:      doc.Summary,
		Image:        doc.Image,
		CanonicalURL: doc.CanonicalURL,
		Identifier:   doc.ResolveIdentifier(),
		Labels:       doc.Labels,
		CSS:          template.CSS(sanitizeCSS(r.css)), // #nosec G203 -- closing sequences escaped
		Body:         template.HTML(fragment),          // #nosec G203 -- produced by an engine that escapes text
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPageRender, err)
	}
	return buf.String(), nil
}

// sanitizeCSS escapes sequences that could close the <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
