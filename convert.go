package draftweaver

import "github.com/alnah/go-draftweaver/internal/markup"

// HTMLToMarkdown converts CMS HTML to the Markdown used as event content.
// Relative link and image targets are resolved against baseURL when it is
// an absolute http(s) URL; pass "" to leave them as they are.
//
// Supported elements: p, br, h1-h6, b/strong, i/em, code, pre+code, ul, ol,
// li, a, img. Other tags are dropped and their text kept. Entities are
// decoded once. The function never fails; empty input yields "".
func HTMLToMarkdown(html, baseURL string) string {
	return markup.HTMLToMarkdown(html, baseURL)
}

// MarkdownToHTML renders Markdown as an HTML fragment for previews. All text
// is escaped, so the output contains only the markup the converter emits.
func MarkdownToHTML(md string) string {
	return markup.MarkdownToHTML(md)
}

// DecodeEntities decodes &amp; &lt; &gt; &quot; and &#39; in a single pass.
func DecodeEntities(s string) string {
	return markup.DecodeEntities(s)
}

// Absolutize resolves ref against an absolute base URL. References that
// already have a scheme, and any reference when base is not absolute, are
// returned unchanged.
func Absolutize(ref, base string) string {
	return markup.Absolutize(ref, markup.ParseBase(base))
}
