package markup

// HTMLToMarkdown converts an HTML fragment to Markdown. Relative link and
// image targets are resolved against baseURL when it is an absolute URL.
func HTMLToMarkdown(src, baseURL string) string {
	if src == "" {
		return ""
	}
	return RenderMarkdown(ParseHTML(src), ParseBase(baseURL))
}

// MarkdownToHTML converts Markdown to an escaped HTML fragment for preview.
func MarkdownToHTML(src string) string {
	if src == "" {
		return ""
	}
	return RenderHTML(ParseMarkdown(src))
}
