package preview

import (
	"regexp"
	"strings"
)

var (
	crlfOrCR           = regexp.MustCompile(`\r\n?`)
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
)

// NormalizeMarkdown converts line endings to \n, collapses runs of blank
// lines to one and trims trailing whitespace at the end of the input.
func NormalizeMarkdown(content string) string {
	content = crlfOrCR.ReplaceAllString(content, "\n")
	content = multipleBlankLines.ReplaceAllString(content, "\n\n")
	return strings.TrimRight(content, " \t\n")
}
