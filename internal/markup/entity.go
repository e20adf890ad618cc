package markup

import "strings"

// entityDecoder replaces the five escaped sequences in a single
// left-to-right pass, so the output of one replacement is never
// scanned again: "&amp;lt;" becomes "&lt;", not "<".
var entityDecoder = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
)

// DecodeEntities decodes &amp; &lt; &gt; &quot; and &#39;.
// Other character references are left untouched.
func DecodeEntities(s string) string {
	if s == "" {
		return ""
	}
	return entityDecoder.Replace(s)
}

// textEscaper escapes the characters that would open or close markup.
var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// attrEscaper additionally escapes quotes for use inside attribute values.
var attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&#39;")

// EscapeText escapes &, < and > so s renders as literal text.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}
