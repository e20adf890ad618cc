// Package markup converts between HTML and the Markdown subset used as the
// body of long-form articles.
//
// Both directions go through an intermediate node tree:
//   - ParseHTML tokenizes HTML (golang.org/x/net/html) into nodes,
//     RenderMarkdown turns them into Markdown
//   - ParseMarkdown scans Markdown blocks and inlines into nodes,
//     RenderHTML turns them into preview HTML
//
// The supported element set is deliberately small. Elements outside it
// (tables, blockquotes, nested lists) degrade to their plain text.
// All functions are pure and safe for concurrent use.
package markup
