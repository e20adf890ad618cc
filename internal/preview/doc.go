// Package preview renders drafts for review before publishing.
//
// Two outputs are supported:
//   - a standalone HTML5 page built from an Engine (the builtin
//     light-to-rich converter or goldmark with syntax highlighting)
//   - styled terminal text produced by walking the goldmark AST
//
// Relative links in the rendered HTML are resolved against the draft's
// canonical URL so images load when the page is opened from disk.
package preview
