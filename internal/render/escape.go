// Package render produces HTML fragments for the insight list, mirroring
// what the backend's own web UI shows. The terminal UI renders the same
// list state through lipgloss; this package serves the console command's
// HTML export and keeps the escaping contract in one place.
package render

import "strings"

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeHTML escapes the five HTML-significant characters in one pass.
// All backend-supplied text is untrusted and must go through here exactly
// once before being placed into markup; applying it twice double-escapes
// (& becomes &amp;amp;).
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}
