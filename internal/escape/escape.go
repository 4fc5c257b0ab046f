// Package escape provides output escaping for text rendered into HTML.
package escape

import "strings"

// htmlReplacer substitutes the five HTML-significant characters.
// The replacement runs in a single left-to-right pass, so the entities it
// produces are never escaped a second time within the same call.
var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// HTML escapes s for safe inclusion in HTML text and attribute values.
// Input that is already escaped is escaped again.
func HTML(s string) string {
	return htmlReplacer.Replace(s)
}
