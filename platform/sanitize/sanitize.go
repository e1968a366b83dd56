// Package sanitize turns storefront markup into plain message text.
package sanitize

import (
	"html"
	"regexp"
	"strings"
)

var (
	// htmlTagRegex matches HTML tags
	htmlTagRegex = regexp.MustCompile(`<[^>]*>`)
	spaceRegex   = regexp.MustCompile(`[ \t\r\n\f]+`)
)

// StripHTML removes all HTML tags and decodes entities, so a catalog name
// like "Sac &amp; Pochette" reads "Sac & Pochette" in a WhatsApp message.
func StripHTML(s string) string {
	result := htmlTagRegex.ReplaceAllString(s, "")
	result = html.UnescapeString(result)
	// Re-strip after entity decode to catch encoded tags
	result = htmlTagRegex.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}

// Text strips markup and collapses runs of whitespace to one space.
func Text(s string) string {
	return spaceRegex.ReplaceAllString(StripHTML(s), " ")
}
