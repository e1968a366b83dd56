package orders

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SplitProductNames splits a cart's free-text product list. Items are
// separated by ", " except the last two, which are joined by " & ".
func SplitProductNames(blob string) []string {
	parts := strings.Split(blob, ", ")
	last := parts[len(parts)-1]
	return append(parts[:len(parts)-1], strings.Split(last, " & ")...)
}

// ImageLinks returns the src attribute of every <img> in an HTML fragment, in
// document order. Unparseable markup yields no links.
func ImageLinks(html string) []string {
	if strings.TrimSpace(html) == "" {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var links []string
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		links = append(links, src)
	})
	return links
}
