package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Normalize collapses every run of whitespace to a single space and trims
// both ends.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ExtractContent pulls content from the first element of sel. The second
// return value is false when there is nothing to extract: the attribute is
// missing, or the element has no text.
func ExtractContent(sel *goquery.Selection, content ContentSelector) (string, bool) {
	if sel.Length() == 0 {
		return "", false
	}
	sel = sel.First()

	switch content.Kind {
	case ContentAttribute:
		return sel.Attr(content.Attr)
	default:
		text := Normalize(sel.Text())
		if text == "" {
			return "", false
		}
		return text, true
	}
}

// StrippedText concatenates every descendant text node of the first element
// in sel after trimming each one, with no separator. Text rules match against
// this form.
func StrippedText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(strings.TrimSpace(n.Data))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(sel.Get(0))
	return b.String()
}
