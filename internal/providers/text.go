package providers

import (
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	tagPattern        = regexp.MustCompile(`(?s)<[^>]*>`)
	scriptPattern     = regexp.MustCompile(`(?is)<(script|style)\b.*?</(script|style)>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// PlainText strips markup from an HTML fragment, decodes entities and collapses whitespace.
// Tags become spaces so adjacent cells do not run together.
func PlainText(markup string) string {
	text := scriptPattern.ReplaceAllString(markup, " ")
	text = tagPattern.ReplaceAllString(text, " ")
	text = html.UnescapeString(text)
	text = strings.ReplaceAll(text, "\u00a0", " ")
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
}

// SelectionText reads the text of every node in sel with element boundaries kept as
// spaces. goquery's Text joins sibling nodes directly, so "7:05 pm" followed by a
// cell would read as "7:05 pmAvailable".
func SelectionText(sel *goquery.Selection) string {
	var b strings.Builder
	sel.Each(func(_ int, s *goquery.Selection) {
		markup, err := goquery.OuterHtml(s)
		if err != nil {
			return
		}
		b.WriteString(markup)
		b.WriteByte(' ')
	})
	return PlainText(b.String())
}

var pricePattern = regexp.MustCompile(`\$\s*(\d+(?:\.\d{1,2})?)`)

// PriceIn returns the first currency-prefixed amount in text and its raw form.
func PriceIn(text string) (*float64, string) {
	m := pricePattern.FindStringSubmatch(text)
	if m == nil {
		return nil, ""
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil, ""
	}
	return &v, strings.TrimSpace(m[0])
}
