package infopanel

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var blockElements = "p, div, li, tr, h1, h2, h3, h4, h5, h6, table, ul, ol, pre, blockquote"

// Text flattens an info fragment to plain lines for terminal display. Block
// elements start new lines, runs of whitespace collapse to one space, and
// script and style content is dropped.
func Text(markup string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", err
	}
	doc.Find("script, style").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find(blockElements).Each(func(_ int, s *goquery.Selection) {
		s.BeforeHtml("\n")
		s.AfterHtml("\n")
	})
	doc.Find("td, th").Each(func(_ int, s *goquery.Selection) {
		s.AfterHtml(" ")
	})

	var lines []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}
