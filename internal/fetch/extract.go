package fetch

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Extract pulls the analysable text out of an HTML document: the text of
// every <p> joined by a single space as the body, and the text of every h1,
// h2 and h3 in document order as the headings. Text is taken as-is, without
// trimming.
func Extract(r io.Reader) (body string, headings []string, err error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", nil, err
	}

	var paragraphs []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		paragraphs = append(paragraphs, s.Text())
	})

	headings = []string{}
	doc.Find("h1, h2, h3").Each(func(_ int, s *goquery.Selection) {
		headings = append(headings, s.Text())
	})

	return strings.Join(paragraphs, " "), headings, nil
}
