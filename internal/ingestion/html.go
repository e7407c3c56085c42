package ingestion

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// blockSelectors are the elements whose text is followed by a line break
const blockSelectors = "p, div, li, tr, h1, h2, h3, h4, h5, h6, section, article, header, footer, ul, ol, table"

// extractHTML returns the visible text of an HTML document with block elements on their own lines
func extractHTML(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", &ExtractionError{Format: "html", Message: "failed to parse HTML", Cause: err}
	}

	doc.Find("script, style, noscript, nav, template").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("td, th").Each(func(_ int, s *goquery.Selection) {
		if s.Next().Length() > 0 {
			s.AppendHtml(" | ")
		}
	})
	doc.Find(blockSelectors).Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}

	text := body.Text()
	if strings.TrimSpace(text) == "" {
		return "", &ExtractionError{Format: "html", Message: "document contains no visible text"}
	}
	return text, nil
}
