package rendering

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DocumentInfo summarizes an HTML document before it is printed.
type DocumentInfo struct {
	Title      string
	TextLength int
}

// InspectHTML parses html and reports its title and visible text length.
// A document whose body has no visible text is rejected; printing it would
// produce a blank PDF.
func InspectHTML(html string) (*DocumentInfo, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &RenderError{Message: "failed to parse HTML", Cause: err}
	}

	body := doc.Find("body").Clone()
	body.Find("script, style, noscript, template").Remove()
	text := strings.Join(strings.Fields(body.Text()), " ")
	if text == "" {
		return nil, &RenderError{Message: "document body has no visible text"}
	}

	return &DocumentInfo{
		Title:      strings.TrimSpace(doc.Find("head title").First().Text()),
		TextLength: len(text),
	}, nil
}
