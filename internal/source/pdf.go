package source

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// OpenPDF extracts each page's text from a PDF file. Pages are read by row
// first; pages that yield nothing that way fall back to plain text with the
// page's font map.
func OpenPDF(path string) (src *Text, err error) {
	// The pdf reader panics on some malformed xref tables.
	defer func() {
		if r := recover(); r != nil {
			src, err = nil, fmt.Errorf("reading %s: pdf reader crashed: %v", path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	n := r.NumPage()
	if n == 0 {
		return nil, fmt.Errorf("reading %s: %w", path, errNoPages)
	}

	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text := pageRows(page)
		if text == "" {
			text = pagePlain(page)
		}
		pages = append(pages, text)
	}
	return NewText(pages), nil
}

var errNoPages = errors.New("document has no pages")

func pageRows(page pdf.Page) string {
	rows, err := page.GetTextByRow()
	if err != nil {
		return ""
	}
	var lines []string
	for _, row := range rows {
		words := make([]string, 0, len(row.Content))
		for _, w := range row.Content {
			words = append(words, w.S)
		}
		if line := strings.TrimSpace(strings.Join(words, " ")); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func pagePlain(page pdf.Page) string {
	fonts := make(map[string]*pdf.Font)
	for _, name := range page.Fonts() {
		font := page.Font(name)
		fonts[name] = &font
	}
	text, err := page.GetPlainText(fonts)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}
