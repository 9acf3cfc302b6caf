// Package source provides the page text of a statement: one summary page
// plus the ordered transaction pages.
package source

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"os"
	"slices"
	"strings"
)

// PageSource is the text of one statement with layout line breaks already
// collapsed to spaces.
type PageSource interface {
	Summary() string
	Pages() iter.Seq[string]
}

// Text is an in-memory PageSource.
type Text struct {
	SummaryText string
	PageTexts   []string
}

// Summary returns the summary page text.
func (t *Text) Summary() string { return t.SummaryText }

// Pages yields the transaction pages in document order.
func (t *Text) Pages() iter.Seq[string] { return slices.Values(t.PageTexts) }

// NewText builds a source whose summary is the first page and whose
// transaction pages are all pages, the first included.
func NewText(pages []string) *Text {
	t := &Text{PageTexts: make([]string, 0, len(pages))}
	for _, p := range pages {
		t.PageTexts = append(t.PageTexts, Collapse(p))
	}
	if len(t.PageTexts) > 0 {
		t.SummaryText = t.PageTexts[0]
	}
	return t
}

// Collapse joins the lines of a page into one line with single spaces.
func Collapse(page string) string {
	return strings.Join(strings.Fields(page), " ")
}

// formFeed separates pages in pdftotext output.
const formFeed = '\f'

// ParseText reads pdftotext-style output, one page per form feed.
// A trailing empty page after the last form feed is dropped.
func ParseText(r io.Reader) (*Text, error) {
	br := bufio.NewReader(r)
	var pages []string
	var cur strings.Builder
	for {
		ch, _, err := br.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading statement text: %w", err)
		}
		if ch == formFeed {
			pages = append(pages, cur.String())
			cur.Reset()
			continue
		}
		cur.WriteRune(ch)
	}
	if strings.TrimSpace(cur.String()) != "" || len(pages) == 0 {
		pages = append(pages, cur.String())
	}
	return NewText(pages), nil
}

// OpenText reads a pdftotext-style file from disk.
func OpenText(path string) (*Text, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	t, err := ParseText(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return t, nil
}
