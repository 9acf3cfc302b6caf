package parser

import (
	"iter"
	"regexp"
)

// Segment yields every raw entry on page. All entries for the first purchase
// type come before any entry for the second, and so on; within a type they
// come in page order. Entries are not deduplicated across types.
func (p *Parser) Segment(page string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for i := range p.entries {
			for raw := range scan(p.entries[i], page) {
				if !yield(raw) {
					return
				}
			}
		}
	}
}

// scan walks text lazily, yielding the first capture group of each
// non-overlapping match, left to right. A date may follow any non-digit,
// including a letter glued to it by text extraction.
func scan(re *regexp.Regexp, text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for off := 0; off < len(text); {
			loc := re.FindStringSubmatchIndex(text[off:])
			if loc == nil {
				return
			}
			if !yield(text[off+loc[2] : off+loc[3]]) {
				return
			}
			if loc[1] == 0 {
				off++
				continue
			}
			off += loc[1]
		}
	}
}
