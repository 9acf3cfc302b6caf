// Package directory holds the counterparty directory: known businesses keyed
// by shorthand fragments, bucketed by their first character.
package directory

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/cleared-dev/tally/internal/model"
)

var punctuation = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)

// NormalizeKey strips punctuation, uppercases and removes all whitespace.
// Letters and digits from any script are kept.
// Detail text and shorthand codes share this key space.
func NormalizeKey(s string) string {
	s = strings.ToUpper(punctuation.ReplaceAllString(s, ""))
	return strings.Join(strings.Fields(s), "")
}

// Directory is read-only after New returns and may be shared between
// goroutines without locking.
type Directory struct {
	entries     []model.Counterparty
	byInitial   map[rune][]string
	byShorthand map[string]model.Counterparty
}

// New builds a directory from entries. Shorthand codes are normalized; their
// order within each initial bucket follows the order of entries.
func New(entries []model.Counterparty) (*Directory, error) {
	d := &Directory{
		entries:     make([]model.Counterparty, 0, len(entries)),
		byInitial:   make(map[rune][]string),
		byShorthand: make(map[string]model.Counterparty, len(entries)),
	}
	for i, e := range entries {
		code := NormalizeKey(e.Shorthand)
		if code == "" {
			return nil, fmt.Errorf("entry %d (%s): empty shorthand", i+1, e.Name)
		}
		if _, dup := d.byShorthand[code]; dup {
			return nil, fmt.Errorf("entry %d (%s): duplicate shorthand %q", i+1, e.Name, code)
		}
		e.Shorthand = code
		initial, _ := utf8.DecodeRuneInString(code)
		d.byInitial[initial] = append(d.byInitial[initial], code)
		d.byShorthand[code] = e
		d.entries = append(d.entries, e)
	}
	return d, nil
}

// Classify looks only in the bucket for key's first character and returns the
// first shorthand, in bucket order, that occurs anywhere in key.
func (d *Directory) Classify(key string) (model.Counterparty, bool) {
	if key == "" {
		return model.Counterparty{}, false
	}
	initial, _ := utf8.DecodeRuneInString(key)
	for _, code := range d.byInitial[initial] {
		if strings.Contains(key, code) {
			return d.byShorthand[code], true
		}
	}
	return model.Counterparty{}, false
}

// All returns the entries in load order.
func (d *Directory) All() []model.Counterparty {
	return d.entries
}

// Len returns the number of entries.
func (d *Directory) Len() int {
	return len(d.entries)
}

// Categories returns the distinct categories in first-seen order.
func (d *Directory) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range d.entries {
		if !seen[e.Category] {
			seen[e.Category] = true
			out = append(out, e.Category)
		}
	}
	return out
}
