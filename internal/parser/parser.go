// Package parser cuts statement page text into raw transaction entries and
// turns each entry into a model.Record.
package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/cleared-dev/tally/internal/model"
)

// ErrMalformedRecord is returned when an entry does not fit the
// date/type/amount/detail grammar.
var ErrMalformedRecord = errors.New("malformed record")

// Parse stages reported by RecordError.
const (
	StageAmount = "amount"
	StageDate   = "date"
	StageDetail = "detail"
)

// RecordError describes an entry that could not be parsed.
type RecordError struct {
	Stage string
	Raw   string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s: no %s in %q", ErrMalformedRecord, e.Stage, e.Raw)
}

func (e *RecordError) Unwrap() error {
	return ErrMalformedRecord
}

// Classifier resolves a normalized detail key to a known counterparty.
type Classifier interface {
	Classify(key string) (model.Counterparty, bool)
}

// amountExpr is a decimal ending in two fraction digits, thousands separators allowed.
const amountExpr = `\d[\d,]*\.\d{2}\b`

// dateExpr is an "MM/DD" token; PDF text often has spaces around the slash.
const dateExpr = `\d{2}\s*/\s*\d{2}`

// Parser holds the compiled patterns for one purchase-type priority list.
// It is safe for concurrent use.
type Parser struct {
	types   []model.PurchaseType
	lowered []string
	entries []*regexp.Regexp // segmenter pattern per type, entry in group 1
	details []*regexp.Regexp // fallback detail pattern per type
}

// New compiles the patterns for types. The order of types is the precedence
// order used by both Segment and Parse.
func New(types []model.PurchaseType) (*Parser, error) {
	p := &Parser{
		types:   make([]model.PurchaseType, 0, len(types)),
		lowered: make([]string, 0, len(types)),
	}
	for _, pt := range types {
		if strings.TrimSpace(string(pt)) == "" {
			return nil, errors.New("empty purchase type")
		}
		label := regexp.QuoteMeta(string(pt))
		entry, err := regexp.Compile(`(?:^|\D)(` + dateExpr + `\s+(?i:` + label + `).*?\s` + amountExpr + `)`)
		if err != nil {
			return nil, fmt.Errorf("compiling entry pattern for %q: %w", pt, err)
		}
		detail, err := regexp.Compile(`(?i:` + label + `)\s+(.*?)\s*` + amountExpr)
		if err != nil {
			return nil, fmt.Errorf("compiling detail pattern for %q: %w", pt, err)
		}
		p.types = append(p.types, pt)
		p.lowered = append(p.lowered, strings.ToLower(string(pt)))
		p.entries = append(p.entries, entry)
		p.details = append(p.details, detail)
	}
	return p, nil
}

// Types returns the purchase types in precedence order.
func (p *Parser) Types() []model.PurchaseType {
	return p.types
}
