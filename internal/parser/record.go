package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/directory"
	"github.com/cleared-dev/tally/internal/model"
)

var (
	// Any decimal token; the last one in an entry is its amount.
	decimalPattern = regexp.MustCompile(`\d*\.\d+`)

	// The leftmost "07/14" or "TR DATE 07/14", whichever comes first. A
	// segmented entry starts with its posting date, so that date is taken.
	datePattern = regexp.MustCompile(`TR DATE\s+(` + dateExpr + `)|(` + dateExpr + `)`)

	// Primary detail grammar: "TR DATE 07/14 <detail> 12.00".
	trDetailPattern = regexp.MustCompile(`TR DATE\s+` + dateExpr + `\s+(.*?)\s*` + amountExpr)
)

// Parse builds a record from one raw entry. Fields are resolved in order:
// purchase type, amount, date, detail, then counterparty via c (which may be nil).
func (p *Parser) Parse(raw string, c Classifier) (model.Record, error) {
	rec := model.Record{RawText: raw}

	typeIdx := p.resolveType(raw)
	if typeIdx >= 0 {
		rec.PurchaseType = p.types[typeIdx]
	}

	amount, err := parseAmount(raw)
	if err != nil {
		return model.Record{}, err
	}
	rec.Amount = amount

	date, ok := parseDate(raw)
	if !ok {
		return model.Record{}, &RecordError{Stage: StageDate, Raw: raw}
	}
	rec.Date = date

	detail, ok := p.parseDetail(raw, typeIdx)
	if !ok {
		return model.Record{}, &RecordError{Stage: StageDetail, Raw: raw}
	}
	rec.Detail = directory.NormalizeKey(detail)

	if c != nil {
		if cp, ok := c.Classify(rec.Detail); ok {
			rec.Company = cp.Name
			rec.Category = cp.Category
		}
	}
	return rec, nil
}

// resolveType returns the index of the last purchase type contained in raw,
// or -1. Every hit overwrites the previous one.
func (p *Parser) resolveType(raw string) int {
	lower := strings.ToLower(raw)
	idx := -1
	for i, label := range p.lowered {
		if strings.Contains(lower, label) {
			idx = i
		}
	}
	return idx
}

func parseAmount(raw string) (decimal.Decimal, error) {
	tokens := decimalPattern.FindAllString(strings.ReplaceAll(raw, ",", ""), -1)
	if len(tokens) == 0 {
		return decimal.Decimal{}, &RecordError{Stage: StageAmount, Raw: raw}
	}
	tok := tokens[len(tokens)-1]
	if strings.HasPrefix(tok, ".") {
		tok = "0" + tok
	}
	d, err := decimal.NewFromString(tok)
	if err != nil {
		return decimal.Decimal{}, &RecordError{Stage: StageAmount, Raw: raw}
	}
	return d.Abs(), nil
}

func parseDate(raw string) (string, bool) {
	m := datePattern.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	date := m[1]
	if date == "" {
		date = m[2]
	}
	return strings.Join(strings.Fields(date), ""), true
}

// parseDetail tries the TR DATE grammar first and only falls back to the
// purchase-type grammar when it does not match at all.
func (p *Parser) parseDetail(raw string, typeIdx int) (string, bool) {
	if m := trDetailPattern.FindStringSubmatch(raw); m != nil {
		return m[1], true
	}
	if typeIdx < 0 {
		return "", false
	}
	m := p.details[typeIdx].FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	return m[1], true
}
