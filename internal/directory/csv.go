package directory

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/cleared-dev/tally/internal/model"
)

const (
	numFields    = 3
	colShorthand = 0
	colName      = 1
	colCategory  = 2
)

// ReadEntries reads counterparties.csv (shorthand,name,category).
func ReadEntries(r io.Reader) ([]model.Counterparty, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading directory CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var entries []model.Counterparty
	for _, rec := range records[1:] {
		entries = append(entries, UnmarshalEntry(rec))
	}
	return entries, nil
}

// WriteEntries writes counterparties.csv.
func WriteEntries(w io.Writer, entries []model.Counterparty) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"shorthand", "name", "category"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalEntry converts a Counterparty to a CSV row.
func MarshalEntry(e model.Counterparty) []string {
	row := make([]string, numFields)
	row[colShorthand] = e.Shorthand
	row[colName] = e.Name
	row[colCategory] = e.Category
	return row
}

// UnmarshalEntry converts a CSV row to a Counterparty.
func UnmarshalEntry(record []string) model.Counterparty {
	return model.Counterparty{
		Shorthand: record[colShorthand],
		Name:      record[colName],
		Category:  record[colCategory],
	}
}
