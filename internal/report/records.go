// Package report exports the result of a statement run.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// Header is the CSV header for records.csv.
const Header = "date,purchase_type,amount,company,category,detail,raw_text"

const (
	numFields   = 7
	colDate     = 0
	colType     = 1
	colAmount   = 2
	colCompany  = 3
	colCategory = 4
	colDetail   = 5
	colRaw      = 6
)

// ReadRecords reads all records from a records.csv reader.
func ReadRecords(r io.Reader) ([]model.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading records CSV: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	var records []model.Record
	for i, row := range rows[1:] {
		rec, err := UnmarshalRecord(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// WriteRecords writes records to a records.csv writer (including header).
func WriteRecords(w io.Writer, records []model.Record) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, rec := range records {
		if err := cw.Write(MarshalRecord(rec)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalRecord converts a Record to a CSV row.
func MarshalRecord(rec model.Record) []string {
	row := make([]string, numFields)
	row[colDate] = rec.Date
	row[colType] = string(rec.PurchaseType)
	row[colAmount] = rec.Amount.StringFixed(2)
	row[colCompany] = rec.Company
	row[colCategory] = rec.Category
	row[colDetail] = rec.Detail
	row[colRaw] = rec.RawText
	return row
}

// UnmarshalRecord converts a CSV row to a Record.
func UnmarshalRecord(row []string) (model.Record, error) {
	if len(row) != numFields {
		return model.Record{}, fmt.Errorf("expected %d fields, got %d", numFields, len(row))
	}

	amount, err := decimal.NewFromString(row[colAmount])
	if err != nil {
		return model.Record{}, fmt.Errorf("parsing amount %q: %w", row[colAmount], err)
	}

	return model.Record{
		RawText:      row[colRaw],
		PurchaseType: model.PurchaseType(row[colType]),
		Amount:       amount,
		Date:         row[colDate],
		Detail:       row[colDetail],
		Company:      row[colCompany],
		Category:     row[colCategory],
	}, nil
}
