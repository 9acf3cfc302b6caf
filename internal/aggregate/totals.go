package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// Totals sums records into an expense total, per-category totals and per-day
// totals. The daily mean is left unset; it needs a statement period.
func Totals(records []model.Record) model.Summary {
	s := model.Summary{
		ExpenseTotal:   decimal.Zero,
		CategoryTotals: make(map[string]decimal.Decimal),
		DailyTotals:    make(map[string]decimal.Decimal),
	}
	for _, rec := range records {
		s.ExpenseTotal = s.ExpenseTotal.Add(rec.Amount)
		key := rec.CategoryKey()
		s.CategoryTotals[key] = s.CategoryTotals[key].Add(rec.Amount)
		s.DailyTotals[rec.Date] = s.DailyTotals[rec.Date].Add(rec.Amount)
	}
	return s
}
