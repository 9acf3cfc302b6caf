package aggregate

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// InvariantError describes a single inconsistency between records and summary.
type InvariantError struct {
	Check       string
	Description string
}

func (e InvariantError) Error() string {
	return fmt.Sprintf("%s: %s", e.Check, e.Description)
}

// Check verifies that the records and totals of a run agree with each other.
func Check(records []model.Record, s model.Summary) []InvariantError {
	var errs []InvariantError

	recordSum := decimal.Zero
	for _, rec := range records {
		if rec.Amount.IsNegative() {
			errs = append(errs, InvariantError{
				Check:       "amount",
				Description: fmt.Sprintf("negative amount %s in %q", rec.Amount, rec.RawText),
			})
		}
		recordSum = recordSum.Add(rec.Amount)
	}

	if !recordSum.Equal(s.ExpenseTotal) {
		errs = append(errs, InvariantError{
			Check:       "expense_total",
			Description: fmt.Sprintf("records sum to %s, expense total is %s", recordSum.StringFixed(2), s.ExpenseTotal.StringFixed(2)),
		})
	}

	if sum := sumValues(s.CategoryTotals); !sum.Equal(s.ExpenseTotal) {
		errs = append(errs, InvariantError{
			Check:       "category_totals",
			Description: fmt.Sprintf("categories sum to %s, expense total is %s", sum.StringFixed(2), s.ExpenseTotal.StringFixed(2)),
		})
	}

	if sum := sumValues(s.DailyTotals); !sum.Equal(s.ExpenseTotal) {
		errs = append(errs, InvariantError{
			Check:       "daily_totals",
			Description: fmt.Sprintf("days sum to %s, expense total is %s", sum.StringFixed(2), s.ExpenseTotal.StringFixed(2)),
		})
	}

	return errs
}

func sumValues(m map[string]decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, v := range m {
		sum = sum.Add(v)
	}
	return sum
}
