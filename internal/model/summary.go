package model

import (
	"github.com/shopspring/decimal"
)

// Unclassified is the reserved category bucket for records no directory entry matched.
const Unclassified = "unclassified"

// Summary is the aggregate result for one statement.
type Summary struct {
	ExpenseTotal   decimal.Decimal
	CategoryTotals map[string]decimal.Decimal
	DailyTotals    map[string]decimal.Decimal // keyed by "MM/DD"
	DailyMean      decimal.NullDecimal        // invalid when the period is unset or zero-length
}
