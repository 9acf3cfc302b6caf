package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// BudgetLine compares one category's spending to its allocation.
type BudgetLine struct {
	Category  string
	Allocated decimal.Decimal
	Spent     decimal.Decimal
	Remaining decimal.Decimal     // negative when over budget
	Used      decimal.NullDecimal // percent of allocation spent; invalid without an allocation
}

// Over reports whether spending exceeded the allocation.
func (l BudgetLine) Over() bool {
	return l.Remaining.IsNegative()
}

var hundred = decimal.NewFromInt(100)

// Budget lines up allocations with the category totals of s. Every category
// that has either an allocation or spending gets a line, sorted by name.
func Budget(allocations map[string]decimal.Decimal, s model.Summary) []BudgetLine {
	cats := make(map[string]struct{}, len(allocations)+len(s.CategoryTotals))
	for c := range allocations {
		cats[c] = struct{}{}
	}
	for c := range s.CategoryTotals {
		cats[c] = struct{}{}
	}

	lines := make([]BudgetLine, 0, len(cats))
	for _, c := range sortedKeys(cats) {
		alloc := allocations[c]
		spent := s.CategoryTotals[c]
		line := BudgetLine{
			Category:  c,
			Allocated: alloc,
			Spent:     spent,
			Remaining: alloc.Sub(spent),
		}
		if alloc.IsPositive() {
			line.Used = decimal.NewNullDecimal(spent.Div(alloc).Mul(hundred).Round(1))
		}
		lines = append(lines, line)
	}
	return lines
}

// WriteBudget renders budget lines as aligned text.
func WriteBudget(w io.Writer, lines []BudgetLine) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Category\tAllocated\tSpent\tRemaining\tUsed\t\n")
	total := BudgetLine{Category: "Total"}
	for _, l := range lines {
		writeBudgetLine(tw, l)
		total.Allocated = total.Allocated.Add(l.Allocated)
		total.Spent = total.Spent.Add(l.Spent)
		total.Remaining = total.Remaining.Add(l.Remaining)
	}
	if total.Allocated.IsPositive() {
		total.Used = decimal.NewNullDecimal(total.Spent.Div(total.Allocated).Mul(hundred).Round(1))
	}
	writeBudgetLine(tw, total)
	return tw.Flush()
}

func writeBudgetLine(w io.Writer, l BudgetLine) {
	used := "-"
	if l.Used.Valid {
		used = l.Used.Decimal.StringFixed(1) + "%"
	}
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
		l.Category, l.Allocated.StringFixed(2), l.Spent.StringFixed(2), l.Remaining.StringFixed(2), used)
}
