package report

import (
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/cleared-dev/tally/internal/daykey"
	"github.com/cleared-dev/tally/internal/model"
)

const periodFormat = "2006-01-02"

// WriteSummary renders the statement summary as aligned text.
func WriteSummary(w io.Writer, p *model.Period, s model.Summary) error {
	series := daykey.Series(s.DailyTotals, p)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	if p != nil {
		fmt.Fprintf(tw, "Account\t%d\t\n", p.AccountNumber)
		fmt.Fprintf(tw, "Period\t%s to %s (%d days)\t\n",
			p.Start.Format(periodFormat), p.End.Format(periodFormat), p.Days())
	} else {
		fmt.Fprintf(tw, "Period\tunresolved\t\n")
	}
	fmt.Fprintf(tw, "Expense total\t%s\t\n", s.ExpenseTotal.StringFixed(2))
	if s.DailyMean.Valid {
		fmt.Fprintf(tw, "Daily mean\t%s\t\n", s.DailyMean.Decimal.StringFixed(2))
	} else {
		fmt.Fprintf(tw, "Daily mean\tn/a\t\n")
	}

	fmt.Fprintf(tw, "\t\t\nCategory\tTotal\t\n")
	for _, cat := range sortedKeys(s.CategoryTotals) {
		fmt.Fprintf(tw, "%s\t%s\t\n", cat, s.CategoryTotals[cat].StringFixed(2))
	}

	fmt.Fprintf(tw, "\t\t\nDay\tTotal\t\n")
	for _, d := range series {
		fmt.Fprintf(tw, "%s\t%s\t\n", d.Key, d.Total.StringFixed(2))
	}
	return tw.Flush()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
