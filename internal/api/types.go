package api

import (
	"github.com/google/uuid"

	"github.com/cleared-dev/tally/internal/aggregate"
	"github.com/cleared-dev/tally/internal/daykey"
	"github.com/cleared-dev/tally/internal/model"
)

// AnalyzeRequest is the body of POST /api/analyze.
type AnalyzeRequest struct {
	Summary string   `json:"summary"`
	Pages   []string `json:"pages"`
}

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Error string `json:"error"`
	RunID string `json:"run_id,omitempty"`
}

// CounterpartyJSON is one directory entry.
type CounterpartyJSON struct {
	Shorthand string `json:"shorthand"`
	Name      string `json:"name"`
	Category  string `json:"category"`
}

// PeriodJSON is the statement period with dates as YYYY-MM-DD.
type PeriodJSON struct {
	AccountNumber int64  `json:"account_number"`
	Start         string `json:"start"`
	End           string `json:"end"`
	Days          int    `json:"days"`
}

// RecordJSON is one transaction. Amounts are decimal strings.
type RecordJSON struct {
	Date         string `json:"date"`
	PurchaseType string `json:"purchase_type"`
	Amount       string `json:"amount"`
	Company      string `json:"company,omitempty"`
	Category     string `json:"category,omitempty"`
	Detail       string `json:"detail"`
	RawText      string `json:"raw_text"`
}

// DayJSON is one point of the daily series.
type DayJSON struct {
	Date  string `json:"date"`
	Total string `json:"total"`
}

// SummaryJSON mirrors model.Summary; the daily totals are ordered by date.
type SummaryJSON struct {
	ExpenseTotal   string            `json:"expense_total"`
	CategoryTotals map[string]string `json:"category_totals"`
	DailyTotals    []DayJSON         `json:"daily_totals"`
	DailyMean      *string           `json:"daily_mean"`
}

// AnalyzeResponse is the body of a successful POST /api/analyze.
type AnalyzeResponse struct {
	RunID        string       `json:"run_id"`
	Period       *PeriodJSON  `json:"period"`
	Records      []RecordJSON `json:"records"`
	Summary      SummaryJSON  `json:"summary"`
	StoppedEarly bool         `json:"stopped_early"`
	PagesScanned int          `json:"pages_scanned"`
	MeanError    string       `json:"mean_error,omitempty"`
}

const dateFormat = "2006-01-02"

// NewAnalyzeResponse converts a run result for the wire.
func NewAnalyzeResponse(runID uuid.UUID, res *aggregate.Result) AnalyzeResponse {
	out := AnalyzeResponse{
		RunID:        runID.String(),
		Records:      make([]RecordJSON, len(res.Records)),
		StoppedEarly: res.StoppedEarly,
		PagesScanned: res.PagesScanned,
		Summary: SummaryJSON{
			ExpenseTotal:   res.Summary.ExpenseTotal.StringFixed(2),
			CategoryTotals: make(map[string]string, len(res.Summary.CategoryTotals)),
		},
	}
	if res.Period != nil {
		out.Period = &PeriodJSON{
			AccountNumber: res.Period.AccountNumber,
			Start:         res.Period.Start.Format(dateFormat),
			End:           res.Period.End.Format(dateFormat),
			Days:          res.Period.Days(),
		}
	}
	if res.MeanErr != nil {
		out.MeanError = res.MeanErr.Error()
	}

	for i, rec := range res.Records {
		out.Records[i] = recordJSON(rec)
	}
	for cat, total := range res.Summary.CategoryTotals {
		out.Summary.CategoryTotals[cat] = total.StringFixed(2)
	}

	series := daykey.Series(res.Summary.DailyTotals, res.Period)
	out.Summary.DailyTotals = make([]DayJSON, len(series))
	for i, d := range series {
		out.Summary.DailyTotals[i] = DayJSON{Date: d.Key, Total: d.Total.StringFixed(2)}
	}

	if res.Summary.DailyMean.Valid {
		mean := res.Summary.DailyMean.Decimal.StringFixed(2)
		out.Summary.DailyMean = &mean
	}
	return out
}

func recordJSON(rec model.Record) RecordJSON {
	return RecordJSON{
		Date:         rec.Date,
		PurchaseType: string(rec.PurchaseType),
		Amount:       rec.Amount.StringFixed(2),
		Company:      rec.Company,
		Category:     rec.Category,
		Detail:       rec.Detail,
		RawText:      rec.RawText,
	}
}
