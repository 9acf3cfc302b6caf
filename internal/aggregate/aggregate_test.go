package aggregate

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/directory"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/parser"
	"github.com/cleared-dev/tally/internal/period"
	"github.com/cleared-dev/tally/internal/source"
)

const julySummary = "Account Number Statement Period 1234567890123 07 / 01 / 2018 - 07 / 31 / 2018"

func newAggregator(t *testing.T, opts Options, types ...model.PurchaseType) *Aggregator {
	t.Helper()
	if len(types) == 0 {
		types = model.DefaultPurchaseTypes
	}
	p, err := parser.New(types)
	require.NoError(t, err)
	return New(p, directory.Default(), opts)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestRun_Fixture(t *testing.T) {
	src, err := source.OpenText("../../testdata/statement_july2018.txt")
	require.NoError(t, err)

	res, err := newAggregator(t, Options{}).Run(context.Background(), src)
	require.NoError(t, err)

	require.NotNil(t, res.Period)
	assert.Equal(t, int64(1234567890123), res.Period.AccountNumber)
	assert.True(t, res.StoppedEarly)
	assert.Equal(t, 3, res.PagesScanned)
	assert.Len(t, res.Records, 7)
	for _, rec := range res.Records {
		assert.NotContains(t, rec.RawText, "SHOULD NOT COUNT")
	}

	s := res.Summary
	assert.Equal(t, "268.08", s.ExpenseTotal.StringFixed(2))
	assert.Equal(t, "13.24", s.CategoryTotals[directory.CategoryDining].StringFixed(2))
	assert.Equal(t, "52.10", s.CategoryTotals[directory.CategoryGroceries].StringFixed(2))
	assert.Equal(t, "202.74", s.CategoryTotals[model.Unclassified].StringFixed(2))

	assert.Len(t, s.DailyTotals, 5)
	assert.Equal(t, "13.24", s.DailyTotals["07/02"].StringFixed(2))
	assert.Equal(t, "131.75", s.DailyTotals["07/14"].StringFixed(2))
	assert.Equal(t, "60.00", s.DailyTotals["07/20"].StringFixed(2))

	require.True(t, s.DailyMean.Valid)
	assert.Equal(t, "8.94", s.DailyMean.Decimal.StringFixed(2))
	assert.NoError(t, res.MeanErr)

	assert.Empty(t, Check(res.Records, s))
}

func TestRun_RecordOrder(t *testing.T) {
	src := &source.Text{
		SummaryText: julySummary,
		PageTexts: []string{
			"07/01 Check Card Purchase STARBUCKS 1.00 07/02 Point of Sale Debit TARGET 2.00 07/03 Check Card Purchase SHELL OIL 3.00",
			"07/04 Point of Sale Debit FOOD LION 4.00",
		},
	}

	res, err := newAggregator(t, Options{}).Run(context.Background(), src)
	require.NoError(t, err)

	var dates []string
	for _, rec := range res.Records {
		dates = append(dates, rec.Date)
	}
	assert.Equal(t, []string{"07/01", "07/03", "07/02", "07/04"}, dates)
}

func TestRun_EarlyTermination(t *testing.T) {
	src := &source.Text{
		SummaryText: julySummary,
		PageTexts: []string{
			"07/01 Check Card Purchase STARBUCKS 4.75",
			"07/02 Check Card Purchase FOOD LION 20.00 Totals Total Debits and Credits 24.75",
			"07/03 Check Card Purchase SHELL OIL 30.00",
		},
	}

	res, err := newAggregator(t, Options{}).Run(context.Background(), src)
	require.NoError(t, err)

	assert.True(t, res.StoppedEarly)
	assert.Equal(t, 2, res.PagesScanned)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "07/02", res.Records[1].Date)
	assert.Equal(t, "24.75", res.Summary.ExpenseTotal.StringFixed(2))
}

func TestRun_BothMarkersRequired(t *testing.T) {
	src := &source.Text{
		SummaryText: julySummary,
		PageTexts: []string{
			"07/01 Check Card Purchase STARBUCKS 4.75 Totals",
			"07/03 Check Card Purchase SHELL OIL 30.00",
		},
	}

	res, err := newAggregator(t, Options{}).Run(context.Background(), src)
	require.NoError(t, err)
	assert.False(t, res.StoppedEarly)
	assert.Equal(t, 2, res.PagesScanned)
	assert.Len(t, res.Records, 2)
}

func TestRun_CustomMarkers(t *testing.T) {
	src := &source.Text{
		SummaryText: julySummary,
		PageTexts: []string{
			"07/01 Check Card Purchase STARBUCKS 4.75 END OF STATEMENT summary of fees",
			"07/03 Check Card Purchase SHELL OIL 30.00",
		},
	}

	opts := Options{Markers: Markers{Terminal: "END OF STATEMENT", Totals: "summary of fees"}}
	res, err := newAggregator(t, opts).Run(context.Background(), src)
	require.NoError(t, err)
	assert.True(t, res.StoppedEarly)
	assert.Len(t, res.Records, 1)
}

func TestRun_BlankMarkerFallsBackToDefault(t *testing.T) {
	src := &source.Text{
		SummaryText: julySummary,
		PageTexts: []string{
			"07/01 Check Card Purchase STARBUCKS 4.75 Debits and Credits",
			"07/03 Check Card Purchase SHELL OIL 30.00",
		},
	}

	opts := Options{Markers: Markers{Terminal: "", Totals: "Debits and Credits"}}
	res, err := newAggregator(t, opts).Run(context.Background(), src)
	require.NoError(t, err)
	assert.False(t, res.StoppedEarly)
	assert.Len(t, res.Records, 2)

	opts = Options{Markers: Markers{Terminal: "Totals", Totals: "  "}}
	src.PageTexts[0] = "07/01 Check Card Purchase STARBUCKS 4.75 Totals"
	res, err = newAggregator(t, opts).Run(context.Background(), src)
	require.NoError(t, err)
	assert.False(t, res.StoppedEarly)
	assert.Len(t, res.Records, 2)
}

func TestRun_SameDayCollapse(t *testing.T) {
	src := &source.Text{
		SummaryText: julySummary,
		PageTexts: []string{
			"07/14 Check Card Purchase STARBUCKS #123 4.75 07/14 Check Card Purchase FOOD LION 10.00",
		},
	}

	res, err := newAggregator(t, Options{}).Run(context.Background(), src)
	require.NoError(t, err)

	assert.Len(t, res.Summary.DailyTotals, 1)
	assert.True(t, res.Summary.DailyTotals["07/14"].Equal(dec("14.75")))
	assert.Equal(t, "0.49", res.Summary.DailyMean.Decimal.StringFixed(2))
}

func TestRun_UnresolvedPeriod(t *testing.T) {
	src := &source.Text{
		SummaryText: "no account line here",
		PageTexts:   []string{"07/14 Check Card Purchase STARBUCKS 4.75"},
	}

	res, err := newAggregator(t, Options{}).Run(context.Background(), src)
	require.NoError(t, err)

	assert.Nil(t, res.Period)
	assert.ErrorIs(t, res.PeriodErr, period.ErrUnresolvedPeriod)
	assert.ErrorIs(t, res.MeanErr, ErrComputation)
	assert.False(t, res.Summary.DailyMean.Valid)
	assert.Equal(t, "4.75", res.Summary.ExpenseTotal.StringFixed(2))
	assert.Empty(t, Check(res.Records, res.Summary))
}

func TestRun_ZeroDayPeriod(t *testing.T) {
	src := &source.Text{
		SummaryText: "1234567890123 07/01/2018 - 07/01/2018",
		PageTexts:   []string{"07/01 Check Card Purchase STARBUCKS 4.75"},
	}

	res, err := newAggregator(t, Options{}).Run(context.Background(), src)
	require.NoError(t, err)
	require.NotNil(t, res.Period)
	assert.ErrorIs(t, res.MeanErr, ErrComputation)
	assert.False(t, res.Summary.DailyMean.Valid)
}

func TestRun_MalformedAbortsStatement(t *testing.T) {
	src := &source.Text{
		SummaryText: julySummary,
		PageTexts: []string{
			"07/13 ACH- PAYROLL 1.00",
			"07/14 ACH-PAYROLL 4.75",
		},
	}

	res, err := newAggregator(t, Options{}, "ACH-").Run(context.Background(), src)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, parser.ErrMalformedRecord)
	assert.Contains(t, err.Error(), "page 2")
}

func TestRun_EmptyStatement(t *testing.T) {
	src := &source.Text{SummaryText: julySummary}

	res, err := newAggregator(t, Options{}).Run(context.Background(), src)
	require.NoError(t, err)
	assert.Empty(t, res.Records)
	assert.True(t, res.Summary.ExpenseTotal.IsZero())
	assert.Empty(t, res.Summary.CategoryTotals)
	require.True(t, res.Summary.DailyMean.Valid)
	assert.True(t, res.Summary.DailyMean.Decimal.IsZero())
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &source.Text{SummaryText: julySummary, PageTexts: []string{"07/14 Check Card Purchase STARBUCKS 4.75"}}
	_, err := newAggregator(t, Options{}).Run(ctx, src)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_StateTransitions(t *testing.T) {
	var states []State
	opts := Options{OnState: func(s State) { states = append(states, s) }}

	src := &source.Text{SummaryText: julySummary, PageTexts: []string{"07/14 Check Card Purchase STARBUCKS 4.75"}}
	_, err := newAggregator(t, opts).Run(context.Background(), src)
	require.NoError(t, err)

	assert.Equal(t, []State{ExtractingPeriod, ScanningPages, Finalizing, Done}, states)
}

func TestRun_Logs(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.InfoLevel)

	src := &source.Text{
		SummaryText: "missing",
		PageTexts:   []string{"07/14 Check Card Purchase STARBUCKS 4.75 Totals Debits and Credits"},
	}
	_, err := newAggregator(t, Options{Logger: &log}).Run(context.Background(), src)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "statement period unresolved")
	assert.Contains(t, out, "closing totals reached")
	assert.Contains(t, out, `"records":1`)
	assert.Contains(t, out, `"unclassified":0`)
	assert.NotContains(t, out, "state transition")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "scanning_pages", ScanningPages.String())
	assert.Equal(t, "state(9)", State(9).String())
}

func TestDailyMean(t *testing.T) {
	daily := map[string]decimal.Decimal{"07/02": dec("10.00"), "07/03": dec("20.00")}
	p := &model.Period{
		Start: time.Date(2018, 7, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2018, 7, 31, 0, 0, 0, 0, time.UTC),
	}

	mean, err := DailyMean(daily, p)
	require.NoError(t, err)
	assert.True(t, mean.Equal(dec("1")))

	_, err = DailyMean(daily, nil)
	assert.ErrorIs(t, err, ErrComputation)

	zero := &model.Period{Start: p.Start, End: p.Start}
	_, err = DailyMean(daily, zero)
	assert.ErrorIs(t, err, ErrComputation)
}

func TestCheck(t *testing.T) {
	records := []model.Record{
		{RawText: "a", Amount: dec("4.75"), Date: "07/14"},
		{RawText: "b", Amount: dec("10.00"), Date: "07/14", Category: "Dining"},
	}
	good := model.Summary{
		ExpenseTotal:   dec("14.75"),
		CategoryTotals: map[string]decimal.Decimal{model.Unclassified: dec("4.75"), "Dining": dec("10.00")},
		DailyTotals:    map[string]decimal.Decimal{"07/14": dec("14.75")},
	}
	assert.Empty(t, Check(records, good))

	bad := good
	bad.CategoryTotals = map[string]decimal.Decimal{"Dining": dec("10.00")}
	bad.DailyTotals = map[string]decimal.Decimal{"07/14": dec("14.00")}
	errs := Check(records, bad)
	require.Len(t, errs, 2)
	assert.Equal(t, "category_totals", errs[0].Check)
	assert.Equal(t, "daily_totals", errs[1].Check)
	assert.Contains(t, errs[1].Error(), "14.00")

	neg := []model.Record{{RawText: "c", Amount: dec("-1.00")}}
	errs = Check(neg, model.Summary{ExpenseTotal: dec("-1.00"), CategoryTotals: map[string]decimal.Decimal{"x": dec("-1.00")}, DailyTotals: map[string]decimal.Decimal{"": dec("-1.00")}})
	require.Len(t, errs, 1)
	assert.Equal(t, "amount", errs[0].Check)
}

func TestTotals(t *testing.T) {
	records := []model.Record{
		{Date: "07/14", Amount: dec("4.75"), Category: "Dining", Company: "Starbucks"},
		{Date: "07/14", Amount: dec("10.00")},
		{Date: "07/15", Amount: dec("5.25"), Category: "Dining", Company: "Sonic"},
	}

	s := Totals(records)
	assert.Equal(t, "20.00", s.ExpenseTotal.StringFixed(2))
	assert.Equal(t, "10.00", s.CategoryTotals["Dining"].StringFixed(2))
	assert.Equal(t, "10.00", s.CategoryTotals[model.Unclassified].StringFixed(2))
	assert.Equal(t, "14.75", s.DailyTotals["07/14"].StringFixed(2))
	assert.False(t, s.DailyMean.Valid)
	assert.Empty(t, Check(records, s))
}

func TestTotals_Empty(t *testing.T) {
	s := Totals(nil)
	assert.True(t, s.ExpenseTotal.IsZero())
	assert.NotNil(t, s.CategoryTotals)
	assert.NotNil(t, s.DailyTotals)
}
