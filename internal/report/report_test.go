package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleRecords() []model.Record {
	return []model.Record{
		{
			RawText:      "07/14 Check Card Purchase STARBUCKS #123 4.75",
			PurchaseType: "Check Card Purchase",
			Amount:       dec("4.75"),
			Date:         "07/14",
			Detail:       "STARBUCKS123",
			Company:      "Starbucks",
			Category:     "Dining",
		},
		{
			RawText:      `07/15 Point of Sale Debit "ODD, NAME" 1,250.00`,
			PurchaseType: "Point of Sale Debit",
			Amount:       dec("1250"),
			Date:         "07/15",
			Detail:       "ODDNAME",
		},
	}
}

func TestRecordsRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRecords(&buf, sampleRecords()))

	assert.True(t, strings.HasPrefix(buf.String(), Header+"\n"))
	assert.Contains(t, buf.String(), ",1250.00,")

	got, err := ReadRecords(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)

	want := sampleRecords()
	for i := range want {
		assert.Equal(t, want[i].RawText, got[i].RawText)
		assert.Equal(t, want[i].PurchaseType, got[i].PurchaseType)
		assert.True(t, want[i].Amount.Equal(got[i].Amount))
		assert.Equal(t, want[i].Date, got[i].Date)
		assert.Equal(t, want[i].Detail, got[i].Detail)
		assert.Equal(t, want[i].Company, got[i].Company)
		assert.Equal(t, want[i].Category, got[i].Category)
	}
}

func TestReadRecords_Empty(t *testing.T) {
	got, err := ReadRecords(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ReadRecords(strings.NewReader(Header + "\n"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestReadRecords_BadAmount(t *testing.T) {
	input := Header + "\n07/14,Check Card Purchase,abc,,,X,raw\n"
	_, err := ReadRecords(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
	assert.Contains(t, err.Error(), "parsing amount")
}

func TestUnmarshalRecord_FieldCount(t *testing.T) {
	_, err := UnmarshalRecord([]string{"07/14"})
	assert.Error(t, err)
}

func julyPeriod() *model.Period {
	return &model.Period{
		AccountNumber: 1234567890123,
		Start:         time.Date(2018, 7, 1, 0, 0, 0, 0, time.UTC),
		End:           time.Date(2018, 7, 31, 0, 0, 0, 0, time.UTC),
	}
}

func sampleSummary() model.Summary {
	return model.Summary{
		ExpenseTotal: dec("24.75"),
		CategoryTotals: map[string]decimal.Decimal{
			"Dining":           dec("14.75"),
			model.Unclassified: dec("10.00"),
		},
		DailyTotals: map[string]decimal.Decimal{
			"07/14": dec("14.75"),
			"07/02": dec("10.00"),
		},
		DailyMean: decimal.NewNullDecimal(dec("0.825")),
	}
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, julyPeriod(), sampleSummary()))

	out := buf.String()
	assert.Contains(t, out, "1234567890123")
	assert.Contains(t, out, "2018-07-01 to 2018-07-31 (30 days)")
	assert.Contains(t, out, "24.75")
	assert.Contains(t, out, "0.83")
	assert.Less(t, strings.Index(out, "Dining"), strings.Index(out, model.Unclassified))
	assert.Less(t, strings.Index(out, "07/02"), strings.Index(out, "07/14"))
}

func TestWriteSummary_NoPeriod(t *testing.T) {
	s := sampleSummary()
	s.DailyMean = decimal.NullDecimal{}

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, nil, s))

	out := buf.String()
	assert.Contains(t, out, "unresolved")
	assert.Contains(t, out, "n/a")
}

func TestBudget(t *testing.T) {
	alloc := map[string]decimal.Decimal{
		"Dining":    dec("10.00"),
		"Groceries": dec("200.00"),
	}

	lines := Budget(alloc, sampleSummary())
	require.Len(t, lines, 3)

	assert.Equal(t, "Dining", lines[0].Category)
	assert.Equal(t, "-4.75", lines[0].Remaining.StringFixed(2))
	assert.True(t, lines[0].Over())
	require.True(t, lines[0].Used.Valid)
	assert.Equal(t, "147.5", lines[0].Used.Decimal.StringFixed(1))

	assert.Equal(t, "Groceries", lines[1].Category)
	assert.True(t, lines[1].Spent.IsZero())
	assert.Equal(t, "200.00", lines[1].Remaining.StringFixed(2))
	assert.Equal(t, "0.0", lines[1].Used.Decimal.StringFixed(1))
	assert.False(t, lines[1].Over())

	assert.Equal(t, model.Unclassified, lines[2].Category)
	assert.True(t, lines[2].Allocated.IsZero())
	assert.False(t, lines[2].Used.Valid)
}

func TestWriteBudget(t *testing.T) {
	alloc := map[string]decimal.Decimal{"Dining": dec("20.00")}

	var buf bytes.Buffer
	require.NoError(t, WriteBudget(&buf, Budget(alloc, sampleSummary())))

	out := buf.String()
	assert.Contains(t, out, "Allocated")
	assert.Contains(t, out, "73.8%")
	assert.Contains(t, out, "Total")
	assert.Contains(t, out, "-4.75")
	assert.Contains(t, out, "123.8%")
}
