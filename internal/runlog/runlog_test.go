package runlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2018, 8, 2, 9, 15, 0, 0, time.UTC)

func okEntry() Entry {
	e := NewEntry("statement_july2018.pdf", testTime)
	e.Status = StatusOK
	e.Records = 7
	e.ExpenseTotal = decimal.RequireFromString("268.08")
	return e
}

func failedEntry() Entry {
	e := NewEntry("statement_june2018.pdf", testTime)
	e.Status = StatusFailed
	e.Error = `page 2: malformed record: no detail in "07/14 ACH-PAYROLL 4.75"`
	return e
}

func TestNewEntry(t *testing.T) {
	a := NewEntry("a.pdf", testTime)
	b := NewEntry("a.pdf", testTime)
	assert.NotEqual(t, uuid.Nil, a.RunID)
	assert.NotEqual(t, a.RunID, b.RunID)
	assert.Equal(t, time.UTC, a.Timestamp.Location())
}

func TestAppend_NewFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{okEntry()}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, StatusOK, entries[0].Status)
	assert.Equal(t, "268.08", entries[0].ExpenseTotal.StringFixed(2))
}

func TestAppend_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{okEntry()}))
	require.NoError(t, Append(dir, []Entry{failedEntry()}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, StatusOK, entries[0].Status)
	assert.Equal(t, StatusFailed, entries[1].Status)
	assert.Equal(t, failedEntry().Error, entries[1].Error)

	data, err := os.ReadFile(filepath.Join(dir, "logs", "run-log.csv"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), Header))
}

func TestMarshalUnmarshal(t *testing.T) {
	e := okEntry()
	row := MarshalEntry(e)
	assert.Len(t, row, 7)
	assert.Equal(t, "2018-08-02T09:15:00Z", row[0])
	assert.Equal(t, "7", row[4])

	got, err := UnmarshalEntry(row)
	require.NoError(t, err)
	assert.True(t, e.Timestamp.Equal(got.Timestamp))
	assert.Equal(t, e.RunID, got.RunID)
	assert.Equal(t, e.Source, got.Source)
	assert.Equal(t, e.Records, got.Records)
	assert.True(t, e.ExpenseTotal.Equal(got.ExpenseTotal))
}

func TestUnmarshalEntry_Errors(t *testing.T) {
	_, err := UnmarshalEntry([]string{"one", "two"})
	assert.ErrorContains(t, err, "expected 7 fields")

	row := MarshalEntry(okEntry())
	row[colRunID] = "not-a-uuid"
	_, err = UnmarshalEntry(row)
	assert.ErrorContains(t, err, "parsing run id")

	row = MarshalEntry(okEntry())
	row[colStatus] = "maybe"
	_, err = UnmarshalEntry(row)
	assert.ErrorContains(t, err, "unknown status")
}

func TestRead_NotFound(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestSummarize(t *testing.T) {
	second := okEntry()
	second.Records = 3
	second.ExpenseTotal = decimal.RequireFromString("31.92")

	s := Summarize([]Entry{okEntry(), failedEntry(), second})
	assert.Equal(t, 2, s.Processed)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 10, s.Records)
	assert.Equal(t, "300.00", s.ExpenseTotal.StringFixed(2))
	assert.Contains(t, s.Failures["statement_june2018.pdf"], "malformed record")
	assert.Equal(t, "2 processed, 1 failed, 10 records, 300.00 total", s.String())
}
