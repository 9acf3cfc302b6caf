// Package runlog records one row per statement run in logs/run-log.csv.
package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the outcome of one statement run.
type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// Entry is one row in the run log.
type Entry struct {
	Timestamp    time.Time
	RunID        uuid.UUID
	Source       string
	Status       Status
	Records      int
	ExpenseTotal decimal.Decimal
	Error        string
}

// NewEntry starts an entry for source with a fresh run ID.
func NewEntry(source string, now time.Time) Entry {
	return Entry{
		Timestamp:    now.UTC(),
		RunID:        uuid.New(),
		Source:       source,
		ExpenseTotal: decimal.Zero,
	}
}

// Header is the CSV header for run-log.csv.
const Header = "timestamp,run_id,source,status,records,expense_total,error"

const (
	numFields       = 7
	logDir          = "logs"
	logFile         = "logs/run-log.csv"
	colTimestamp    = 0
	colRunID        = 1
	colSource       = 2
	colStatus       = 3
	colRecords      = 4
	colExpenseTotal = 5
	colError        = 6
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID.String()
	row[colSource] = e.Source
	row[colStatus] = string(e.Status)
	row[colRecords] = strconv.Itoa(e.Records)
	row[colExpenseTotal] = e.ExpenseTotal.StringFixed(2)
	row[colError] = e.Error
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	runID, err := uuid.Parse(record[colRunID])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing run id %q: %w", record[colRunID], err)
	}

	n, err := strconv.Atoi(record[colRecords])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing record count %q: %w", record[colRecords], err)
	}

	total, err := decimal.NewFromString(record[colExpenseTotal])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing expense total %q: %w", record[colExpenseTotal], err)
	}

	status := Status(record[colStatus])
	if status != StatusOK && status != StatusFailed {
		return Entry{}, fmt.Errorf("unknown status %q", record[colStatus])
	}

	return Entry{
		Timestamp:    ts,
		RunID:        runID,
		Source:       record[colSource],
		Status:       status,
		Records:      n,
		ExpenseTotal: total,
		Error:        record[colError],
	}, nil
}

// Append writes entries to <root>/logs/run-log.csv, creating the file and header if needed.
func Append(root string, entries []Entry) error {
	dir := filepath.Join(root, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(root, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <root>/logs/run-log.csv.
// Returns an empty slice if the file does not exist.
func Read(root string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(root, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Stats summarizes a batch of runs.
type Stats struct {
	Processed    int
	Failed       int
	Records      int
	ExpenseTotal decimal.Decimal
	Failures     map[string]string // source -> error
}

// Summarize counts the outcomes in entries.
func Summarize(entries []Entry) Stats {
	s := Stats{ExpenseTotal: decimal.Zero, Failures: make(map[string]string)}
	for _, e := range entries {
		switch e.Status {
		case StatusOK:
			s.Processed++
			s.Records += e.Records
			s.ExpenseTotal = s.ExpenseTotal.Add(e.ExpenseTotal)
		case StatusFailed:
			s.Failed++
			s.Failures[e.Source] = e.Error
		}
	}
	return s
}

func (s Stats) String() string {
	return fmt.Sprintf("%d processed, %d failed, %d records, %s total",
		s.Processed, s.Failed, s.Records, s.ExpenseTotal.StringFixed(2))
}
