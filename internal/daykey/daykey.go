// Package daykey handles the "MM/DD" day keys used for daily totals.
package daykey

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// Parse parses "07/14" into month and day. Whitespace around the slash is ignored.
func Parse(key string) (month time.Month, day int, err error) {
	compact := strings.Join(strings.Fields(key), "")
	parts := strings.SplitN(compact, "/", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid day key format: %q", key)
	}

	m, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month in day key %q: %w", key, err)
	}
	if m < 1 || m > 12 {
		return 0, 0, fmt.Errorf("month out of range in day key %q", key)
	}

	day, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid day in day key %q: %w", key, err)
	}
	if day < 1 || day > 31 {
		return 0, 0, fmt.Errorf("day out of range in day key %q", key)
	}

	return time.Month(m), day, nil
}

// Resolve places a day key in the calendar year implied by p. Keys whose
// month precedes the period's start month belong to the end year, which
// covers statements that cross New Year.
func Resolve(key string, p model.Period) (time.Time, error) {
	month, day, err := Parse(key)
	if err != nil {
		return time.Time{}, err
	}
	year := p.Start.Year()
	if p.End.Year() > year && month < p.Start.Month() {
		year = p.End.Year()
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}

// DayTotal is one point of the daily series.
type DayTotal struct {
	Key   string
	Date  time.Time // zero when no period was available or the key is invalid
	Total decimal.Decimal
}

type seriesKey struct {
	valid bool
	when  time.Time
	month time.Month
	day   int
}

// Series returns daily totals in chronological order. With a nil period the
// keys are ordered by month and day only. Keys that are not valid day keys
// come last, in string order.
func Series(daily map[string]decimal.Decimal, p *model.Period) []DayTotal {
	out := make([]DayTotal, 0, len(daily))
	keys := make(map[string]seriesKey, len(daily))

	for key, total := range daily {
		dt := DayTotal{Key: key, Total: total}
		month, day, err := Parse(key)
		if err == nil {
			sk := seriesKey{valid: true, month: month, day: day}
			if p != nil {
				sk.when, _ = Resolve(key, *p)
				dt.Date = sk.when
			}
			keys[key] = sk
		}
		out = append(out, dt)
	}

	slices.SortFunc(out, func(a, b DayTotal) int {
		ka, kb := keys[a.Key], keys[b.Key]
		if ka.valid != kb.valid {
			if ka.valid {
				return -1
			}
			return 1
		}
		if c := ka.when.Compare(kb.when); c != 0 {
			return c
		}
		if c := cmp.Compare(ka.month, kb.month); c != 0 {
			return c
		}
		if c := cmp.Compare(ka.day, kb.day); c != 0 {
			return c
		}
		return strings.Compare(a.Key, b.Key)
	})
	return out
}
