// Package period reads the account number and statement date range from a
// statement's summary page.
package period

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cleared-dev/tally/internal/model"
)

// ErrUnresolvedPeriod is returned when the summary text has no account/period block.
var ErrUnresolvedPeriod = errors.New("statement period not found")

const dateFormat = "01/02/2006"

// Account number followed by the period range, e.g.
// "1234567890123 07 / 01 / 2018 - 07 / 31 / 2018".
var periodPattern = regexp.MustCompile(
	`\b(\d{13})\s+(\d{2}\s*/\s*\d{2}\s*/\s*\d{4})\s*-\s*(\d{2}\s*/\s*\d{2}\s*/\s*\d{4})`,
)

// Extract scans the whole summary text. Every match is applied in order, so
// when a summary repeats the block the last valid one wins.
func Extract(summary string) (model.Period, error) {
	var (
		p     model.Period
		found bool
	)
	for _, m := range periodPattern.FindAllStringSubmatch(summary, -1) {
		next, err := fromMatch(m)
		if err != nil {
			continue
		}
		p = next
		found = true
	}
	if !found {
		return model.Period{}, ErrUnresolvedPeriod
	}
	return p, nil
}

func fromMatch(m []string) (model.Period, error) {
	acct, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return model.Period{}, fmt.Errorf("parsing account number %q: %w", m[1], err)
	}
	start, err := parseDate(m[2])
	if err != nil {
		return model.Period{}, err
	}
	end, err := parseDate(m[3])
	if err != nil {
		return model.Period{}, err
	}
	if end.Before(start) {
		return model.Period{}, fmt.Errorf("period end %s before start %s", end.Format(dateFormat), start.Format(dateFormat))
	}
	return model.Period{AccountNumber: acct, Start: start, End: end}, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.Join(strings.Fields(s), "")
	t, err := time.Parse(dateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}
