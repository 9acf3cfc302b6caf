package model

import "time"

// Period is the account and date range a statement covers.
type Period struct {
	AccountNumber int64
	Start         time.Time
	End           time.Time
}

// Days returns the whole-day span between Start and End.
func (p Period) Days() int {
	return int(p.End.Sub(p.Start).Hours() / 24)
}
