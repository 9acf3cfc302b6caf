// Package aggregate drives one statement through period extraction, page
// scanning and summary finalization.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/logger"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/parser"
	"github.com/cleared-dev/tally/internal/period"
	"github.com/cleared-dev/tally/internal/source"
)

// ErrComputation is returned when the daily mean cannot be computed.
var ErrComputation = errors.New("computation error")

// State is a step of a statement run.
type State int

const (
	Idle State = iota
	ExtractingPeriod
	ScanningPages
	Finalizing
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ExtractingPeriod:
		return "extracting_period"
	case ScanningPages:
		return "scanning_pages"
	case Finalizing:
		return "finalizing"
	case Done:
		return "done"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Markers identify the page that closes the transaction detail. Scanning
// stops after the first page that contains both substrings.
type Markers struct {
	Terminal string
	Totals   string
}

// DefaultMarkers match the closing totals section of the statement layout
// tally ships with.
var DefaultMarkers = Markers{
	Terminal: "Totals",
	Totals:   "Debits and Credits",
}

// Matches reports whether page closes the transaction detail.
func (m Markers) Matches(page string) bool {
	return strings.Contains(page, m.Terminal) && strings.Contains(page, m.Totals)
}

// Options configures an Aggregator. Zero values select the defaults; a blank
// marker falls back to its default on its own.
type Options struct {
	Markers Markers
	Logger  *zerolog.Logger
	// OnState, when set, observes every state transition of a run.
	OnState func(State)
}

// Aggregator runs statements. It holds no per-run state and is safe for
// concurrent use when its classifier is.
type Aggregator struct {
	parser     *parser.Parser
	classifier parser.Classifier
	markers    Markers
	log        zerolog.Logger
	onState    func(State)
}

// New creates an Aggregator. c may be nil, leaving every record unclassified.
func New(p *parser.Parser, c parser.Classifier, opts Options) *Aggregator {
	a := &Aggregator{
		parser:     p,
		classifier: c,
		markers:    opts.Markers,
		log:        zerolog.Nop(),
		onState:    opts.OnState,
	}
	if strings.TrimSpace(a.markers.Terminal) == "" {
		a.markers.Terminal = DefaultMarkers.Terminal
	}
	if strings.TrimSpace(a.markers.Totals) == "" {
		a.markers.Totals = DefaultMarkers.Totals
	}
	if opts.Logger != nil {
		a.log = *opts.Logger
	}
	return a
}

// Result is everything a run produces.
type Result struct {
	Period       *model.Period // nil when unresolved
	PeriodErr    error
	Records      []model.Record
	Summary      model.Summary
	StoppedEarly bool
	PagesScanned int
	MeanErr      error // wraps ErrComputation when the daily mean is unavailable
}

type run struct {
	agg   *Aggregator
	log   zerolog.Logger
	state State
	res   *Result
}

func (r *run) enter(s State) {
	r.log.Debug().Str("from", r.state.String()).Str("to", s.String()).Msg("state transition")
	r.state = s
	if r.agg.onState != nil {
		r.agg.onState(s)
	}
}

// Run processes one statement. A malformed record aborts the run and no
// partial result is returned. An unresolved period does not: totals are
// still produced and the daily mean is reported as unavailable.
// A logger attached to ctx takes precedence over Options.Logger.
func (a *Aggregator) Run(ctx context.Context, src source.PageSource) (*Result, error) {
	r := &run{
		agg: a,
		log: logger.FromContextOr(ctx, a.log),
		res: &Result{},
	}

	r.enter(ExtractingPeriod)
	p, err := period.Extract(src.Summary())
	if err != nil {
		r.res.PeriodErr = err
		r.log.Warn().Err(err).Msg("statement period unresolved, daily mean unavailable")
	} else {
		r.res.Period = &p
		r.log.Debug().Int64("account", p.AccountNumber).
			Time("start", p.Start).Time("end", p.End).Msg("statement period")
	}

	r.enter(ScanningPages)
	if err := r.scan(ctx, src); err != nil {
		return nil, err
	}

	r.enter(Finalizing)
	r.finalize()

	r.enter(Done)
	return r.res, nil
}

func (r *run) scan(ctx context.Context, src source.PageSource) error {
	res := r.res
	for page := range src.Pages() {
		if err := ctx.Err(); err != nil {
			return err
		}
		pageNo := res.PagesScanned + 1
		for raw := range r.agg.parser.Segment(page) {
			rec, err := r.agg.parser.Parse(raw, r.agg.classifier)
			if err != nil {
				return fmt.Errorf("page %d: %w", pageNo, err)
			}
			res.Records = append(res.Records, rec)
			r.log.Debug().Int("page", pageNo).Str("date", rec.Date).
				Str("type", string(rec.PurchaseType)).Str("amount", rec.Amount.StringFixed(2)).
				Str("category", rec.CategoryKey()).Msg("record")
		}
		res.PagesScanned = pageNo

		if r.agg.markers.Matches(page) {
			res.StoppedEarly = true
			r.log.Info().Int("page", pageNo).Msg("closing totals reached, remaining pages skipped")
			break
		}
	}
	return nil
}

func (r *run) finalize() {
	res := r.res
	res.Summary = Totals(res.Records)
	unclassified := 0
	for _, rec := range res.Records {
		if !rec.Classified() {
			unclassified++
		}
	}

	mean, err := DailyMean(res.Summary.DailyTotals, res.Period)
	if err != nil {
		res.MeanErr = err
	} else {
		res.Summary.DailyMean = decimal.NewNullDecimal(mean)
	}

	ev := r.log.Info().Int("records", len(res.Records)).
		Str("expense_total", res.Summary.ExpenseTotal.StringFixed(2)).
		Int("unclassified", unclassified).
		Int("pages", res.PagesScanned)
	if res.Summary.DailyMean.Valid {
		ev = ev.Str("daily_mean", res.Summary.DailyMean.Decimal.StringFixed(2))
	}
	ev.Msg("statement aggregated")
}

// DailyMean divides the sum of the daily totals by the whole-day span of p.
// A nil period or a zero-day span is an ErrComputation.
func DailyMean(daily map[string]decimal.Decimal, p *model.Period) (decimal.Decimal, error) {
	if p == nil {
		return decimal.Zero, fmt.Errorf("%w: statement period is unset", ErrComputation)
	}
	days := p.Days()
	if days <= 0 {
		return decimal.Zero, fmt.Errorf("%w: statement period spans %d days", ErrComputation, days)
	}
	sum := decimal.Zero
	for _, v := range daily {
		sum = sum.Add(v)
	}
	return sum.Div(decimal.NewFromInt(int64(days))), nil
}
