// Package period derives reporting-period dates from the end date of the
// current period.
package period

import (
	"strings"
	"time"

	"github.com/dskvich/doc-reviewer/pkg/domain"
)

type Pattern string

const (
	PatternNone         Pattern = ""
	PatternCalendarYear Pattern = "calendar_year" // ends December 31
	PatternFiscalMarch  Pattern = "fiscal_march"  // ends March 31
)

type Derivation struct {
	Pattern           Pattern
	FieldsLocked      bool
	NeedsConfirmation bool
	// Dates is complete when Pattern is set; otherwise only EndDateCurrent
	// carries the input.
	Dates domain.PeriodDates
}

// Derive applies the year-end rules to endDateCurrent. Input that does not
// parse as YYYY-MM-DD matches no pattern.
func Derive(endDateCurrent string) Derivation {
	d := Derivation{Dates: domain.PeriodDates{EndDateCurrent: endDateCurrent}}

	end, err := time.Parse(domain.DateLayout, strings.TrimSpace(endDateCurrent))
	if err != nil {
		return d
	}

	y := end.Year()
	var startCurrent, startPrior, endPrior time.Time

	switch {
	case end.Month() == time.December && end.Day() == 31:
		d.Pattern = PatternCalendarYear
		startCurrent = date(y, time.January, 1)
		startPrior = date(y-1, time.January, 1)
		endPrior = date(y-1, time.December, 31)
	case end.Month() == time.March && end.Day() == 31:
		d.Pattern = PatternFiscalMarch
		startCurrent = date(y-1, time.April, 1)
		startPrior = date(y-2, time.April, 1)
		endPrior = date(y-1, time.March, 31)
	default:
		return d
	}

	d.FieldsLocked = true
	d.NeedsConfirmation = true
	d.Dates = domain.PeriodDates{
		EndDateCurrent:   end.Format(domain.DateLayout),
		DurationCurrent:  domain.Duration{Start: startCurrent.Format(domain.DateLayout), End: end.Format(domain.DateLayout)},
		EndDatePrior:     endPrior.Format(domain.DateLayout),
		DurationPrior:    domain.Duration{Start: startPrior.Format(domain.DateLayout), End: endPrior.Format(domain.DateLayout)},
		OpeningDatePrior: startPrior.Format(domain.DateLayout),
	}

	return d
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
