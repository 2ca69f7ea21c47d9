package period

import (
	"sync"

	"github.com/dskvich/doc-reviewer/pkg/domain"
)

// Selector holds the reporting-period form state. The end of each duration
// is never stored; it always mirrors the matching top-level end date.
type Selector struct {
	mu sync.RWMutex

	endCurrent   string
	startCurrent string
	endPrior     string
	startPrior   string
	openPrior    string

	locked     bool
	confirming bool
}

func NewSelector() *Selector {
	return &Selector{}
}

// SetEndDateCurrent records user input and, when it ends a known fiscal
// year, fills in the remaining dates and asks for confirmation.
func (s *Selector) SetEndDateCurrent(value string) Derivation {
	d := Derive(value)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.endCurrent = d.Dates.EndDateCurrent
	if d.Pattern == PatternNone {
		s.locked = false
		s.confirming = false
		return d
	}

	s.startCurrent = d.Dates.DurationCurrent.Start
	s.endPrior = d.Dates.EndDatePrior
	s.startPrior = d.Dates.DurationPrior.Start
	s.openPrior = d.Dates.OpeningDatePrior
	s.locked = true
	s.confirming = true

	return d
}

// Accept keeps the derived dates and dismisses the confirmation.
func (s *Selector) Accept() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.confirming {
		return domain.ErrNoPendingConfirmation
	}
	s.confirming = false
	return nil
}

// Edit unlocks every editable field for manual override.
func (s *Selector) Edit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.confirming {
		return domain.ErrNoPendingConfirmation
	}
	s.confirming = false
	s.locked = false
	return nil
}

func (s *Selector) SetStartDateCurrent(value string) error {
	return s.setField(&s.startCurrent, value)
}

func (s *Selector) SetEndDatePrior(value string) error {
	return s.setField(&s.endPrior, value)
}

func (s *Selector) SetStartDatePrior(value string) error {
	return s.setField(&s.startPrior, value)
}

func (s *Selector) SetOpeningDatePrior(value string) error {
	return s.setField(&s.openPrior, value)
}

func (s *Selector) setField(field *string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.locked {
		return domain.ErrFieldsLocked
	}
	*field = value
	return nil
}

// Reset empties every date and unlocks the form.
func (s *Selector) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.endCurrent, s.startCurrent, s.endPrior, s.startPrior, s.openPrior = "", "", "", "", ""
	s.locked = false
	s.confirming = false
}

func (s *Selector) Locked() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.locked
}

func (s *Selector) AwaitingConfirmation() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.confirming
}

// SelectedDates returns a snapshot of the form at the moment of the call.
func (s *Selector) SelectedDates() domain.PeriodDates {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.PeriodDates{
		EndDateCurrent:   s.endCurrent,
		DurationCurrent:  domain.Duration{Start: s.startCurrent, End: s.endCurrent},
		EndDatePrior:     s.endPrior,
		DurationPrior:    domain.Duration{Start: s.startPrior, End: s.endPrior},
		OpeningDatePrior: s.openPrior,
	}
}
