package period

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dskvich/doc-reviewer/pkg/domain"
)

func TestSelectorDerivedDatesAreLocked(t *testing.T) {
	s := NewSelector()

	d := s.SetEndDateCurrent("2024-12-31")

	require.Equal(t, PatternCalendarYear, d.Pattern)
	assert.True(t, s.Locked())
	assert.True(t, s.AwaitingConfirmation())
	assert.Equal(t, d.Dates, s.SelectedDates())
	assert.ErrorIs(t, s.SetStartDateCurrent("2024-02-01"), domain.ErrFieldsLocked)
	assert.Equal(t, "2024-01-01", s.SelectedDates().DurationCurrent.Start)
}

func TestSelectorAccept(t *testing.T) {
	s := NewSelector()
	s.SetEndDateCurrent("2025-03-31")

	require.NoError(t, s.Accept())

	assert.True(t, s.Locked())
	assert.False(t, s.AwaitingConfirmation())
	assert.ErrorIs(t, s.Accept(), domain.ErrNoPendingConfirmation)
}

func TestSelectorEdit(t *testing.T) {
	s := NewSelector()
	s.SetEndDateCurrent("2024-12-31")

	require.NoError(t, s.Edit())
	assert.False(t, s.Locked())
	assert.False(t, s.AwaitingConfirmation())

	require.NoError(t, s.SetStartDateCurrent("2024-02-01"))
	require.NoError(t, s.SetEndDatePrior("2023-11-30"))

	dates := s.SelectedDates()
	assert.Equal(t, "2024-02-01", dates.DurationCurrent.Start)
	assert.Equal(t, "2024-12-31", dates.DurationCurrent.End)
	assert.Equal(t, "2023-11-30", dates.EndDatePrior)
	assert.Equal(t, "2023-11-30", dates.DurationPrior.End)
}

func TestSelectorOtherDateKeepsPreviousValues(t *testing.T) {
	s := NewSelector()
	s.SetEndDateCurrent("2024-12-31")

	d := s.SetEndDateCurrent("2024-06-15")

	assert.Equal(t, PatternNone, d.Pattern)
	assert.False(t, s.Locked())
	assert.False(t, s.AwaitingConfirmation())

	dates := s.SelectedDates()
	assert.Equal(t, "2024-06-15", dates.EndDateCurrent)
	assert.Equal(t, "2024-06-15", dates.DurationCurrent.End)
	assert.Equal(t, "2024-01-01", dates.DurationCurrent.Start)
	assert.Equal(t, "2023-12-31", dates.EndDatePrior)
	assert.Equal(t, "2023-01-01", dates.OpeningDatePrior)
}

func TestSelectorReset(t *testing.T) {
	s := NewSelector()
	s.SetEndDateCurrent("2024-12-31")

	s.Reset()

	assert.True(t, s.SelectedDates().IsEmpty())
	assert.False(t, s.Locked())
	assert.False(t, s.AwaitingConfirmation())
	assert.ErrorIs(t, s.Edit(), domain.ErrNoPendingConfirmation)
}
