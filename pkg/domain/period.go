package domain

// DateLayout is the wire format of every reporting-period date.
const DateLayout = "2006-01-02"

type Duration struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type PeriodDates struct {
	EndDateCurrent   string   `json:"end_date_current"`
	DurationCurrent  Duration `json:"duration_current"`
	EndDatePrior     string   `json:"end_date_prior"`
	DurationPrior    Duration `json:"duration_prior"`
	OpeningDatePrior string   `json:"opening_date_prior"`
}

func (p PeriodDates) IsEmpty() bool {
	return p == PeriodDates{}
}
