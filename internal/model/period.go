package model

import "time"

// PeriodKey identifies a calendar-month bucket in "YYYY-MM" form. The
// string form sorts lexicographically in chronological order, which is
// what batch file listing relies on.
type PeriodKey string

// PeriodOf returns the calendar-month bucket for a timestamp.
func PeriodOf(t time.Time) PeriodKey {
	return PeriodKey(t.Format("2006-01"))
}

// BatchName returns the canonical batch file stem for the period,
// e.g. "batch_2010-12".
func (p PeriodKey) BatchName() string {
	return "batch_" + string(p)
}

func (p PeriodKey) String() string {
	return string(p)
}
