package models

import (
	"time"
)

// DateOf normalizes a timestamp to its calendar date at midnight UTC. All
// date-keyed columns (ledger rows, restdays, absences) store this canonical
// form so equality and range queries compare cleanly.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// LocalDateOf converts an absolute instant to the office timezone first and
// then takes its calendar date.
func LocalDateOf(t time.Time, loc *time.Location) time.Time {
	return DateOf(t.In(loc))
}

func SameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func DateBefore(a, b time.Time) bool {
	return DateOf(a).Before(DateOf(b))
}

func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
