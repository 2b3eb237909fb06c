package ingest

import (
	"fmt"
	"time"
)

// Scope is an inclusive local-date window. Activities are scoped by their
// athlete-local start date only; clock time within the day is ignored.
type Scope struct {
	Start time.Time
	End   time.Time
}

// YearScope covers one full calendar year
func YearScope(year int) Scope {
	return Scope{
		Start: time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

// RangeScope covers the inclusive range between two local dates
func RangeScope(start, end time.Time) Scope {
	return Scope{Start: dateOf(start), End: dateOf(end)}
}

// LastDays covers today and the n-1 days before it
func LastDays(n int, now time.Time) Scope {
	today := dateOf(now)
	return Scope{Start: today.AddDate(0, 0, -(n - 1)), End: today}
}

// Contains reports whether the timestamp's date falls inside the scope
func (s Scope) Contains(t time.Time) bool {
	d := dateOf(t)
	return !d.Before(s.Start) && !d.After(s.End)
}

// OlderThan reports whether the timestamp's date falls before the scope
// start. Used for the descending-order early stop.
func (s Scope) OlderThan(t time.Time) bool {
	return dateOf(t).Before(s.Start)
}

func (s Scope) String() string {
	return fmt.Sprintf("%s..%s", s.Start.Format("2006-01-02"), s.End.Format("2006-01-02"))
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
