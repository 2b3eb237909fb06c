package marts

import (
	"sort"
	"time"

	"traininghub/internal/store"
)

// WeeklyTotal is the summed training time of one ISO week
type WeeklyTotal struct {
	WeekYear     int
	Week         int
	TotalMinutes float64
}

// WeeklyTotals groups a date-complete daily calendar into ISO weeks.
// Weeks are keyed by ISO week-year, so days at a year boundary land in
// the week they belong to, not the calendar year they sit in. Rest weeks
// inside the calendar appear with a zero total.
func WeeklyTotals(days []store.DailySummary) []WeeklyTotal {
	type key struct{ year, week int }

	totals := make(map[key]float64)
	for _, d := range days {
		date, err := time.Parse(DateLayout, d.ActivityDate)
		if err != nil {
			continue
		}
		y, w := date.ISOWeek()
		totals[key{y, w}] += d.TotalDurationMins
	}

	weeks := make([]WeeklyTotal, 0, len(totals))
	for k, minutes := range totals {
		weeks = append(weeks, WeeklyTotal{WeekYear: k.year, Week: k.week, TotalMinutes: minutes})
	}
	sort.Slice(weeks, func(i, j int) bool {
		if weeks[i].WeekYear != weeks[j].WeekYear {
			return weeks[i].WeekYear < weeks[j].WeekYear
		}
		return weeks[i].Week < weeks[j].Week
	})
	return weeks
}

// AverageWeeklyHours averages weekly training time over every week the
// calendar covers, zero weeks included.
func AverageWeeklyHours(days []store.DailySummary) float64 {
	weeks := WeeklyTotals(days)
	if len(weeks) == 0 {
		return 0
	}

	var totalMinutes float64
	for _, w := range weeks {
		totalMinutes += w.TotalMinutes
	}
	return totalMinutes / 60 / float64(len(weeks))
}
