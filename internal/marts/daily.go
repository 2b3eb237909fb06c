package marts

import (
	"fmt"
	"math"
	"time"

	"traininghub/internal/garmin"
	"traininghub/internal/store"
)

// DateLayout is the calendar-date format used across the marts
const DateLayout = "2006-01-02"

// DailySummaries aggregates activities into a date-complete calendar: one
// row for every date from start to end inclusive, zero-filled when nothing
// happened that day. All-rest periods still yield a full calendar.
func DailySummaries(activities []garmin.Activity, start, end time.Time) []store.DailySummary {
	type totals struct {
		minutes  float64
		km       float64
		calories float64
	}

	byDate := make(map[string]*totals)
	for _, a := range activities {
		at, err := a.StartTime()
		if err != nil {
			continue
		}
		date := at.Format(DateLayout)
		tot := byDate[date]
		if tot == nil {
			tot = &totals{}
			byDate[date] = tot
		}
		tot.minutes += a.Duration / 60
		if a.Distance != nil {
			tot.km += *a.Distance / 1000
		}
		if a.Calories != nil {
			tot.calories += *a.Calories
		}
	}

	var days []store.DailySummary
	first := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		date := d.Format(DateLayout)
		summary := store.DailySummary{ActivityDate: date, DurationFormatted: FormatMinutes(0)}
		if tot := byDate[date]; tot != nil {
			summary.TotalDurationMins = tot.minutes
			summary.DurationFormatted = FormatMinutes(tot.minutes)
			summary.TotalDistanceKM = tot.km
			summary.TotalCalories = tot.calories
		}
		days = append(days, summary)
	}
	return days
}

// FormatMinutes renders a duration in minutes as "Xh MMm". Zero renders
// as "0h 00m".
func FormatMinutes(minutes float64) string {
	total := int(math.Round(minutes))
	return fmt.Sprintf("%dh %02dm", total/60, total%60)
}
