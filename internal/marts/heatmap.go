package marts

import (
	"time"

	"traininghub/internal/store"
)

// HeatmapLevels is the number of non-zero intensity buckets
const HeatmapLevels = 4

// HeatmapCell is one day of the calendar heatmap. Level 0 is the
// distinguished no-activity bucket; active days map to 1..HeatmapLevels
// by their share of the busiest day.
type HeatmapCell struct {
	Date    string
	Week    int // ISO week
	Weekday int // 0=Monday .. 6=Sunday
	Level   int
}

// Heatmap lays a date-complete daily calendar out as ISO-week columns and
// weekday rows.
func Heatmap(days []store.DailySummary) []HeatmapCell {
	var maxMinutes float64
	for _, d := range days {
		if d.TotalDurationMins > maxMinutes {
			maxMinutes = d.TotalDurationMins
		}
	}

	cells := make([]HeatmapCell, 0, len(days))
	for _, d := range days {
		date, err := time.Parse(DateLayout, d.ActivityDate)
		if err != nil {
			continue
		}
		_, week := date.ISOWeek()
		cells = append(cells, HeatmapCell{
			Date:    d.ActivityDate,
			Week:    week,
			Weekday: mondayIndexed(date.Weekday()),
			Level:   level(d.TotalDurationMins, maxMinutes),
		})
	}
	return cells
}

func level(minutes, maxMinutes float64) int {
	if minutes <= 0 || maxMinutes <= 0 {
		return 0
	}
	l := 1 + int(minutes/maxMinutes*(HeatmapLevels-1))
	if l > HeatmapLevels {
		l = HeatmapLevels
	}
	return l
}

func mondayIndexed(d time.Weekday) int {
	if d == time.Sunday {
		return 6
	}
	return int(d) - 1
}
