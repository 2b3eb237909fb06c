package marts

import (
	"fmt"
	"sort"

	"traininghub/internal/garmin"
	"traininghub/internal/store"
)

// MonthlyKPIs aggregates activities into one row per (month, category).
// Activities with an unparseable start time are dropped; months without
// activity produce no row.
func MonthlyKPIs(activities []garmin.Activity) []store.MonthlyKPI {
	type key struct {
		yearMonth string
		category  string
	}

	agg := make(map[key]*store.MonthlyKPI)
	for _, a := range activities {
		start, err := a.StartTime()
		if err != nil {
			continue
		}

		k := key{
			yearMonth: fmt.Sprintf("%04d-%02d", start.Year(), start.Month()),
			category:  Category(a.ActivityType.TypeKey),
		}
		kpi := agg[k]
		if kpi == nil {
			kpi = &store.MonthlyKPI{
				Year:             start.Year(),
				Month:            int(start.Month()),
				YearMonth:        k.yearMonth,
				ActivityCategory: k.category,
			}
			agg[k] = kpi
		}

		kpi.ActivityCount++
		kpi.TotalDurationHrs += a.Duration / 3600
		if a.Distance != nil {
			kpi.TotalDistanceKM += *a.Distance / 1000
		}
		if a.Calories != nil {
			kpi.TotalCalories += *a.Calories
		}
	}

	kpis := make([]store.MonthlyKPI, 0, len(agg))
	for _, kpi := range agg {
		kpis = append(kpis, *kpi)
	}
	sort.Slice(kpis, func(i, j int) bool {
		if kpis[i].YearMonth != kpis[j].YearMonth {
			return kpis[i].YearMonth < kpis[j].YearMonth
		}
		return kpis[i].ActivityCategory < kpis[j].ActivityCategory
	})
	return kpis
}
