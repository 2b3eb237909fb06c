package service

import (
	"context"
	"fmt"
	"time"

	"traininghub/internal/cache"
	"traininghub/internal/marts"
	"traininghub/internal/store"
)

// MonthlyTotal is one month's training time summed across categories
type MonthlyTotal struct {
	YearMonth string
	Hours     float64
}

// Overview is the dashboard's headline view over the marts
type Overview struct {
	TotalActivities int64
	TotalDistanceKM float64
	TotalCalories   float64
	TotalTrainTime  string // "XXh XXm"
	AvgWeeklyHours  float64
	MonthlyHours    []MonthlyTotal
	Heatmap         []marts.HeatmapCell
}

// QueryService is the read side of the database: it only ever reads the
// marts and caches results for the configured TTL. Cached responses may
// lag a pipeline run; entries expire on their own and nothing invalidates
// them early.
type QueryService struct {
	db    *store.DB
	cache *cache.Cache
}

// NewQueryService creates a query service with the given cache lifetime
func NewQueryService(db *store.DB, ttl time.Duration) *QueryService {
	return &QueryService{db: db, cache: cache.New(ttl)}
}

// MonthlyKPIs returns the monthly_kpis mart
func (q *QueryService) MonthlyKPIs(ctx context.Context) ([]store.MonthlyKPI, error) {
	key := cache.Key("monthly_kpis")
	if cached, ok := q.cache.Get(key); ok {
		return cached.([]store.MonthlyKPI), nil
	}

	kpis, err := q.db.MonthlyKPIs(ctx)
	if err != nil {
		return nil, err
	}
	q.cache.Set(key, kpis)
	return kpis, nil
}

// DailySummaries returns the daily_summary mart
func (q *QueryService) DailySummaries(ctx context.Context) ([]store.DailySummary, error) {
	key := cache.Key("daily_summary")
	if cached, ok := q.cache.Get(key); ok {
		return cached.([]store.DailySummary), nil
	}

	days, err := q.db.DailySummaries(ctx)
	if err != nil {
		return nil, err
	}
	q.cache.Set(key, days)
	return days, nil
}

// GearOverview returns the gear_overview mart
func (q *QueryService) GearOverview(ctx context.Context) ([]store.GearOverview, error) {
	key := cache.Key("gear_overview")
	if cached, ok := q.cache.Get(key); ok {
		return cached.([]store.GearOverview), nil
	}

	gear, err := q.db.GearOverviews(ctx)
	if err != nil {
		return nil, err
	}
	q.cache.Set(key, gear)
	return gear, nil
}

// Overview assembles the dashboard headline numbers from the marts
func (q *QueryService) Overview(ctx context.Context) (*Overview, error) {
	key := cache.Key("overview")
	if cached, ok := q.cache.Get(key); ok {
		return cached.(*Overview), nil
	}

	kpis, err := q.MonthlyKPIs(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading monthly KPIs: %w", err)
	}
	days, err := q.DailySummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading daily summaries: %w", err)
	}

	overview := &Overview{
		AvgWeeklyHours: marts.AverageWeeklyHours(days),
		Heatmap:        marts.Heatmap(days),
	}

	var totalMinutes float64
	for _, k := range kpis {
		overview.TotalActivities += k.ActivityCount
		overview.TotalDistanceKM += k.TotalDistanceKM
		overview.TotalCalories += k.TotalCalories
		totalMinutes += k.TotalDurationHrs * 60
	}
	overview.TotalTrainTime = marts.FormatMinutes(totalMinutes)

	for _, k := range kpis {
		n := len(overview.MonthlyHours)
		if n > 0 && overview.MonthlyHours[n-1].YearMonth == k.YearMonth {
			overview.MonthlyHours[n-1].Hours += k.TotalDurationHrs
			continue
		}
		overview.MonthlyHours = append(overview.MonthlyHours, MonthlyTotal{
			YearMonth: k.YearMonth,
			Hours:     k.TotalDurationHrs,
		})
	}

	q.cache.Set(key, overview)
	return overview, nil
}
