package store

import (
	"context"
	"fmt"
)

// MonthlyKPI is one (month, category) aggregate in the monthly_kpis mart
type MonthlyKPI struct {
	Year             int
	Month            int
	YearMonth        string // "2025-03"
	ActivityCategory string
	ActivityCount    int64
	TotalDistanceKM  float64
	TotalDurationHrs float64
	TotalCalories    float64
}

// DailySummary is one calendar date in the daily_summary mart. The mart is
// date-complete: every date of the covered year has a row, zero-filled when
// no activity happened.
type DailySummary struct {
	ActivityDate      string // "2025-03-14"
	TotalDurationMins float64
	DurationFormatted string // "1h 05m"
	TotalDistanceKM   float64
	TotalCalories     float64
}

// GearOverview is one gear item's lifecycle row. PctOfMaxUsed and
// RemainingKM are nil when the item has no configured distance limit;
// PctOfMaxUsed may exceed 100 and RemainingKM may be negative for gear
// used past its limit.
type GearOverview struct {
	GearName        string
	GearType        string
	Status          string
	TotalDistanceKM float64
	TotalActivities int64
	PctOfMaxUsed    *float64
	RemainingKM     *float64
}

var monthlyKPIsTable = TableDef{
	Name: "monthly_kpis",
	Columns: []Column{
		{Name: "year", Kind: Integer},
		{Name: "month", Kind: Integer},
		{Name: "year_month", Kind: Text},
		{Name: "activity_category", Kind: Text},
		{Name: "activity_count", Kind: Integer},
		{Name: "total_distance_km", Kind: Real},
		{Name: "total_duration_hours", Kind: Real},
		{Name: "total_calories", Kind: Real},
	},
}

var dailySummaryTable = TableDef{
	Name: "daily_summary",
	Columns: []Column{
		{Name: "activity_date", Kind: Text},
		{Name: "total_duration_minutes", Kind: Real},
		{Name: "total_duration_formatted", Kind: Text},
		{Name: "total_distance_km", Kind: Real},
		{Name: "total_calories", Kind: Real},
	},
}

var gearOverviewTable = TableDef{
	Name: "gear_overview",
	Columns: []Column{
		{Name: "gear_name", Kind: Text},
		{Name: "gear_type", Kind: Text},
		{Name: "status", Kind: Text},
		{Name: "total_distance_km", Kind: Real},
		{Name: "total_activities", Kind: Integer},
		{Name: "pct_of_max_distance_used", Kind: Real},
		{Name: "remaining_distance_km", Kind: Real},
	},
}

// ReplaceMonthlyKPIs rebuilds the monthly_kpis mart
func (db *DB) ReplaceMonthlyKPIs(ctx context.Context, kpis []MonthlyKPI) error {
	rows := make([]Row, len(kpis))
	for i, k := range kpis {
		rows[i] = Row{
			"year":                 k.Year,
			"month":                k.Month,
			"year_month":           k.YearMonth,
			"activity_category":    k.ActivityCategory,
			"activity_count":       k.ActivityCount,
			"total_distance_km":    k.TotalDistanceKM,
			"total_duration_hours": k.TotalDurationHrs,
			"total_calories":       k.TotalCalories,
		}
	}
	return db.ReplaceTable(ctx, monthlyKPIsTable, rows)
}

// ReplaceDailySummary rebuilds the daily_summary mart
func (db *DB) ReplaceDailySummary(ctx context.Context, days []DailySummary) error {
	rows := make([]Row, len(days))
	for i, d := range days {
		rows[i] = Row{
			"activity_date":            d.ActivityDate,
			"total_duration_minutes":   d.TotalDurationMins,
			"total_duration_formatted": d.DurationFormatted,
			"total_distance_km":        d.TotalDistanceKM,
			"total_calories":           d.TotalCalories,
		}
	}
	return db.ReplaceTable(ctx, dailySummaryTable, rows)
}

// ReplaceGearOverview rebuilds the gear_overview mart
func (db *DB) ReplaceGearOverview(ctx context.Context, gear []GearOverview) error {
	rows := make([]Row, len(gear))
	for i, g := range gear {
		row := Row{
			"gear_name":         g.GearName,
			"gear_type":         g.GearType,
			"status":            g.Status,
			"total_distance_km": g.TotalDistanceKM,
			"total_activities":  g.TotalActivities,
		}
		if g.PctOfMaxUsed != nil {
			row["pct_of_max_distance_used"] = *g.PctOfMaxUsed
		}
		if g.RemainingKM != nil {
			row["remaining_distance_km"] = *g.RemainingKM
		}
		rows[i] = row
	}
	return db.ReplaceTable(ctx, gearOverviewTable, rows)
}

// MonthlyKPIs reads the monthly_kpis mart ordered by month then category
func (db *DB) MonthlyKPIs(ctx context.Context) ([]MonthlyKPI, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT year, month, year_month, activity_category,
			activity_count, total_distance_km, total_duration_hours, total_calories
		FROM monthly_kpis
		ORDER BY year_month, activity_category
	`)
	if err != nil {
		return nil, fmt.Errorf("querying monthly_kpis: %w", err)
	}
	defer rows.Close()

	var kpis []MonthlyKPI
	for rows.Next() {
		var k MonthlyKPI
		if err := rows.Scan(&k.Year, &k.Month, &k.YearMonth, &k.ActivityCategory,
			&k.ActivityCount, &k.TotalDistanceKM, &k.TotalDurationHrs, &k.TotalCalories); err != nil {
			return nil, fmt.Errorf("scanning monthly_kpis row: %w", err)
		}
		kpis = append(kpis, k)
	}
	return kpis, rows.Err()
}

// DailySummaries reads the daily_summary mart in date order
func (db *DB) DailySummaries(ctx context.Context) ([]DailySummary, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT activity_date, total_duration_minutes, total_duration_formatted,
			total_distance_km, total_calories
		FROM daily_summary
		ORDER BY activity_date
	`)
	if err != nil {
		return nil, fmt.Errorf("querying daily_summary: %w", err)
	}
	defer rows.Close()

	var days []DailySummary
	for rows.Next() {
		var d DailySummary
		if err := rows.Scan(&d.ActivityDate, &d.TotalDurationMins, &d.DurationFormatted,
			&d.TotalDistanceKM, &d.TotalCalories); err != nil {
			return nil, fmt.Errorf("scanning daily_summary row: %w", err)
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// GearOverviews reads the gear_overview mart ordered by distance used
func (db *DB) GearOverviews(ctx context.Context) ([]GearOverview, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT gear_name, gear_type, status, total_distance_km, total_activities,
			pct_of_max_distance_used, remaining_distance_km
		FROM gear_overview
		ORDER BY total_distance_km DESC, gear_name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying gear_overview: %w", err)
	}
	defer rows.Close()

	var gear []GearOverview
	for rows.Next() {
		var g GearOverview
		if err := rows.Scan(&g.GearName, &g.GearType, &g.Status, &g.TotalDistanceKM,
			&g.TotalActivities, &g.PctOfMaxUsed, &g.RemainingKM); err != nil {
			return nil, fmt.Errorf("scanning gear_overview row: %w", err)
		}
		gear = append(gear, g)
	}
	return gear, rows.Err()
}
