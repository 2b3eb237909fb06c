package ingest

import (
	json "github.com/goccy/go-json"

	"traininghub/internal/garmin"
	"traininghub/internal/store"
)

// Bronze table definitions. Each declares its column schema once; the
// flattening step never re-detects types per row.
var (
	BronzeActivities = store.TableDef{
		Name: "bronze_activities",
		Columns: []store.Column{
			{Name: "activityId", Kind: store.Integer},
			{Name: "activityName", Kind: store.Text},
			{Name: "activityType", Kind: store.Encoded},
			{Name: "startTimeLocal", Kind: store.Text},
			{Name: "duration", Kind: store.Real},
			{Name: "distance", Kind: store.Real},
			{Name: "calories", Kind: store.Real},
			{Name: "averageHR", Kind: store.Real},
			{Name: "maxHR", Kind: store.Real},
			{Name: "averageSpeed", Kind: store.Real},
			{Name: "maxSpeed", Kind: store.Real},
			{Name: "elevationGain", Kind: store.Real},
			{Name: "locationName", Kind: store.Text},
			{Name: "averageRunningCadenceInStepsPerMinute", Kind: store.Real},
			{Name: "averageSwimCadenceInStrokesPerMinute", Kind: store.Real},
		},
	}

	BronzeActivityWeather = store.TableDef{
		Name: "bronze_activity_weather",
		Columns: []store.Column{
			{Name: "activityId", Kind: store.Integer},
			{Name: "issueDate", Kind: store.Text},
			{Name: "temp", Kind: store.Real},
			{Name: "apparentTemp", Kind: store.Real},
			{Name: "dewPoint", Kind: store.Real},
			{Name: "relativeHumidity", Kind: store.Real},
			{Name: "windDirection", Kind: store.Real},
			{Name: "windDirectionCompassPoint", Kind: store.Text},
			{Name: "windSpeed", Kind: store.Real},
			{Name: "weatherTypeDTO", Kind: store.Encoded},
			{Name: "weatherStationDTO", Kind: store.Encoded},
		},
	}

	BronzeActivityGear = store.TableDef{
		Name: "bronze_activity_gear",
		Columns: []store.Column{
			{Name: "activityId", Kind: store.Integer},
			{Name: "uuid", Kind: store.Text},
			{Name: "gearPk", Kind: store.Integer},
			{Name: "displayName", Kind: store.Text},
			{Name: "customMakeModel", Kind: store.Text},
			{Name: "gearTypeName", Kind: store.Text},
			{Name: "gearStatusName", Kind: store.Text},
			{Name: "dateBegin", Kind: store.Text},
			{Name: "dateEnd", Kind: store.Text},
			{Name: "maximumMeters", Kind: store.Real},
		},
	}

	BronzeGearList = store.TableDef{
		Name: "bronze_gear_list",
		Columns: []store.Column{
			{Name: "uuid", Kind: store.Text},
			{Name: "gearPk", Kind: store.Integer},
			{Name: "displayName", Kind: store.Text},
			{Name: "customMakeModel", Kind: store.Text},
			{Name: "gearTypeName", Kind: store.Text},
			{Name: "gearStatusName", Kind: store.Text},
			{Name: "dateBegin", Kind: store.Text},
			{Name: "dateEnd", Kind: store.Text},
			{Name: "maximumMeters", Kind: store.Real},
		},
	}

	BronzeGearStats = store.TableDef{
		Name: "bronze_gear_stats",
		Columns: []store.Column{
			{Name: "uuid", Kind: store.Text},
			{Name: "totalDistance", Kind: store.Real},
			{Name: "totalActivities", Kind: store.Integer},
		},
	}
)

// ActivityRows converts typed activities into bronze rows. The nested
// activity type encodes to JSON text like every declared-encoded column.
func ActivityRows(activities []garmin.Activity) []store.Row {
	rows := make([]store.Row, len(activities))
	for i, a := range activities {
		typeJSON, _ := json.Marshal(a.ActivityType)
		rows[i] = store.Row{
			"activityId":     a.ActivityID,
			"activityName":   a.ActivityName,
			"activityType":   string(typeJSON),
			"startTimeLocal": a.StartTimeLocal,
			"duration":       a.Duration,
			"distance":       floatOrNil(a.Distance),
			"calories":       floatOrNil(a.Calories),
			"averageHR":      floatOrNil(a.AverageHR),
			"maxHR":          floatOrNil(a.MaxHR),
			"averageSpeed":   floatOrNil(a.AverageSpeed),
			"maxSpeed":       floatOrNil(a.MaxSpeed),
			"elevationGain":  floatOrNil(a.ElevationGain),
			"locationName":   stringOrNil(a.LocationName),
			"averageRunningCadenceInStepsPerMinute": floatOrNil(a.AverageRunningCadence),
			"averageSwimCadenceInStrokesPerMinute":  floatOrNil(a.AverageSwimCadence),
		}
	}
	return rows
}

// GearListRows converts the gear inventory into bronze rows
func GearListRows(items []garmin.GearItem) []store.Row {
	rows := make([]store.Row, len(items))
	for i, g := range items {
		rows[i] = store.Row{
			"uuid":            g.UUID,
			"gearPk":          g.GearPk,
			"displayName":     g.DisplayName,
			"customMakeModel": g.CustomMakeModel,
			"gearTypeName":    g.GearTypeName,
			"gearStatusName":  g.GearStatusName,
			"dateBegin":       g.DateBegin,
			"dateEnd":         stringOrNil(g.DateEnd),
			"maximumMeters":   floatOrNil(g.MaximumMeters),
		}
	}
	return rows
}

// GearStatsRows converts per-item usage stats into bronze rows
func GearStatsRows(stats []garmin.GearStats) []store.Row {
	rows := make([]store.Row, len(stats))
	for i, s := range stats {
		rows[i] = store.Row{
			"uuid":            s.UUID,
			"totalDistance":   s.TotalDistance,
			"totalActivities": s.TotalActivities,
		}
	}
	return rows
}

func floatOrNil(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func stringOrNil(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}
