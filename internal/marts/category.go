// Package marts derives the reporting tables from bronze data. Every
// builder is a pure function of its inputs; the pipeline rebuilds all
// marts wholesale after each load.
package marts

// Activity categories used by the monthly KPI mart
const (
	CategoryRunning    = "Running"
	CategoryCycling    = "Cycling"
	CategorySwimming   = "Swimming"
	CategoryStrength   = "Strength"
	CategoryMultiSport = "Multi-Sport"
	CategoryOther      = "Other"
)

var typeCategories = map[string]string{
	"running":             CategoryRunning,
	"trail_running":       CategoryRunning,
	"treadmill_running":   CategoryRunning,
	"track_running":       CategoryRunning,
	"cycling":             CategoryCycling,
	"road_biking":         CategoryCycling,
	"mountain_biking":     CategoryCycling,
	"gravel_cycling":      CategoryCycling,
	"indoor_cycling":      CategoryCycling,
	"virtual_ride":        CategoryCycling,
	"swimming":            CategorySwimming,
	"lap_swimming":        CategorySwimming,
	"open_water_swimming": CategorySwimming,
	"strength_training":   CategoryStrength,
	"multi_sport":         CategoryMultiSport,
	"multisport":          CategoryMultiSport,
}

// Category maps a provider activity type key to a reporting category.
// Unmapped keys fold into Other.
func Category(typeKey string) string {
	if c, ok := typeCategories[typeKey]; ok {
		return c
	}
	return CategoryOther
}
