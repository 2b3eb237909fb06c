package marts

import (
	"sort"

	"traininghub/internal/garmin"
	"traininghub/internal/store"
)

// Wear status thresholds against the configured distance limit, in percent
const (
	WearWarningPct  = 70
	WearCriticalPct = 90
)

// GearOverview joins the gear list with per-item usage stats into one
// lifecycle row per item. Items without stats report zero usage. The
// percentage and remaining distance stay nil when no limit is configured;
// usage past the limit keeps the raw values, above 100 and negative.
func GearOverview(items []garmin.GearItem, stats []garmin.GearStats) []store.GearOverview {
	statsByUUID := make(map[string]garmin.GearStats, len(stats))
	for _, s := range stats {
		statsByUUID[s.UUID] = s
	}

	overview := make([]store.GearOverview, 0, len(items))
	for _, item := range items {
		row := store.GearOverview{
			GearName: displayName(item),
			GearType: item.GearTypeName,
			Status:   item.GearStatusName,
		}
		if s, ok := statsByUUID[item.UUID]; ok {
			row.TotalDistanceKM = s.TotalDistance / 1000
			row.TotalActivities = s.TotalActivities
		}
		if item.MaximumMeters != nil && *item.MaximumMeters > 0 {
			maxKM := *item.MaximumMeters / 1000
			pct := 100 * row.TotalDistanceKM / maxKM
			remaining := maxKM - row.TotalDistanceKM
			row.PctOfMaxUsed = &pct
			row.RemainingKM = &remaining
		}
		overview = append(overview, row)
	}

	sort.Slice(overview, func(i, j int) bool {
		if overview[i].TotalDistanceKM != overview[j].TotalDistanceKM {
			return overview[i].TotalDistanceKM > overview[j].TotalDistanceKM
		}
		return overview[i].GearName < overview[j].GearName
	})
	return overview
}

// WearStatus classifies a usage percentage for display
func WearStatus(pct *float64) string {
	switch {
	case pct == nil:
		return "unlimited"
	case *pct > WearCriticalPct:
		return "critical"
	case *pct >= WearWarningPct:
		return "warning"
	default:
		return "nominal"
	}
}

func displayName(item garmin.GearItem) string {
	if item.DisplayName != "" {
		return item.DisplayName
	}
	return item.CustomMakeModel
}
