package marts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"traininghub/internal/garmin"
)

func TestGearOverviewLifecycle(t *testing.T) {
	maxShoe := 800000.0 // 800 km limit
	items := []garmin.GearItem{
		{UUID: "shoe", DisplayName: "Pegasus 41", GearTypeName: "Shoes",
			GearStatusName: "active", MaximumMeters: &maxShoe},
		{UUID: "strap", DisplayName: "HR Strap", GearTypeName: "Other", GearStatusName: "active"},
	}
	stats := []garmin.GearStats{
		{UUID: "shoe", TotalDistance: 920000, TotalActivities: 120}, // past the limit
		{UUID: "strap", TotalDistance: 400000, TotalActivities: 60},
	}

	overview := GearOverview(items, stats)
	require.Len(t, overview, 2)

	shoe := overview[0]
	assert.Equal(t, "Pegasus 41", shoe.GearName)
	assert.InDelta(t, 920.0, shoe.TotalDistanceKM, 0.001)
	require.NotNil(t, shoe.PctOfMaxUsed)
	assert.InDelta(t, 115.0, *shoe.PctOfMaxUsed, 0.001, "overuse reports the raw percentage")
	require.NotNil(t, shoe.RemainingKM)
	assert.InDelta(t, -120.0, *shoe.RemainingKM, 0.001, "remaining distance goes negative past the limit")

	strap := overview[1]
	assert.Nil(t, strap.PctOfMaxUsed)
	assert.Nil(t, strap.RemainingKM)
	assert.Equal(t, int64(60), strap.TotalActivities)
}

func TestGearOverviewItemWithoutStats(t *testing.T) {
	items := []garmin.GearItem{{UUID: "new", DisplayName: "New Shoes", GearStatusName: "active"}}

	overview := GearOverview(items, nil)
	require.Len(t, overview, 1)
	assert.Zero(t, overview[0].TotalDistanceKM, "an item whose stats were skipped reports zero usage")
	assert.Zero(t, overview[0].TotalActivities)
}

func TestGearOverviewFallsBackToMakeModel(t *testing.T) {
	items := []garmin.GearItem{{UUID: "x", CustomMakeModel: "Brooks Ghost 16"}}
	overview := GearOverview(items, nil)
	require.Len(t, overview, 1)
	assert.Equal(t, "Brooks Ghost 16", overview[0].GearName)
}

func TestWearStatus(t *testing.T) {
	tests := []struct {
		pct  *float64
		want string
	}{
		{nil, "unlimited"},
		{fp(0), "nominal"},
		{fp(69.9), "nominal"},
		{fp(70), "warning"},
		{fp(90), "warning"},
		{fp(90.1), "critical"},
		{fp(130), "critical"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, WearStatus(tt.pct))
	}
}
