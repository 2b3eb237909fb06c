package ingest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"traininghub/internal/garmin"
)

// pagedAPI serves a fixed descending activity list in offset/limit pages
type pagedAPI struct {
	activities []garmin.Activity
	pages      int
	failAt     int // page index to fail on, -1 for never
}

func (p *pagedAPI) GetActivities(_ context.Context, start, limit int) ([]garmin.Activity, error) {
	if p.failAt >= 0 && p.pages == p.failAt {
		return nil, errors.New("boom")
	}
	p.pages++

	if start >= len(p.activities) {
		return nil, nil
	}
	end := start + limit
	if end > len(p.activities) {
		end = len(p.activities)
	}
	return p.activities[start:end], nil
}

func act(id int64, startLocal string) garmin.Activity {
	return garmin.Activity{
		ActivityID:     id,
		ActivityName:   fmt.Sprintf("Activity %d", id),
		ActivityType:   garmin.ActivityType{TypeID: 1, TypeKey: "running"},
		StartTimeLocal: startLocal,
		Duration:       1800,
	}
}

// descending builds n activities newest-first, one per day counting back
// from the given date inside 2025
func descending(n int) []garmin.Activity {
	activities := make([]garmin.Activity, n)
	for i := range activities {
		day := 28 - i%27
		month := 12 - i/27
		activities[i] = act(int64(n-i), fmt.Sprintf("2025-%02d-%02d 07:00:00", month, day))
	}
	return activities
}

func TestFetchActivitiesStopsOnShortPage(t *testing.T) {
	api := &pagedAPI{activities: descending(7), failAt: -1}
	ingester := NewIngester(api, 5, 0)

	got, err := ingester.FetchActivities(context.Background(), YearScope(2025))
	require.NoError(t, err)
	assert.Len(t, got, 7)
	assert.Equal(t, 2, api.pages, "short second page ends paging without a third request")
}

func TestFetchActivitiesStopsOnEmptyPage(t *testing.T) {
	api := &pagedAPI{activities: descending(10), failAt: -1}
	ingester := NewIngester(api, 5, 0)

	got, err := ingester.FetchActivities(context.Background(), YearScope(2025))
	require.NoError(t, err)
	assert.Len(t, got, 10)
	assert.Equal(t, 3, api.pages, "two full pages then one empty page")
}

func TestFetchActivitiesEarlyStopOnAllOlderPage(t *testing.T) {
	activities := []garmin.Activity{
		act(6, "2025-02-10 07:00:00"),
		act(5, "2025-01-05 07:00:00"),
		act(4, "2024-12-30 07:00:00"),
		act(3, "2024-11-01 07:00:00"),
		act(2, "2024-06-01 07:00:00"),
		act(1, "2023-01-01 07:00:00"),
	}
	api := &pagedAPI{activities: activities, failAt: -1}
	ingester := NewIngester(api, 2, 0)

	got, err := ingester.FetchActivities(context.Background(), YearScope(2025))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(6), got[0].ActivityID)
	assert.Equal(t, int64(5), got[1].ActivityID)
	assert.Equal(t, 2, api.pages, "page of only pre-scope items stops paging")
}

func TestFetchActivitiesKeepsStragglersInMixedPage(t *testing.T) {
	// An out-of-order in-scope item sits between older ones; its page must
	// be fully scanned before the early-stop decision.
	activities := []garmin.Activity{
		act(5, "2025-03-01 07:00:00"),
		act(4, "2024-12-20 07:00:00"),
		act(3, "2025-01-02 09:00:00"), // straggler, still in scope
		act(2, "2024-10-01 07:00:00"),
		act(1, "2024-09-01 07:00:00"),
	}
	api := &pagedAPI{activities: activities, failAt: -1}
	ingester := NewIngester(api, 3, 0)

	got, err := ingester.FetchActivities(context.Background(), YearScope(2025))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(3), got[1].ActivityID, "in-scope straggler in a mixed page is kept")
}

func TestFetchActivitiesDropsOutOfScopeInKeptPage(t *testing.T) {
	activities := []garmin.Activity{
		act(3, "2026-01-03 07:00:00"), // newer than scope
		act(2, "2025-06-01 07:00:00"),
		act(1, "2025-05-01 07:00:00"),
	}
	api := &pagedAPI{activities: activities, failAt: -1}
	ingester := NewIngester(api, 100, 0)

	got, err := ingester.FetchActivities(context.Background(), YearScope(2025))
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestFetchActivitiesPageErrorAborts(t *testing.T) {
	api := &pagedAPI{activities: descending(10), failAt: 1}
	ingester := NewIngester(api, 5, 0)

	got, err := ingester.FetchActivities(context.Background(), YearScope(2025))
	require.Error(t, err)
	assert.Nil(t, got, "no partial result after a page failure")
}

func TestFetchActivitiesEmptyAccount(t *testing.T) {
	api := &pagedAPI{failAt: -1}
	ingester := NewIngester(api, 100, 0)

	got, err := ingester.FetchActivities(context.Background(), YearScope(2025))
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 1, api.pages)
}
