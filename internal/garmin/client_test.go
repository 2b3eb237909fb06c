package garmin

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"}), nil)
	client.BaseURL = server.URL
	return client
}

func TestGetActivitiesPagination(t *testing.T) {
	var gotStart, gotLimit string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/activitylist-service/activities/search/activities", r.URL.Path)
		gotStart = r.URL.Query().Get("start")
		gotLimit = r.URL.Query().Get("limit")
		w.Write([]byte(`[
			{"activityId": 2, "activityName": "Morning Run", "activityType": {"typeId": 1, "typeKey": "running"}, "startTimeLocal": "2025-03-02 07:00:00", "duration": 1800, "distance": 5000},
			{"activityId": 1, "activityName": "Evening Ride", "activityType": {"typeId": 2, "typeKey": "cycling"}, "startTimeLocal": "2025-03-01 18:00:00", "duration": 3600, "distance": 20000}
		]`))
	}))

	activities, err := client.GetActivities(context.Background(), 100, 50)
	require.NoError(t, err)
	assert.Equal(t, "100", gotStart)
	assert.Equal(t, "50", gotLimit)
	require.Len(t, activities, 2)
	assert.Equal(t, int64(2), activities[0].ActivityID)
	assert.Equal(t, "cycling", activities[1].ActivityType.TypeKey)
}

func TestGetActivityWeatherNormalizesShape(t *testing.T) {
	responses := map[string]string{
		"/activity-service/activity/1/weather": `{"temp": 12.0, "weatherTypeDTO": {"desc": "Clear"}}`,
		"/activity-service/activity/2/weather": `[{"temp": 8.0}, {"temp": 9.0}]`,
	}
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := responses[r.URL.Path]
		require.True(t, ok, "unexpected path %s", r.URL.Path)
		w.Write([]byte(body))
	}))

	single, err := client.GetActivityWeather(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, single, 1)

	many, err := client.GetActivityWeather(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, many, 2)
}

func TestGetGearStatsBackfillsUUID(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/gear-service/gear/stats/abc-123", r.URL.Path)
		w.Write([]byte(`{"totalDistance": 412500.5, "totalActivities": 61}`))
	}))

	stats, err := client.GetGearStats(context.Background(), "abc-123")
	require.NoError(t, err)
	assert.Equal(t, "abc-123", stats.UUID)
	assert.Equal(t, 412500.5, stats.TotalDistance)
	assert.Equal(t, int64(61), stats.TotalActivities)
}

func TestGetDeviceLastUsed(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/device-service/deviceservice/mylastused", r.URL.Path)
		w.Write([]byte(`{"userProfileNumber": 9912345, "lastUsedDeviceName": "Forerunner 265"}`))
	}))

	info, err := client.GetDeviceLastUsed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(9912345), info.UserProfileNumber)
}

func TestSetPacerInterval(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	client.SetPacerInterval(30 * time.Millisecond)

	start := time.Now()
	_, err := client.GetActivities(context.Background(), 0, 10)
	require.NoError(t, err)
	_, err = client.GetActivities(context.Background(), 10, 10)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestClientErrorStatuses(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		wantSentinel error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, wantSentinel: ErrUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, wantSentinel: ErrUnauthorized},
		{name: "server error", status: http.StatusInternalServerError},
		{name: "not found", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			_, err := client.GetActivities(context.Background(), 0, 10)
			require.Error(t, err)
			if tt.wantSentinel != nil {
				assert.ErrorIs(t, err, tt.wantSentinel)
				return
			}
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
		})
	}
}

func TestClientHonorsContextCancel(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	client.pacer = NewPacer(DefaultRequestInterval)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// First call consumes the pacer's free slot, second must block and
	// observe the cancelled context.
	_, _ = client.GetActivities(ctx, 0, 10)
	_, err := client.GetActivities(ctx, 0, 10)
	assert.ErrorIs(t, err, context.Canceled)
}
