package garmin

import (
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOneOrManyUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{
			name:  "bare object",
			input: `{"temp": 12.5, "weatherCondition": "Cloudy"}`,
			want:  1,
		},
		{
			name:  "list of objects",
			input: `[{"uuid": "a"}, {"uuid": "b"}, {"uuid": "c"}]`,
			want:  3,
		},
		{
			name:  "empty list",
			input: `[]`,
			want:  0,
		},
		{
			name:  "null",
			input: `null`,
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var payload OneOrMany[Record]
			require.NoError(t, json.Unmarshal([]byte(tt.input), &payload))
			assert.Len(t, payload.Slice(), tt.want)
		})
	}
}

func TestOneOrManyPreservesFields(t *testing.T) {
	var payload OneOrMany[Record]
	require.NoError(t, json.Unmarshal([]byte(`{"temp": 3.5, "stationDTO": {"id": 9}}`), &payload))

	records := payload.Slice()
	require.Len(t, records, 1)
	assert.Equal(t, 3.5, records[0]["temp"])
	assert.IsType(t, map[string]any{}, records[0]["stationDTO"])
}

func TestActivityStartTime(t *testing.T) {
	a := Activity{StartTimeLocal: "2025-06-14 07:31:02"}

	got, err := a.StartTime()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 14, 7, 31, 2, 0, time.UTC), got)

	bad := Activity{StartTimeLocal: "not a timestamp"}
	_, err = bad.StartTime()
	assert.Error(t, err)
}

func TestActivityDecodeNullableFields(t *testing.T) {
	payload := `{
		"activityId": 101,
		"activityName": "Evening Strength",
		"activityType": {"typeId": 13, "typeKey": "strength_training"},
		"startTimeLocal": "2025-02-01 18:00:00",
		"duration": 1800.0,
		"calories": 210
	}`

	var a Activity
	require.NoError(t, json.Unmarshal([]byte(payload), &a))

	assert.Equal(t, int64(101), a.ActivityID)
	assert.Equal(t, "strength_training", a.ActivityType.TypeKey)
	assert.Nil(t, a.Distance, "indoor activity has no distance")
	assert.Nil(t, a.AverageHR)
	require.NotNil(t, a.Calories)
	assert.Equal(t, 210.0, *a.Calories)
}
