package garmin

import (
	"bytes"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
)

// StartTimeLayout is the local timestamp format used by the activity API
// (no timezone designator; the value is already athlete-local).
const StartTimeLayout = "2006-01-02 15:04:05"

// ActivityType is the nested type descriptor on an activity
type ActivityType struct {
	TypeID  int64  `json:"typeId"`
	TypeKey string `json:"typeKey"`
}

// Activity is one exercise session as returned by the activity list API.
// Metrics that the provider omits for some activity types are pointers.
type Activity struct {
	ActivityID     int64        `json:"activityId"`
	ActivityName   string       `json:"activityName"`
	ActivityType   ActivityType `json:"activityType"`
	StartTimeLocal string       `json:"startTimeLocal"`
	Duration       float64      `json:"duration"` // seconds
	Distance       *float64     `json:"distance"` // meters
	Calories       *float64     `json:"calories"`
	AverageHR      *float64     `json:"averageHR"`
	MaxHR          *float64     `json:"maxHR"`
	AverageSpeed   *float64     `json:"averageSpeed"` // m/s
	MaxSpeed       *float64     `json:"maxSpeed"`     // m/s
	ElevationGain  *float64     `json:"elevationGain"`
	LocationName   *string      `json:"locationName"`

	// Sport-specific cadence metrics
	AverageRunningCadence *float64 `json:"averageRunningCadenceInStepsPerMinute"`
	AverageSwimCadence    *float64 `json:"averageSwimCadenceInStrokesPerMinute"`
}

// StartTime parses the activity's local start timestamp
func (a Activity) StartTime() (time.Time, error) {
	t, err := time.Parse(StartTimeLayout, a.StartTimeLocal)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing startTimeLocal %q: %w", a.StartTimeLocal, err)
	}
	return t, nil
}

// Record is a raw enrichment payload (weather or gear association). The
// provider's field set varies by account and device, so these are kept
// opaque until the flattening step applies a declared column schema.
type Record map[string]any

// GearItem is a piece of equipment from the gear service
type GearItem struct {
	UUID            string   `json:"uuid"`
	GearPk          int64    `json:"gearPk"`
	DisplayName     string   `json:"displayName"`
	CustomMakeModel string   `json:"customMakeModel"`
	GearTypeName    string   `json:"gearTypeName"`
	GearStatusName  string   `json:"gearStatusName"` // "active" or "retired"
	DateBegin       string   `json:"dateBegin"`
	DateEnd         *string  `json:"dateEnd"`
	MaximumMeters   *float64 `json:"maximumMeters"`
}

// GearStats is accumulated usage for one gear item
type GearStats struct {
	UUID            string  `json:"uuid"`
	TotalDistance   float64 `json:"totalDistance"` // meters
	TotalActivities int64   `json:"totalActivities"`
}

// DeviceInfo is the subset of the device-last-used response the pipeline
// needs: the profile number that keys the gear service.
type DeviceInfo struct {
	UserProfileNumber int64  `json:"userProfileNumber"`
	DeviceID          int64  `json:"deviceId"`
	DeviceName        string `json:"lastUsedDeviceName"`
}

// OneOrMany decodes a payload that arrives either as a bare object (single
// association) or as a list (multiple). Downstream code only ever sees the
// normalized slice.
type OneOrMany[T any] struct {
	items []T
}

// UnmarshalJSON accepts `null`, a bare object, or a list
func (m *OneOrMany[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		m.items = nil
		return nil
	}
	if trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &m.items)
	}
	var single T
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return err
	}
	m.items = []T{single}
	return nil
}

// Slice returns the normalized sequence
func (m OneOrMany[T]) Slice() []T {
	return m.items
}
