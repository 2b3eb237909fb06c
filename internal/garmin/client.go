package garmin

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/oauth2"
)

// DefaultBaseURL is the Garmin Connect API gateway
const DefaultBaseURL = "https://connectapi.garmin.com"

// Client is an authenticated Garmin Connect API client. All calls go
// through the pacer, so consecutive requests respect the configured
// minimum interval.
type Client struct {
	BaseURL    string
	httpClient *http.Client
	pacer      *Pacer
}

// NewClient creates a client backed by the given token source. The pacer
// may be nil to disable request pacing (tests).
func NewClient(tokenSource oauth2.TokenSource, pacer *Pacer) *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		httpClient: oauth2.NewClient(context.Background(), tokenSource),
		pacer:      pacer,
	}
}

// SetPacerInterval replaces the client's pacing interval
func (c *Client) SetPacerInterval(interval time.Duration) {
	c.pacer = NewPacer(interval)
}

// GetActivities fetches one page of activities starting at the given
// offset. The provider returns activities in descending start-time order
// (assumed, not guaranteed; callers must not rely on order within a page).
func (c *Client) GetActivities(ctx context.Context, start, limit int) ([]Activity, error) {
	params := url.Values{}
	params.Set("start", strconv.Itoa(start))
	params.Set("limit", strconv.Itoa(limit))

	var activities []Activity
	if err := c.getJSON(ctx, "/activitylist-service/activities/search/activities", params, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// GetActivityWeather fetches the weather observed during an activity.
// Indoor and no-GPS activities have none; the provider signals that with
// an error status, which callers treat as absence.
func (c *Client) GetActivityWeather(ctx context.Context, activityID int64) ([]Record, error) {
	path := fmt.Sprintf("/activity-service/activity/%d/weather", activityID)

	var payload OneOrMany[Record]
	if err := c.getJSON(ctx, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Slice(), nil
}

// GetActivityGear fetches the gear associated with an activity. The
// provider returns a bare object for a single association and a list for
// multiple; both normalize to a slice here.
func (c *Client) GetActivityGear(ctx context.Context, activityID int64) ([]Record, error) {
	params := url.Values{}
	params.Set("activityId", strconv.FormatInt(activityID, 10))

	var payload OneOrMany[Record]
	if err := c.getJSON(ctx, "/gear-service/gear/filterGear", params, &payload); err != nil {
		return nil, err
	}
	return payload.Slice(), nil
}

// GetGear fetches the gear inventory for a profile
func (c *Client) GetGear(ctx context.Context, profileID int64) ([]GearItem, error) {
	params := url.Values{}
	params.Set("userProfilePk", strconv.FormatInt(profileID, 10))

	var gear []GearItem
	if err := c.getJSON(ctx, "/gear-service/gear/filterGear", params, &gear); err != nil {
		return nil, err
	}
	return gear, nil
}

// GetGearStats fetches accumulated usage for one gear item
func (c *Client) GetGearStats(ctx context.Context, gearUUID string) (GearStats, error) {
	path := "/gear-service/gear/stats/" + url.PathEscape(gearUUID)

	var stats GearStats
	if err := c.getJSON(ctx, path, nil, &stats); err != nil {
		return GearStats{}, err
	}
	if stats.UUID == "" {
		stats.UUID = gearUUID
	}
	return stats, nil
}

// GetDeviceLastUsed fetches the last-used device record, which carries the
// profile number the gear service is keyed by
func (c *Client) GetDeviceLastUsed(ctx context.Context) (DeviceInfo, error) {
	var info DeviceInfo
	if err := c.getJSON(ctx, "/device-service/deviceservice/mylastused", nil, &info); err != nil {
		return DeviceInfo{}, err
	}
	return info, nil
}

// getJSON issues a paced GET and decodes the response body into out
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.pacer.Wait(ctx); err != nil {
		return err
	}

	reqURL := c.BaseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: status %d on %s", ErrUnauthorized, resp.StatusCode, path)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{StatusCode: resp.StatusCode, Path: path, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}
