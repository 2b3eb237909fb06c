package garmin

import (
	"errors"
	"fmt"
)

// Terminal authentication failures. None of these are retried: they abort
// the run and are surfaced to the operator.
var (
	// ErrUnauthorized means the provider rejected the credentials or token
	ErrUnauthorized = errors.New("garmin: unauthorized")

	// ErrConnectionFailed means the provider could not be reached
	ErrConnectionFailed = errors.New("garmin: connection failed")

	// ErrMFARequired means login needs a one-time code and no code source
	// was available to resume the flow
	ErrMFARequired = errors.New("garmin: multi-factor code required")
)

// APIError is a non-2xx response from the data-plane API
type APIError struct {
	StatusCode int
	Path       string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("garmin: API error %d on %s: %s", e.StatusCode, e.Path, e.Body)
}
