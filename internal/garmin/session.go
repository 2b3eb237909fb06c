package garmin

import "time"

// DefaultRequestInterval is the floor between any two API requests. The
// ingestion and enrichment layers add their own, larger delays on top.
const DefaultRequestInterval = 100 * time.Millisecond

// Session is an authenticated handle to the Garmin Connect API. It holds
// no state beyond the client and its refreshing token source; components
// receive it explicitly rather than through any package-level handle.
type Session struct {
	*Client
}
