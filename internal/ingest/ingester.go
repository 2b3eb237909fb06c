package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"traininghub/internal/garmin"
	"traininghub/internal/logging"
)

// DefaultPageSize is the activity page size used against the provider
const DefaultPageSize = 100

// DefaultPageDelay is the fixed pause between consecutive page fetches
const DefaultPageDelay = time.Second

// ActivityAPI is the slice of the Garmin client the ingester needs
type ActivityAPI interface {
	GetActivities(ctx context.Context, start, limit int) ([]garmin.Activity, error)
}

// Ingester pulls the athlete's activity history page by page and keeps the
// items whose local start date falls inside the requested scope.
type Ingester struct {
	api      ActivityAPI
	pageSize int
	pacer    *garmin.Pacer
	log      zerolog.Logger
}

// NewIngester creates an ingester. pageSize <= 0 falls back to the default,
// pageDelay <= 0 disables the inter-page pause (tests).
func NewIngester(api ActivityAPI, pageSize int, pageDelay time.Duration) *Ingester {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Ingester{
		api:      api,
		pageSize: pageSize,
		pacer:    garmin.NewPacer(pageDelay),
		log:      logging.Component("ingest"),
	}
}

// FetchActivities pages through the activity list from offset 0 and returns
// every activity inside scope. The provider serves newest first, so paging
// stops on the first page made up entirely of items older than the scope;
// the whole page is still scanned for stragglers before that decision.
// Stops also on an empty page or a short page. Any page error aborts the
// run with no partial result.
func (in *Ingester) FetchActivities(ctx context.Context, scope Scope) ([]garmin.Activity, error) {
	var kept []garmin.Activity

	for offset := 0; ; offset += in.pageSize {
		if err := in.pacer.Wait(ctx); err != nil {
			return nil, err
		}

		page, err := in.api.GetActivities(ctx, offset, in.pageSize)
		if err != nil {
			return nil, fmt.Errorf("fetching activities page at offset %d: %w", offset, err)
		}
		if len(page) == 0 {
			break
		}

		allOlder := true
		for _, a := range page {
			start, err := a.StartTime()
			if err != nil {
				in.log.Warn().Int64("activity_id", a.ActivityID).Err(err).
					Msg("dropping activity with unparseable start time")
				allOlder = false
				continue
			}
			if scope.Contains(start) {
				kept = append(kept, a)
			}
			if !scope.OlderThan(start) {
				allOlder = false
			}
		}

		in.log.Debug().
			Int("offset", offset).
			Int("page_size", len(page)).
			Int("kept_total", len(kept)).
			Msg("fetched activity page")

		if allOlder && len(page) == in.pageSize {
			break
		}
		if len(page) < in.pageSize {
			break
		}
	}

	in.log.Info().Str("scope", scope.String()).Int("activities", len(kept)).
		Msg("activity fetch complete")
	return kept, nil
}
