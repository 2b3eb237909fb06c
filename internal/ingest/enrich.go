package ingest

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"traininghub/internal/garmin"
	"traininghub/internal/logging"
)

// Kind selects an enrichment source
type Kind string

const (
	KindWeather Kind = "weather"
	KindGear    Kind = "gear"
)

// DefaultItemDelay is the fixed pause between per-activity enrichment
// requests. Deliberately smaller than the page delay.
const DefaultItemDelay = 100 * time.Millisecond

// EnrichmentAPI is the slice of the Garmin client the enricher needs
type EnrichmentAPI interface {
	GetActivityWeather(ctx context.Context, activityID int64) ([]garmin.Record, error)
	GetActivityGear(ctx context.Context, activityID int64) ([]garmin.Record, error)
}

// EnrichResult holds the collected enrichment records per kind, each record
// tagged with its owning activity id.
type EnrichResult struct {
	Weather []garmin.Record
	Gear    []garmin.Record
	Misses  int // activities whose enrichment was absent or failed
}

// Enricher attaches best-effort facts to already-fetched activities.
// A failed or empty lookup for one activity never affects the others.
type Enricher struct {
	api   EnrichmentAPI
	pacer *garmin.Pacer
	log   zerolog.Logger
}

// NewEnricher creates an enricher. itemDelay <= 0 disables pacing (tests).
func NewEnricher(api EnrichmentAPI, itemDelay time.Duration) *Enricher {
	return &Enricher{
		api:   api,
		pacer: garmin.NewPacer(itemDelay),
		log:   logging.Component("enrich"),
	}
}

// Enrich fetches the requested kinds for each activity. A positive limit
// bounds enrichment to the first limit activities; zero or negative means
// no bound. Errors from individual lookups are absorbed as absence; only a
// cancelled context aborts the pass.
func (e *Enricher) Enrich(ctx context.Context, activities []garmin.Activity, kinds []Kind, limit int) (EnrichResult, error) {
	var result EnrichResult

	scoped := activities
	if limit > 0 && len(scoped) > limit {
		scoped = scoped[:limit]
	}

	for _, a := range scoped {
		for _, kind := range kinds {
			if err := e.pacer.Wait(ctx); err != nil {
				return result, err
			}

			records, err := e.fetch(ctx, kind, a.ActivityID)
			if err != nil {
				if ctx.Err() != nil {
					return result, ctx.Err()
				}
				result.Misses++
				e.log.Debug().Int64("activity_id", a.ActivityID).Str("kind", string(kind)).
					Err(err).Msg("enrichment unavailable")
				continue
			}
			if len(records) == 0 {
				result.Misses++
				continue
			}

			for _, r := range records {
				r["activityId"] = a.ActivityID
			}
			switch kind {
			case KindWeather:
				result.Weather = append(result.Weather, records...)
			case KindGear:
				result.Gear = append(result.Gear, records...)
			}
		}
	}

	e.log.Info().
		Int("activities", len(scoped)).
		Int("weather_records", len(result.Weather)).
		Int("gear_records", len(result.Gear)).
		Int("misses", result.Misses).
		Msg("enrichment complete")
	return result, nil
}

func (e *Enricher) fetch(ctx context.Context, kind Kind, activityID int64) ([]garmin.Record, error) {
	switch kind {
	case KindGear:
		return e.api.GetActivityGear(ctx, activityID)
	default:
		return e.api.GetActivityWeather(ctx, activityID)
	}
}
