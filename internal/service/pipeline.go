package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"traininghub/internal/config"
	"traininghub/internal/garmin"
	"traininghub/internal/ingest"
	"traininghub/internal/logging"
	"traininghub/internal/marts"
	"traininghub/internal/store"
)

// PipelineAPI is everything the pipeline needs from the Garmin session
type PipelineAPI interface {
	ingest.ActivityAPI
	ingest.EnrichmentAPI
	ingest.GearAPI
}

// Progress reports pipeline progress to an observer (the TUI sync screen
// or the CLI). Phases: activities, enrichment, gear, load, marts.
type Progress struct {
	Phase     string
	Total     int
	Completed int
	Message   string
}

// RunResult summarizes one pipeline run
type RunResult struct {
	Scope             string
	ActivitiesFetched int
	WeatherRecords    int
	GearRecords       int
	EnrichmentMisses  int
	GearItems         int
	GearStats         int
	FirstDate         string
	LastDate          string
	TotalDistanceKM   float64
	TotalHours        float64
	Elapsed           time.Duration
}

// Pipeline runs an extraction end to end: fetch, enrich, gear, bronze
// load, mart rebuild. Strictly sequential; it is the only writer to the
// database.
type Pipeline struct {
	api      PipelineAPI
	db       *store.DB
	ingester *ingest.Ingester
	enricher *ingest.Enricher
	gear     *ingest.GearFetcher
	weather  int // weather enrichment cap, 0 for unbounded
	log      zerolog.Logger
}

// NewPipeline wires a pipeline from a session, a database and the
// extraction config
func NewPipeline(api PipelineAPI, db *store.DB, cfg config.ExtractionConfig) *Pipeline {
	return &Pipeline{
		api:      api,
		db:       db,
		ingester: ingest.NewIngester(api, cfg.PageSize, cfg.PageDelay()),
		enricher: ingest.NewEnricher(api, cfg.ItemDelay()),
		gear:     ingest.NewGearFetcher(api),
		weather:  cfg.WeatherLimit,
		log:      logging.Component("pipeline"),
	}
}

// Run executes a full extraction for the given scope. All provider reads
// happen before any database write, so a failed run leaves the previous
// bronze and mart state untouched. The progress channel, when non-nil, is
// closed before Run returns.
func (p *Pipeline) Run(ctx context.Context, scope ingest.Scope, progress chan<- Progress) (*RunResult, error) {
	if progress != nil {
		defer close(progress)
	}
	started := time.Now()
	result := &RunResult{Scope: scope.String()}

	report(progress, Progress{Phase: "activities"})
	activities, err := p.ingester.FetchActivities(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("fetching activities: %w", err)
	}
	result.ActivitiesFetched = len(activities)
	summarize(result, activities)

	report(progress, Progress{Phase: "enrichment", Total: len(activities)})
	weather, err := p.enricher.Enrich(ctx, activities, []ingest.Kind{ingest.KindWeather}, p.weather)
	if err != nil {
		return nil, fmt.Errorf("enriching weather: %w", err)
	}
	gearAssoc, err := p.enricher.Enrich(ctx, activities, []ingest.Kind{ingest.KindGear}, 0)
	if err != nil {
		return nil, fmt.Errorf("enriching gear associations: %w", err)
	}
	result.WeatherRecords = len(weather.Weather)
	result.GearRecords = len(gearAssoc.Gear)
	result.EnrichmentMisses = weather.Misses + gearAssoc.Misses

	report(progress, Progress{Phase: "gear"})
	inventory, err := p.gear.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching gear inventory: %w", err)
	}
	result.GearItems = len(inventory.Items)
	result.GearStats = len(inventory.Stats)

	report(progress, Progress{Phase: "load"})
	if err := p.loadBronze(ctx, activities, weather, gearAssoc, inventory); err != nil {
		return nil, err
	}

	report(progress, Progress{Phase: "marts"})
	if err := p.buildMarts(ctx, activities, inventory, scope); err != nil {
		return nil, err
	}

	result.Elapsed = time.Since(started)
	p.log.Info().
		Str("scope", result.Scope).
		Int("activities", result.ActivitiesFetched).
		Int("weather", result.WeatherRecords).
		Int("gear_records", result.GearRecords).
		Int("misses", result.EnrichmentMisses).
		Dur("elapsed", result.Elapsed).
		Msg("pipeline run complete")
	return result, nil
}

// loadBronze replaces every bronze table from the freshly fetched data
func (p *Pipeline) loadBronze(ctx context.Context, activities []garmin.Activity,
	weather, gearAssoc ingest.EnrichResult, inventory ingest.GearInventory) error {

	loads := []struct {
		def  store.TableDef
		rows []store.Row
	}{
		{ingest.BronzeActivities, ingest.ActivityRows(activities)},
		{ingest.BronzeActivityWeather, ingest.FlattenRecords(ingest.BronzeActivityWeather, weather.Weather)},
		{ingest.BronzeActivityGear, ingest.FlattenRecords(ingest.BronzeActivityGear, gearAssoc.Gear)},
		{ingest.BronzeGearList, ingest.GearListRows(inventory.Items)},
		{ingest.BronzeGearStats, ingest.GearStatsRows(inventory.Stats)},
	}
	for _, l := range loads {
		if err := p.db.ReplaceTable(ctx, l.def, l.rows); err != nil {
			return fmt.Errorf("loading %s: %w", l.def.Name, err)
		}
	}
	return nil
}

// buildMarts recomputes every mart from the run's typed data
func (p *Pipeline) buildMarts(ctx context.Context, activities []garmin.Activity,
	inventory ingest.GearInventory, scope ingest.Scope) error {

	if err := p.db.ReplaceMonthlyKPIs(ctx, marts.MonthlyKPIs(activities)); err != nil {
		return fmt.Errorf("building monthly_kpis: %w", err)
	}
	daily := marts.DailySummaries(activities, scope.Start, scope.End)
	if err := p.db.ReplaceDailySummary(ctx, daily); err != nil {
		return fmt.Errorf("building daily_summary: %w", err)
	}
	if err := p.db.ReplaceGearOverview(ctx, marts.GearOverview(inventory.Items, inventory.Stats)); err != nil {
		return fmt.Errorf("building gear_overview: %w", err)
	}
	return nil
}

func summarize(result *RunResult, activities []garmin.Activity) {
	for _, a := range activities {
		result.TotalHours += a.Duration / 3600
		if a.Distance != nil {
			result.TotalDistanceKM += *a.Distance / 1000
		}
		start, err := a.StartTime()
		if err != nil {
			continue
		}
		date := start.Format(marts.DateLayout)
		if result.FirstDate == "" || date < result.FirstDate {
			result.FirstDate = date
		}
		if date > result.LastDate {
			result.LastDate = date
		}
	}
}

func report(progress chan<- Progress, p Progress) {
	if progress != nil {
		progress <- p
	}
}
