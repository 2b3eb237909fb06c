package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"traininghub/internal/garmin"
	"traininghub/internal/logging"
)

// GearAPI is the slice of the Garmin client the gear fetch needs
type GearAPI interface {
	GetDeviceLastUsed(ctx context.Context) (garmin.DeviceInfo, error)
	GetGear(ctx context.Context, profileID int64) ([]garmin.GearItem, error)
	GetGearStats(ctx context.Context, gearUUID string) (garmin.GearStats, error)
}

// GearInventory is the athlete's gear list plus per-item usage stats.
// Stats may cover fewer items than the list when individual stats calls
// were skipped.
type GearInventory struct {
	Items []garmin.GearItem
	Stats []garmin.GearStats
}

// GearFetcher pulls the full gear inventory. The gear service is keyed by
// profile number, which only the device service exposes, so the fetch
// starts from the last-used device record.
type GearFetcher struct {
	api GearAPI
	log zerolog.Logger
}

// NewGearFetcher creates a gear fetcher
func NewGearFetcher(api GearAPI) *GearFetcher {
	return &GearFetcher{api: api, log: logging.Component("gear")}
}

// Fetch retrieves the gear list and each item's usage stats. A failed or
// malformed per-item stats lookup logs a warning and skips that item; a
// failed profile or list lookup aborts.
func (f *GearFetcher) Fetch(ctx context.Context) (GearInventory, error) {
	device, err := f.api.GetDeviceLastUsed(ctx)
	if err != nil {
		return GearInventory{}, fmt.Errorf("resolving profile from last-used device: %w", err)
	}
	if device.UserProfileNumber == 0 {
		return GearInventory{}, fmt.Errorf("last-used device carries no profile number")
	}

	items, err := f.api.GetGear(ctx, device.UserProfileNumber)
	if err != nil {
		return GearInventory{}, fmt.Errorf("fetching gear list: %w", err)
	}

	inventory := GearInventory{Items: items}
	for _, item := range items {
		if _, err := uuid.Parse(item.UUID); err != nil {
			f.log.Warn().Str("gear", item.DisplayName).Str("uuid", item.UUID).
				Msg("skipping gear item with malformed uuid")
			continue
		}

		stats, err := f.api.GetGearStats(ctx, item.UUID)
		if err != nil {
			if ctx.Err() != nil {
				return inventory, ctx.Err()
			}
			f.log.Warn().Str("gear", item.DisplayName).Err(err).
				Msg("skipping gear item, stats unavailable")
			continue
		}
		inventory.Stats = append(inventory.Stats, stats)
	}

	f.log.Info().Int("items", len(inventory.Items)).Int("stats", len(inventory.Stats)).
		Msg("gear fetch complete")
	return inventory, nil
}
