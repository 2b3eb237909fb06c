package ingest

import (
	"fmt"

	json "github.com/goccy/go-json"

	"traininghub/internal/garmin"
	"traininghub/internal/logging"
	"traininghub/internal/store"
)

// FlattenRecords maps raw enrichment records onto a declared bronze schema.
// Declared-encoded columns serialize nested values to JSON text; scalar
// columns take the value as-is. A record whose value cannot be prepared for
// its column is skipped and logged, and the batch continues.
func FlattenRecords(def store.TableDef, records []garmin.Record) []store.Row {
	log := logging.Component("flatten")

	rows := make([]store.Row, 0, len(records))
	for _, rec := range records {
		row, err := flattenRecord(def, rec)
		if err != nil {
			log.Warn().Str("table", def.Name).
				Interface("activity_id", rec["activityId"]).
				Err(err).Msg("skipping unflattenable record")
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

func flattenRecord(def store.TableDef, rec garmin.Record) (store.Row, error) {
	row := make(store.Row, len(def.Columns))
	for _, col := range def.Columns {
		value, ok := rec[col.Name]
		if !ok || value == nil {
			continue
		}

		if col.Kind == store.Encoded {
			encoded, err := json.Marshal(value)
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", col.Name, err)
			}
			row[col.Name] = string(encoded)
			continue
		}

		switch value.(type) {
		case string, float64, bool, int, int64:
			row[col.Name] = value
		default:
			return nil, fmt.Errorf("column %s: non-scalar value %T in scalar column", col.Name, value)
		}
	}
	return row, nil
}
