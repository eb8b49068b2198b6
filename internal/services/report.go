package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"stationsync/internal/models"
	"stationsync/internal/store"
)

// Row is one flattened per-timestamp record ready for tabular export.
type Row map[string]any

// Sentinel strings substituted for absent or unparseable timestamp fields.
const (
	sentinelInvalidTimestamp = "Invalid timestamp"
	sentinelNoTimestamp      = "No timestamp"
	sentinelUnknownStation   = "unknown"
)

// SnapshotQuerier is the slice of the snapshot store the report consumes.
type SnapshotQuerier interface {
	QueryBetween(ctx context.Context, stationUUID string, start, end time.Time) ([]store.JoinedSnapshot, error)
}

// ScrapeQuerier is the slice of the scrape-reading store the report consumes.
type ScrapeQuerier interface {
	QueryBetween(ctx context.Context, stationUUID string, start, end time.Time) ([]store.JoinedScrapeReading, error)
}

// Report builds the flattened row sequences for export. Store failures degrade
// to an empty result with the unknown-station sentinel; callers cannot
// distinguish that from a genuinely empty range, which matches the original
// endpoint contract.
type Report struct {
	snapshots SnapshotQuerier
	scrapes   ScrapeQuerier
	formatter *Formatter
	logger    *zap.Logger
}

func NewReport(snapshots SnapshotQuerier, scrapes ScrapeQuerier, formatter *Formatter, logger *zap.Logger) *Report {
	return &Report{
		snapshots: snapshots,
		scrapes:   scrapes,
		formatter: formatter,
		logger:    logger,
	}
}

// InfoBetweenDates returns one row per ambient-sensor data point across every
// snapshot in [start, end], in document-then-sensor-then-array order, plus the
// station display name resolved by the join.
func (r *Report) InfoBetweenDates(ctx context.Context, stationUUID string, start, end time.Time) ([]Row, string) {
	docs, err := r.snapshots.QueryBetween(ctx, stationUUID, start, end)
	if err != nil {
		r.logger.Error("Snapshot range query failed",
			zap.String("station_id_uuid", stationUUID),
			zap.Error(err))
		return []Row{}, sentinelUnknownStation
	}

	rows := r.flattenSnapshots(docs)
	stationName := sentinelUnknownStation
	if len(docs) > 0 && docs[0].StationName != "" {
		stationName = docs[0].StationName
	}
	return rows, stationName
}

func (r *Report) flattenSnapshots(docs []store.JoinedSnapshot) []Row {
	rows := []Row{}
	for _, doc := range docs {
		for _, sensor := range doc.Sensors {
			if sensor.SensorType != models.AmbientSensorType {
				continue
			}
			for _, point := range sensor.Data {
				rows = append(rows, r.transformPoint(point))
			}
		}
	}
	return rows
}

// transformPoint copies one data point and replaces its timestamp fields with
// display strings or sentinels.
func (r *Report) transformPoint(point map[string]any) Row {
	row := make(Row, len(point))
	for k, v := range point {
		row[k] = v
	}

	for _, field := range []string{"ts", "rain_storm_start_date"} {
		value, present := row[field]
		if !present || value == nil {
			row[field] = sentinelNoTimestamp
			continue
		}
		formatted, ok := r.formatter.Format(value)
		if !ok {
			row[field] = sentinelInvalidTimestamp
			continue
		}
		row[field] = formatted
	}
	return row
}

// ScrapeInfoBetweenDates returns one row per persisted scrape reading in
// [start, end] plus the resolved station display name.
func (r *Report) ScrapeInfoBetweenDates(ctx context.Context, stationUUID string, start, end time.Time) ([]Row, string) {
	docs, err := r.scrapes.QueryBetween(ctx, stationUUID, start, end)
	if err != nil {
		r.logger.Error("Scrape range query failed",
			zap.String("station_id_uuid", stationUUID),
			zap.Error(err))
		return []Row{}, sentinelUnknownStation
	}

	rows := make([]Row, 0, len(docs))
	for _, doc := range docs {
		rows = append(rows, Row{
			"horag_gen":   r.formatter.FormatTime(doc.HoragGen),
			"temperature": doc.Temperature,
		})
	}

	stationName := sentinelUnknownStation
	if len(docs) > 0 && docs[0].StationName != "" {
		stationName = docs[0].StationName
	}
	return rows, stationName
}
