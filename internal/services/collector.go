package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"stationsync/internal/models"
	"stationsync/pkg/client"
)

// UpstreamAPI is the slice of the vendor client the collector consumes.
type UpstreamAPI interface {
	ListStations(ctx context.Context) ([]models.Station, error)
	StationData(ctx context.Context, stationUUID string) (*client.SnapshotPayload, error)
}

// StationRegistry is the station-metadata store the collector writes to.
type StationRegistry interface {
	UpsertIfAbsent(ctx context.Context, station models.Station) (bool, error)
	ListAll(ctx context.Context) ([]models.Station, error)
}

// SnapshotWriter persists API-sourced readings.
type SnapshotWriter interface {
	Insert(ctx context.Context, snap models.Snapshot) error
}

// Collector runs the API-sourced sync cycles: the station-registry sync and
// the per-station data sync. Stations are processed strictly one at a time;
// the upstream is assumed not to tolerate concurrent bursts, and sequential
// processing is the backpressure strategy.
type Collector struct {
	api       UpstreamAPI
	stations  StationRegistry
	snapshots SnapshotWriter
	logger    *zap.Logger
}

func NewCollector(api UpstreamAPI, stations StationRegistry, snapshots SnapshotWriter, logger *zap.Logger) *Collector {
	return &Collector{
		api:       api,
		stations:  stations,
		snapshots: snapshots,
		logger:    logger,
	}
}

// SyncStations pulls the vendor station list and registers every station not
// yet known. Existing records are never refreshed. A failure on one station is
// logged and skipped; the rest of the batch continues.
func (c *Collector) SyncStations(ctx context.Context) error {
	stations, err := c.api.ListStations(ctx)
	if err != nil {
		c.logger.Error("Failed to fetch station list", zap.Error(err))
		return err
	}

	inserted := 0
	for _, station := range stations {
		wasNew, err := c.stations.UpsertIfAbsent(ctx, station)
		if err != nil {
			c.logger.Error("Failed to save station",
				zap.String("station_id_uuid", station.StationIDUUID),
				zap.Error(err))
			continue
		}
		if wasNew {
			inserted++
			c.logger.Info("Station saved", zap.String("station_id_uuid", station.StationIDUUID))
		} else {
			c.logger.Debug("Station already exists, skipping",
				zap.String("station_id_uuid", station.StationIDUUID))
		}
	}

	c.logger.Info("Station sync completed",
		zap.Int("stations", len(stations)),
		zap.Int("inserted", inserted))
	return nil
}

// SyncStationData fetches one snapshot per known station and persists it.
// Per-station failures never escape the batch.
func (c *Collector) SyncStationData(ctx context.Context) error {
	stations, err := c.stations.ListAll(ctx)
	if err != nil {
		c.logger.Error("Failed to list stations", zap.Error(err))
		return err
	}

	startTime := time.Now()
	saved := 0
	for _, station := range stations {
		if err := c.saveStationData(ctx, station); err != nil {
			c.logger.Error("Failed to fetch or save station data",
				zap.String("station_id_uuid", station.StationIDUUID),
				zap.Error(err))
			continue
		}
		saved++
	}

	c.logger.Info("Station data sync completed",
		zap.Int("stations", len(stations)),
		zap.Int("saved", saved),
		zap.Duration("duration", time.Since(startTime)))
	return nil
}

func (c *Collector) saveStationData(ctx context.Context, station models.Station) error {
	payload, err := c.api.StationData(ctx, station.StationIDUUID)
	if err != nil {
		return err
	}

	snap := models.Snapshot{
		StationRef:    station.ID,
		StationID:     station.StationID,
		StationIDUUID: station.StationIDUUID,
		GeneratedAt:   payload.GeneratedAt,
		Sensors:       copySensors(payload.Sensors),
		HoragGen:      time.Now(),
	}

	if err := c.snapshots.Insert(ctx, snap); err != nil {
		return err
	}

	c.logger.Info("Station data saved",
		zap.String("station_id_uuid", station.StationIDUUID),
		zap.Int("sensors", len(snap.Sensors)))
	return nil
}

// copySensors shallow-copies the vendor sensor list before it is embedded in
// the stored document. The payload structure is kept unchanged; only the
// containers are duplicated so the stored document shares nothing with the
// decoded response.
func copySensors(sensors []models.Sensor) []models.Sensor {
	copied := make([]models.Sensor, len(sensors))
	for i, sensor := range sensors {
		copied[i] = sensor
		copied[i].Data = make([]map[string]any, len(sensor.Data))
		for j, point := range sensor.Data {
			dup := make(map[string]any, len(point))
			for k, v := range point {
				dup[k] = v
			}
			copied[i].Data[j] = dup
		}
	}
	return copied
}
