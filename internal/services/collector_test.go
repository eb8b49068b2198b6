package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stationsync/internal/models"
	"stationsync/pkg/client"
)

type fakeUpstream struct {
	stations []models.Station
	listErr  error

	payloads map[string]*client.SnapshotPayload
	dataErr  map[string]error
}

func (f *fakeUpstream) ListStations(ctx context.Context) ([]models.Station, error) {
	return f.stations, f.listErr
}

func (f *fakeUpstream) StationData(ctx context.Context, stationUUID string) (*client.SnapshotPayload, error) {
	if err := f.dataErr[stationUUID]; err != nil {
		return nil, err
	}
	return f.payloads[stationUUID], nil
}

type fakeRegistry struct {
	stations  []models.Station
	upserted  []string
	upsertErr map[string]error
}

func (f *fakeRegistry) UpsertIfAbsent(ctx context.Context, station models.Station) (bool, error) {
	if err := f.upsertErr[station.StationIDUUID]; err != nil {
		return false, err
	}
	f.upserted = append(f.upserted, station.StationIDUUID)
	return true, nil
}

func (f *fakeRegistry) ListAll(ctx context.Context) ([]models.Station, error) {
	return f.stations, nil
}

type fakeSnapshotWriter struct {
	inserted  []models.Snapshot
	insertErr error
}

func (f *fakeSnapshotWriter) Insert(ctx context.Context, snap models.Snapshot) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, snap)
	return nil
}

func TestSyncStationsContinuesPastBadRecord(t *testing.T) {
	upstream := &fakeUpstream{stations: []models.Station{
		{StationIDUUID: "a"},
		{StationIDUUID: "b"},
		{StationIDUUID: "c"},
	}}
	registry := &fakeRegistry{upsertErr: map[string]error{"b": errors.New("boom")}}

	collector := NewCollector(upstream, registry, nil, zap.NewNop())
	require.NoError(t, collector.SyncStations(context.Background()))

	assert.Equal(t, []string{"a", "c"}, registry.upserted)
}

func TestSyncStationsSurfacesListFailure(t *testing.T) {
	upstream := &fakeUpstream{listErr: errors.New("upstream down")}

	collector := NewCollector(upstream, &fakeRegistry{}, nil, zap.NewNop())
	assert.Error(t, collector.SyncStations(context.Background()))
}

func TestSyncStationDataTagsAndPersists(t *testing.T) {
	station := models.Station{StationID: 7, StationIDUUID: "abc-123"}
	upstream := &fakeUpstream{payloads: map[string]*client.SnapshotPayload{
		"abc-123": {
			StationID:     7,
			StationIDUUID: "abc-123",
			GeneratedAt:   1700000000,
			Sensors: []models.Sensor{{
				LSID:       42,
				SensorType: models.AmbientSensorType,
				Data:       []map[string]any{{"ts": int64(1700000000), "temp_out": 72.5}},
			}},
		},
	}}
	registry := &fakeRegistry{stations: []models.Station{station}}
	writer := &fakeSnapshotWriter{}

	collector := NewCollector(upstream, registry, writer, zap.NewNop())
	require.NoError(t, collector.SyncStationData(context.Background()))

	require.Len(t, writer.inserted, 1)
	snap := writer.inserted[0]
	assert.Equal(t, "abc-123", snap.StationIDUUID)
	assert.Equal(t, 7, snap.StationID)
	assert.Equal(t, int64(1700000000), snap.GeneratedAt)
	require.Len(t, snap.Sensors, 1)
	assert.False(t, snap.HoragGen.IsZero())
}

func TestSyncStationDataContinuesPastFetchFailure(t *testing.T) {
	upstream := &fakeUpstream{
		payloads: map[string]*client.SnapshotPayload{
			"ok": {StationIDUUID: "ok"},
		},
		dataErr: map[string]error{"bad": errors.New("timeout")},
	}
	registry := &fakeRegistry{stations: []models.Station{
		{StationIDUUID: "bad"},
		{StationIDUUID: "ok"},
	}}
	writer := &fakeSnapshotWriter{}

	collector := NewCollector(upstream, registry, writer, zap.NewNop())
	require.NoError(t, collector.SyncStationData(context.Background()))

	require.Len(t, writer.inserted, 1)
	assert.Equal(t, "ok", writer.inserted[0].StationIDUUID)
}

func TestCopySensorsSharesNothing(t *testing.T) {
	original := []models.Sensor{{
		SensorType: models.AmbientSensorType,
		Data:       []map[string]any{{"temp_out": 72.5}},
	}}

	copied := copySensors(original)
	copied[0].Data[0]["temp_out"] = 0.0

	assert.Equal(t, 72.5, original[0].Data[0]["temp_out"])
}
