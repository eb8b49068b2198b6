package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stationsync/internal/models"
	"stationsync/internal/store"
)

type fakeSnapshotQuerier struct {
	docs []store.JoinedSnapshot
	err  error
}

func (f *fakeSnapshotQuerier) QueryBetween(ctx context.Context, stationUUID string, start, end time.Time) ([]store.JoinedSnapshot, error) {
	return f.docs, f.err
}

type fakeScrapeQuerier struct {
	docs []store.JoinedScrapeReading
	err  error
}

func (f *fakeScrapeQuerier) QueryBetween(ctx context.Context, stationUUID string, start, end time.Time) ([]store.JoinedScrapeReading, error) {
	return f.docs, f.err
}

func newTestReport(t *testing.T, snapshots SnapshotQuerier, scrapes ScrapeQuerier) *Report {
	t.Helper()
	formatter, err := NewFormatter("UTC")
	require.NoError(t, err)
	return NewReport(snapshots, scrapes, formatter, zap.NewNop())
}

func ambientSensor(tsValues ...int64) models.Sensor {
	data := make([]map[string]any, 0, len(tsValues))
	for _, ts := range tsValues {
		data = append(data, map[string]any{"ts": ts, "temp_out": 72.5})
	}
	return models.Sensor{LSID: 1, SensorType: models.AmbientSensorType, DataStructureType: 2, Data: data}
}

func TestInfoBetweenDatesFlattensInOrder(t *testing.T) {
	otherSensor := models.Sensor{
		SensorType: 37,
		Data:       []map[string]any{{"ts": int64(1), "battery": 3.1}},
	}

	querier := &fakeSnapshotQuerier{docs: []store.JoinedSnapshot{
		{
			StationName: "S1",
			Sensors:     []models.Sensor{ambientSensor(1700000000, 1700000300), otherSensor},
		},
		{
			StationName: "S1",
			Sensors:     []models.Sensor{otherSensor, ambientSensor(1700000600, 1700000900)},
		},
	}}

	report := newTestReport(t, querier, nil)
	rows, stationName := report.InfoBetweenDates(context.Background(), "abc-123", time.Time{}, time.Now())

	assert.Equal(t, "S1", stationName)
	require.Len(t, rows, 4)

	// Document order, then sensor order, then inner array order.
	assert.Equal(t, "14:11:2023 22:13", rows[0]["ts"])
	assert.Equal(t, "14:11:2023 22:18", rows[1]["ts"])
	assert.Equal(t, "14:11:2023 22:23", rows[2]["ts"])
	assert.Equal(t, "14:11:2023 22:28", rows[3]["ts"])

	// Non-ambient sensors never contribute rows.
	for _, row := range rows {
		assert.NotContains(t, row, "battery")
	}
}

func TestInfoBetweenDatesTimestampSentinels(t *testing.T) {
	querier := &fakeSnapshotQuerier{docs: []store.JoinedSnapshot{
		{
			StationName: "S1",
			Sensors: []models.Sensor{{
				SensorType: models.AmbientSensorType,
				Data: []map[string]any{
					{"temp_out": 70.0},
					{"ts": "garbage", "rain_storm_start_date": 1700000000},
				},
			}},
		},
	}}

	report := newTestReport(t, querier, nil)
	rows, _ := report.InfoBetweenDates(context.Background(), "abc-123", time.Time{}, time.Now())
	require.Len(t, rows, 2)

	assert.Equal(t, "No timestamp", rows[0]["ts"])
	assert.Equal(t, "No timestamp", rows[0]["rain_storm_start_date"])
	assert.Equal(t, "Invalid timestamp", rows[1]["ts"])
	assert.Equal(t, "14:11:2023 22:13", rows[1]["rain_storm_start_date"])
}

func TestInfoBetweenDatesDoesNotMutateStoredPoints(t *testing.T) {
	point := map[string]any{"ts": int64(1700000000), "temp_out": 70.0}
	querier := &fakeSnapshotQuerier{docs: []store.JoinedSnapshot{
		{Sensors: []models.Sensor{{SensorType: models.AmbientSensorType, Data: []map[string]any{point}}}},
	}}

	report := newTestReport(t, querier, nil)
	report.InfoBetweenDates(context.Background(), "abc-123", time.Time{}, time.Now())

	assert.Equal(t, int64(1700000000), point["ts"])
}

func TestInfoBetweenDatesDegradesOnStoreFailure(t *testing.T) {
	querier := &fakeSnapshotQuerier{err: errors.New("store unreachable")}

	report := newTestReport(t, querier, nil)
	rows, stationName := report.InfoBetweenDates(context.Background(), "abc-123", time.Time{}, time.Now())

	assert.Empty(t, rows)
	assert.Equal(t, "unknown", stationName)
}

func TestInfoBetweenDatesEmptyRange(t *testing.T) {
	report := newTestReport(t, &fakeSnapshotQuerier{}, nil)
	rows, stationName := report.InfoBetweenDates(context.Background(), "abc-123", time.Time{}, time.Now())

	assert.Empty(t, rows)
	assert.Equal(t, "unknown", stationName)
}

func TestScrapeInfoBetweenDates(t *testing.T) {
	when := time.Date(2023, 11, 14, 22, 13, 0, 0, time.UTC)
	querier := &fakeScrapeQuerier{docs: []store.JoinedScrapeReading{
		{HoragGen: when, Temperature: 77, StationName: "S1"},
	}}

	report := newTestReport(t, nil, querier)
	rows, stationName := report.ScrapeInfoBetweenDates(context.Background(), "abc-123", time.Time{}, time.Now())

	assert.Equal(t, "S1", stationName)
	require.Len(t, rows, 1)
	assert.Equal(t, "14:11:2023 22:13", rows[0]["horag_gen"])
	assert.Equal(t, 77.0, rows[0]["temperature"])
}

func TestScrapeInfoBetweenDatesJoinMiss(t *testing.T) {
	querier := &fakeScrapeQuerier{docs: []store.JoinedScrapeReading{
		{HoragGen: time.Now(), Temperature: 60},
	}}

	report := newTestReport(t, nil, querier)
	rows, stationName := report.ScrapeInfoBetweenDates(context.Background(), "abc-123", time.Time{}, time.Now())

	require.Len(t, rows, 1)
	assert.Equal(t, "unknown", stationName)
}
