package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stationsync/internal/models"
)

type fakeTemperatureSource struct {
	temps map[string]float64
	errs  map[string]error
	urls  []string
}

func (f *fakeTemperatureSource) FetchTemperature(ctx context.Context, url string) (float64, error) {
	f.urls = append(f.urls, url)
	if err := f.errs[url]; err != nil {
		return 0, err
	}
	return f.temps[url], nil
}

type fakeScrapeRegistry struct {
	stations []models.ScrapeStation
	loaded   []models.ScrapeStation
}

func (f *fakeScrapeRegistry) BulkInsert(ctx context.Context, stations []models.ScrapeStation) (int, error) {
	f.loaded = append(f.loaded, stations...)
	return len(stations), nil
}

func (f *fakeScrapeRegistry) ListAll(ctx context.Context) ([]models.ScrapeStation, error) {
	return f.stations, nil
}

type fakeReadingWriter struct {
	readings []models.ScrapeReading
}

func (f *fakeReadingWriter) Insert(ctx context.Context, reading models.ScrapeReading) error {
	f.readings = append(f.readings, reading)
	return nil
}

func TestScraperSyncAllPersistsTemperature(t *testing.T) {
	source := &fakeTemperatureSource{temps: map[string]float64{
		"https://example.test/abc-123": 77,
	}}
	registry := &fakeScrapeRegistry{stations: []models.ScrapeStation{
		{StationIDUUID: "abc-123", StationName: "S1", Latitude: 19.4, Longitude: -99.1},
	}}
	writer := &fakeReadingWriter{}

	scraper := NewScraper(source, "https://example.test", registry, writer, zap.NewNop())
	require.NoError(t, scraper.SyncAll(context.Background()))

	require.Len(t, writer.readings, 1)
	assert.Equal(t, "abc-123", writer.readings[0].StationIDUUID)
	assert.Equal(t, 77.0, writer.readings[0].Temperature)
	assert.False(t, writer.readings[0].HoragGen.IsZero())
}

func TestScraperSyncAllSkipsFailedStations(t *testing.T) {
	source := &fakeTemperatureSource{
		temps: map[string]float64{"https://example.test/ok": 68},
		errs:  map[string]error{"https://example.test/bad": errors.New("selector timeout")},
	}
	registry := &fakeScrapeRegistry{stations: []models.ScrapeStation{
		{StationIDUUID: "bad"},
		{StationIDUUID: "ok"},
	}}
	writer := &fakeReadingWriter{}

	scraper := NewScraper(source, "https://example.test", registry, writer, zap.NewNop())
	require.NoError(t, scraper.SyncAll(context.Background()))

	// Both stations were visited, in order, but only the good one persisted.
	assert.Equal(t, []string{"https://example.test/bad", "https://example.test/ok"}, source.urls)
	require.Len(t, writer.readings, 1)
	assert.Equal(t, "ok", writer.readings[0].StationIDUUID)
}

func TestLoadStationsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stations.json")
	contents := `[{"station_id_uuid":"abc-123","station_name":"S1","latitude":19.4,"longitude":-99.1}]`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	registry := &fakeScrapeRegistry{}
	scraper := NewScraper(nil, "", registry, nil, zap.NewNop())

	require.NoError(t, scraper.LoadStationsFromFile(context.Background(), path))
	require.Len(t, registry.loaded, 1)
	assert.Equal(t, "abc-123", registry.loaded[0].StationIDUUID)
	assert.Equal(t, 19.4, registry.loaded[0].Latitude)
}

func TestLoadStationsFromFileMissing(t *testing.T) {
	scraper := NewScraper(nil, "", &fakeScrapeRegistry{}, nil, zap.NewNop())
	assert.Error(t, scraper.LoadStationsFromFile(context.Background(), "does/not/exist.json"))
}

func TestLoadStationsFromFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stations.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	scraper := NewScraper(nil, "", &fakeScrapeRegistry{}, nil, zap.NewNop())
	assert.Error(t, scraper.LoadStationsFromFile(context.Background(), path))
}
