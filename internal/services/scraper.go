package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"stationsync/internal/models"
)

// temperatureSelector locates the temperature value on the public station page.
const temperatureSelector = `.station-description .aq-info span:nth-child(2)`

var temperaturePattern = regexp.MustCompile(`\d+`)

// TemperatureSource extracts one temperature value from a station page.
type TemperatureSource interface {
	FetchTemperature(ctx context.Context, url string) (float64, error)
}

// ScrapeRegistry is the scrape-target station store the scraper reads from.
type ScrapeRegistry interface {
	BulkInsert(ctx context.Context, stations []models.ScrapeStation) (int, error)
	ListAll(ctx context.Context) ([]models.ScrapeStation, error)
}

// ScrapeReadingWriter persists scrape-sourced readings.
type ScrapeReadingWriter interface {
	Insert(ctx context.Context, reading models.ScrapeReading) error
}

// Scraper runs the scrape-sourced sync cycle: one headless-browser visit per
// registered station, strictly sequential, one reading persisted per success.
type Scraper struct {
	source   TemperatureSource
	baseURL  string
	stations ScrapeRegistry
	readings ScrapeReadingWriter
	logger   *zap.Logger
}

func NewScraper(source TemperatureSource, baseURL string, stations ScrapeRegistry, readings ScrapeReadingWriter, logger *zap.Logger) *Scraper {
	return &Scraper{
		source:   source,
		baseURL:  baseURL,
		stations: stations,
		readings: readings,
		logger:   logger,
	}
}

// SyncAll scrapes every registered station. Any per-station failure
// (navigation timeout, missing element, non-numeric text, store write) is
// logged and skipped without writing a reading.
func (s *Scraper) SyncAll(ctx context.Context) error {
	stations, err := s.stations.ListAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list scrape stations", zap.Error(err))
		return err
	}

	startTime := time.Now()
	saved := 0
	for _, station := range stations {
		if err := s.scrapeOne(ctx, station); err != nil {
			s.logger.Error("Failed to scrape station",
				zap.String("station_id_uuid", station.StationIDUUID),
				zap.Error(err))
			continue
		}
		saved++
	}

	s.logger.Info("Scrape cycle completed",
		zap.Int("stations", len(stations)),
		zap.Int("saved", saved),
		zap.Duration("duration", time.Since(startTime)))
	return nil
}

func (s *Scraper) scrapeOne(ctx context.Context, station models.ScrapeStation) error {
	url := fmt.Sprintf("%s/%s", s.baseURL, station.StationIDUUID)

	temperature, err := s.source.FetchTemperature(ctx, url)
	if err != nil {
		return err
	}

	reading := models.ScrapeReading{
		StationRef:    station.ID,
		StationIDUUID: station.StationIDUUID,
		Temperature:   temperature,
		HoragGen:      time.Now(),
	}
	if err := s.readings.Insert(ctx, reading); err != nil {
		return err
	}

	s.logger.Info("Temperature saved",
		zap.String("station_id_uuid", station.StationIDUUID),
		zap.Float64("temperature", temperature))
	return nil
}

// LoadStationsFromFile bulk-loads scrape-target stations from a local JSON
// file into the registry.
func (s *Scraper) LoadStationsFromFile(ctx context.Context, path string) error {
	contents, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading station file: %w", err)
	}

	var stations []models.ScrapeStation
	if err := json.Unmarshal(contents, &stations); err != nil {
		return fmt.Errorf("parsing station file: %w", err)
	}

	inserted, err := s.stations.BulkInsert(ctx, stations)
	if err != nil {
		s.logger.Warn("Bulk insert finished with errors",
			zap.Int("inserted", inserted),
			zap.Int("total", len(stations)),
			zap.Error(err))
		return err
	}

	s.logger.Info("Stations loaded from file",
		zap.String("path", path),
		zap.Int("inserted", inserted))
	return nil
}

// ChromeSource drives a headless Chrome instance. Each fetch gets its own
// browser context cancelled on return, so a mid-scrape failure cannot leak the
// session into the next station.
type ChromeSource struct {
	navTimeout time.Duration
	logger     *zap.Logger
}

func NewChromeSource(navTimeout time.Duration, logger *zap.Logger) *ChromeSource {
	return &ChromeSource{navTimeout: navTimeout, logger: logger}
}

func (c *ChromeSource) FetchTemperature(ctx context.Context, url string) (float64, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, c.navTimeout)
	defer cancelTimeout()

	c.logger.Debug("Navigating to station page", zap.String("url", url))

	var text string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible(temperatureSelector, chromedp.ByQuery),
		chromedp.Text(temperatureSelector, &text, chromedp.ByQuery),
	)
	if err != nil {
		return 0, fmt.Errorf("loading %s: %w", url, err)
	}

	match := temperaturePattern.FindString(strings.TrimSpace(text))
	if match == "" {
		return 0, fmt.Errorf("temperature element not readable: %q", text)
	}
	return strconv.ParseFloat(match, 64)
}
