package api

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"stationsync/internal/models"
	"stationsync/internal/services"
)

// queryDateLayout is the MM/DD/YYYY form of the startDate/endDate params.
const queryDateLayout = "01/02/2006"

type SyncService interface {
	SyncStations(ctx context.Context) error
}

type ScrapeService interface {
	SyncAll(ctx context.Context) error
	LoadStationsFromFile(ctx context.Context, path string) error
}

type ReportService interface {
	InfoBetweenDates(ctx context.Context, stationUUID string, start, end time.Time) ([]services.Row, string)
	ScrapeInfoBetweenDates(ctx context.Context, stationUUID string, start, end time.Time) ([]services.Row, string)
}

type StationLister interface {
	ListAll(ctx context.Context) ([]models.Station, error)
}

type ScrapeStationLister interface {
	ListAll(ctx context.Context) ([]models.ScrapeStation, error)
}

type LatestScrapeReader interface {
	Latest(ctx context.Context, stationUUID string) (*models.ScrapeReading, error)
}

type UpstreamProxy interface {
	RawStationData(ctx context.Context, stationUUID string) (json.RawMessage, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps collects everything the HTTP surface talks to.
type Deps struct {
	Sync           SyncService
	Scraper        ScrapeService
	Report         ReportService
	Stations       StationLister
	ScrapeStations ScrapeStationLister
	LatestScrape   LatestScrapeReader
	Upstream       UpstreamProxy
	Store          Pinger
	StationFile    string
	DownloadsDir   string
}

type Handler struct {
	deps   Deps
	logger *zap.Logger
}

func NewHandler(deps Deps, logger *zap.Logger) *Handler {
	return &Handler{
		deps:   deps,
		logger: logger,
	}
}

// SaveStations handles GET /stations/save. Sync failures are logged, not
// surfaced: the endpoint reports completion either way, matching the original
// contract.
func (h *Handler) SaveStations(c *fiber.Ctx) error {
	if err := h.deps.Sync.SyncStations(c.Context()); err != nil {
		h.logger.Error("Station sync failed", zap.Error(err))
	}
	return c.JSON(fiber.Map{"message": "station sync completed"})
}

// ScrapeData handles GET /stations/scrap/data.
func (h *Handler) ScrapeData(c *fiber.Ctx) error {
	if err := h.deps.Scraper.SyncAll(c.Context()); err != nil {
		h.logger.Error("Scrape cycle failed", zap.Error(err))
	}
	return c.JSON(fiber.Map{"message": "scrape cycle completed"})
}

// GetMapStations handles GET /stations/map.
func (h *Handler) GetMapStations(c *fiber.Ctx) error {
	stations, err := h.deps.Stations.ListAll(c.Context())
	if err != nil {
		h.logger.Error("Failed to list stations", zap.Error(err))
		return c.JSON([]models.Station{})
	}
	if stations == nil {
		stations = []models.Station{}
	}
	return c.JSON(stations)
}

// GetScrapeMapStations handles GET /stations/map/scrap.
func (h *Handler) GetScrapeMapStations(c *fiber.Ctx) error {
	stations, err := h.deps.ScrapeStations.ListAll(c.Context())
	if err != nil {
		h.logger.Error("Failed to list scrape stations", zap.Error(err))
		return c.JSON([]models.ScrapeStation{})
	}
	if stations == nil {
		stations = []models.ScrapeStation{}
	}
	return c.JSON(stations)
}

// GetStationData handles GET /stations/map/:id, proxying the vendor response
// for one station without touching the store.
func (h *Handler) GetStationData(c *fiber.Ctx) error {
	stationUUID := c.Params("id")

	raw, err := h.deps.Upstream.RawStationData(c.Context(), stationUUID)
	if err != nil {
		h.logger.Error("Upstream proxy fetch failed",
			zap.String("station_id_uuid", stationUUID),
			zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch station data",
		})
	}
	return c.Type("json").Send(raw)
}

// GetLatestScrape handles GET /stations/map/scrap/:id.
func (h *Handler) GetLatestScrape(c *fiber.Ctx) error {
	stationUUID := c.Params("id")

	reading, err := h.deps.LatestScrape.Latest(c.Context(), stationUUID)
	if err != nil {
		h.logger.Error("Failed to read latest scrape",
			zap.String("station_id_uuid", stationUUID),
			zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch latest reading",
		})
	}
	return c.JSON(reading)
}

// DownloadCSV handles GET /stations/download.
func (h *Handler) DownloadCSV(c *fiber.Ctx) error {
	return h.download(c, services.SnapshotColumns, h.deps.Report.InfoBetweenDates)
}

// DownloadScrapeCSV handles GET /stations/scrap/download.
func (h *Handler) DownloadScrapeCSV(c *fiber.Ctx) error {
	return h.download(c, services.ScrapeColumns, h.deps.Report.ScrapeInfoBetweenDates)
}

func (h *Handler) download(
	c *fiber.Ctx,
	columns []services.Column,
	query func(ctx context.Context, stationUUID string, start, end time.Time) ([]services.Row, string),
) error {
	startDate := c.Query("startDate")
	endDate := c.Query("endDate")
	stationID := c.Query("stationId")
	if startDate == "" || endDate == "" || stationID == "" {
		return c.Status(fiber.StatusBadRequest).SendString("Missing required query parameters")
	}

	start, err := time.Parse(queryDateLayout, startDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid startDate, expected MM/DD/YYYY")
	}
	end, err := time.Parse(queryDateLayout, endDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid endDate, expected MM/DD/YYYY")
	}

	rows, stationName := query(c.Context(), stationID, start, end)

	fileName := fmt.Sprintf("%s-%s-%s-data.csv",
		stationName, start.Format("2006-01-02"), end.Format("2006-01-02"))
	filePath := filepath.Join(h.deps.DownloadsDir, fileName)

	if err := h.writeStagingFile(filePath, columns, rows); err != nil {
		h.logger.Error("Failed to write CSV", zap.String("path", filePath), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).SendString("Could not download the file")
	}
	defer os.Remove(filePath)

	data, err := os.ReadFile(filePath)
	if err != nil {
		h.logger.Error("Failed to read CSV back", zap.String("path", filePath), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).SendString("Could not download the file")
	}

	h.logger.Info("CSV export served",
		zap.String("station", stationName),
		zap.Int("rows", len(rows)),
		zap.String("file", fileName))

	c.Attachment(fileName)
	return c.Type("csv").Send(data)
}

// writeStagingFile stages the CSV under the downloads directory; the caller
// removes it once the response body is built.
func (h *Handler) writeStagingFile(path string, columns []services.Column, rows []services.Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := services.WriteCSV(file, columns, rows); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// LoadStations handles POST /stations/load.
func (h *Handler) LoadStations(c *fiber.Ctx) error {
	if err := h.deps.Scraper.LoadStationsFromFile(c.Context(), h.deps.StationFile); err != nil {
		h.logger.Error("Failed to load stations from file", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load stations",
		})
	}
	return c.JSON(fiber.Map{"message": "Stations loaded successfully"})
}

// GetHealth handles GET /health.
func (h *Handler) GetHealth(c *fiber.Ctx) error {
	status := "healthy"
	if err := h.deps.Store.Ping(c.Context()); err != nil {
		h.logger.Warn("Mongo ping failed", zap.Error(err))
		status = "degraded"
	}
	return c.JSON(fiber.Map{
		"status":    status,
		"timestamp": time.Now(),
		"uptime":    time.Since(startTime).String(),
	})
}

var startTime = time.Now()
