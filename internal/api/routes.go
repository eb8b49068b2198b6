package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

func SetupRoutes(app *fiber.App, handler *Handler, log *zap.Logger) {
	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())

	// Custom logger middleware
	app.Use(logger.New(logger.Config{
		Format:     "${time} ${pid} ${locals:requestid} ${status} - ${method} ${path}\n",
		TimeFormat: time.RFC3339,
	}))

	// Health check
	app.Get("/health", handler.GetHealth)

	stations := app.Group("/stations")

	// Sync triggers
	stations.Get("/save", handler.SaveStations)
	stations.Get("/scrap/data", handler.ScrapeData)

	// Station listings. The literal /map/scrap routes must be registered
	// before /map/:id so they are not captured as an id.
	stations.Get("/map/scrap/:id", handler.GetLatestScrape)
	stations.Get("/map/scrap", handler.GetScrapeMapStations)
	stations.Get("/map/:id", handler.GetStationData)
	stations.Get("/map", handler.GetMapStations)

	// CSV exports
	stations.Get("/download", handler.DownloadCSV)
	stations.Get("/scrap/download", handler.DownloadScrapeCSV)

	// One-off registry load
	stations.Post("/load", handler.LoadStations)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
			"path":  c.Path(),
		})
	})
}
