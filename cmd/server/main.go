package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"stationsync/internal/api"
	"stationsync/internal/config"
	"stationsync/internal/scheduler"
	"stationsync/internal/services"
	"stationsync/internal/store"
	"stationsync/pkg/client"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	zap.ReplaceGlobals(logger)
	logger.Info("Starting Station Sync Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Connect to Mongo
	st, err := store.Connect(context.Background(), cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.ConnectTimeout)
	if err != nil {
		logger.Fatal("Failed to connect to store", zap.Error(err))
	}

	// Upstream vendor client
	upstream := client.NewUpstreamClient(
		cfg.Upstream.BaseURLStations,
		cfg.Upstream.BaseURLData,
		cfg.Upstream.APIKey,
		cfg.Upstream.APISecret,
		client.ClientConfig{
			Timeout:        cfg.Upstream.Timeout,
			Threshold:      cfg.CircuitBreaker.Threshold,
			BreakerTimeout: cfg.CircuitBreaker.Timeout,
		},
		logger,
	)

	// Services
	formatter, err := services.NewFormatter(cfg.Report.Timezone)
	if err != nil {
		logger.Fatal("Failed to load report timezone", zap.Error(err))
	}

	collector := services.NewCollector(upstream, st.Stations, st.Snapshots, logger)
	chrome := services.NewChromeSource(cfg.Scrape.NavTimeout, logger)
	scraper := services.NewScraper(chrome, cfg.Scrape.BaseURL, st.ScrapeStations, st.ScrapeReadings, logger)
	report := services.NewReport(st.Snapshots, st.ScrapeReadings, formatter, logger)

	// Scheduler for the periodic sync cycles
	syncScheduler, err := scheduler.NewScheduler(collector, scraper, logger)
	if err != nil {
		logger.Fatal("Failed to initialize scheduler", zap.Error(err))
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: errorHandler,
	})

	// Setup handlers and routes
	handler := api.NewHandler(api.Deps{
		Sync:           collector,
		Scraper:        scraper,
		Report:         report,
		Stations:       st.Stations,
		ScrapeStations: st.ScrapeStations,
		LatestScrape:   st.ScrapeReadings,
		Upstream:       upstream,
		Store:          st,
		StationFile:    cfg.Scrape.StationFile,
		DownloadsDir:   cfg.Report.DownloadsDir,
	}, logger)
	api.SetupRoutes(app, handler, logger)

	// Start scheduler
	syncScheduler.Start()

	// Start server in goroutine
	go func() {
		addr := ":" + cfg.Server.Port
		logger.Info("Starting server", zap.String("address", addr))

		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Stop scheduler
	syncScheduler.Stop()

	// Shutdown Fiber app
	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}

	if err := st.Disconnect(ctx); err != nil {
		logger.Error("Store disconnect failed", zap.Error(err))
	}

	logger.Info("Server stopped")
}

func errorHandler(c *fiber.Ctx, err error) error {
	zap.L().Error("HTTP error",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err))

	// Default to 500 status code
	code := fiber.StatusInternalServerError

	// Check if it's a Fiber error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   err.Error(),
		"success": false,
	})
}
