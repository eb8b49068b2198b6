package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Server struct {
		Port         string
		ReadTimeout  time.Duration
		WriteTimeout time.Duration
		LogLevel     string
	}

	Mongo struct {
		URI            string
		Database       string
		ConnectTimeout time.Duration
	}

	Upstream struct {
		BaseURLStations string
		BaseURLData     string
		APIKey          string
		APISecret       string
		Timeout         time.Duration
	}

	Scrape struct {
		BaseURL     string
		NavTimeout  time.Duration
		StationFile string
	}

	Report struct {
		Timezone     string
		DownloadsDir string
	}

	CircuitBreaker struct {
		Threshold int
		Timeout   time.Duration
	}
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		zap.L().Info("No .env file found, using environment variables")
	}

	cfg := &Config{}

	// Server configuration
	cfg.Server.Port = getEnv("FIBER_PORT", "8080")
	cfg.Server.ReadTimeout = parseDuration(getEnv("FIBER_READ_TIMEOUT", "10s"))
	cfg.Server.WriteTimeout = parseDuration(getEnv("FIBER_WRITE_TIMEOUT", "30s"))
	cfg.Server.LogLevel = getEnv("LOG_LEVEL", "info")

	// Mongo configuration
	cfg.Mongo.URI = getEnv("MONGO_URI", "mongodb://localhost:27017")
	cfg.Mongo.Database = getEnv("MONGO_DB_NAME", "stations")
	cfg.Mongo.ConnectTimeout = parseDuration(getEnv("MONGO_CONNECT_TIMEOUT", "10s"))

	// Upstream vendor API configuration
	cfg.Upstream.BaseURLStations = getEnv("BASE_URL_STATIONS", "")
	cfg.Upstream.BaseURLData = getEnv("BASE_URL_DATA", "")
	cfg.Upstream.APIKey = getEnv("API_KEY", "")
	cfg.Upstream.APISecret = getEnv("API_SECRET", "")
	cfg.Upstream.Timeout = parseDuration(getEnv("UPSTREAM_TIMEOUT", "15s"))

	// Scrape configuration
	cfg.Scrape.BaseURL = getEnv("SCRP_URL", "")
	cfg.Scrape.NavTimeout = parseDuration(getEnv("SCRP_NAV_TIMEOUT", "45s"))
	cfg.Scrape.StationFile = getEnv("SCRP_STATION_FILE", "data/stations.json")

	// Report configuration
	cfg.Report.Timezone = getEnv("REPORT_TZ", "America/Mexico_City")
	cfg.Report.DownloadsDir = getEnv("DOWNLOADS_DIR", "downloads")

	// Circuit breaker configuration
	cfg.CircuitBreaker.Threshold = parseInt(getEnv("CIRCUIT_BREAKER_THRESHOLD", "3"))
	cfg.CircuitBreaker.Timeout = parseDuration(getEnv("CIRCUIT_BREAKER_TIMEOUT", "30s"))

	if cfg.Mongo.URI == "" {
		return nil, fmt.Errorf("MONGO_URI is required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(value string) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		zap.L().Warn("Failed to parse duration", zap.String("value", value), zap.Error(err))
		return 0
	}
	return duration
}

func parseInt(value string) int {
	intValue, err := strconv.Atoi(value)
	if err != nil {
		zap.L().Warn("Failed to parse int", zap.String("value", value), zap.Error(err))
		return 0
	}
	return intValue
}
