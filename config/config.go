package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr         string
	GeminiAPIKey string
	Database     DatabaseConfig
	Catalog      CatalogConfig
	LinkCheck    LinkCheckConfig
	LogPath      string
	LogMaxSize   int64
}

type DatabaseConfig struct {
	// URL selects Postgres when set; otherwise SQLite at Path is used.
	URL  string
	Path string
}

type CatalogConfig struct {
	SeedPath string
}

type LinkCheckConfig struct {
	Cron       string
	Interval   time.Duration
	StaleAfter time.Duration
	BatchSize  int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:         getEnv("ADDR", ":5000"),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", os.Getenv("API_KEY")),
		Database: DatabaseConfig{
			URL:  os.Getenv("DATABASE_URL"),
			Path: getEnv("DB_PATH", "favorites.db"),
		},
		Catalog: CatalogConfig{
			SeedPath: getEnv("SEED_PATH", "config/cars.yaml"),
		},
		LinkCheck: LinkCheckConfig{
			Cron:       os.Getenv("LINKCHECK_CRON"),
			StaleAfter: getEnvDuration("LINKCHECK_STALE_AFTER", 24*time.Hour),
			BatchSize:  getEnvInt("LINKCHECK_BATCH", 20),
		},
		LogPath:    getEnv("LOG_PATH", "oneshift.log"),
		LogMaxSize: getEnvInt64("LOG_MAX_SIZE", 2*1024*1024),
	}

	if interval := os.Getenv("LINKCHECK_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err == nil {
			cfg.LinkCheck.Interval = d
		}
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvInt64(key string, defaultVal int64) int64 {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
