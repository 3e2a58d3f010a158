package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const AppVersion = "0.3.1"

type AppConfig struct {
	APIBaseURL       string
	MetadataBaseURL  string
	SessionToken     string
	ListenAddr       string
	DBPath           string
	SessionSecret    string
	PrefetchInterval time.Duration
}

// Load reads configuration from the environment, with .env as a convenience
// for local runs. The API URL and session token have no sane defaults and
// fail startup when missing.
func Load() (*AppConfig, error) {
	godotenv.Load()

	apiURL := os.Getenv("REELSYNC_API_URL")
	token := os.Getenv("REELSYNC_SESSION_TOKEN")
	if apiURL == "" || token == "" {
		return nil, fmt.Errorf("Failed to load the environment configuration: REELSYNC_API_URL and REELSYNC_SESSION_TOKEN are required.")
	}

	cfg := &AppConfig{
		APIBaseURL:       apiURL,
		MetadataBaseURL:  getenvDefault("REELSYNC_METADATA_URL", apiURL+"/metadata"),
		SessionToken:     token,
		ListenAddr:       getenvDefault("REELSYNC_LISTEN_ADDR", ":8080"),
		DBPath:           getenvDefault("REELSYNC_DB_PATH", "reelsync.db"),
		SessionSecret:    getenvDefault("REELSYNC_SESSION_SECRET", "reelsync-dev-secret"),
		PrefetchInterval: 15 * time.Minute,
	}

	if raw := os.Getenv("REELSYNC_PREFETCH_INTERVAL"); raw != "" {
		interval, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid REELSYNC_PREFETCH_INTERVAL: %w", err)
		}
		cfg.PrefetchInterval = interval
	}

	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
