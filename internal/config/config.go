package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config captures runtime configuration sourced from environment variables.
type Config struct {
	Environment  string
	HTTPPort     string
	DatabasePath string
	FrontendDir  string
	JWTSecret    string
	// InventoryScanSchedule is a cron expression for the low-stock/expiry scan.
	InventoryScanSchedule string
}

// Load reads env vars and falls back to defaults so the server can boot with zero configuration.
func Load() (Config, error) {
	cfg := Config{
		Environment:           getEnv("LJ_ENV", "development"),
		HTTPPort:              getEnv("LJ_HTTP_PORT", "8080"),
		DatabasePath:          getEnv("LJ_DB_PATH", filepath.Join("data", "labjournal.db")),
		FrontendDir:           getEnv("LJ_FRONTEND_DIR", filepath.Clean(filepath.Join("..", "frontend", "dist"))),
		JWTSecret:             getEnv("LJ_JWT_SECRET", ""),
		InventoryScanSchedule: getEnv("LJ_INVENTORY_SCAN_SCHEDULE", "@hourly"),
	}

	if cfg.JWTSecret == "" {
		if cfg.Environment == "production" {
			return Config{}, fmt.Errorf("LJ_JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = "dev-insecure-secret"
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure data directory: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}
