// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds every externally supplied setting.
type Config struct {
	// ProjectID is the GCP project holding the BigQuery dataset.
	ProjectID string

	// Dataset is the BigQuery dataset with the transactions and debts tables.
	Dataset string

	// ReportsBucket is the GCS bucket for archived reports. Optional; report
	// archiving is disabled when empty.
	ReportsBucket string

	// Port is the HTTP listen port.
	Port string

	// GeminiModel overrides the default model name. Optional.
	GeminiModel string
}

// Load reads the .env file if present, then the environment. Missing
// required settings are an error; the .env file itself is optional.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ProjectID:     os.Getenv("FINCYCLE_PROJECT_ID"),
		Dataset:       os.Getenv("FINCYCLE_DATASET"),
		ReportsBucket: os.Getenv("FINCYCLE_REPORTS_BUCKET"),
		Port:          os.Getenv("FINCYCLE_PORT"),
		GeminiModel:   os.Getenv("FINCYCLE_GEMINI_MODEL"),
	}

	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("FINCYCLE_PROJECT_ID is required")
	}
	if cfg.Dataset == "" {
		cfg.Dataset = "fincycle"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	return cfg, nil
}
