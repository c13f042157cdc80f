package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds all process-level configuration for the pipeline.
// It is parsed once at startup and passed explicitly into the pipeline
// entry point; nothing re-reads the environment per invocation.
type Config struct {
	// ProjectID is the GCP project owning the target table
	ProjectID string `env:"BIGQUERY_PROJECT_ID,required,notEmpty"`

	// DatasetID is the BigQuery dataset of the target table
	DatasetID string `env:"BIGQUERY_DATASET_ID" envDefault:"mp2_pipeline_output"`

	// TableID is the target table for transformed user events
	TableID string `env:"BIGQUERY_TABLE_ID" envDefault:"transformed_user_events"`

	// HighValueThreshold is the inclusive cutoff for flagging a record
	// as high value
	HighValueThreshold float64 `env:"HIGH_VALUE_THRESHOLD" envDefault:"100"`

	// ValueFallback is substituted for malformed or missing value fields
	ValueFallback float64 `env:"VALUE_FALLBACK" envDefault:"0"`

	// MaxReportedErrors caps how many per-stage error details the
	// invocation report carries
	MaxReportedErrors int `env:"MAX_REPORTED_ERRORS" envDefault:"10"`
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config.Load: parsing environment: %w", err)
	}
	return cfg, nil
}

// TableRef returns the fully qualified three-part table identifier.
func (c Config) TableRef() string {
	return fmt.Sprintf("%s.%s.%s", c.ProjectID, c.DatasetID, c.TableID)
}
