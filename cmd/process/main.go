package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/dvloznov/user-events-etl/internal/config"
	"github.com/dvloznov/user-events-etl/internal/gcs"
	infra "github.com/dvloznov/user-events-etl/internal/infra/bigquery"
	"github.com/dvloznov/user-events-etl/internal/logger"
	"github.com/dvloznov/user-events-etl/internal/pipeline"
)

func main() {
	// Initialize structured logger
	log := logger.New()

	gcsURI := flag.String("gcs-uri", "", "GCS URI of the uploaded CSV (e.g. gs://bucket/events.csv)")
	tail := flag.Int("tail", 0, "After loading, print the N most recently processed events")
	flag.Parse()

	if *gcsURI == "" {
		log.Fatal().Msg("Error: --gcs-uri is required")
	}

	ref, err := gcs.ParseURI(*gcsURI)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid GCS URI")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Configuration error")
	}

	// Create context with timeout so CLI doesn't hang
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	ctx = logger.WithContext(ctx, log)

	repo, err := infra.NewBigQueryEventRepository(ctx, cfg.ProjectID, cfg.DatasetID, cfg.TableID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create BigQuery repository")
	}
	defer repo.Close()

	p := pipeline.New(gcs.NewClient(), repo, pipeline.Policies{
		HighValueThreshold: cfg.HighValueThreshold,
		ValueFallback:      cfg.ValueFallback,
	}, cfg.MaxReportedErrors)

	log.Info().Str("gcs_uri", ref.URI()).Str("table", cfg.TableRef()).Msg("Starting processing")

	report, err := p.ProcessObject(ctx, ref)
	if err != nil {
		log.Fatal().Err(err).Msg("Processing failed")
	}

	fmt.Printf("Processed %s: %d read, %d loaded, %d rejected (%s)\n",
		ref.URI(), report.RowsRead, report.RowsLoaded, report.RowsRejected, report.Status)

	if *tail > 0 {
		events, err := repo.RecentEvents(ctx, *tail)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to query recent events")
		}
		for _, e := range events {
			fmt.Printf("%s | %s | %s | %g | %t | %s\n",
				e.UserID,
				e.EventTimestamp.Format(time.RFC3339),
				e.CountryCode,
				e.Value,
				e.IsHighValue,
				e.ProcessingDatetime.Format(time.RFC3339))
		}
	}
}
