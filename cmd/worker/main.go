package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dvloznov/user-events-etl/internal/config"
	"github.com/dvloznov/user-events-etl/internal/gcs"
	infra "github.com/dvloznov/user-events-etl/internal/infra/bigquery"
	"github.com/dvloznov/user-events-etl/internal/jobs"
	"github.com/dvloznov/user-events-etl/internal/jobs/inmemory"
	"github.com/dvloznov/user-events-etl/internal/logger"
	"github.com/dvloznov/user-events-etl/internal/pipeline"
)

func main() {
	// Initialize logger
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Configuration error")
	}

	// Initialize job store and queue
	// In production, the GCS finalize trigger replaces this queue
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, jobStore)

	log.Info().Str("table", cfg.TableRef()).Msg("Starting worker service")

	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
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

	// Create job handler that runs the pipeline for one uploaded file
	handler := func(ctx context.Context, job jobs.Job) error {
		fileJob, ok := job.(*jobs.ProcessFileJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		ref := gcs.ObjectRef{Bucket: fileJob.Bucket, Name: fileJob.Object}

		log.Info().
			Str("job_id", fileJob.JobID).
			Str("object", ref.URI()).
			Msg("Processing file job")

		report, err := p.ProcessObject(ctx, ref)
		if err != nil {
			log.Error().
				Err(err).
				Str("job_id", fileJob.JobID).
				Str("object", ref.URI()).
				Msg("Pipeline execution failed")
			return err
		}

		log.Info().
			Str("job_id", fileJob.JobID).
			Str("object", ref.URI()).
			Int("rows_loaded", report.RowsLoaded).
			Str("status", report.Status).
			Msg("Pipeline execution completed")

		return nil
	}

	// Start consuming jobs
	if err := jobQueue.Start(ctx, handler); err != nil {
		log.Fatal().Err(err).Msg("Failed to start job consumer")
	}

	// Queue one job per gs:// URI given on the command line
	flag.Parse()
	if flag.NArg() == 0 {
		log.Fatal().Msg("Usage: worker gs://bucket/object.csv [gs://bucket/other.csv ...]")
	}
	for _, uri := range flag.Args() {
		ref, err := gcs.ParseURI(uri)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid GCS URI")
		}
		job := &jobs.ProcessFileJob{Bucket: ref.Bucket, Object: ref.Name}
		if err := jobQueue.PublishProcessFile(ctx, job); err != nil {
			log.Fatal().Err(err).Str("object", ref.URI()).Msg("Failed to queue job")
		}
		log.Info().Str("job_id", job.JobID).Str("object", ref.URI()).Msg("Queued file job")
	}

	log.Info().Msg("Worker service started, processing queued jobs...")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down worker service...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Stop the queue and wait for in-flight jobs
	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during graceful shutdown")
	}

	if err := jobQueue.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close job queue")
	}

	log.Info().Msg("Worker service exited")
}
