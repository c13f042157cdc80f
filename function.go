// Package function is the Cloud Functions (Gen2) entry point. A GCS
// object-finalized CloudEvent carries the bucket and object name of one
// uploaded file; each event runs the pipeline once.
package function

import (
	"context"
	"fmt"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	cloudevents "github.com/cloudevents/sdk-go/v2/event"

	"github.com/dvloznov/user-events-etl/internal/config"
	"github.com/dvloznov/user-events-etl/internal/gcs"
	infra "github.com/dvloznov/user-events-etl/internal/infra/bigquery"
	"github.com/dvloznov/user-events-etl/internal/logger"
	"github.com/dvloznov/user-events-etl/internal/pipeline"
)

func init() {
	functions.CloudEvent("ProcessUserEvents", processUserEvents)
}

// StorageObjectData is the slice of the GCS finalize payload we need.
type StorageObjectData struct {
	Bucket string `json:"bucket"`
	Name   string `json:"name"`
}

var (
	setupOnce sync.Once
	setupErr  error
	pipe      *pipeline.Pipeline
)

// setup builds the configuration, warehouse client, and pipeline once per
// process. Invocations reuse them; nothing is re-read per event.
func setup(ctx context.Context) error {
	setupOnce.Do(func() {
		cfg, err := config.Load()
		if err != nil {
			setupErr = err
			return
		}

		repo, err := infra.NewBigQueryEventRepository(context.WithoutCancel(ctx), cfg.ProjectID, cfg.DatasetID, cfg.TableID)
		if err != nil {
			setupErr = err
			return
		}

		pipe = pipeline.New(gcs.NewClient(), repo, pipeline.Policies{
			HighValueThreshold: cfg.HighValueThreshold,
			ValueFallback:      cfg.ValueFallback,
		}, cfg.MaxReportedErrors)
	})
	return setupErr
}

// processUserEvents handles one CloudEvent. Returning an error marks the
// invocation as failed so the trigger can redeliver the whole file.
func processUserEvents(ctx context.Context, e cloudevents.Event) error {
	log := logger.NewJSON()
	ctx = logger.WithContext(ctx, log)

	var data StorageObjectData
	if err := e.DataAs(&data); err != nil {
		return fmt.Errorf("processUserEvents: decoding event payload: %w", err)
	}
	if data.Bucket == "" || data.Name == "" {
		return fmt.Errorf("processUserEvents: event %s carries empty bucket %q or object %q", e.ID(), data.Bucket, data.Name)
	}

	if err := setup(ctx); err != nil {
		return fmt.Errorf("processUserEvents: setup: %w", err)
	}

	ref := gcs.ObjectRef{Bucket: data.Bucket, Name: data.Name}

	log.Info().
		Str("event_id", e.ID()).
		Str("event_type", e.Type()).
		Str("object", ref.URI()).
		Msg("Function triggered")

	if _, err := pipe.ProcessObject(ctx, ref); err != nil {
		return fmt.Errorf("processUserEvents: %w", err)
	}
	return nil
}
