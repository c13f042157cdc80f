package pipeline

import (
	"context"

	"github.com/dvloznov/user-events-etl/internal/gcs"
	infra "github.com/dvloznov/user-events-etl/internal/infra/bigquery"
)

// ObjectFetcher is the minimal storage surface the pipeline needs.
// This interface enables mocking and testing without a GCS client.
type ObjectFetcher interface {
	// FetchObject downloads the object bytes for the given reference.
	FetchObject(ctx context.Context, ref gcs.ObjectRef) ([]byte, error)
}

// EventWriter is the minimal warehouse surface the pipeline needs.
// infra.BigQueryEventRepository implements it; tests substitute a fake.
type EventWriter interface {
	// InsertUserEvents appends a batch of rows to the target table.
	InsertUserEvents(ctx context.Context, rows []*infra.UserEventRow) error

	// TableRowCount returns the target table's total row count.
	TableRowCount(ctx context.Context) (uint64, error)
}
