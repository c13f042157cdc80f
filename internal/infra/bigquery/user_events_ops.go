package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
)

// InsertUserEventsWithClient appends a batch of UserEventRow to the target
// table in one streaming-insert call using the provided BigQuery client.
// Row-level insert failures come back as a bigquery.PutMultiError; the
// caller decides how to surface those.
func InsertUserEventsWithClient(ctx context.Context, client *bigquery.Client, projectID, datasetID, tableID string, rows []*UserEventRow) error {
	if len(rows) == 0 {
		return nil
	}

	// Use fully qualified table name to avoid project ID issues
	table := client.DatasetInProject(projectID, datasetID).Table(tableID)
	inserter := table.Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return fmt.Errorf("InsertUserEvents: inserting rows: %w", err)
	}

	return nil
}

// TableRowCountWithClient returns the total row count of the target table
// from its metadata. Streaming-buffer rows may lag in this figure; it is
// logged for observability, not used for correctness.
func TableRowCountWithClient(ctx context.Context, client *bigquery.Client, projectID, datasetID, tableID string) (uint64, error) {
	table := client.DatasetInProject(projectID, datasetID).Table(tableID)
	md, err := table.Metadata(ctx)
	if err != nil {
		return 0, fmt.Errorf("TableRowCount: fetching table metadata: %w", err)
	}
	return md.NumRows, nil
}
