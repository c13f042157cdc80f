package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
)

// EventRepository is the warehouse surface the pipeline loads through.
// This abstraction allows tests to substitute a fake warehouse.
type EventRepository interface {
	// InsertUserEvents appends a batch of rows to the target table.
	InsertUserEvents(ctx context.Context, rows []*UserEventRow) error

	// TableRowCount returns the target table's total row count.
	TableRowCount(ctx context.Context) (uint64, error)

	// RecentEvents returns the most recently processed events, newest first.
	RecentEvents(ctx context.Context, limit int) ([]*UserEventRow, error)
}

// BigQueryEventRepository is the concrete implementation of EventRepository.
// It holds a shared BigQuery client to avoid creating a new connection for
// each operation.
type BigQueryEventRepository struct {
	client    *bigquery.Client
	projectID string
	datasetID string
	tableID   string
}

// NewBigQueryEventRepository creates a repository bound to one target table.
func NewBigQueryEventRepository(ctx context.Context, projectID, datasetID, tableID string) (*BigQueryEventRepository, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewBigQueryEventRepository: creating client: %w", err)
	}
	return &BigQueryEventRepository{
		client:    client,
		projectID: projectID,
		datasetID: datasetID,
		tableID:   tableID,
	}, nil
}

// Close closes the BigQuery client connection.
func (r *BigQueryEventRepository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// InsertUserEvents delegates to InsertUserEventsWithClient with the shared client.
func (r *BigQueryEventRepository) InsertUserEvents(ctx context.Context, rows []*UserEventRow) error {
	return InsertUserEventsWithClient(ctx, r.client, r.projectID, r.datasetID, r.tableID, rows)
}

// TableRowCount delegates to TableRowCountWithClient with the shared client.
func (r *BigQueryEventRepository) TableRowCount(ctx context.Context) (uint64, error) {
	return TableRowCountWithClient(ctx, r.client, r.projectID, r.datasetID, r.tableID)
}

// RecentEvents delegates to QueryRecentEventsWithClient with the shared client.
func (r *BigQueryEventRepository) RecentEvents(ctx context.Context, limit int) ([]*UserEventRow, error) {
	return QueryRecentEventsWithClient(ctx, r.client, r.projectID, r.datasetID, r.tableID, limit)
}

var _ EventRepository = (*BigQueryEventRepository)(nil)
