package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
)

// QueryRecentEventsWithClient returns the most recently processed events,
// newest first. Used by the process CLI's --tail flag to inspect what a
// load actually wrote.
func QueryRecentEventsWithClient(ctx context.Context, client *bigquery.Client, projectID, datasetID, tableID string, limit int) ([]*UserEventRow, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT user_id, event_timestamp, country_code, value, is_high_value, processing_datetime
		FROM `+"`%s.%s.%s`"+`
		ORDER BY processing_datetime DESC, event_timestamp DESC
		LIMIT @limit
	`, projectID, datasetID, tableID))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "limit", Value: limit},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("QueryRecentEvents: reading query results: %w", err)
	}

	var events []*UserEventRow
	for {
		var row UserEventRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("QueryRecentEvents: iterating results: %w", err)
		}
		events = append(events, &row)
	}

	return events, nil
}
