package pipeline

import (
	"context"
	"errors"

	"cloud.google.com/go/bigquery"

	infra "github.com/dvloznov/user-events-etl/internal/infra/bigquery"
)

// Loader appends one invocation's conforming records to the target table
// as a single batch. There is no row-level retry here; if the trigger
// mechanism redelivers the file, the whole invocation reruns.
type Loader struct {
	repo EventWriter
}

// NewLoader creates a loader writing through the given warehouse surface.
func NewLoader(repo EventWriter) *Loader {
	return &Loader{repo: repo}
}

// Load performs the batch append. A partial-write outcome from the
// warehouse surfaces as a single *LoadError listing affected row indices
// in batch order; it is never silently dropped.
func (l *Loader) Load(ctx context.Context, rows []*infra.UserEventRow) error {
	if len(rows) == 0 {
		return nil
	}

	err := l.repo.InsertUserEvents(ctx, rows)
	if err == nil {
		return nil
	}

	var multi bigquery.PutMultiError
	if errors.As(err, &multi) {
		affected := make([]int, 0, len(multi))
		for _, rowErr := range multi {
			affected = append(affected, rowErr.RowIndex)
		}
		return &LoadError{Rows: affected, Err: err}
	}

	return &LoadError{Err: err}
}
