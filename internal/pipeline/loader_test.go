package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"cloud.google.com/go/bigquery"

	infra "github.com/dvloznov/user-events-etl/internal/infra/bigquery"
)

// stubWriter fails or succeeds per the configured error.
type stubWriter struct {
	insertErr error
	inserted  [][]*infra.UserEventRow
}

func (w *stubWriter) InsertUserEvents(ctx context.Context, rows []*infra.UserEventRow) error {
	if w.insertErr != nil {
		return w.insertErr
	}
	w.inserted = append(w.inserted, rows)
	return nil
}

func (w *stubWriter) TableRowCount(ctx context.Context) (uint64, error) {
	var n uint64
	for _, batch := range w.inserted {
		n += uint64(len(batch))
	}
	return n, nil
}

func sampleRows(n int) []*infra.UserEventRow {
	rows := make([]*infra.UserEventRow, n)
	for i := range rows {
		rows[i] = &infra.UserEventRow{
			UserID:             fmt.Sprintf("user%d", i),
			EventTimestamp:     time.Now().UTC(),
			CountryCode:        "MY",
			Value:              1,
			ProcessingDatetime: time.Now().UTC(),
		}
	}
	return rows
}

func TestLoad_SingleBatch(t *testing.T) {
	w := &stubWriter{}
	loader := NewLoader(w)

	if err := loader.Load(context.Background(), sampleRows(3)); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(w.inserted) != 1 {
		t.Fatalf("got %d insert calls, want 1 batch", len(w.inserted))
	}
	if len(w.inserted[0]) != 3 {
		t.Errorf("batch size = %d, want 3", len(w.inserted[0]))
	}
}

func TestLoad_EmptyBatchIsNoop(t *testing.T) {
	w := &stubWriter{}
	loader := NewLoader(w)

	if err := loader.Load(context.Background(), nil); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(w.inserted) != 0 {
		t.Errorf("got %d insert calls, want none", len(w.inserted))
	}
}

func TestLoad_RowLevelFailureListsAffectedRows(t *testing.T) {
	multi := bigquery.PutMultiError{
		{RowIndex: 1},
		{RowIndex: 4},
	}
	w := &stubWriter{insertErr: multi}
	loader := NewLoader(w)

	err := loader.Load(context.Background(), sampleRows(5))
	if err == nil {
		t.Fatal("expected load error")
	}

	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("error is %T, want *LoadError", err)
	}
	if len(loadErr.Rows) != 2 || loadErr.Rows[0] != 1 || loadErr.Rows[1] != 4 {
		t.Errorf("affected rows = %v, want [1 4]", loadErr.Rows)
	}
}

func TestLoad_BatchFailureWrapped(t *testing.T) {
	cause := errors.New("deadline exceeded")
	w := &stubWriter{insertErr: cause}
	loader := NewLoader(w)

	err := loader.Load(context.Background(), sampleRows(2))

	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("error is %T, want *LoadError", err)
	}
	if len(loadErr.Rows) != 0 {
		t.Errorf("expected no row indices for batch-level failure, got %v", loadErr.Rows)
	}
	if !errors.Is(err, cause) {
		t.Error("expected wrapped cause to be preserved")
	}
}
