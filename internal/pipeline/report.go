package pipeline

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Stage names used in per-record error details.
type Stage string

const (
	StageIngest    Stage = "ingest"
	StageParse     Stage = "parse"
	StageNormalize Stage = "normalize"
	StageSchema    Stage = "schema"
	StageLoad      Stage = "load"
)

// Terminal invocation statuses.
const (
	StatusSuccess               = "success"
	StatusSuccessWithRejections = "success-with-rejections"
	StatusSkipped               = "skipped"
	StatusFailed                = "failed"
)

// StageError is one recorded error detail. Row is the zero-based input
// row index, or -1 for batch-level failures.
type StageError struct {
	Stage  Stage  `json:"stage"`
	Row    int    `json:"row"`
	Detail string `json:"detail"`
}

// Report is the structured per-invocation summary. It observes outcomes
// at each stage and feeds nothing back into the pipeline.
type Report struct {
	InvocationID string `json:"invocation_id"`
	Object       string `json:"object"`

	RowsRead       int `json:"rows_read"`
	RowsNormalized int `json:"rows_normalized"`
	RowsRejected   int `json:"rows_rejected"`
	RowsLoaded     int `json:"rows_loaded"`

	Status string       `json:"status"`
	Errors []StageError `json:"errors,omitempty"`

	maxErrors int
}

// NewReport creates a report for one invocation. maxErrors caps how many
// error details are retained; counters keep counting past the cap.
func NewReport(object string, maxErrors int) *Report {
	if maxErrors <= 0 {
		maxErrors = DefaultMaxReportedErrors
	}
	return &Report{
		InvocationID: uuid.NewString(),
		Object:       object,
		maxErrors:    maxErrors,
	}
}

// RecordError retains one error detail, up to the configured cap.
func (r *Report) RecordError(stage Stage, row int, err error) {
	if len(r.Errors) >= r.maxErrors {
		return
	}
	r.Errors = append(r.Errors, StageError{Stage: stage, Row: row, Detail: err.Error()})
}

// Fail marks the invocation as failed.
func (r *Report) Fail() {
	r.Status = StatusFailed
}

// Skip marks the invocation as skipped (non-CSV object).
func (r *Report) Skip() {
	r.Status = StatusSkipped
}

// Finalize derives the terminal status from the counters. Rejected rows
// alone do not fail the invocation as long as at least one row loaded;
// an invocation that read rows but loaded none is a failure.
func (r *Report) Finalize() {
	if r.Status != "" {
		return
	}
	switch {
	case r.RowsRejected > 0 && r.RowsLoaded > 0:
		r.Status = StatusSuccessWithRejections
	case r.RowsRead > 0 && r.RowsLoaded == 0:
		r.Status = StatusFailed
	default:
		r.Status = StatusSuccess
	}
}

// Log emits the report as a single structured event.
func (r *Report) Log(log zerolog.Logger) {
	evt := log.Info()
	if r.Status == StatusFailed {
		evt = log.Error()
	}
	evt.
		Str("invocation_id", r.InvocationID).
		Str("object", r.Object).
		Int("rows_read", r.RowsRead).
		Int("rows_normalized", r.RowsNormalized).
		Int("rows_rejected", r.RowsRejected).
		Int("rows_loaded", r.RowsLoaded).
		Str("status", r.Status).
		Interface("errors", r.Errors).
		Msg("Invocation report")
}
