package pipeline

import (
	"fmt"
	"strings"
)

// IngestError means the referenced object could not be retrieved from
// storage. Fatal for the invocation; the trigger may redeliver.
type IngestError struct {
	URI string
	Err error
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("ingest: retrieving %s: %v", e.URI, e.Err)
}

func (e *IngestError) Unwrap() error { return e.Err }

// ParseError means the object content is not well-formed delimited text
// with a recognized header row. Fatal for the invocation.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("parse: %s", e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SchemaMismatchError means a required target column is absent from the
// enriched field set or carries an incompatible type. This indicates
// configuration drift, not data drift, so it is fatal.
type SchemaMismatchError struct {
	Column string
	Reason string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema mismatch on column %q: %s", e.Column, e.Reason)
}

// LoadError wraps a failed batch append. Rows lists the indices of rows
// the warehouse reported as affected, in batch order; empty when the
// failure was not row-level.
type LoadError struct {
	Rows []int
	Err  error
}

func (e *LoadError) Error() string {
	if len(e.Rows) == 0 {
		return fmt.Sprintf("load: batch append failed: %v", e.Err)
	}

	idx := make([]string, len(e.Rows))
	for i, r := range e.Rows {
		idx[i] = fmt.Sprintf("%d", r)
	}
	return fmt.Sprintf("load: batch append failed for rows [%s]: %v", strings.Join(idx, " "), e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
