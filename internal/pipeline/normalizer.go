package pipeline

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Policies carries the per-field default policies applied during
// normalization and enrichment. The original system hard-coded these; they
// are explicit configuration here so the default-to-zero and
// default-to-now choices stay visible and overridable.
type Policies struct {
	// HighValueThreshold is the inclusive cutoff for IsHighValue.
	HighValueThreshold float64

	// ValueFallback replaces malformed or missing value fields.
	ValueFallback float64
}

// DefaultPolicies returns the documented policy defaults.
func DefaultPolicies() Policies {
	return Policies{
		HighValueThreshold: DefaultHighValueThreshold,
		ValueFallback:      DefaultValueFallback,
	}
}

// Normalize converts one RawRecord into a TypedRecord. Rows are never
// dropped or merged here; the only rejection is an empty or missing
// user_id, because identity fields are required while measurement fields
// are best-effort. now is the invocation's processing instant, used as
// the fallback for absent or unparsable timestamps.
func (p Policies) Normalize(raw RawRecord, now time.Time) (TypedRecord, error) {
	userID := strings.TrimSpace(raw[ColumnUserID])
	if userID == "" {
		return TypedRecord{}, fmt.Errorf("missing required field %q", ColumnUserID)
	}

	return TypedRecord{
		UserID:         userID,
		EventTimestamp: p.normalizeTimestamp(raw[ColumnEventTimestamp], now),
		CountryRaw:     strings.TrimSpace(raw[ColumnCountry]),
		Value:          p.normalizeValue(raw[ColumnValue]),
	}, nil
}

// normalizeTimestamp parses an ISO-8601 instant and converts it to UTC.
// Absent or unparsable values default to the processing instant, which
// makes the default indistinguishable from processing_datetime for that
// row. That fidelity gap is accepted.
func (p Policies) normalizeTimestamp(s string, now time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return now.UTC()
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return now.UTC()
	}
	return t.UTC()
}

// normalizeValue parses a number, substituting the fallback for anything
// malformed, missing, or non-finite. The result is always a finite float.
func (p Policies) normalizeValue(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return p.ValueFallback
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return p.ValueFallback
	}
	return v
}
