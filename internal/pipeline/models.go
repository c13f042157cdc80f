package pipeline

import (
	"time"
)

// RawRecord is one input row as parsed from the CSV, header name → raw
// string value. Produced by the reader and discarded once normalized.
type RawRecord map[string]string

// TypedRecord is one cleaned, type-coerced row. Rows map 1:1 from
// RawRecord; measurement fields degrade to defaults instead of rejecting
// the row, identity fields do not.
type TypedRecord struct {
	UserID         string    // required, passed through unchanged
	EventTimestamp time.Time // UTC; absent/unparsable raw values default to the processing instant
	CountryRaw     string    // trimmed free-text country name, case preserved
	Value          float64   // always finite; malformed raw values default to the configured fallback
}

// EnrichedRecord extends TypedRecord with the derived fields.
type EnrichedRecord struct {
	TypedRecord

	CountryCode        string    // 2-letter uppercase code, or "OT" for unmapped countries
	IsHighValue        bool      // Value >= threshold, inclusive
	ProcessingDatetime time.Time // UTC instant captured once per invocation
}
