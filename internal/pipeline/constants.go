package pipeline

// Input column names expected in the CSV header row.
const (
	ColumnUserID         = "user_id"
	ColumnEventTimestamp = "event_timestamp"
	ColumnCountry        = "country"
	ColumnValue          = "value"
)

// Policy defaults. Runtime values come from configuration; these are the
// documented fallbacks.
const (
	// DefaultHighValueThreshold is the inclusive cutoff for is_high_value.
	DefaultHighValueThreshold = 100.0

	// DefaultValueFallback replaces malformed or missing value fields.
	DefaultValueFallback = 0.0

	// DefaultMaxReportedErrors caps per-stage error details in the report.
	DefaultMaxReportedErrors = 10

	// UnknownCountryCode is the sentinel for unmapped country names.
	UnknownCountryCode = "OT"
)
