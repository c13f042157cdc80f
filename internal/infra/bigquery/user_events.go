package bigquery

import (
	"time"

	"cloud.google.com/go/bigquery"
)

// UserEventRow is one transformed user event in the shape of the target
// table. Field order matches the target column order exactly:
// user_id, event_timestamp, country_code, value, is_high_value,
// processing_datetime.
type UserEventRow struct {
	UserID             string    `bigquery:"user_id"`             // REQUIRED STRING
	EventTimestamp     time.Time `bigquery:"event_timestamp"`     // REQUIRED TIMESTAMP (UTC)
	CountryCode        string    `bigquery:"country_code"`        // REQUIRED STRING, 2-letter code or "OT"
	Value              float64   `bigquery:"value"`               // REQUIRED FLOAT
	IsHighValue        bool      `bigquery:"is_high_value"`       // REQUIRED BOOLEAN
	ProcessingDatetime time.Time `bigquery:"processing_datetime"` // REQUIRED TIMESTAMP (UTC)
}

// UserEventsSchema returns the target table's column schema in column order.
// The schema enforcer validates records against this before load; cmd/migrate
// owns the DDL that must stay in sync with it.
func UserEventsSchema() bigquery.Schema {
	return bigquery.Schema{
		{Name: "user_id", Type: bigquery.StringFieldType, Required: true},
		{Name: "event_timestamp", Type: bigquery.TimestampFieldType, Required: true},
		{Name: "country_code", Type: bigquery.StringFieldType, Required: true},
		{Name: "value", Type: bigquery.FloatFieldType, Required: true},
		{Name: "is_high_value", Type: bigquery.BooleanFieldType, Required: true},
		{Name: "processing_datetime", Type: bigquery.TimestampFieldType, Required: true},
	}
}
