package pipeline

import (
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"

	infra "github.com/dvloznov/user-events-etl/internal/infra/bigquery"
)

// Enforcer validates enriched records against the target table's column
// schema before load. The pipeline always populates a fixed field set, so
// a failure here means the target schema drifted away from this binary,
// not that the data is bad.
type Enforcer struct {
	schema bigquery.Schema
}

// NewEnforcer creates an enforcer for the given ordered column schema.
func NewEnforcer(schema bigquery.Schema) *Enforcer {
	return &Enforcer{schema: schema}
}

// Conform checks that every required target column is present in the
// record's field set and type-compatible, then emits the warehouse row
// with fields in target column order. No coercion happens here; all type
// conversion already happened upstream.
func (e *Enforcer) Conform(rec EnrichedRecord) (*infra.UserEventRow, error) {
	fields := map[string]interface{}{
		"user_id":             rec.UserID,
		"event_timestamp":     rec.EventTimestamp,
		"country_code":        rec.CountryCode,
		"value":               rec.Value,
		"is_high_value":       rec.IsHighValue,
		"processing_datetime": rec.ProcessingDatetime,
	}

	for _, col := range e.schema {
		v, ok := fields[col.Name]
		if !ok {
			if col.Required {
				return nil, &SchemaMismatchError{Column: col.Name, Reason: "required column absent from record field set"}
			}
			continue
		}
		if !typeCompatible(col.Type, v) {
			return nil, &SchemaMismatchError{
				Column: col.Name,
				Reason: fmt.Sprintf("field type %T is not compatible with column type %s", v, col.Type),
			}
		}
	}

	return &infra.UserEventRow{
		UserID:             rec.UserID,
		EventTimestamp:     rec.EventTimestamp,
		CountryCode:        rec.CountryCode,
		Value:              rec.Value,
		IsHighValue:        rec.IsHighValue,
		ProcessingDatetime: rec.ProcessingDatetime,
	}, nil
}

// typeCompatible reports whether a record field value can populate a
// column of the given BigQuery type without conversion.
func typeCompatible(t bigquery.FieldType, v interface{}) bool {
	switch t {
	case bigquery.StringFieldType:
		_, ok := v.(string)
		return ok
	case bigquery.TimestampFieldType:
		_, ok := v.(time.Time)
		return ok
	case bigquery.FloatFieldType:
		_, ok := v.(float64)
		return ok
	case bigquery.BooleanFieldType:
		_, ok := v.(bool)
		return ok
	default:
		return false
	}
}
