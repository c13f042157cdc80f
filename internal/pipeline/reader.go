package pipeline

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// requiredColumns are the header columns an input file must carry.
var requiredColumns = []string{
	ColumnUserID,
	ColumnEventTimestamp,
	ColumnCountry,
	ColumnValue,
}

// ParseCSV parses delimited text into an ordered sequence of RawRecord,
// preserving input row order. The first row must be a header containing
// every required column; extra columns are tolerated and carried through.
// Rows shorter than the header leave the trailing fields absent, which the
// normalizer treats like empty values.
func ParseCSV(data []byte) ([]RawRecord, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, &ParseError{Reason: "empty file, no header row"}
	}
	if err != nil {
		return nil, &ParseError{Reason: "reading header row", Err: err}
	}

	// A UTF-8 BOM on the first header cell is stripped before matching.
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	columns := make(map[string]bool, len(header))
	for _, name := range header {
		columns[name] = true
	}
	for _, required := range requiredColumns {
		if !columns[required] {
			return nil, &ParseError{Reason: fmt.Sprintf("header is missing required column %q", required)}
		}
	}

	var records []RawRecord
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Reason: fmt.Sprintf("malformed row %d", len(records)+1), Err: err}
		}

		record := make(RawRecord, len(header))
		for i, name := range header {
			if i < len(row) {
				record[name] = row[i]
			}
		}
		records = append(records, record)
	}

	return records, nil
}
