package pipeline

import (
	"errors"
	"testing"
)

func TestParseCSV(t *testing.T) {
	data := []byte("user_id,event_timestamp,country,value\n" +
		"user123,2025-05-12T11:00:00Z,Malaysia,50.50\n" +
		"userxyz,,Other,10.00\n")

	records, err := ParseCSV(data)
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	// Input row order must be preserved
	if records[0][ColumnUserID] != "user123" || records[1][ColumnUserID] != "userxyz" {
		t.Errorf("row order not preserved: %v", records)
	}
	if records[0][ColumnCountry] != "Malaysia" {
		t.Errorf("country = %q, want %q", records[0][ColumnCountry], "Malaysia")
	}
	if records[1][ColumnEventTimestamp] != "" {
		t.Errorf("expected empty event_timestamp, got %q", records[1][ColumnEventTimestamp])
	}
}

func TestParseCSV_HeaderVariants(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{
			name: "exact header",
			data: "user_id,event_timestamp,country,value\n",
		},
		{
			name: "extra columns tolerated",
			data: "user_id,event_timestamp,country,value,extra\nu1,2025-01-01T00:00:00Z,Thailand,1,x\n",
		},
		{
			name: "header with BOM",
			data: "\ufeffuser_id,event_timestamp,country,value\n",
		},
		{
			name: "header with padding",
			data: "user_id, event_timestamp, country, value\n",
		},
		{
			name:    "missing value column",
			data:    "user_id,event_timestamp,country\n",
			wantErr: true,
		},
		{
			name:    "unrelated header",
			data:    "a,b,c\n1,2,3\n",
			wantErr: true,
		},
		{
			name:    "empty file",
			data:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCSV error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var parseErr *ParseError
				if !errors.As(err, &parseErr) {
					t.Errorf("error is %T, want *ParseError", err)
				}
			}
		})
	}
}

func TestParseCSV_ShortRow(t *testing.T) {
	data := []byte("user_id,event_timestamp,country,value\nuser1,2025-01-01T00:00:00Z\n")

	records, err := ParseCSV(data)
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	// Trailing fields are absent, not present-and-empty
	if _, ok := records[0][ColumnValue]; ok {
		t.Error("expected value field to be absent for short row")
	}
	if records[0][ColumnUserID] != "user1" {
		t.Errorf("user_id = %q, want %q", records[0][ColumnUserID], "user1")
	}
}

func TestParseCSV_MalformedQuoting(t *testing.T) {
	data := []byte("user_id,event_timestamp,country,value\n\"unterminated,2025-01-01T00:00:00Z,SG,1\n")

	_, err := ParseCSV(data)
	if err == nil {
		t.Fatal("expected error for malformed quoting")
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("error is %T, want *ParseError", err)
	}
}
