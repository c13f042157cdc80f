package pipeline

import (
	"testing"
	"time"
)

var testNow = time.Date(2025, 5, 12, 12, 0, 0, 0, time.UTC)

func TestNormalize_UserIDRequired(t *testing.T) {
	p := DefaultPolicies()

	tests := []struct {
		name    string
		raw     RawRecord
		wantErr bool
	}{
		{
			name: "valid user id",
			raw:  RawRecord{ColumnUserID: "user123"},
		},
		{
			name: "user id with padding",
			raw:  RawRecord{ColumnUserID: "  user123  "},
		},
		{
			name:    "empty user id",
			raw:     RawRecord{ColumnUserID: ""},
			wantErr: true,
		},
		{
			name:    "whitespace user id",
			raw:     RawRecord{ColumnUserID: "   "},
			wantErr: true,
		},
		{
			name:    "absent user id",
			raw:     RawRecord{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := p.Normalize(tt.raw, testNow)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Normalize error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && rec.UserID != "user123" {
				t.Errorf("UserID = %q, want %q", rec.UserID, "user123")
			}
		})
	}
}

func TestNormalize_EventTimestamp(t *testing.T) {
	p := DefaultPolicies()

	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{
			name: "valid RFC3339 instant",
			raw:  "2025-05-12T11:00:00Z",
			want: time.Date(2025, 5, 12, 11, 0, 0, 0, time.UTC),
		},
		{
			name: "offset normalized to UTC",
			raw:  "2025-05-12T19:00:00+08:00",
			want: time.Date(2025, 5, 12, 11, 0, 0, 0, time.UTC),
		},
		{
			name: "absent defaults to processing instant",
			raw:  "",
			want: testNow,
		},
		{
			name: "unparsable defaults to processing instant",
			raw:  "12/05/2025",
			want: testNow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := p.Normalize(RawRecord{
				ColumnUserID:         "u1",
				ColumnEventTimestamp: tt.raw,
			}, testNow)
			if err != nil {
				t.Fatalf("Normalize failed: %v", err)
			}
			if !rec.EventTimestamp.Equal(tt.want) {
				t.Errorf("EventTimestamp = %v, want %v", rec.EventTimestamp, tt.want)
			}
			if rec.EventTimestamp.Location() != time.UTC {
				t.Errorf("EventTimestamp not in UTC: %v", rec.EventTimestamp.Location())
			}
		})
	}
}

func TestNormalize_Value(t *testing.T) {
	p := DefaultPolicies()

	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"plain number", "50.50", 50.5},
		{"integer", "10", 10},
		{"negative", "-3.25", -3.25},
		{"absent defaults to fallback", "", 0},
		{"malformed defaults to fallback", "abc", 0},
		{"NaN defaults to fallback", "NaN", 0},
		{"Inf defaults to fallback", "+Inf", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := p.Normalize(RawRecord{
				ColumnUserID: "u1",
				ColumnValue:  tt.raw,
			}, testNow)
			if err != nil {
				t.Fatalf("Normalize failed: %v", err)
			}
			if rec.Value != tt.want {
				t.Errorf("Value = %v, want %v", rec.Value, tt.want)
			}
		})
	}
}

func TestNormalize_ValueFallbackConfigurable(t *testing.T) {
	p := Policies{HighValueThreshold: 100, ValueFallback: -1}

	rec, err := p.Normalize(RawRecord{ColumnUserID: "u1", ColumnValue: "garbage"}, testNow)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if rec.Value != -1 {
		t.Errorf("Value = %v, want configured fallback -1", rec.Value)
	}
}

func TestNormalize_CountryTrimmedCasePreserved(t *testing.T) {
	p := DefaultPolicies()

	rec, err := p.Normalize(RawRecord{
		ColumnUserID:  "u1",
		ColumnCountry: "  MaLaYsIa  ",
	}, testNow)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if rec.CountryRaw != "MaLaYsIa" {
		t.Errorf("CountryRaw = %q, want trimmed case-preserved %q", rec.CountryRaw, "MaLaYsIa")
	}
}
