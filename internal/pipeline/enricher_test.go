package pipeline

import (
	"testing"
	"time"
)

func TestLookupCountryCode(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Malaysia", "MY"},
		{"MALAYSIA", "MY"},
		{"malaysia", "MY"},
		{"  Singapore  ", "SG"},
		{"Thailand", "TH"},
		{"Indonesia", "ID"},
		{"MY", "MY"},
		{"sg", "SG"},
		{"Other", "OT"},
		{"Germany", "OT"},
		{"", "OT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LookupCountryCode(tt.name); got != tt.want {
				t.Errorf("LookupCountryCode(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestEnrich_CountryRoundTrip(t *testing.T) {
	p := DefaultPolicies()

	// Already-coded inputs pass through; names map; everything else is OT.
	inputs := []string{"MY", "SG", "malaysia", "Other"}
	want := []string{"MY", "SG", "MY", "OT"}

	for i, country := range inputs {
		rec := p.Enrich(TypedRecord{UserID: "u", CountryRaw: country}, testNow)
		if rec.CountryCode != want[i] {
			t.Errorf("Enrich(country=%q).CountryCode = %q, want %q", country, rec.CountryCode, want[i])
		}
	}
}

func TestEnrich_HighValueThreshold(t *testing.T) {
	p := DefaultPolicies()

	tests := []struct {
		value float64
		want  bool
	}{
		{50.5, false},
		{99.999, false},
		{100.0, true}, // boundary is inclusive
		{100.01, true},
		{0, false},
		{-100, false},
	}

	for _, tt := range tests {
		rec := p.Enrich(TypedRecord{UserID: "u", Value: tt.value}, testNow)
		if rec.IsHighValue != tt.want {
			t.Errorf("Enrich(value=%v).IsHighValue = %v, want %v", tt.value, rec.IsHighValue, tt.want)
		}
	}
}

func TestEnrich_ProcessingDatetimeUTC(t *testing.T) {
	p := DefaultPolicies()

	loc, err := time.LoadLocation("Asia/Kuala_Lumpur")
	if err != nil {
		t.Fatalf("loading location: %v", err)
	}
	localNow := time.Date(2025, 5, 12, 20, 0, 0, 0, loc)

	rec := p.Enrich(TypedRecord{UserID: "u"}, localNow)

	if rec.ProcessingDatetime.Location() != time.UTC {
		t.Errorf("ProcessingDatetime not in UTC: %v", rec.ProcessingDatetime.Location())
	}
	if !rec.ProcessingDatetime.Equal(localNow) {
		t.Errorf("ProcessingDatetime = %v, want same instant as %v", rec.ProcessingDatetime, localNow)
	}
}

func TestEnrich_IndependentOfEventTimestamp(t *testing.T) {
	p := DefaultPolicies()

	eventTS := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rec := p.Enrich(TypedRecord{UserID: "u", EventTimestamp: eventTS}, testNow)

	if !rec.EventTimestamp.Equal(eventTS) {
		t.Errorf("EventTimestamp changed during enrichment: %v", rec.EventTimestamp)
	}
	if !rec.ProcessingDatetime.Equal(testNow) {
		t.Errorf("ProcessingDatetime = %v, want %v", rec.ProcessingDatetime, testNow)
	}
}
