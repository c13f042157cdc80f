package pipeline

import (
	"strings"
	"time"
)

// countryCodes maps uppercased free-text country names to 2-letter codes.
// Lookups are case-insensitive; anything unmapped resolves to the "OT"
// sentinel, never an error.
var countryCodes = map[string]string{
	"MALAYSIA":  "MY",
	"SINGAPORE": "SG",
	"THAILAND":  "TH",
	"INDONESIA": "ID",
}

// knownCodes is the set of codes the table maps to. Inputs already carrying
// a known code pass through unchanged.
var knownCodes = map[string]bool{
	"MY": true,
	"SG": true,
	"TH": true,
	"ID": true,
}

// LookupCountryCode resolves a free-text country name to its 2-letter code.
func LookupCountryCode(name string) string {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if code, ok := countryCodes[upper]; ok {
		return code
	}
	if knownCodes[upper] {
		return upper
	}
	return UnknownCountryCode
}

// Enrich computes the derived fields for one typed record. Pure function:
// no I/O, no failure path. now is the invocation's processing instant and
// becomes ProcessingDatetime regardless of EventTimestamp.
func (p Policies) Enrich(rec TypedRecord, now time.Time) EnrichedRecord {
	return EnrichedRecord{
		TypedRecord:        rec,
		CountryCode:        LookupCountryCode(rec.CountryRaw),
		IsHighValue:        rec.Value >= p.HighValueThreshold,
		ProcessingDatetime: now.UTC(),
	}
}
