package parsing

import (
	"regexp"
	"strings"
)

// dateRangePattern matches the tabular row grammar MONTH DAY YEAR (TO) MONTH
// DAY YEAR. The scan runs over upper-cased text, which also covers the
// case-insensitive "to" connective.
var dateRangePattern = regexp.MustCompile(`\b([A-Z]{3,9})\.?\s+(\d{1,2}),?\s+(\d{2,4})\s+(?:TO|THRU|THROUGH|-)\s+([A-Z]{3,9})\.?\s+(\d{1,2}),?\s+(\d{2,4})\b`)

// anchorPhrases mark the start of the employment table in military-style
// letters. The format detector is a hint, not a hard gate: a letter that
// matched the detector but carries no anchor falls through to the commercial
// extractor.
var anchorPhrases = []string{
	"PERIODS OF EMPLOYMENT",
	"PERIOD OF EMPLOYMENT",
	"EMPLOYMENT HISTORY",
	"DATES OF SERVICE",
	"SEA SERVICE RECORD",
}

const (
	windowBefore = 200
	windowAfter  = 300
)

// extractMilitary scans a military tabular letter for repeated date-range
// rows and emits one period per row. Each match re-extracts its own local
// text window, so a single letter yields multiple non-contiguous periods for
// the same vessel (e.g. two separate enlistments). Returns nil when the
// table anchor is absent or no date ranges match; the caller then falls
// through to the commercial extractor.
func extractMilitary(upper string) []ServicePeriod {
	if !containsAnchor(upper) {
		return nil
	}

	matches := dateRangePattern.FindAllStringSubmatchIndex(upper, -1)
	if len(matches) == 0 {
		return nil
	}

	vessel := ExtractVesselName(upper)
	if vessel == "" {
		vessel = UnknownVessel
	}

	periods := make([]ServicePeriod, 0, len(matches))
	for _, m := range matches {
		periods = append(periods, extractRow(upper, m, vessel))
	}
	return periods
}

func containsAnchor(upper string) bool {
	for _, phrase := range anchorPhrases {
		if strings.Contains(upper, phrase) {
			return true
		}
	}
	return false
}

// extractRow builds one period from a date-range match. The window spans 200
// characters before and 300 after the match. Tabular rows place metadata
// (position, days, HP/GT token, propulsion) after the date range, so the
// trailing segment is searched first; the leading segment is the fallback.
// Without that ordering a row's window would bind the previous row's
// metadata, since the leading 200 characters reach into the prior row.
func extractRow(upper string, m []int, vessel string) ServicePeriod {
	signOn := buildDate(group(upper, m, 1), group(upper, m, 2), group(upper, m, 3))
	signOff := buildDate(group(upper, m, 4), group(upper, m, 5), group(upper, m, 6))

	start := m[0] - windowBefore
	if start < 0 {
		start = 0
	}
	end := m[1] + windowAfter
	if end > len(upper) {
		end = len(upper)
	}
	leading, trailing := upper[start:m[0]], upper[m[1]:end]

	position, matched := ExtractPosition(trailing)
	if position == "" {
		position, matched = ExtractPosition(leading)
	}

	gt, hp := ExtractTonnageHorsepower(trailing)
	if gt == nil && hp == nil {
		gt, hp = ExtractTonnageHorsepower(leading)
	}

	days := ExtractDaysServed(trailing)
	if days == nil {
		days = ExtractDaysServed(leading)
	}

	propulsion := ExtractPropulsion(trailing)
	if propulsion == "" {
		propulsion = ExtractPropulsion(leading)
	}

	return ServicePeriod{
		VesselName:      vessel,
		SignOn:          signOn,
		SignOff:         signOff,
		DaysServed:      days,
		Position:        position,
		PositionMatched: matched,
		Department:      ClassifyDepartment(position),
		GrossTonnage:    gt,
		Horsepower:      hp,
		Propulsion:      propulsion,
		Route:           InferRoute(trailing+" "+leading, gt, true),
	}
}

func group(s string, m []int, n int) string {
	lo, hi := m[2*n], m[2*n+1]
	if lo < 0 {
		return ""
	}
	return s[lo:hi]
}
