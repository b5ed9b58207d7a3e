package parsing

import (
	"regexp"
	"time"
)

var (
	signOnLabelPattern  = regexp.MustCompile(`(?:SIGN(?:ED)?[\s-]*ON|DATE\s+OF\s+ENGAGEMENT|EMBARKED)\s*[:\-]?\s*`)
	signOffLabelPattern = regexp.MustCompile(`(?:SIGN(?:ED)?[\s-]*OFF|DATE\s+OF\s+DISCHARGE|DISEMBARKED)\s*[:\-]?\s*`)

	// Either date notation may follow a label in commercial letters.
	coastGuardTokenPattern = regexp.MustCompile(`\d{1,2}-[A-Z]{3,9}\.?-\d{2,4}`)
	militaryTokenPattern   = regexp.MustCompile(`[A-Z]{3,9}\.?\s+\d{1,2},?\s+\d{2,4}`)
)

// extractCommercial is the single-period fallback extractor for free-form
// commercial discharge letters. Fields are located by label heuristics over
// the whole document. A period with zero extractable structure is still
// emitted: absence must be visible to the reviewer, never silently dropped.
// The military flag carries the detector's verdict into route inference, so
// a military letter that lost its tabular layout keeps the oceans default.
func extractCommercial(upper string, military bool) ServicePeriod {
	vessel := ExtractVesselName(upper)
	if vessel == "" {
		vessel = UnknownVessel
	}

	signOn := dateAfterLabel(upper, signOnLabelPattern)
	signOff := dateAfterLabel(upper, signOffLabelPattern)

	if signOn == nil && signOff == nil {
		// Last resort for letters that narrate the span as a date range
		// rather than labeling each boundary.
		if m := dateRangePattern.FindStringSubmatchIndex(upper); m != nil {
			signOn = buildDate(group(upper, m, 1), group(upper, m, 2), group(upper, m, 3))
			signOff = buildDate(group(upper, m, 4), group(upper, m, 5), group(upper, m, 6))
		}
	}

	position, matched := ExtractPosition(upper)
	gt, hp := ExtractTonnageHorsepower(upper)

	return ServicePeriod{
		VesselName:      vessel,
		SignOn:          signOn,
		SignOff:         signOff,
		DaysServed:      inclusiveDays(signOn, signOff),
		Position:        position,
		PositionMatched: matched,
		Department:      ClassifyDepartment(position),
		GrossTonnage:    gt,
		Horsepower:      hp,
		Propulsion:      ExtractPropulsion(upper),
		Route:           InferRoute(upper, gt, military),
	}
}

// dateAfterLabel finds a label occurrence and parses the first date token in
// the text immediately following it. Both notations are attempted since
// commercial letters are not consistent about which they use.
func dateAfterLabel(upper string, label *regexp.Regexp) *time.Time {
	loc := label.FindStringIndex(upper)
	if loc == nil {
		return nil
	}

	segment := upper[loc[1]:]
	if len(segment) > 40 {
		segment = segment[:40]
	}

	if token := coastGuardTokenPattern.FindString(segment); token != "" {
		if d := ParseCoastGuardDate(token); d != nil {
			return d
		}
	}
	if token := militaryTokenPattern.FindString(segment); token != "" {
		if d := ParseMilitaryDate(token); d != nil {
			return d
		}
	}
	return nil
}

// inclusiveDays computes (signOff - signOn in days) + 1. Left nil when
// either boundary is missing or the dates are out of order; the validator
// reports the ordering violation.
func inclusiveDays(signOn, signOff *time.Time) *int {
	if signOn == nil || signOff == nil || signOff.Before(*signOn) {
		return nil
	}
	days := int(signOff.Sub(*signOn).Hours()/24) + 1
	return &days
}
