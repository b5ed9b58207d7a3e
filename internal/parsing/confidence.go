package parsing

// Scoring weights. Dates carry 60 of the 100 possible points: they are the
// fields regulatory review cares about most, so a period with perfect vessel,
// position, and tonnage data but no sign-on date cannot exceed medium.
const (
	weightVessel   = 20
	weightSignOn   = 30
	weightSignOff  = 30
	weightPosition = 15
	weightTonnage  = 5

	errorPenalty = 20

	highThreshold   = 80
	mediumThreshold = 50
)

// Score computes the 0-100 extraction score for a period against its flags.
// Deterministic over six weighted inputs; error flags subtract 20 each.
func Score(p *ServicePeriod, flags []ValidationFlag) int {
	score := 0

	if p.VesselName != "" && p.VesselName != UnknownVessel {
		score += weightVessel
	}
	if p.SignOn != nil {
		score += weightSignOn
	}
	if p.SignOff != nil {
		score += weightSignOff
	}
	if p.PositionMatched {
		score += weightPosition
	}
	if p.GrossTonnage != nil {
		score += weightTonnage
	}

	for _, f := range flags {
		if f.Severity == SeverityError {
			score -= errorPenalty
		}
	}

	if score < 0 {
		score = 0
	}
	return score
}

// BucketScore maps a numeric score to a confidence level.
func BucketScore(score int) Confidence {
	switch {
	case score >= highThreshold:
		return ConfidenceHigh
	case score >= mediumThreshold:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// RatePeriod computes a period's confidence level: the bucketed score,
// capped at medium whenever an error flag is present. A period carrying a
// regulatory rejection can never rate high regardless of field completeness.
func RatePeriod(p *ServicePeriod, flags []ValidationFlag) Confidence {
	c := BucketScore(Score(p, flags))
	if c != ConfidenceHigh {
		return c
	}
	for _, f := range flags {
		if f.Severity == SeverityError {
			return ConfidenceMedium
		}
	}
	return c
}

// OverallConfidence aggregates per-period confidences into a letter-level
// rating: the mean of numeric equivalents (high=3, medium=2, low=1),
// re-bucketed at 2.5 and 1.5. This is intentionally coarser than per-period
// scoring so one bad period does not sink an otherwise clean letter.
func OverallConfidence(periods []ServicePeriod) Confidence {
	if len(periods) == 0 {
		return ConfidenceLow
	}

	total := 0
	for _, p := range periods {
		switch p.Confidence {
		case ConfidenceHigh:
			total += 3
		case ConfidenceMedium:
			total += 2
		default:
			total += 1
		}
	}

	mean := float64(total) / float64(len(periods))
	switch {
	case mean >= 2.5:
		return ConfidenceHigh
	case mean >= 1.5:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// NeedsManualReview derives the review flag from the period set: true iff
// any period has low confidence or carries an error flag. It is a pure
// function of the periods and is never set independently.
func NeedsManualReview(periods []ServicePeriod) bool {
	for i := range periods {
		if periods[i].Confidence == ConfidenceLow || periods[i].HasErrors() {
			return true
		}
	}
	return false
}
