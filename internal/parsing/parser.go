package parsing

import (
	"errors"
	"regexp"
	"strings"
)

// ErrEmptyText is the only hard failure the pipeline produces. All other
// inputs, however garbled, yield a complete ParsedLetter whose uncertainty
// is carried by flags and confidence levels.
var ErrEmptyText = errors.New("letter text is empty")

// organizationMarkers identify military-issued letters by the issuing
// organization's name.
var organizationMarkers = []string{
	"MILITARY SEALIFT COMMAND",
	"DEPARTMENT OF THE NAVY",
	"UNITED STATES NAVY",
}

// hullMarkerPattern identifies military-issued letters by hull designator.
var hullMarkerPattern = regexp.MustCompile(`\b(USNS|USS|USCGC)\s`)

// Parse turns raw OCR text from a sea service letter into a validated,
// confidence-scored ParsedLetter. Format detection is binary: a letter
// containing an organizational marker or a hull-prefix marker takes the
// military tabular path, everything else the commercial path. The military
// path falls through to the commercial extractor when its table anchor or
// date-range rows are missing, so detection never causes an empty result.
func Parse(text string) (*ParsedLetter, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	upper := strings.ToUpper(text)
	military := detectMilitary(upper)

	format := FormatCommercial
	var periods []ServicePeriod
	if military {
		if periods = extractMilitary(upper); len(periods) > 0 {
			format = FormatMilitary
		}
	}
	if len(periods) == 0 {
		periods = []ServicePeriod{extractCommercial(upper, military)}
	}

	for i := range periods {
		p := &periods[i]
		p.Flags = Validate(p)
		p.Confidence = RatePeriod(p, p.Flags)
	}

	return &ParsedLetter{
		Periods:           periods,
		RawText:           text,
		Format:            format,
		OverallConfidence: OverallConfidence(periods),
		NeedsManualReview: NeedsManualReview(periods),
	}, nil
}

func detectMilitary(upper string) bool {
	for _, marker := range organizationMarkers {
		if strings.Contains(upper, marker) {
			return true
		}
	}
	return hullMarkerPattern.MatchString(upper)
}
