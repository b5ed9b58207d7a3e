package parsing

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var monthAbbrevs = map[string]time.Month{
	"JAN": time.January, "FEB": time.February, "MAR": time.March,
	"APR": time.April, "MAY": time.May, "JUN": time.June,
	"JUL": time.July, "AUG": time.August, "SEP": time.September,
	"OCT": time.October, "NOV": time.November, "DEC": time.December,
}

var (
	militaryDatePattern   = regexp.MustCompile(`^([A-Za-z]{3,9})\.?\s+(\d{1,2}),?\s+(\d{2,4})$`)
	coastGuardDatePattern = regexp.MustCompile(`^(\d{1,2})-([A-Za-z]{3,9})\.?-(\d{2,4})$`)
)

// ParseMilitaryDate parses the tabular military date notation MON DD YYYY
// (e.g. "FEB 17 2021", "Feb 17, 2021"). It returns nil for any token that
// does not match the grammar or names an impossible calendar date; callers
// treat nil as "date not determined".
func ParseMilitaryDate(token string) *time.Time {
	m := militaryDatePattern.FindStringSubmatch(strings.TrimSpace(token))
	if m == nil {
		return nil
	}
	return buildDate(m[1], m[2], m[3])
}

// ParseCoastGuardDate parses the Coast Guard date notation DD-MON-YYYY
// (e.g. "17-FEB-2021"). Returns nil on any malformed input.
func ParseCoastGuardDate(token string) *time.Time {
	m := coastGuardDatePattern.FindStringSubmatch(strings.TrimSpace(token))
	if m == nil {
		return nil
	}
	return buildDate(m[2], m[1], m[3])
}

func buildDate(monthToken, dayToken, yearToken string) *time.Time {
	month, ok := parseMonth(monthToken)
	if !ok {
		return nil
	}

	day, err := strconv.Atoi(dayToken)
	if err != nil || day < 1 || day > 31 {
		return nil
	}

	year, err := strconv.Atoi(yearToken)
	if err != nil {
		return nil
	}
	year = windowYear(year)
	if year < 1900 || year > 2100 {
		return nil
	}

	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day || d.Month() != month {
		// time.Date normalized an out-of-range day (e.g. FEB 30).
		return nil
	}
	return &d
}

func parseMonth(token string) (time.Month, bool) {
	token = strings.ToUpper(token)
	if len(token) < 3 {
		return 0, false
	}

	m, ok := monthAbbrevs[token[:3]]
	if !ok {
		return 0, false
	}

	// Longer tokens must spell out the month ("SEPTEMBER" yes, "SEPARATE" no).
	full := strings.ToUpper(m.String())
	if len(token) > 3 && !strings.HasPrefix(full, token) && token != "SEPT" {
		return 0, false
	}
	return m, true
}

// windowYear expands two-digit years: < 50 maps to 20xx, otherwise 19xx.
func windowYear(year int) int {
	if year >= 100 {
		return year
	}
	if year < 50 {
		return 2000 + year
	}
	return 1900 + year
}
