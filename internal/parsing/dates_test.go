package parsing_test

import (
	"testing"
	"time"

	"github.com/crewledger/seatime/internal/parsing"
)

func ptr[T any](v T) *T { return &v }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseMilitaryDate(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  *time.Time
	}{
		{"plain", "FEB 17 2021", ptr(date(2021, time.February, 17))},
		{"comma after day", "Feb 17, 2021", ptr(date(2021, time.February, 17))},
		{"lowercase", "jul 23 2021", ptr(date(2021, time.July, 23))},
		{"full month name", "SEPTEMBER 3 1999", ptr(date(1999, time.September, 3))},
		{"sept variant", "SEPT 3 1999", ptr(date(1999, time.September, 3))},
		{"two digit year below window", "JAN 1 49", ptr(date(2049, time.January, 1))},
		{"two digit year above window", "JAN 1 50", ptr(date(1950, time.January, 1))},
		{"bad month", "XXX 17 2021", nil},
		{"month prefix of unrelated word", "SEPARATE 3 1999", nil},
		{"day out of range", "FEB 30 2021", nil},
		{"day zero", "MAR 0 2021", nil},
		{"missing year", "FEB 17", nil},
		{"coast guard notation rejected", "17-FEB-2021", nil},
		{"year below floor", "JAN 1 1850", nil},
		{"year above ceiling", "JAN 1 2150", nil},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parsing.ParseMilitaryDate(tt.token)
			assertDate(t, got, tt.want)
		})
	}
}

func TestParseCoastGuardDate(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  *time.Time
	}{
		{"plain", "17-FEB-2021", ptr(date(2021, time.February, 17))},
		{"lowercase", "17-feb-2021", ptr(date(2021, time.February, 17))},
		{"two digit year", "17-FEB-21", ptr(date(2021, time.February, 17))},
		{"windowed to previous century", "17-FEB-88", ptr(date(1988, time.February, 17))},
		{"bad month", "17-FOO-2021", nil},
		{"day out of range", "32-JAN-2020", nil},
		{"military notation rejected", "FEB 17 2021", nil},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parsing.ParseCoastGuardDate(tt.token)
			assertDate(t, got, tt.want)
		})
	}
}

func assertDate(t *testing.T, got, want *time.Time) {
	t.Helper()
	if want == nil {
		if got != nil {
			t.Fatalf("got %v, want nil", got)
		}
		return
	}
	if got == nil {
		t.Fatalf("got nil, want %v", want)
	}
	if !got.Equal(*want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
