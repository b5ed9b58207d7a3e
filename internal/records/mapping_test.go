package records

import (
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/crewledger/seatime/pkg/query"
)

func TestFiltersFromQuery(t *testing.T) {
	userID := uuid.New()

	values := url.Values{
		"user_id":      {userID.String()},
		"vessel_name":  {"ARCTIC"},
		"confidence":   {"high"},
		"department":   {"steward"},
		"position":     {"supply officer"},
		"verified":     {"true"},
		"needs_review": {"false"},
	}

	f := FiltersFromQuery(values)

	if f.UserID == nil || *f.UserID != userID {
		t.Errorf("UserID = %v, want %s", f.UserID, userID)
	}
	if f.VesselName == nil || *f.VesselName != "ARCTIC" {
		t.Errorf("VesselName = %v, want ARCTIC", f.VesselName)
	}
	if f.Confidence == nil || *f.Confidence != "high" {
		t.Errorf("Confidence = %v, want high", f.Confidence)
	}
	if f.Department == nil || *f.Department != "steward" {
		t.Errorf("Department = %v, want steward", f.Department)
	}
	if f.Position == nil || *f.Position != "supply officer" {
		t.Errorf("Position = %v, want supply officer", f.Position)
	}
	if f.Verified == nil || !*f.Verified {
		t.Errorf("Verified = %v, want true", f.Verified)
	}
	if f.NeedsReview == nil || *f.NeedsReview {
		t.Errorf("NeedsReview = %v, want false", f.NeedsReview)
	}
}

func TestFiltersFromQueryInvalidValuesIgnored(t *testing.T) {
	values := url.Values{
		"user_id":      {"not-a-uuid"},
		"verified":     {"maybe"},
		"needs_review": {"42x"},
	}

	f := FiltersFromQuery(values)

	if f.UserID != nil {
		t.Errorf("UserID = %v, want nil", f.UserID)
	}
	if f.Verified != nil {
		t.Errorf("Verified = %v, want nil", f.Verified)
	}
	if f.NeedsReview != nil {
		t.Errorf("NeedsReview = %v, want nil", f.NeedsReview)
	}
}

func TestFiltersApply(t *testing.T) {
	userID := uuid.New()
	vessel := "ARCTIC"
	confidence := "high"
	verified := true
	unverified := false
	needsReview := true
	qualifying := false

	fromClause := "public.service_records r LEFT JOIN public.letters l ON r.letter_id = l.id"

	tests := []struct {
		name     string
		filters  Filters
		wantSQL  string
		wantArgs int
	}{
		{
			name:     "empty filters produce no conditions",
			filters:  Filters{},
			wantSQL:  "SELECT COUNT(*) FROM " + fromClause,
			wantArgs: 0,
		},
		{
			name:     "user and confidence",
			filters:  Filters{UserID: &userID, Confidence: &confidence},
			wantSQL:  "SELECT COUNT(*) FROM " + fromClause + " WHERE r.user_id = $1 AND r.confidence = $2",
			wantArgs: 2,
		},
		{
			name:     "vessel name contains",
			filters:  Filters{VesselName: &vessel},
			wantSQL:  "SELECT COUNT(*) FROM " + fromClause + " WHERE r.vessel_name ILIKE $1",
			wantArgs: 1,
		},
		{
			name:     "verified filters on reviewer presence",
			filters:  Filters{Verified: &verified},
			wantSQL:  "SELECT COUNT(*) FROM " + fromClause + " WHERE r.verified_by IS NOT NULL",
			wantArgs: 0,
		},
		{
			name:     "unverified filters on reviewer absence",
			filters:  Filters{Verified: &unverified},
			wantSQL:  "SELECT COUNT(*) FROM " + fromClause + " WHERE r.verified_by IS NULL",
			wantArgs: 0,
		},
		{
			name:    "needs review matches low confidence or error flags",
			filters: Filters{NeedsReview: &needsReview},
			wantSQL: "SELECT COUNT(*) FROM " + fromClause +
				` WHERE (r.confidence = 'low' OR r.flags @> '[{"severity": "error"}]')`,
			wantArgs: 0,
		},
		{
			name:    "qualifying excludes low confidence and error flags",
			filters: Filters{NeedsReview: &qualifying},
			wantSQL: "SELECT COUNT(*) FROM " + fromClause +
				` WHERE (r.confidence <> 'low' AND NOT r.flags @> '[{"severity": "error"}]')`,
			wantArgs: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := query.NewBuilder(projection, defaultSort)
			sql, args := tt.filters.Apply(b).BuildCount()

			if sql != tt.wantSQL {
				t.Errorf("sql:\ngot  %s\nwant %s", sql, tt.wantSQL)
			}
			if len(args) != tt.wantArgs {
				t.Errorf("args length = %d, want %d", len(args), tt.wantArgs)
			}
		})
	}
}

func TestFiltersApplyArgValues(t *testing.T) {
	userID := uuid.New()
	vessel := "HORIZON"

	b := query.NewBuilder(projection, defaultSort)
	_, args := Filters{UserID: &userID, VesselName: &vessel}.Apply(b).BuildCount()

	if len(args) != 2 {
		t.Fatalf("args length = %d, want 2", len(args))
	}
	if got, ok := args[0].(*uuid.UUID); !ok || *got != userID {
		t.Errorf("args[0] = %v, want %s", args[0], userID)
	}
	if args[1] != "%HORIZON%" {
		t.Errorf("args[1] = %v, want %%HORIZON%%", args[1])
	}
}

func TestDefaultSortOrdersBySignOnDescending(t *testing.T) {
	b := query.NewBuilder(projection, defaultSort)
	sql, _ := b.Build()

	if !strings.HasSuffix(sql, " ORDER BY r.sign_on DESC") {
		t.Errorf("sql %q should end with ORDER BY r.sign_on DESC", sql)
	}
}
