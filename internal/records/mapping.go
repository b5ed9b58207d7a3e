package records

import (
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/crewledger/seatime/pkg/query"
	"github.com/crewledger/seatime/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "service_records", "r").
	Project("id", "ID").
	Project("user_id", "UserID").
	Project("letter_id", "LetterID").
	Project("vessel_name", "VesselName").
	Project("sign_on", "SignOn").
	Project("sign_off", "SignOff").
	Project("days_served", "DaysServed").
	Project("position", "Position").
	Project("position_matched", "PositionMatched").
	Project("department", "Department").
	Project("gross_tonnage", "GrossTonnage").
	Project("horsepower", "Horsepower").
	Project("propulsion", "Propulsion").
	Project("route", "Route").
	Project("confidence", "Confidence").
	Project("flags", "Flags").
	Project("verified_by", "VerifiedBy").
	Project("verified_at", "VerifiedAt").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt").
	Join("public", "letters", "l", "LEFT JOIN", "r.letter_id = l.id").
	Project("filename", "LetterFilename")

var defaultSort = query.SortField{
	Field:      "SignOn",
	Descending: true,
}

// Filters contains optional filtering criteria for service record queries.
// Nil fields are ignored. VesselName uses case-insensitive contains matching;
// the rest use exact matching. Verified filters on the presence of a reviewer.
type Filters struct {
	UserID      *uuid.UUID `json:"user_id,omitempty"`
	VesselName  *string    `json:"vessel_name,omitempty"`
	Confidence  *string    `json:"confidence,omitempty"`
	Department  *string    `json:"department,omitempty"`
	Position    *string    `json:"position,omitempty"`
	Verified    *bool      `json:"verified,omitempty"`
	NeedsReview *bool      `json:"needs_review,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	b.WhereEquals("UserID", f.UserID).
		WhereContains("VesselName", f.VesselName).
		WhereEquals("Confidence", f.Confidence).
		WhereEquals("Department", f.Department).
		WhereEquals("Position", f.Position)

	if f.Verified != nil {
		if *f.Verified {
			b.WhereNotNull("VerifiedBy")
		} else {
			b.WhereNullable("VerifiedBy", nil)
		}
	}

	if f.NeedsReview != nil {
		if *f.NeedsReview {
			b.WhereRaw("(r.confidence = 'low' OR r.flags @> '[{\"severity\": \"error\"}]')")
		} else {
			b.WhereRaw("(r.confidence <> 'low' AND NOT r.flags @> '[{\"severity\": \"error\"}]')")
		}
	}

	return b
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if uid := values.Get("user_id"); uid != "" {
		if v, err := uuid.Parse(uid); err == nil {
			f.UserID = &v
		}
	}

	if vn := values.Get("vessel_name"); vn != "" {
		f.VesselName = &vn
	}

	if c := values.Get("confidence"); c != "" {
		f.Confidence = &c
	}

	if d := values.Get("department"); d != "" {
		f.Department = &d
	}

	if p := values.Get("position"); p != "" {
		f.Position = &p
	}

	if v := values.Get("verified"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			f.Verified = &b
		}
	}

	if nr := values.Get("needs_review"); nr != "" {
		if b, err := strconv.ParseBool(nr); err == nil {
			f.NeedsReview = &b
		}
	}

	return f
}

func scanRecord(s repository.Scanner) (ServiceRecord, error) {
	var (
		r         ServiceRecord
		flagsJSON []byte
	)

	err := s.Scan(
		&r.ID,
		&r.UserID,
		&r.LetterID,
		&r.VesselName,
		&r.SignOn,
		&r.SignOff,
		&r.DaysServed,
		&r.Position,
		&r.PositionMatched,
		&r.Department,
		&r.GrossTonnage,
		&r.Horsepower,
		&r.Propulsion,
		&r.Route,
		&r.Confidence,
		&flagsJSON,
		&r.VerifiedBy,
		&r.VerifiedAt,
		&r.CreatedAt,
		&r.UpdatedAt,
		&r.LetterFilename,
	)
	if err != nil {
		return r, err
	}

	if len(flagsJSON) > 0 {
		if err := json.Unmarshal(flagsJSON, &r.Flags); err != nil {
			return r, err
		}
	}

	return r, nil
}
