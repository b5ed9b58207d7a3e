// Package records implements the service record domain: persisted sea service
// periods extracted from letters, with review, correction, duplicate
// detection, and the qualifying-service feed for eligibility evaluation.
package records

import (
	"time"

	"github.com/google/uuid"

	"github.com/crewledger/seatime/internal/parsing"
)

// ServiceRecord represents a stored sea service period for a mariner.
// Nullable extraction fields stay nil when the letter did not yield them;
// Flags and Confidence always reflect the current field values.
type ServiceRecord struct {
	ID       uuid.UUID  `json:"id"`
	UserID   uuid.UUID  `json:"user_id"`
	LetterID *uuid.UUID `json:"letter_id,omitempty"`

	VesselName      string                  `json:"vessel_name"`
	SignOn          *time.Time              `json:"sign_on"`
	SignOff         *time.Time              `json:"sign_off"`
	DaysServed      *int                    `json:"days_served"`
	Position        string                  `json:"position,omitempty"`
	PositionMatched bool                    `json:"position_matched"`
	Department      parsing.Department      `json:"department,omitempty"`
	GrossTonnage    *int                    `json:"gross_tonnage"`
	Horsepower      *int                    `json:"horsepower"`
	Propulsion      parsing.Propulsion      `json:"propulsion,omitempty"`
	Route           parsing.Route           `json:"route,omitempty"`
	Confidence      parsing.Confidence      `json:"confidence"`
	Flags           []parsing.ValidationFlag `json:"flags"`

	VerifiedBy *string    `json:"verified_by,omitempty"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`

	LetterFilename *string `json:"letter_filename,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Period converts the record back into the parsing period shape so validation
// and confidence can be recomputed after a manual correction.
func (r *ServiceRecord) Period() parsing.ServicePeriod {
	return parsing.ServicePeriod{
		VesselName:      r.VesselName,
		SignOn:          r.SignOn,
		SignOff:         r.SignOff,
		DaysServed:      r.DaysServed,
		Position:        r.Position,
		PositionMatched: r.PositionMatched,
		Department:      r.Department,
		GrossTonnage:    r.GrossTonnage,
		Horsepower:      r.Horsepower,
		Propulsion:      r.Propulsion,
		Route:           r.Route,
	}
}

// VerifyCommand carries the data needed to mark a record as reviewed.
// VerifiedBy identifies the human who confirmed the extracted values.
type VerifyCommand struct {
	VerifiedBy string `json:"verified_by"`
}

// UpdateCommand carries a manual correction of record fields. Nil fields are
// left unchanged; flags and confidence are recomputed from the corrected
// values before storing. UpdatedBy identifies the reviewer (stored as
// verified_by).
type UpdateCommand struct {
	VesselName   *string    `json:"vessel_name,omitempty"`
	SignOn       *time.Time `json:"sign_on,omitempty"`
	SignOff      *time.Time `json:"sign_off,omitempty"`
	DaysServed   *int       `json:"days_served,omitempty"`
	Position     *string    `json:"position,omitempty"`
	Department   *string    `json:"department,omitempty"`
	GrossTonnage *int       `json:"gross_tonnage,omitempty"`
	Horsepower   *int       `json:"horsepower,omitempty"`
	Propulsion   *string    `json:"propulsion,omitempty"`
	Route        *string    `json:"route,omitempty"`
	UpdatedBy    string     `json:"updated_by"`
}

// apply overlays the command's non-nil fields onto the record.
func (cmd UpdateCommand) apply(r *ServiceRecord) {
	if cmd.VesselName != nil {
		r.VesselName = *cmd.VesselName
	}
	if cmd.SignOn != nil {
		r.SignOn = cmd.SignOn
	}
	if cmd.SignOff != nil {
		r.SignOff = cmd.SignOff
	}
	if cmd.DaysServed != nil {
		r.DaysServed = cmd.DaysServed
	}
	if cmd.Position != nil {
		r.Position = *cmd.Position
		// Manual corrections are trusted the same as vocabulary matches.
		r.PositionMatched = true
		r.Department = parsing.ClassifyDepartment(*cmd.Position)
	}
	if cmd.Department != nil {
		r.Department = parsing.Department(*cmd.Department)
	}
	if cmd.GrossTonnage != nil {
		r.GrossTonnage = cmd.GrossTonnage
	}
	if cmd.Horsepower != nil {
		r.Horsepower = cmd.Horsepower
	}
	if cmd.Propulsion != nil {
		r.Propulsion = parsing.Propulsion(*cmd.Propulsion)
	}
	if cmd.Route != nil {
		r.Route = parsing.Route(*cmd.Route)
	}
}
