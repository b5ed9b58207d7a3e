// Package parsing implements the sea service letter extraction pipeline:
// format detection, period extraction, regulatory validation, and confidence
// scoring. The pipeline is pure and stateless; it characterizes uncertainty
// through flags and confidence levels instead of failing, so every input
// except empty text produces a complete ParsedLetter.
package parsing

import "time"

// Format identifies which document grammar produced a letter's periods.
type Format string

// Letter formats recognized by the format router.
const (
	FormatMilitary   Format = "military"
	FormatCommercial Format = "commercial"
)

// Confidence is a categorical assessment of extraction certainty.
type Confidence string

// Confidence levels, bucketed from the numeric extraction score.
const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Severity classifies a validation finding.
type Severity string

// Flag severities. Errors would cause regulatory rejection, warnings may
// cause downstream problems, info findings are contextual and non-blocking.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Department is the shipboard department derived from a mariner's position.
// The zero value means the position was absent and no derivation was possible.
type Department string

// Departments derived by keyword classification.
const (
	DepartmentDeck    Department = "deck"
	DepartmentEngine  Department = "engine"
	DepartmentSteward Department = "steward"
	DepartmentOther   Department = "other"
)

// Propulsion is the vessel propulsion type. The zero value means no
// propulsion mention was found.
type Propulsion string

// Propulsion types, ordered by extraction precedence (gas turbine before
// steam before motor before sail).
const (
	PropulsionMotor      Propulsion = "motor"
	PropulsionSteam      Propulsion = "steam"
	PropulsionGasTurbine Propulsion = "gas_turbine"
	PropulsionSail       Propulsion = "sail"
	PropulsionMixed      Propulsion = "mixed"
)

// Route is the inferred route category. The zero value means the route
// could not be inferred.
type Route string

// Route categories. Routes are inferred, never asserted with certainty.
const (
	RouteOceans      Route = "oceans"
	RouteNearCoastal Route = "near_coastal"
	RouteGreatLakes  Route = "great_lakes"
	RouteInland      Route = "inland"
)

// UnknownVessel is the sentinel vessel name emitted when no vessel could be
// resolved. The validator treats it as a missing vessel.
const UnknownVessel = "Unknown Vessel"

// ValidationFlag is a single immutable validation finding against one field
// of a service period. A period's flags are recomputed from scratch on every
// validation pass, never patched incrementally.
type ValidationFlag struct {
	Severity Severity `json:"severity"`
	Field    string   `json:"field"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
}

// ServicePeriod is one continuous span of a mariner's employment aboard one
// vessel. Nil pointer fields mean the value could not be extracted; absence
// is reported by the validator rather than rejected at construction.
type ServicePeriod struct {
	VesselName string     `json:"vessel_name"`
	SignOn     *time.Time `json:"sign_on"`
	SignOff    *time.Time `json:"sign_off"`
	DaysServed *int       `json:"days_served"`

	// Position holds the literal matched substring even when it falls
	// outside the known-rating vocabulary; PositionMatched distinguishes
	// a vocabulary match from a literal fallback.
	Position        string     `json:"position"`
	PositionMatched bool       `json:"position_matched"`
	Department      Department `json:"department,omitempty"`

	GrossTonnage *int       `json:"gross_tonnage"`
	Horsepower   *int       `json:"horsepower"`
	Propulsion   Propulsion `json:"propulsion,omitempty"`
	Route        Route      `json:"route,omitempty"`

	Confidence Confidence       `json:"confidence"`
	Flags      []ValidationFlag `json:"flags"`

	// IsDuplicate is set by the caller after the duplicate-guard lookup;
	// duplicate periods are excluded from persistence but retained in the
	// returned result for reviewer visibility.
	IsDuplicate bool `json:"is_duplicate"`
}

// HasErrors reports whether any error-severity flag is present.
func (p *ServicePeriod) HasErrors() bool {
	for _, f := range p.Flags {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// DuplicateKeyComplete reports whether the period carries all three duplicate
// lookup keys (vessel, sign-on, sign-off). Periods missing any key are never
// treated as duplicate candidates.
func (p *ServicePeriod) DuplicateKeyComplete() bool {
	return p.VesselName != "" &&
		p.VesselName != UnknownVessel &&
		p.SignOn != nil &&
		p.SignOff != nil
}

// ParsedLetter is the letter-level aggregate produced once per document.
// It is never mutated after creation and is handed whole to the persistence
// and review boundary.
type ParsedLetter struct {
	Periods           []ServicePeriod `json:"periods"`
	RawText           string          `json:"raw_text"`
	Format            Format          `json:"format"`
	OverallConfidence Confidence      `json:"overall_confidence"`
	NeedsManualReview bool            `json:"needs_manual_review"`
}
