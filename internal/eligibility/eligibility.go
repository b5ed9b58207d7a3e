// Package eligibility defines the contract between stored sea service and the
// credential upgrade evaluator: the qualifying record shape, requirement
// thresholds, and input assembly. Evaluating a mariner against the upgrade
// ladder happens elsewhere; this package only prepares what that evaluation
// consumes.
package eligibility

import (
	"time"

	"github.com/google/uuid"
)

// LargeVesselThresholdGT is the gross tonnage at which a vessel counts toward
// large-vessel service requirements.
const LargeVesselThresholdGT = 1600

// ServiceRecord is a qualifying service period: vessel and both dates known,
// days counted, no validation errors outstanding.
type ServiceRecord struct {
	VesselName   string    `json:"vessel_name"`
	SignOn       time.Time `json:"sign_on"`
	SignOff      time.Time `json:"sign_off"`
	DaysServed   int       `json:"days_served"`
	Department   string    `json:"department,omitempty"`
	GrossTonnage *int      `json:"gross_tonnage,omitempty"`
	Propulsion   string    `json:"propulsion,omitempty"`
	Route        string    `json:"route,omitempty"`
}

// LargeVessel reports whether the record's vessel meets the large-vessel
// tonnage threshold. Unknown tonnage never qualifies.
func (r ServiceRecord) LargeVessel() bool {
	return r.GrossTonnage != nil && *r.GrossTonnage >= LargeVesselThresholdGT
}

// Requirement describes the service thresholds of a single upgrade step.
type Requirement struct {
	// TotalDays is the cumulative sea service required.
	TotalDays int `json:"total_days"`
	// LargeVesselShare is the fraction of TotalDays that must be served on
	// vessels of LargeVesselThresholdGT or more gross tons.
	LargeVesselShare float64 `json:"large_vessel_share"`
	// RecencyWindowYears bounds the window for recent-service requirements.
	RecencyWindowYears int `json:"recency_window_years"`
	// RecencyDays is the service required within the recency window.
	RecencyDays int `json:"recency_days"`
	// RecencyLargeVesselDays is the portion of RecencyDays that must be
	// served on large vessels.
	RecencyLargeVesselDays int `json:"recency_large_vessel_days"`
}

// ChiefMateUnlimited is the standard oceans chief mate upgrade requirement:
// 360 days total with half on 1600+ GRT vessels, and 90 days within the last
// seven years of which 45 must be on 1600+ GRT vessels.
var ChiefMateUnlimited = Requirement{
	TotalDays:              360,
	LargeVesselShare:       0.5,
	RecencyWindowYears:     7,
	RecencyDays:            90,
	RecencyLargeVesselDays: 45,
}

// Input aggregates a mariner's qualifying service for evaluation.
type Input struct {
	UserID  uuid.UUID       `json:"user_id"`
	Records []ServiceRecord `json:"records"`

	TotalDays             int `json:"total_days"`
	LargeVesselDays       int `json:"large_vessel_days"`
	RecentDays            int `json:"recent_days"`
	RecentLargeVesselDays int `json:"recent_large_vessel_days"`
}

// BuildInput assembles evaluator input from qualifying records. Recency
// aggregates count records whose sign-off falls within the requirement's
// window ending at now.
func BuildInput(userID uuid.UUID, records []ServiceRecord, req Requirement, now time.Time) Input {
	in := Input{
		UserID:  userID,
		Records: records,
	}
	if in.Records == nil {
		in.Records = []ServiceRecord{}
	}

	cutoff := now.AddDate(-req.RecencyWindowYears, 0, 0)

	for _, r := range records {
		in.TotalDays += r.DaysServed

		large := r.LargeVessel()
		if large {
			in.LargeVesselDays += r.DaysServed
		}

		if !r.SignOff.Before(cutoff) {
			in.RecentDays += r.DaysServed
			if large {
				in.RecentLargeVesselDays += r.DaysServed
			}
		}
	}

	return in
}
