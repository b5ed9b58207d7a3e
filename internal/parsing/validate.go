package parsing

import "fmt"

// Flag codes emitted by the validation rule table.
const (
	CodeMissingVessel     = "MISSING_VESSEL"
	CodeMissingSignOn     = "MISSING_SIGN_ON"
	CodeMissingSignOff    = "MISSING_SIGN_OFF"
	CodeInvalidDateOrder  = "INVALID_DATE_ORDER"
	CodeZeroDaysServed    = "ZERO_DAYS_SERVED"
	CodeMissingTonnage    = "MISSING_TONNAGE"
	CodeMissingPropulsion = "MISSING_PROPULSION"
	CodeUnclearPosition   = "UNCLEAR_POSITION"
	CodeSmallVessel       = "SMALL_VESSEL_PERCENTAGE"
	CodeNonMotorNoted     = "NON_MOTOR_PROPULSION"
)

type rule struct {
	severity Severity
	field    string
	code     string
	check    func(p *ServicePeriod) (bool, string)
}

// validationRules is the fixed rule table. Each rule is independent and
// stateless; multiple rules may fire on the same period. Tonnage absence is
// never elevated to an error: tonnage is required for some upgrades, not all.
var validationRules = []rule{
	{SeverityError, "vessel_name", CodeMissingVessel, func(p *ServicePeriod) (bool, string) {
		if p.VesselName == "" || p.VesselName == UnknownVessel {
			return true, "vessel name could not be extracted"
		}
		return false, ""
	}},
	{SeverityError, "sign_on", CodeMissingSignOn, func(p *ServicePeriod) (bool, string) {
		if p.SignOn == nil {
			return true, "sign-on date could not be extracted"
		}
		return false, ""
	}},
	{SeverityError, "sign_off", CodeMissingSignOff, func(p *ServicePeriod) (bool, string) {
		if p.SignOff == nil {
			return true, "sign-off date could not be extracted"
		}
		return false, ""
	}},
	{SeverityError, "sign_off", CodeInvalidDateOrder, func(p *ServicePeriod) (bool, string) {
		if p.SignOn != nil && p.SignOff != nil && p.SignOff.Before(*p.SignOn) {
			return true, fmt.Sprintf(
				"sign-off date %s precedes sign-on date %s",
				p.SignOff.Format("2006-01-02"), p.SignOn.Format("2006-01-02"),
			)
		}
		return false, ""
	}},
	{SeverityError, "days_served", CodeZeroDaysServed, func(p *ServicePeriod) (bool, string) {
		if p.DaysServed != nil && *p.DaysServed == 0 {
			return true, "period credits zero days of service"
		}
		return false, ""
	}},
	{SeverityWarning, "gross_tonnage", CodeMissingTonnage, func(p *ServicePeriod) (bool, string) {
		if p.GrossTonnage == nil {
			return true, "gross tonnage not found; required for tonnage-based upgrades"
		}
		return false, ""
	}},
	{SeverityWarning, "propulsion", CodeMissingPropulsion, func(p *ServicePeriod) (bool, string) {
		if p.Propulsion == "" {
			return true, "propulsion type not found"
		}
		return false, ""
	}},
	{SeverityWarning, "position", CodeUnclearPosition, func(p *ServicePeriod) (bool, string) {
		if p.Position == "" {
			return true, "position could not be extracted"
		}
		if !p.PositionMatched {
			return true, fmt.Sprintf("position %q is not a recognized rating", p.Position)
		}
		return false, ""
	}},
	{SeverityInfo, "gross_tonnage", CodeSmallVessel, func(p *ServicePeriod) (bool, string) {
		if p.GrossTonnage != nil && *p.GrossTonnage < 200 {
			return true, "vessel under 200 GT; percentage rules may apply to credited days"
		}
		return false, ""
	}},
	{SeverityInfo, "propulsion", CodeNonMotorNoted, func(p *ServicePeriod) (bool, string) {
		if p.Propulsion != "" && p.Propulsion != PropulsionMotor {
			return true, fmt.Sprintf(
				"non-motor propulsion (%s); relevant for removing motor-only restrictions",
				p.Propulsion,
			)
		}
		return false, ""
	}},
}

// Validate applies the fixed rule table to a period and returns all findings.
// It is pure and total: it never fails and always returns a (possibly empty)
// list computed from scratch.
func Validate(p *ServicePeriod) []ValidationFlag {
	flags := make([]ValidationFlag, 0)
	for _, r := range validationRules {
		fired, msg := r.check(p)
		if !fired {
			continue
		}
		flags = append(flags, ValidationFlag{
			Severity: r.severity,
			Field:    r.field,
			Code:     r.code,
			Message:  msg,
		})
	}
	return flags
}
