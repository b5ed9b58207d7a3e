package parsing

import (
	"regexp"
	"strconv"
	"strings"
)

// Field extractors are pure functions over upper-cased text windows. Each
// returns its zero value when nothing could be extracted; absence is the
// validator's concern, not the extractor's.

var (
	vesselLabelPattern = regexp.MustCompile(`(?:NAME\s+OF\s+VESSEL|VESSEL\s+NAME|VESSEL|SHIP'?S?\s+NAME)\s*[:\-]\s*([A-Z0-9][A-Z0-9 .'\-]*)`)
	hullPrefixPattern  = regexp.MustCompile(`\b(USNS|USS|USCGC|M/V|S/S|MV|SS|GTS)[ \t]+([A-Z][A-Z0-9.'\-]*(?:[ \t]+[A-Z][A-Z0-9.'\-]*){0,3})`)

	positionLabelPattern = regexp.MustCompile(`(?:POSITION|RATING|CAPACITY|RANK)\s*[:\-]\s*([A-Z0-9][A-Z0-9 .'/\-]*)`)

	combinedHPTonsPattern = regexp.MustCompile(`\b(\d{3,6})\s*/\s*(\d{3,6})\b`)
	grossTonsPattern      = regexp.MustCompile(`GROSS\s+TON(?:NAGE|S)?\s*[:\-]?\s*([\d,]+)`)
	horsepowerPattern     = regexp.MustCompile(`(?:HORSE\s*POWER|\bHP\b)\s*[:\-]?\s*([\d,]+)`)

	daysServedPattern = regexp.MustCompile(`\b(\d{1,4})\s+DAYS\b`)
)

// nameStopWords terminate a hull-designator vessel name capture. OCR text
// runs words together on one line, so the capture has to know where a name
// plausibly ends.
var nameStopWords = map[string]bool{
	"FROM": true, "TO": true, "ON": true, "OFF": true, "THE": true,
	"FOR": true, "DURING": true, "WAS": true, "IS": true, "IN": true,
	"AT": true, "AS": true, "AND": true, "A": true, "HE": true, "SHE": true,
	"SERVED": true, "ABOARD": true, "SIGNED": true, "THIS": true,
}

// ExtractVesselName pulls a vessel name from a labeled field or a
// hull-designator prefix (USNS, USS, MV, ...). The designator is retained as
// part of the name. Trailing separators are trimmed; the name is otherwise
// returned as it appears in the upper-cased text. Returns "" when no vessel
// could be resolved.
func ExtractVesselName(text string) string {
	if m := vesselLabelPattern.FindStringSubmatch(text); m != nil {
		return trimVesselName(m[1])
	}

	if m := hullPrefixPattern.FindStringSubmatch(text); m != nil {
		name := m[1] + " " + cutAtStopWord(m[2])
		return trimVesselName(name)
	}

	return ""
}

func cutAtStopWord(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if nameStopWords[w] || isMonthToken(w) {
			words = words[:i]
			break
		}
	}
	return strings.Join(words, " ")
}

func isMonthToken(w string) bool {
	_, ok := parseMonth(w)
	return ok
}

func trimVesselName(name string) string {
	name = strings.SplitN(name, "\n", 2)[0]
	if i := strings.Index(name, "  "); i >= 0 {
		name = name[:i]
	}
	return strings.TrimRight(name, " \t.,;:-")
}

// positionVocabulary lists known ratings and ranks, longest-first so that
// "CHIEF MATE" wins over "MATE" and "JR SUPPLY OFFICER" over "SUPPLY OFFICER".
var positionVocabulary = []string{
	"FIRST ASSISTANT ENGINEER",
	"SECOND ASSISTANT ENGINEER",
	"THIRD ASSISTANT ENGINEER",
	"JR SUPPLY OFFICER",
	"ASSISTANT ENGINEER",
	"CHIEF ENGINEER",
	"SUPPLY OFFICER",
	"RADIO OFFICER",
	"CHIEF STEWARD",
	"ORDINARY SEAMAN",
	"ABLE SEAMAN",
	"QUARTERMASTER",
	"SECOND MATE",
	"SECOND OFFICER",
	"THIRD MATE",
	"THIRD OFFICER",
	"FIRST MATE",
	"FIRST OFFICER",
	"CHIEF OFFICER",
	"CHIEF MATE",
	"ENGINE CADET",
	"DECK CADET",
	"CHIEF COOK",
	"BOATSWAIN",
	"ELECTRICIAN",
	"PUMPMAN",
	"MESSMAN",
	"STEWARD",
	"MASTER",
	"BOSUN",
	"OILER",
	"WIPER",
	"QMED",
	"COOK",
}

// ExtractPosition matches the text window against the known-rating
// vocabulary. On a vocabulary hit the canonical term is returned with
// matched=true. Otherwise a labeled position field yields the literal
// substring with matched=false, preserving information for the reviewer.
func ExtractPosition(text string) (position string, matched bool) {
	for _, term := range positionVocabulary {
		if strings.Contains(text, term) {
			return term, true
		}
	}

	if m := positionLabelPattern.FindStringSubmatch(text); m != nil {
		literal := strings.TrimRight(strings.SplitN(m[1], "\n", 2)[0], " \t.,;:-")
		if literal != "" {
			return literal, false
		}
	}

	return "", false
}

var (
	deckKeywords    = []string{"MATE", "MASTER", "BOATSWAIN", "BOSUN", "SEAMAN", "QUARTERMASTER", "DECK", "SUPPLY", "OFFICER"}
	engineKeywords  = []string{"ENGINEER", "QMED", "OILER", "WIPER", "ELECTRICIAN", "PUMPMAN", "MACHINIST", "ENGINE"}
	stewardKeywords = []string{"STEWARD", "COOK", "MESSMAN", "GALLEY", "BAKER"}
)

// ClassifyDepartment derives the department from a position string.
// Deck keywords are checked before engine keywords: supply and logistics
// style positions can ambiguously match several classes, and observed letter
// conventions place them in the deck department. An absent position yields
// the zero value; an unmatched one yields DepartmentOther.
func ClassifyDepartment(position string) Department {
	if position == "" {
		return ""
	}

	upper := strings.ToUpper(position)

	for _, tok := range strings.Fields(upper) {
		if tok == "AB" || tok == "OS" {
			return DepartmentDeck
		}
	}

	for _, kw := range deckKeywords {
		if strings.Contains(upper, kw) {
			return DepartmentDeck
		}
	}
	for _, kw := range engineKeywords {
		if strings.Contains(upper, kw) {
			return DepartmentEngine
		}
	}
	for _, kw := range stewardKeywords {
		if strings.Contains(upper, kw) {
			return DepartmentSteward
		}
	}

	return DepartmentOther
}

// ExtractTonnageHorsepower pulls gross tonnage and horsepower from a text
// window. The combined HP/GT token used by military tabular letters
// (horsepower first, e.g. "105000/37063") is the primary path; labeled
// GROSS TONS and HP fields are the commercial fallback.
func ExtractTonnageHorsepower(text string) (grossTonnage, horsepower *int) {
	if m := combinedHPTonsPattern.FindStringSubmatch(text); m != nil {
		hp := parseNumber(m[1])
		gt := parseNumber(m[2])
		return gt, hp
	}

	if m := grossTonsPattern.FindStringSubmatch(text); m != nil {
		grossTonnage = parseNumber(m[1])
	}
	if m := horsepowerPattern.FindStringSubmatch(text); m != nil {
		horsepower = parseNumber(m[1])
	}
	return grossTonnage, horsepower
}

func parseNumber(s string) *int {
	n, err := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return nil
	}
	return &n
}

// ExtractPropulsion tests the window against an ordered list of propulsion
// mentions; first match wins, no scoring. Gas turbine is checked before
// steam before motor/diesel before sail.
func ExtractPropulsion(text string) Propulsion {
	switch {
	case strings.Contains(text, "GAS TURBINE"):
		return PropulsionGasTurbine
	case strings.Contains(text, "STEAM"):
		return PropulsionSteam
	case strings.Contains(text, "MOTOR") || strings.Contains(text, "DIESEL"):
		return PropulsionMotor
	case strings.Contains(text, "SAIL"):
		return PropulsionSail
	}
	return ""
}

// InferRoute determines the route category. An explicit mention always takes
// priority; otherwise vessels of 10,000 GT or more, and military letters, are
// assumed ocean-going absent contrary evidence.
func InferRoute(text string, grossTonnage *int, military bool) Route {
	switch {
	case strings.Contains(text, "GREAT LAKES"):
		return RouteGreatLakes
	case strings.Contains(text, "NEAR COASTAL") || strings.Contains(text, "NEAR-COASTAL"):
		return RouteNearCoastal
	case strings.Contains(text, "INLAND"):
		return RouteInland
	case strings.Contains(text, "OCEAN"):
		return RouteOceans
	}

	if grossTonnage != nil && *grossTonnage >= 10000 {
		return RouteOceans
	}
	if military {
		return RouteOceans
	}
	return ""
}

// ExtractDaysServed pulls an explicit "N DAYS" mention from a text window.
func ExtractDaysServed(text string) *int {
	if m := daysServedPattern.FindStringSubmatch(text); m != nil {
		return parseNumber(m[1])
	}
	return nil
}
