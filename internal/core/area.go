package core

import (
	"regexp"
	"strings"

	"github.com/JonMunkholm/discrete-summary/internal/table"
)

// Area reference designators.
const (
	AreaOregonSlopeBase      = "oregon-slope-base"
	AreaAxialBase            = "axial-base"
	AreaAxialCaldera         = "axial-caldera"
	AreaSouthernHydrateRidge = "southern-hydrate-ridge"
	AreaMidPlate             = "mid-plate"
	AreaOregonInshore        = "oregon-inshore"
	AreaOregonShelf          = "oregon-shelf"
	AreaOregonOffshore       = "oregon-offshore"
	AreaWashingtonInshore    = "washington-inshore"
	AreaWashingtonShelf      = "washington-shelf"
	AreaWashingtonOffshore   = "washington-offshore"
)

type areaRule struct {
	pattern *regexp.Regexp
	area    string
}

// areaRules are tried in order; the first match wins. The international
// district rule must precede axial caldera and follow axial base.
var areaRules = []areaRule{
	{regexp.MustCompile(`(?i)(oregon\s+)?slope\s+base`), AreaOregonSlopeBase},
	{regexp.MustCompile(`(?i)axial\s+base`), AreaAxialBase},
	{regexp.MustCompile(`(?i)axial.*international\s+district`), AreaAxialCaldera},
	{regexp.MustCompile(`(?i)axial\s+caldera`), AreaAxialCaldera},
	{regexp.MustCompile(`(?i)(southern\s+)?hydrate\s+ridge`), AreaSouthernHydrateRidge},
	{regexp.MustCompile(`(?i)mid\s+plate`), AreaMidPlate},
	{regexp.MustCompile(`(?i)oregon\s+inshore|ce01`), AreaOregonInshore},
	{regexp.MustCompile(`(?i)oregon\s+shelf|ce02`), AreaOregonShelf},
	{regexp.MustCompile(`(?i)oregon\s+offshore|ce04`), AreaOregonOffshore},
	{regexp.MustCompile(`(?i)washington\s+inshore|ce06`), AreaWashingtonInshore},
	{regexp.MustCompile(`(?i)washington\s+shelf|ce07`), AreaWashingtonShelf},
	{regexp.MustCompile(`(?i)washington\s+offshore|ce09`), AreaWashingtonOffshore},
}

// AreaFromStation maps station text to an area reference designator.
func AreaFromStation(station string) (string, error) {
	for _, r := range areaRules {
		if r.pattern.MatchString(station) {
			return r.area, nil
		}
	}
	return "", &UnknownAreaError{Station: strings.ToLower(station)}
}

// DeriveArea maps a station cell to an area. Cells that are missing or not
// text yield "".
func DeriveArea(v table.Value) (string, error) {
	s, ok := v.Str()
	if !ok {
		return "", nil
	}
	return AreaFromStation(s)
}
