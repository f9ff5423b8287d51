package schema

import (
	"regexp"
	"strings"
	"unicode"
)

// Correction identifies which name-correction rule fired.
type Correction int

const (
	NoCorrection Correction = iota
	FluorescenceSpelling
	StartPosition
	PHAnalysis
)

// String returns a short description used in log lines.
func (c Correction) String() string {
	switch c {
	case FluorescenceSpelling:
		return "fluorescence misspelled"
	case StartPosition:
		return "start positioning renamed"
	case PHAnalysis:
		return "pH Analysis strung together"
	default:
		return "none"
	}
}

var (
	misspelledFluorescence = regexp.MustCompile(`(?i)fluorescense|flourescence`)
	strungPHAnalysis       = regexp.MustCompile(`(?i)phanalysis`)
)

// StartPositionName replaces any name mentioning "start positioning".
const StartPositionName = "Bottom Depth at Start Position"

// CorrectName repairs known header typos in a name portion. The first
// matching rule wins:
//
//   - "fluorescense" / "flourescence" become "fluorescence", keeping the
//     case pattern of the misspelled word
//   - any name containing "start positioning" becomes StartPositionName
//   - "phanalysis" becomes "pH Analysis"
//
// CorrectName is idempotent.
func CorrectName(name string) (string, Correction) {
	low := strings.ToLower(name)
	switch {
	case strings.Contains(low, "fluorescense") || strings.Contains(low, "flourescence"):
		return misspelledFluorescence.ReplaceAllStringFunc(name, func(m string) string {
			return matchCase("fluorescence", m)
		}), FluorescenceSpelling
	case strings.Contains(low, "start positioning"):
		return StartPositionName, StartPosition
	case strings.Contains(low, "phanalysis"):
		return strungPHAnalysis.ReplaceAllString(name, "pH Analysis"), PHAnalysis
	default:
		return name, NoCorrection
	}
}

// matchCase spells word using the case pattern of like: all upper, title,
// or lower.
func matchCase(word, like string) string {
	switch {
	case like == strings.ToUpper(like):
		return strings.ToUpper(word)
	case unicode.IsUpper([]rune(like)[0]):
		return strings.ToUpper(word[:1]) + word[1:]
	default:
		return word
	}
}

// Canonical converts a display name to its canonical field name: lowercase
// with spaces replaced by underscores.
func Canonical(display string) string {
	return strings.ReplaceAll(strings.ToLower(display), " ", "_")
}
