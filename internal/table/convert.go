package table

// convert.go turns raw cell text from CSV/XLSX sample files into typed cells.
//
// Published summary files are hand-assembled spreadsheets, so the helpers here
// tolerate the usual artifacts:
//   - NA tokens written by different tools (NaN, N/A, #N/A, NULL, ...)
//   - Excel formula prefixes (="value") and stray quotes
//   - Several timestamp layouts, including 2-digit years
//
// ParseFloat8 and ParseTimestamp return pgtype values with Valid=false for
// empty or unparseable input, which the table treats as the missing marker.

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// numericRegex matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// naTokens are read as missing, matching what spreadsheet exports emit for blanks.
var naTokens = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-NaN":     {},
	"-nan":     {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// TwoDigitYearPivot defines how 2-digit years are interpreted.
// Years that would land more than this many years in the future are moved
// to the previous century.
var TwoDigitYearPivot = 20

var (
	fourDigitYearLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999Z07:00",
		"2006-01-02T15:04:05.999999999Z0700",
		"2006-01-02 15:04:05.999999999Z0700",
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04",
		"2006-01-02",
		"2006/01/02 15:04:05",
		"2006/01/02",
		"1/2/2006 15:04:05",
		"1/2/2006 15:04",
		"1/2/2006",
		"2 January 2006 15:04",
		"2 January 2006",
		"January 2, 2006 15:04",
		"Monday, January 2, 2006 3:04:05 PM",
		"January 2, 2006 3:04:05 PM",
		"2 January 2006 15:04:05",
		"Jan 2, 2006 3:04:05 PM",
		"2 Jan 2006 15:04",
		"2 Jan 2006",
	}
	twoDigitYearLayouts = []string{
		"1/2/06 15:04:05",
		"1/2/06 15:04",
		"1/2/06",
		"01-02-06 15:04",
		"01-02-06",
	}
)

// CleanCell removes common spreadsheet artifacts from a cell:
//   - surrounding whitespace
//   - Excel formula prefix (="...")
//   - surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	return strings.TrimSpace(strings.Trim(s, `"'`))
}

// IsNAToken reports whether cleaned cell text denotes a missing value.
func IsNAToken(s string) bool {
	_, ok := naTokens[s]
	return ok
}

// ParseFloat8 converts text to pgtype.Float8.
// Returns invalid for empty, NA, or non-numeric text.
func ParseFloat8(s string) pgtype.Float8 {
	s = strings.TrimSpace(s)
	if IsNAToken(s) || !numericRegex.MatchString(s) {
		return pgtype.Float8{Valid: false}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return pgtype.Float8{Valid: false}
	}
	return pgtype.Float8{Float64: f, Valid: true}
}

// ParseTimestamp converts text to pgtype.Timestamp.
// Offsets are converted to UTC; naive layouts are read as UTC.
func ParseTimestamp(s string) pgtype.Timestamp {
	s = strings.TrimSpace(s)
	if IsNAToken(s) {
		return pgtype.Timestamp{Valid: false}
	}

	for _, layout := range fourDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return pgtype.Timestamp{Time: t.UTC(), Valid: true}
		}
	}

	pivotYear := time.Now().Year() + TwoDigitYearPivot
	for _, layout := range twoDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return pgtype.Timestamp{Time: t.UTC(), Valid: true}
		}
	}

	return pgtype.Timestamp{Valid: false}
}

// ParseCell infers a cell from raw text: NA tokens become null, numeric text
// becomes a float, anything else stays a string.
func ParseCell(raw string) Value {
	s := CleanCell(raw)
	if IsNAToken(s) {
		return Null()
	}
	if f := ParseFloat8(s); f.Valid {
		return FromFloat8(f)
	}
	return String(s)
}
