package schema

import (
	"context"
	"regexp"
	"strings"

	"github.com/JonMunkholm/discrete-summary/internal/logging"
)

// headerPattern splits a header into word groups and an optional [unit].
var headerPattern = regexp.MustCompile(`(((\w+-?\w?)\s?)+)(\[.*\])?`)

// ColumnLabel describes one parsed column header.
type ColumnLabel struct {
	Raw         string // header text as published
	Name        string // canonical name, e.g. "ctd_temperature_1"
	DisplayName string // corrected name portion, e.g. "CTD Temperature 1"
	Unit        string // bracket-stripped unit, "" when absent
}

// ParseHeader parses a single raw header. ok is false when no part of the
// header matches the word-group pattern.
func ParseHeader(raw string) (label ColumnLabel, fix Correction, ok bool) {
	m := headerPattern.FindStringSubmatch(raw)
	if m == nil {
		return ColumnLabel{}, NoCorrection, false
	}
	display, fix := CorrectName(strings.TrimSpace(m[1]))
	return ColumnLabel{
		Raw:         raw,
		Name:        Canonical(display),
		DisplayName: display,
		Unit:        strings.Trim(m[len(m)-1], "[]"),
	}, fix, true
}

// ParseLabels parses headers in order. Headers that do not match are
// dropped; corrections are logged as warnings.
func ParseLabels(ctx context.Context, headers []string) []ColumnLabel {
	logger := logging.FromContext(ctx)
	labels := make([]ColumnLabel, 0, len(headers))
	for _, h := range headers {
		label, fix, ok := ParseHeader(h)
		if !ok {
			logger.Debug("header dropped", "header", h)
			continue
		}
		if fix != NoCorrection {
			logger.Warn("header name corrected",
				"header", h,
				"rule", fix.String(),
				"name", label.DisplayName,
			)
		}
		labels = append(labels, label)
	}
	return labels
}

// Names returns the canonical names of labels in order.
func Names(labels []ColumnLabel) []string {
	names := make([]string, len(labels))
	for i, l := range labels {
		names[i] = l.Name
	}
	return names
}
