package core

// clean.go turns a raw summary table into a clean sample table.
//
// Cleaning steps, in order:
//  1. Drop rows where every cell is missing
//  2. Drop "Unnamed" parser-artifact columns
//  3. Parse headers and rename columns to canonical names
//  4. Warn about expected columns that are absent
//  5. Replace the -9999999 sentinel with missing
//  6. Drop rows without a cruise
//  7. Parse every *time* column, dropping rows where it is missing
//  8. Drop rows whose timestamps failed to parse
//  9. Warn about missing station values
//
// Schema drift is logged and returned in CleanResult. Only structural
// problems (no cruise column, two headers with one canonical name) fail.

import (
	"context"
	"strings"

	"github.com/JonMunkholm/discrete-summary/internal/logging"
	"github.com/JonMunkholm/discrete-summary/internal/schema"
	"github.com/JonMunkholm/discrete-summary/internal/table"
)

// Sentinel is the placeholder published summaries use for missing values.
const Sentinel = -9999999.0

const sentinelText = "-9999999"

// DroppedRows counts rows removed by each cleaning step.
type DroppedRows struct {
	Empty  int // every cell missing
	Cruise int // no cruise value
	Time   int // missing or unparseable timestamp
}

// Total returns all dropped rows.
func (d DroppedRows) Total() int { return d.Empty + d.Cruise + d.Time }

// CleanResult is a cleaned sample table with what cleaning found.
type CleanResult struct {
	Table  *table.Table
	Labels []schema.ColumnLabel

	RawRows          int
	UnnamedColumns   []string // raw headers dropped as parser artifacts
	UnmatchedHeaders []string // raw headers with no parsable name
	MissingColumns   []string // expected canonical names not present
	Dropped          DroppedRows
	InvalidTimes     []InvalidValues
	MissingStations  int
}

// Clean cleans a raw summary table. expected lists the canonical columns a
// summary should carry; nil skips the check. raw is not modified.
func Clean(ctx context.Context, raw *table.Table, expected []string) (*CleanResult, error) {
	logger := logging.FromContext(ctx)
	t := raw.Clone()
	res := &CleanResult{RawRows: t.Len()}

	res.Dropped.Empty = t.KeepRows(nonEmptyRows(t))

	for _, name := range t.Names() {
		if strings.Contains(strings.ToLower(name), "unnamed") {
			res.UnnamedColumns = append(res.UnnamedColumns, name)
		}
	}
	if len(res.UnnamedColumns) > 0 {
		logger.Warn("unnamed columns found, dropping", "columns", res.UnnamedColumns)
		t.DropColumns(res.UnnamedColumns...)
	}

	labels, err := renameColumns(ctx, t, res)
	if err != nil {
		return nil, err
	}
	res.Labels = labels

	if expected != nil {
		res.MissingColumns = missingColumns(expected, t)
		if len(res.MissingColumns) > 0 {
			logger.Warn("expected columns not found", "columns", res.MissingColumns)
		}
	}

	replaceSentinels(t)

	cruise, ok := t.Column(schema.Cruise)
	if !ok {
		return nil, &MissingColumnError{Column: schema.Cruise}
	}
	res.Dropped.Cruise = t.KeepRows(presentRows(cruise))

	res.Dropped.Time, res.InvalidTimes = parseTimeColumns(ctx, t)

	if station, ok := t.Column(schema.Station); ok {
		if station.HasNull() {
			for _, v := range station.Values {
				if v.IsNull() {
					res.MissingStations++
				}
			}
			logger.Warn("station column has missing values", "rows", res.MissingStations)
		}
	} else {
		logger.Warn("station column not found")
	}

	res.Table = t
	return res, nil
}

// renameColumns parses every header and renames columns to canonical names.
// Columns whose header has no parsable name are dropped.
func renameColumns(ctx context.Context, t *table.Table, res *CleanResult) ([]schema.ColumnLabel, error) {
	parsed := schema.ParseLabels(ctx, t.Names())
	byRaw := make(map[string]schema.ColumnLabel, len(parsed))
	for _, l := range parsed {
		byRaw[l.Raw] = l
	}

	for _, name := range t.Names() {
		if _, ok := byRaw[name]; !ok {
			res.UnmatchedHeaders = append(res.UnmatchedHeaders, name)
		}
	}
	t.DropColumns(res.UnmatchedHeaders...)

	names := t.Names()
	labels := make([]schema.ColumnLabel, len(names))
	headers := make(map[string][]string, len(names))
	for i, raw := range names {
		labels[i] = byRaw[raw]
		headers[labels[i].Name] = append(headers[labels[i].Name], raw)
	}
	for _, l := range labels {
		if hs := headers[l.Name]; len(hs) > 1 {
			return nil, &DuplicateColumnError{Column: l.Name, Headers: hs}
		}
	}

	if err := t.Rename(schema.Names(labels)); err != nil {
		return nil, err
	}
	return labels, nil
}

func missingColumns(expected []string, t *table.Table) []string {
	var missing []string
	for _, name := range expected {
		if !t.Has(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// isSentinel reports whether a cell holds the missing-value placeholder.
func isSentinel(v table.Value) bool {
	if f, ok := v.Float64(); ok {
		return f == Sentinel
	}
	if s, ok := v.Str(); ok {
		return strings.TrimSpace(s) == sentinelText
	}
	return false
}

func replaceSentinels(t *table.Table) {
	for _, c := range t.Columns() {
		changed := false
		for i, v := range c.Values {
			if isSentinel(v) {
				c.Values[i] = table.Null()
				changed = true
			}
		}
		if changed {
			c.Retype()
		}
	}
}

// parseTimeColumns parses each column whose name contains "time". Rows
// missing a value are dropped before parsing; rows whose value fails to
// parse are dropped after all columns are parsed.
func parseTimeColumns(ctx context.Context, t *table.Table) (int, []InvalidValues) {
	logger := logging.FromContext(ctx)

	var (
		dropped int
		invalid []InvalidValues
		timeCol []string
	)
	for _, name := range t.Names() {
		if schema.Describe(name).IsTime() {
			timeCol = append(timeCol, name)
		}
	}

	for _, name := range timeCol {
		c, _ := t.Column(name)
		dropped += t.KeepRows(presentRows(c))

		iv := parseTimeColumn(c)
		if iv.Count > 0 {
			logger.Warn("unparseable timestamps, dropping rows",
				"column", name,
				"values", strings.Join(iv.Values, ","),
				"count", iv.Count,
			)
			invalid = append(invalid, iv)
		}
	}

	if len(timeCol) > 0 {
		mask := make([]bool, t.Len())
		for i := range mask {
			mask[i] = true
			for _, name := range timeCol {
				c, _ := t.Column(name)
				if c.Values[i].IsNull() {
					mask[i] = false
					break
				}
			}
		}
		dropped += t.KeepRows(mask)
	}
	return dropped, invalid
}

func parseTimeColumn(c *table.Column) InvalidValues {
	iv := InvalidValues{Column: c.Name}
	seen := make(map[string]bool)
	for i, v := range c.Values {
		if _, ok := v.Time(); ok || v.IsNull() {
			continue
		}
		text := v.Text()
		if ts := table.ParseTimestamp(text); ts.Valid {
			c.Values[i] = table.FromTimestamp(ts)
			continue
		}
		if !seen[text] {
			seen[text] = true
			iv.Values = append(iv.Values, text)
		}
		iv.Count++
		c.Values[i] = table.Null()
	}
	c.Retype()
	return iv
}

func nonEmptyRows(t *table.Table) []bool {
	mask := make([]bool, t.Len())
	for _, c := range t.Columns() {
		for i, v := range c.Values {
			if !v.IsNull() {
				mask[i] = true
			}
		}
	}
	return mask
}

func presentRows(c *table.Column) []bool {
	mask := make([]bool, c.Len())
	for i, v := range c.Values {
		mask[i] = !v.IsNull()
	}
	return mask
}
