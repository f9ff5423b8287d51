package core

// split.go separates clean sample tables into the CTD profile table and the
// discrete bottle sample table.
//
// Both outputs carry the identifying columns cruise_id, date, area_rd and
// array_rd so rows can be joined back together. ctd_pressure is the only
// measurement present in both, as the depth reference for bottle samples.

import (
	"context"
	"fmt"
	"sort"

	"github.com/JonMunkholm/discrete-summary/internal/logging"
	"github.com/JonMunkholm/discrete-summary/internal/schema"
	"github.com/JonMunkholm/discrete-summary/internal/table"
)

// dateLayout formats the year-month sampling date.
const dateLayout = "2006-01"

// dropWhenEmpty are discrete columns removed when no array reports them.
var dropWhenEmpty = []string{schema.CalculatedDIC, schema.CalculatedPCO2}

// SplitResult holds the consolidated outputs across all arrays.
type SplitResult struct {
	Profile  *table.Table
	Discrete *table.Table
}

// Split splits each array's clean table and concatenates the projections
// across arrays, in array order. Arrays with different column sets leave
// missing values, not errors.
func Split(ctx context.Context, tables map[string]*table.Table, cat *schema.Catalog) (*SplitResult, error) {
	arrays := make([]string, 0, len(tables))
	for a := range tables {
		arrays = append(arrays, a)
	}
	sort.Strings(arrays)

	profiles := make([]*table.Table, 0, len(arrays))
	discretes := make([]*table.Table, 0, len(arrays))
	for _, a := range arrays {
		p, d, err := SplitArray(ctx, tables[a], a, cat)
		if err != nil {
			return nil, fmt.Errorf("split array %s: %w", a, err)
		}
		profiles = append(profiles, p)
		discretes = append(discretes, d)
	}

	res := &SplitResult{
		Profile:  table.Concat(profiles...),
		Discrete: table.Concat(discretes...),
	}
	for _, name := range dropWhenEmpty {
		if c, ok := res.Discrete.Column(name); ok && c.AllNull() {
			logging.FromContext(ctx).Debug("dropping empty column", "column", name)
			res.Discrete.DropColumns(name)
		}
	}
	return res, nil
}

// SplitArray derives the merged sensor, date and area columns of one array's
// clean table and projects it into profile and discrete tables tagged with
// arrayRD. t is not modified.
func SplitArray(ctx context.Context, t *table.Table, arrayRD string, cat *schema.Catalog) (profile, discrete *table.Table, err error) {
	work := t.Clone()

	for _, base := range schema.DualSensors {
		if c := mergeSensors(work, base); c != nil {
			if err := work.SetColumn(c); err != nil {
				return nil, nil, err
			}
		}
	}

	date, err := deriveDate(work)
	if err != nil {
		return nil, nil, err
	}
	if err := work.SetColumn(date); err != nil {
		return nil, nil, err
	}

	area, err := deriveAreaColumn(ctx, work)
	if err != nil {
		return nil, nil, err
	}
	if err := work.SetColumn(area); err != nil {
		return nil, nil, err
	}

	var profileCols, discreteCols []string
	for _, name := range work.Names() {
		f := cat.Lookup(name)
		if f.Profile() {
			profileCols = append(profileCols, name)
		}
		if f.Discrete() {
			discreteCols = append(discreteCols, name)
		}
	}

	if profile, err = project(work, profileCols, arrayRD); err != nil {
		return nil, nil, err
	}
	if discrete, err = project(work, discreteCols, arrayRD); err != nil {
		return nil, nil, err
	}
	return profile, discrete, nil
}

// mergeSensors combines the _1 and _2 readings of a dual-sensor measurement,
// preferring the primary sensor. It returns nil when neither is present.
func mergeSensors(t *table.Table, base string) *table.Column {
	primary, ok1 := t.Column(base + "_1")
	secondary, ok2 := t.Column(base + "_2")
	if !ok1 && !ok2 {
		return nil
	}

	values := make([]table.Value, t.Len())
	for i := range values {
		if ok1 && !primary.Values[i].IsNull() {
			values[i] = primary.Values[i]
		} else if ok2 {
			values[i] = secondary.Values[i]
		}
	}
	return table.NewColumn(base, values)
}

func deriveDate(t *table.Table) (*table.Column, error) {
	start, ok := t.Column(schema.StartTime)
	if !ok {
		return nil, &MissingColumnError{Column: schema.StartTime}
	}
	values := make([]table.Value, t.Len())
	for i, v := range start.Values {
		if ts, ok := v.Time(); ok {
			values[i] = table.String(ts.Format(dateLayout))
		}
	}
	return table.NewColumn(schema.Date, values), nil
}

func deriveAreaColumn(ctx context.Context, t *table.Table) (*table.Column, error) {
	station, ok := t.Column(schema.Station)
	if !ok {
		return nil, &MissingColumnError{Column: schema.Station}
	}

	values := make([]table.Value, t.Len())
	empty := 0
	for i, v := range station.Values {
		area, err := DeriveArea(v)
		if err != nil {
			return nil, err
		}
		if area == "" {
			empty++
		}
		values[i] = table.String(area)
	}
	if empty > 0 {
		logging.FromContext(ctx).Warn("stations without area", "rows", empty)
	}
	return table.NewColumn(schema.AreaRD, values), nil
}

func project(t *table.Table, names []string, arrayRD string) (*table.Table, error) {
	out, err := t.Select(names...)
	if err != nil {
		return nil, err
	}
	tag := make([]table.Value, out.Len())
	for i := range tag {
		tag[i] = table.String(arrayRD)
	}
	if err := out.SetColumn(table.NewColumn(schema.ArrayRD, tag)); err != nil {
		return nil, err
	}
	return out, nil
}
