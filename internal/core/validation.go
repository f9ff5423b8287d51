package core

// validation.go coerces measurement columns to float64.
//
// Summary files are typed by hand, so a measurement column sometimes carries
// notes ("below detection", "no sample") among its numbers. Such a column
// reads as object-typed. Coerce finds those columns by name, replaces every
// cell that is not a number with the missing marker, reports what it
// replaced, and leaves the column float64. Columns outside the measurement
// categories are never touched.

import (
	"context"
	"fmt"
	"strings"

	"github.com/JonMunkholm/discrete-summary/internal/logging"
	"github.com/JonMunkholm/discrete-summary/internal/schema"
	"github.com/JonMunkholm/discrete-summary/internal/table"
)

// InvalidValues reports the cells of one column that were replaced with the
// missing marker.
type InvalidValues struct {
	Column string   // canonical column name
	Values []string // distinct offending values, in first-seen order
	Count  int      // cells replaced
}

func (iv InvalidValues) Error() string {
	return fmt.Sprintf("%s: invalid values %s", iv.Column, strings.Join(iv.Values, ","))
}

// Coerce converts object-typed measurement columns of t to float64 in place.
// Numeric text is parsed; any other cell becomes missing and is reported.
func Coerce(ctx context.Context, t *table.Table, cat *schema.Catalog) []InvalidValues {
	logger := logging.FromContext(ctx)

	var report []InvalidValues
	for _, c := range t.Columns() {
		if c.Type != table.TypeObject || !cat.Lookup(c.Name).Numeric() {
			continue
		}

		iv := coerceColumn(c)
		if iv.Count == 0 {
			continue
		}
		logger.Warn("column contains invalid float values, replacing with missing",
			"column", iv.Column,
			"values", strings.Join(iv.Values, ","),
			"count", iv.Count,
		)
		report = append(report, iv)
	}
	return report
}

func coerceColumn(c *table.Column) InvalidValues {
	iv := InvalidValues{Column: c.Name}
	seen := make(map[string]bool)

	for i, v := range c.Values {
		switch v.Kind() {
		case table.KindNull, table.KindFloat:
			continue
		case table.KindString:
			s, _ := v.Str()
			if f := table.ParseFloat8(s); f.Valid {
				c.Values[i] = table.FromFloat8(f)
				continue
			}
		}

		text := v.Text()
		if !seen[text] {
			seen[text] = true
			iv.Values = append(iv.Values, text)
		}
		iv.Count++
		c.Values[i] = table.Null()
	}
	c.Type = table.TypeFloat64
	return iv
}
