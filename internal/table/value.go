package table

import (
	"math"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// Kind identifies what a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindFloat
	KindTime
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindFloat:
		return "float"
	case KindTime:
		return "time"
	default:
		return "unknown"
	}
}

// Value is a single nullable cell. The zero Value is null.
type Value struct {
	kind Kind
	str  string
	num  float64
	ts   time.Time
}

// Null returns the missing-value marker.
func Null() Value { return Value{} }

// String returns a string cell.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Float returns a float cell. NaN is stored as null.
func Float(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{kind: KindFloat, num: f}
}

// Time returns a timestamp cell.
func Time(t time.Time) Value { return Value{kind: KindTime, ts: t} }

// Kind returns the kind of the cell.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the cell is missing.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Str returns the string payload and whether the cell holds a string.
func (v Value) Str() (string, bool) { return v.str, v.kind == KindString }

// Float64 returns the float payload and whether the cell holds a float.
func (v Value) Float64() (float64, bool) { return v.num, v.kind == KindFloat }

// Time returns the timestamp payload and whether the cell holds a time.
func (v Value) Time() (time.Time, bool) { return v.ts, v.kind == KindTime }

// Equal reports whether two cells hold the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindFloat:
		return v.num == o.num
	case KindTime:
		return v.ts.Equal(o.ts)
	default:
		return true
	}
}

// Text renders the cell for display and CSV output. Null renders as "".
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindFloat:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindTime:
		return v.ts.Format(time.RFC3339)
	default:
		return ""
	}
}

// FromFloat8 builds a cell from pgtype.Float8; invalid becomes null.
func FromFloat8(f pgtype.Float8) Value {
	if !f.Valid {
		return Null()
	}
	return Float(f.Float64)
}

// FromTimestamp builds a cell from pgtype.Timestamp; invalid becomes null.
func FromTimestamp(t pgtype.Timestamp) Value {
	if !t.Valid {
		return Null()
	}
	return Time(t.Time)
}
