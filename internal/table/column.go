package table

// ColumnType is the runtime storage type of a column.
type ColumnType uint8

const (
	// TypeObject holds mixed or string cells.
	TypeObject ColumnType = iota
	// TypeFloat64 holds only floats and nulls.
	TypeFloat64
	// TypeTimestamp holds only times and nulls.
	TypeTimestamp
)

// String returns the storage type name.
func (t ColumnType) String() string {
	switch t {
	case TypeFloat64:
		return "float64"
	case TypeTimestamp:
		return "timestamp"
	default:
		return "object"
	}
}

// Column is a named sequence of cells with an inferred storage type.
type Column struct {
	Name   string
	Type   ColumnType
	Values []Value
}

// NewColumn builds a column and infers its storage type from the values.
func NewColumn(name string, values []Value) *Column {
	c := &Column{Name: name, Values: values}
	c.Type = InferType(values)
	return c
}

// InferType returns float64 when every non-null cell is a float, timestamp
// when every non-null cell is a time, and object otherwise. An all-null
// sequence is float64, as a spreadsheet reader would type an empty column.
func InferType(values []Value) ColumnType {
	var floats, times, others int
	for _, v := range values {
		switch v.Kind() {
		case KindFloat:
			floats++
		case KindTime:
			times++
		case KindString:
			others++
		}
	}
	switch {
	case others > 0:
		return TypeObject
	case floats > 0 && times > 0:
		return TypeObject
	case times > 0:
		return TypeTimestamp
	default:
		return TypeFloat64
	}
}

// Len returns the number of cells.
func (c *Column) Len() int { return len(c.Values) }

// Retype recomputes the storage type after in-place edits.
func (c *Column) Retype() { c.Type = InferType(c.Values) }

// HasNull reports whether any cell is missing.
func (c *Column) HasNull() bool {
	for _, v := range c.Values {
		if v.IsNull() {
			return true
		}
	}
	return false
}

// AllNull reports whether every cell is missing.
func (c *Column) AllNull() bool {
	for _, v := range c.Values {
		if !v.IsNull() {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (c *Column) Clone() *Column {
	values := make([]Value, len(c.Values))
	copy(values, c.Values)
	return &Column{Name: c.Name, Type: c.Type, Values: values}
}

// Equal reports whether two columns have the same name, type, and cells.
func (c *Column) Equal(o *Column) bool {
	if c.Name != o.Name || c.Type != o.Type || len(c.Values) != len(o.Values) {
		return false
	}
	for i := range c.Values {
		if !c.Values[i].Equal(o.Values[i]) {
			return false
		}
	}
	return true
}
