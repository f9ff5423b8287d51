package table

import (
	"math"
	"testing"
	"time"
)

func mustTable(t *testing.T, cols ...*Column) *Table {
	t.Helper()
	tbl, err := FromColumns(cols...)
	if err != nil {
		t.Fatalf("FromColumns() error = %v", err)
	}
	return tbl
}

func floats(fs ...float64) []Value {
	out := make([]Value, len(fs))
	for i, f := range fs {
		out[i] = Float(f)
	}
	return out
}

func TestInferType(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name   string
		values []Value
		want   ColumnType
	}{
		{name: "all null", values: []Value{Null(), Null()}, want: TypeFloat64},
		{name: "floats", values: []Value{Float(1), Null()}, want: TypeFloat64},
		{name: "times", values: []Value{Time(now), Null()}, want: TypeTimestamp},
		{name: "string wins", values: []Value{Float(1), String("x")}, want: TypeObject},
		{name: "float and time", values: []Value{Float(1), Time(now)}, want: TypeObject},
		{name: "empty", values: nil, want: TypeFloat64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferType(tt.values); got != tt.want {
				t.Errorf("InferType() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFloatNaNIsNull(t *testing.T) {
	if nan := Float(math.NaN()); !nan.IsNull() {
		t.Errorf("Float(NaN).IsNull() = false, want true")
	}
}

func TestAddColumnErrors(t *testing.T) {
	tbl := mustTable(t, NewColumn("a", floats(1, 2)))
	if err := tbl.AddColumn(NewColumn("a", floats(3, 4))); err == nil {
		t.Error("AddColumn(duplicate) error = nil, want error")
	}
	if err := tbl.AddColumn(NewColumn("b", floats(1))); err == nil {
		t.Error("AddColumn(short) error = nil, want error")
	}
	if err := tbl.SetColumn(NewColumn("a", floats(9, 9))); err != nil {
		t.Errorf("SetColumn(replace) error = %v", err)
	}
	if tbl.Width() != 1 {
		t.Errorf("Width() = %d, want 1", tbl.Width())
	}
}

func TestKeepRows(t *testing.T) {
	tbl := mustTable(t,
		NewColumn("station", []Value{String("x"), Float(1), Float(2)}),
		NewColumn("v", floats(1, 2, 3)),
	)
	dropped := tbl.KeepRows([]bool{false, true, true})
	if dropped != 1 {
		t.Errorf("KeepRows() = %d, want 1", dropped)
	}
	if tbl.Len() != 2 {
		t.Errorf("Len() = %d, want 2", tbl.Len())
	}
	station, _ := tbl.Column("station")
	if station.Type != TypeFloat64 {
		t.Errorf("station Type after drop = %v, want float64", station.Type)
	}
}

func TestDropAndRename(t *testing.T) {
	tbl := mustTable(t,
		NewColumn("a", floats(1)),
		NewColumn("b", floats(2)),
		NewColumn("c", floats(3)),
	)
	tbl.DropColumns("b", "missing")
	if got := tbl.Names(); len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Fatalf("Names() = %v, want [a c]", got)
	}
	if err := tbl.Rename([]string{"x", "x"}); err == nil {
		t.Error("Rename(duplicate) error = nil, want error")
	}
	if err := tbl.Rename([]string{"x", "y"}); err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	if _, ok := tbl.Column("y"); !ok {
		t.Error("Column(\"y\") missing after rename")
	}
	if tbl.Has("c") {
		t.Error("Has(\"c\") = true after rename")
	}
}

func TestSelectCopies(t *testing.T) {
	tbl := mustTable(t, NewColumn("a", floats(1)), NewColumn("b", floats(2)))
	sel, err := tbl.Select("b")
	if err != nil {
		t.Fatal(err)
	}
	col, _ := sel.Column("b")
	col.Values[0] = Float(99)
	orig, _ := tbl.Column("b")
	if v, _ := orig.Values[0].Float64(); v != 2 {
		t.Errorf("Select shares storage with source: got %v", v)
	}
	if _, err := tbl.Select("zzz"); err == nil {
		t.Error("Select(unknown) error = nil, want error")
	}
}

func TestConcatOuterUnion(t *testing.T) {
	a := mustTable(t,
		NewColumn("cruise_id", []Value{String("A")}),
		NewColumn("ctd_temperature", floats(5)),
	)
	b := mustTable(t,
		NewColumn("cruise_id", []Value{String("B"), String("B")}),
		NewColumn("discrete_oxygen", floats(1, 2)),
	)

	out := Concat(a, nil, b)
	if out.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", out.Len())
	}
	want := []string{"cruise_id", "ctd_temperature", "discrete_oxygen"}
	got := out.Names()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	temp, _ := out.Column("ctd_temperature")
	if !temp.Values[1].IsNull() || !temp.Values[2].IsNull() {
		t.Errorf("ctd_temperature gaps = %v, want nulls", temp.Values)
	}
	if temp.Type != TypeFloat64 {
		t.Errorf("ctd_temperature Type = %v, want float64", temp.Type)
	}
}

func TestConcatEmpty(t *testing.T) {
	out := Concat()
	if out.Len() != 0 || out.Width() != 0 {
		t.Errorf("Concat() shape = %dx%d, want 0x0", out.Len(), out.Width())
	}
}

func TestEqualIgnoresColumnOrder(t *testing.T) {
	a := mustTable(t, NewColumn("x", floats(1)), NewColumn("y", floats(2)))
	b := mustTable(t, NewColumn("y", floats(2)), NewColumn("x", floats(1)))
	if !a.Equal(b) {
		t.Error("Equal() = false for reordered columns")
	}
	c := mustTable(t, NewColumn("y", floats(2)), NewColumn("x", floats(3)))
	if a.Equal(c) {
		t.Error("Equal() = true for different cells")
	}
}
